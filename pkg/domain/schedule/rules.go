// Package schedule implements the issue-to-sprint classification and
// scheduling core: an ordered keyword rule table mapping issue titles to
// sprint numbers, a resolver from sprint numbers to configured board
// iterations, and the idempotent per-item update planner.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Ambiguous is the classification sentinel: no rule matched the title.
// The caller decides the default-assignment policy.
const Ambiguous = 0

// Sprint number bounds for rule targets.
const (
	MinSprint = 1
	MaxSprint = 8
)

// ErrInvalidRule indicates a rule specification that cannot be compiled.
var ErrInvalidRule = errors.New("invalid classification rule")

// RuleError reports which rule in a specification is broken and why.
type RuleError struct {
	Index   int
	Pattern string
	Reason  string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d (%q): %s", e.Index, e.Pattern, e.Reason)
}

// Is allows errors.Is to work with RuleError.
func (e *RuleError) Is(target error) bool {
	return target == ErrInvalidRule
}

// RuleSpec is the serialized form of one rule, as read from a rules file.
type RuleSpec struct {
	Pattern string `yaml:"pattern"`
	Sprint  int    `yaml:"sprint"`
}

// Rule binds a compiled keyword pattern to a target sprint number.
type Rule struct {
	Pattern *regexp.Regexp
	Sprint  int
}

// RuleSet is an ordered sequence of rules evaluated first-match-wins
// against lowercased titles. Order is semantically significant: a title
// matching several groups resolves to the earliest group in the sequence,
// which is how the deliberate priority overrides below work.
type RuleSet struct {
	rules []Rule
}

// defaultSpecs is the built-in rule table. Patterns are written lowercase
// because Classify lowercases titles before matching. The table is ordered
// by scheduling priority, not by sprint number: the research and
// visualization groups sit ahead of the theme buckets that would otherwise
// capture their keywords.
var defaultSpecs = []RuleSpec{
	// Sprint 1: project infrastructure and onboarding.
	{Pattern: `repositor|environment|conda|docker|onboard|kickoff|project board|workflow`, Sprint: 1},
	// Sprint 2: savings definition and source data access.
	{Pattern: `data dictionary|opportunit|savings definition|data access|collect|\btou\b|pricing|wi-?fi|locator`, Sprint: 2},
	// Research tasks should come earlier.
	{Pattern: `research|transformer|lstm|literature|model architect`, Sprint: 3},
	// Sprint 3: data pipeline and design.
	{Pattern: `pipeline|preprocess|ingest|merge|clean|feature|schema`, Sprint: 3},
	// Visualization can come earlier.
	{Pattern: `visuali[sz]|dashboard|plot|chart|heatmap`, Sprint: 5},
	// Sprint 4: forecasting baselines.
	{Pattern: `prophet|forecast|baseline|occupancy model|train|predict`, Sprint: 4},
	// Sprint 6: control simulation and savings estimation.
	{Pattern: `simulat|setpoint|control|optimi[sz]|estimat`, Sprint: 6},
	// Sprint 7: evaluation and writeup.
	{Pattern: `evaluat|metric|validat|error analysis|report|writeup|write-up`, Sprint: 7},
	// Sprint 8: presentation and handoff.
	{Pattern: `present|slide|demo|handoff|hand-off|final`, Sprint: 8},
}

// NewRuleSet compiles an ordered rule specification. Every pattern must
// compile and every sprint must fall within [MinSprint, MaxSprint].
func NewRuleSet(specs []RuleSpec) (RuleSet, error) {
	if len(specs) == 0 {
		return RuleSet{}, &RuleError{Index: 0, Reason: "rule set is empty"}
	}
	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		if strings.TrimSpace(spec.Pattern) == "" {
			return RuleSet{}, &RuleError{Index: i, Pattern: spec.Pattern, Reason: "pattern is empty"}
		}
		if spec.Sprint < MinSprint || spec.Sprint > MaxSprint {
			return RuleSet{}, &RuleError{
				Index:   i,
				Pattern: spec.Pattern,
				Reason:  fmt.Sprintf("sprint %d out of range [%d, %d]", spec.Sprint, MinSprint, MaxSprint),
			}
		}
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return RuleSet{}, &RuleError{Index: i, Pattern: spec.Pattern, Reason: err.Error()}
		}
		rules = append(rules, Rule{Pattern: re, Sprint: spec.Sprint})
	}
	return RuleSet{rules: rules}, nil
}

// MustRuleSet compiles a rule specification or panics. Use only for the
// built-in table and in tests.
func MustRuleSet(specs []RuleSpec) RuleSet {
	rs, err := NewRuleSet(specs)
	if err != nil {
		panic(err)
	}
	return rs
}

// DefaultRuleSet returns the built-in classification table.
func DefaultRuleSet() RuleSet {
	return MustRuleSet(defaultSpecs)
}

// DefaultSpecs returns a copy of the built-in rule specification, for
// display and for writing a starter rules file.
func DefaultSpecs() []RuleSpec {
	out := make([]RuleSpec, len(defaultSpecs))
	copy(out, defaultSpecs)
	return out
}

// Classify maps a free-text issue title to a sprint number. The title is
// lowercased, then rules are checked in order; the first match anywhere in
// the title wins. Returns Ambiguous when nothing matches. Pure function,
// never fails.
func (rs RuleSet) Classify(title string) int {
	normalized := strings.ToLower(title)
	for _, r := range rs.rules {
		if r.Pattern.MatchString(normalized) {
			return r.Sprint
		}
	}
	return Ambiguous
}

// Rules returns a copy of the compiled rule sequence in evaluation order.
func (rs RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len reports the number of rules in the set.
func (rs RuleSet) Len() int {
	return len(rs.rules)
}
