package schedule

import (
	"strconv"

	"boardkit/pkg/domain/board"
)

// DefaultTitlePrefix is the conventional iteration naming scheme: the
// prefix plus the sprint number as a decimal string ("Sprint 3").
const DefaultTitlePrefix = "Sprint "

// Resolution is the outcome of an iteration lookup: the configured
// iteration the sprint number mapped to, its computed end date, and
// whether the lookup degraded to the last configured iteration.
type Resolution struct {
	Iteration board.Iteration
	EndDate   board.Date
	FellBack  bool
}

// Resolver maps sprint numbers to configured board iterations by exact
// title match. The configured sequence is captured once per run; titles
// are unique within a configuration snapshot.
type Resolver struct {
	prefix        string
	iterations    []board.Iteration
	startOverride board.Date
}

// NewResolver builds a resolver over the configured iteration sequence.
// An empty sequence is a fatal precondition: the run must refuse to start
// rather than silently skip iteration assignment.
func NewResolver(prefix string, iterations []board.Iteration) (*Resolver, error) {
	if len(iterations) == 0 {
		return nil, board.ErrNoIterations
	}
	if prefix == "" {
		prefix = DefaultTitlePrefix
	}
	return &Resolver{prefix: prefix, iterations: iterations}, nil
}

// WithStartDate overrides the start date used for end-date computation.
// Board iteration metadata can be stale; when an override is set, every
// resolved due date is computed from it instead of the configured start.
func (r *Resolver) WithStartDate(d board.Date) *Resolver {
	r.startOverride = d
	return r
}

// TitleFor renders the conventional iteration title for a sprint number.
func (r *Resolver) TitleFor(n int) string {
	return r.prefix + strconv.Itoa(n)
}

// Last returns the final configured iteration, the fallback target.
func (r *Resolver) Last() board.Iteration {
	return r.iterations[len(r.iterations)-1]
}

// Resolve maps a sprint number to its configured iteration. When no
// configured iteration carries the conventional title, the last configured
// iteration is used and FellBack is set; the caller logs the degradation.
// Never fails: fallback is an expected outcome on partially-configured
// boards.
func (r *Resolver) Resolve(n int) Resolution {
	title := r.TitleFor(n)
	for _, it := range r.iterations {
		if it.Title == title {
			return Resolution{Iteration: it, EndDate: r.endDate(it)}
		}
	}
	last := r.Last()
	return Resolution{Iteration: last, EndDate: r.endDate(last), FellBack: true}
}

// endDate computes the last day covered by an iteration, honoring the
// start-date override when one is set. A duration-day iteration starting
// on day D spans the closed interval [D, D+duration-1].
func (r *Resolver) endDate(it board.Iteration) board.Date {
	start := it.StartDate
	if !r.startOverride.IsZero() {
		start = r.startOverride
	}
	if it.DurationDays <= 0 {
		return start
	}
	return start.AddDays(it.DurationDays - 1)
}
