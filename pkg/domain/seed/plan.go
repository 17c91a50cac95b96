// Package seed defines the issue seed plan: the YAML file listing the
// milestones and issues a project starts from, validated before any API
// call is made.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"boardkit/pkg/domain/board"
)

// ErrInvalidPlan indicates the seed plan failed validation.
var ErrInvalidPlan = errors.New("invalid seed plan")

// Plan is the parsed seed plan file.
type Plan struct {
	Repository string      `yaml:"repository" json:"repository"`
	Milestones []Milestone `yaml:"milestones,omitempty" json:"milestones,omitempty"`
	Issues     []Issue     `yaml:"issues" json:"issues"`
}

// Milestone is a milestone to create before the issues referencing it.
type Milestone struct {
	Title       string     `yaml:"title" json:"title"`
	DueOn       board.Date `yaml:"due_on,omitempty" json:"due_on,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
}

// Issue is one issue to create.
type Issue struct {
	Title     string   `yaml:"title" json:"title"`
	Body      string   `yaml:"body,omitempty" json:"body,omitempty"`
	Milestone string   `yaml:"milestone,omitempty" json:"milestone,omitempty"`
	Labels    []string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

const planSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["repository", "issues"],
  "properties": {
    "repository": { "type": "string", "pattern": "^[^/\\s]+/[^/\\s]+$" },
    "milestones": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": { "type": "string", "minLength": 1 },
          "due_on": { "type": ["string", "null"] },
          "description": { "type": "string" }
        }
      }
    },
    "issues": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": { "type": "string", "minLength": 1 },
          "body": { "type": "string" },
          "milestone": { "type": "string" },
          "labels": { "type": "array", "items": { "type": "string" } }
        }
      }
    }
  }
}`

var planSchemaLoader = gojsonschema.NewStringLoader(planSchemaJSON)

// ValidationError collects everything wrong with a plan in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("seed plan has %d problem(s): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Is allows errors.Is to work with ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPlan
}

// Validate checks the plan against the schema plus the referential rules
// the schema cannot express: unique titles and resolvable milestone
// references. Returns a ValidationError listing every problem found.
func (p *Plan) Validate() error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding plan for validation: %w", err)
	}

	result, err := gojsonschema.Validate(planSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("running schema validation: %w", err)
	}

	var problems []string
	if !result.Valid() {
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
	}

	seenMilestones := map[string]bool{}
	for _, m := range p.Milestones {
		if seenMilestones[m.Title] {
			problems = append(problems, fmt.Sprintf("duplicate milestone title %q", m.Title))
		}
		seenMilestones[m.Title] = true
	}

	seenIssues := map[string]bool{}
	for _, is := range p.Issues {
		if seenIssues[is.Title] {
			problems = append(problems, fmt.Sprintf("duplicate issue title %q", is.Title))
		}
		seenIssues[is.Title] = true
		if is.Milestone != "" && !seenMilestones[is.Milestone] {
			problems = append(problems, fmt.Sprintf("issue %q references unknown milestone %q", is.Title, is.Milestone))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// OwnerAndRepo splits the repository coordinate into its two parts.
func (p *Plan) OwnerAndRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(p.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: repository %q is not owner/name", ErrInvalidPlan, p.Repository)
	}
	return owner, repo, nil
}
