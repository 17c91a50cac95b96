package cli

import (
	"errors"
	"fmt"
	"strings"

	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
	"boardkit/pkg/domain/schedule"
	"boardkit/pkg/domain/seed"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErr *board.FieldNotFoundError
	if errors.As(err, &fieldErr) {
		hint := "Run 'boardkit fields ensure' to create the due-date field"
		if len(fieldErr.Tried) > 1 {
			hint = fmt.Sprintf("No date field matched any of: %s. Run 'boardkit fields ensure'",
				strings.Join(fieldErr.Tried, ", "))
		}
		return NewCLIError(fieldErr.Error(), hint, err)
	}

	var ruleErr *schedule.RuleError
	if errors.As(err, &ruleErr) {
		return NewCLIError(
			ruleErr.Error(),
			"Fix .boardkit/rules.yaml or delete it to use the built-in table",
			err,
		)
	}

	switch {
	case errors.Is(err, domain.ErrNotInitialized):
		return NewCLIError("no workspace found", "Run 'boardkit init' to create .boardkit/", err)
	case errors.Is(err, domain.ErrNoConfig):
		return NewCLIError("no workspace configuration", "Run 'boardkit init --owner <login> --number <n>' first", err)
	case errors.Is(err, domain.ErrNoSeedPlan):
		return NewCLIError("no seed plan found", "Create .boardkit/seedplan.yaml with milestones and issues", err)
	case errors.Is(err, board.ErrNoCredential):
		return NewCLIError("no API credential", "Set BOARDKIT_TOKEN or GITHUB_TOKEN (a .env file works too)", err)
	case errors.Is(err, board.ErrProjectNotFound):
		return NewCLIError("project not found", "Check owner, owner_type and project_number in .boardkit/config.yaml", err)
	case errors.Is(err, board.ErrFieldNotFound):
		return NewCLIError("required project field missing", "Run 'boardkit fields ensure' to create the due-date field", err)
	case errors.Is(err, board.ErrNoIterations):
		return NewCLIError("iteration field has no iterations", "Add iterations to the field in the project settings", err)
	case errors.Is(err, seed.ErrInvalidPlan):
		return NewCLIError("seed plan is invalid", "Fix .boardkit/seedplan.yaml (see 'boardkit seed --help')", err)
	}

	return err
}
