package board

import "errors"

// Domain errors for board access. These are the fatal preconditions: when
// one of them surfaces, the run refuses to start.
var (
	// ErrProjectNotFound indicates the owner/number pair resolved to no board.
	ErrProjectNotFound = errors.New("project not found")

	// ErrFieldNotFound indicates a required project field does not exist.
	ErrFieldNotFound = errors.New("project field not found")

	// ErrNoIterations indicates the iteration field has no configured iterations.
	ErrNoIterations = errors.New("iteration field has no configured iterations")

	// ErrNoCredential indicates no API token was found in the environment.
	ErrNoCredential = errors.New("no API credential configured")
)

// FieldNotFoundError reports which field was wanted and which names were tried.
type FieldNotFoundError struct {
	Name  string
	Tried []string
}

func (e *FieldNotFoundError) Error() string {
	msg := "field " + e.Name + " not found on project"
	if len(e.Tried) > 1 {
		msg += " (tried: "
		for i, n := range e.Tried {
			if i > 0 {
				msg += ", "
			}
			msg += n
		}
		msg += ")"
	}
	return msg
}

// Is allows errors.Is to work with FieldNotFoundError.
func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound
}

// UpdateError reports a failed field mutation for one item. Item update
// failures are isolated: the caller logs them and moves to the next item.
type UpdateError struct {
	ItemID string
	Field  string
	Err    error
}

func (e *UpdateError) Error() string {
	return "updating " + e.Field + " on item " + e.ItemID + ": " + e.Err.Error()
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}
