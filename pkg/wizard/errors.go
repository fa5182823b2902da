package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/validation"
)

var (
	// ErrFirstStep is returned by Previous on the first step.
	ErrFirstStep = errors.New("wizard: already on the first step")
	// ErrLastStep is returned by Next on the last step.
	ErrLastStep = errors.New("wizard: already on the last step")
	// ErrStepOutOfRange is returned by JumpTo for steps outside 1..Total.
	ErrStepOutOfRange = errors.New("wizard: step out of range")
	// ErrIncomplete marks a submission blocked by validation.
	ErrIncomplete = errors.New("wizard: form is incomplete")
	// ErrNoSubmitter is returned by Submit when no sink is configured.
	ErrNoSubmitter = errors.New("wizard: no submitter configured")
)

// IncompleteError reports the first invalid step of a blocked submission.
type IncompleteError struct {
	Step   int
	Result validation.Result
}

func (e *IncompleteError) Error() string {
	if len(e.Result.Errors) == 0 {
		return fmt.Sprintf("wizard: step %d is incomplete", e.Step)
	}
	return fmt.Sprintf("wizard: step %d is incomplete: %s", e.Step, strings.Join(e.Result.Errors, "; "))
}

// Unwrap lets errors.Is match ErrIncomplete.
func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}
