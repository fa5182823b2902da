package wizard

import (
	"context"
	"time"
)

// Frame is everything a surface needs to draw one step: which section is
// shown, the progress bar and the navigation buttons.
type Frame struct {
	Step         int     `json:"step"`
	Total        int     `json:"total"`
	Name         string  `json:"name"`
	Selector     string  `json:"selector,omitempty"`
	Percent      float64 `json:"percent"`
	Indicator    string  `json:"indicator"`
	ShowPrevious bool    `json:"showPrevious"`
	ShowNext     bool    `json:"showNext"`
	ShowSubmit   bool    `json:"showSubmit"`
}

// Surface draws the wizard. Implementations must not call back into the
// controller.
type Surface interface {
	// Render hides every step section except f.Step and updates progress and
	// navigation.
	Render(f Frame)
	// ShowErrors displays the banner of step.
	ShowErrors(step int, messages []string)
	// ClearErrors hides the banner of step.
	ClearErrors(step int)
	// ScrollTo brings step into view.
	ScrollTo(step int)
}

type nopSurface struct{}

func (nopSurface) Render(Frame)             {}
func (nopSurface) ShowErrors(int, []string) {}
func (nopSurface) ClearErrors(int)          {}
func (nopSurface) ScrollTo(int)             {}

// Submission is handed to the Submitter once the whole form validates.
type Submission struct {
	ID          string         `json:"id"`
	SubmittedAt time.Time      `json:"submittedAt"`
	Values      map[string]any `json:"values"`
}

// Submitter is the sink completed applications are handed to.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) error

// Submit delegates to the underlying function.
func (fn SubmitterFunc) Submit(ctx context.Context, s Submission) error {
	return fn(ctx, s)
}
