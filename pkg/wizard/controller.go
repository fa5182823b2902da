package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/visibility"
)

// State is the navigation state: the displayed step and the step count.
type State struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Form is the form surface the controller needs.
type Form interface {
	form.Accessor
	SetValue(name, value string) error
	Values() map[string]any
}

// Validator validates a single step.
type Validator interface {
	Validate(step int) validation.Result
}

// Toggles re-evaluates conditional sections.
type Toggles interface {
	Changed(field string) ([]visibility.Change, error)
	ApplyAll() ([]visibility.Change, error)
}

// Summary is the outcome of validating every step.
type Summary struct {
	Valid            bool              `json:"valid"`
	FirstInvalidStep int               `json:"firstInvalidStep,omitempty"`
	Result           validation.Result `json:"result"`
}

// Controller owns the wizard state and drives transitions. It is meant to be
// used from a single event loop; it performs no locking.
type Controller struct {
	state     State
	steps     []form.Step
	form      Form
	validator Validator
	toggles   Toggles
	surface   Surface
	submitter Submitter
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
	filter    func(map[string]any) map[string]any

	autofill      map[string][]string
	todayDefaults []string
	hooks         map[string][]func(string) error
}

// New returns a controller positioned on step 1. Call Init before use.
func New(steps []form.Step, f Form, v Validator, opts ...Option) (*Controller, error) {
	if len(steps) == 0 {
		return nil, errors.New("wizard: at least one step is required")
	}
	if f == nil || v == nil {
		return nil, errors.New("wizard: form and validator are required")
	}
	c := &Controller{
		state:     State{Current: 1, Total: len(steps)},
		steps:     append([]form.Step(nil), steps...),
		form:      f,
		validator: v,
		surface:   nopSurface{},
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
		autofill:  make(map[string][]string),
		hooks:     make(map[string][]func(string) error),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// State returns a copy of the navigation state.
func (c *Controller) State() State {
	return c.state
}

// Steps returns the step layout.
func (c *Controller) Steps() []form.Step {
	return append([]form.Step(nil), c.steps...)
}

// Init renders step 1, establishes section visibility and applies field
// defaults.
func (c *Controller) Init() error {
	c.state.Current = 1
	c.render(c.state.Current)

	var errs []error
	if c.toggles != nil {
		if _, err := c.toggles.ApplyAll(); err != nil {
			errs = append(errs, err)
		}
	}
	today := c.now().Format(form.DateLayout)
	for _, name := range c.todayDefaults {
		if _, ok := c.form.Field(name); !ok {
			continue
		}
		if strings.TrimSpace(form.StringValue(c.form, name)) != "" {
			continue
		}
		if err := c.form.SetValue(name, today); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Frame describes how step is drawn.
func (c *Controller) Frame(step int) Frame {
	total := c.state.Total
	name := fmt.Sprintf("Step %d", step)
	selector := ""
	if step >= 1 && step <= len(c.steps) {
		if n := strings.TrimSpace(c.steps[step-1].Name); n != "" {
			name = n
		}
		selector = c.steps[step-1].Selector
	}
	return Frame{
		Step:         step,
		Total:        total,
		Name:         name,
		Selector:     selector,
		Percent:      float64(step) * 100 / float64(total),
		Indicator:    fmt.Sprintf("%d/%d: %s", step, total, name),
		ShowPrevious: step > 1,
		ShowNext:     step < total,
		ShowSubmit:   step >= total,
	}
}

// Next validates the current step and advances when it passes. The step is
// re-rendered either way.
func (c *Controller) Next() (validation.Result, error) {
	if c.state.Current >= c.state.Total {
		return validation.Result{}, ErrLastStep
	}
	from := c.state.Current
	result := c.validateStep(from, true)
	if result.Valid {
		c.state.Current++
	}
	c.render(c.state.Current)
	c.logger.Debug("wizard next", "from", from, "to", c.state.Current, "valid", result.Valid)
	return result, nil
}

// Previous moves back one step without validating the step being left.
func (c *Controller) Previous() error {
	if c.state.Current <= 1 {
		return ErrFirstStep
	}
	from := c.state.Current
	c.state.Current--
	c.render(c.state.Current)
	c.logger.Debug("wizard previous", "from", from, "to", c.state.Current)
	return nil
}

// JumpTo displays step directly.
func (c *Controller) JumpTo(step int) error {
	if step < 1 || step > c.state.Total {
		return fmt.Errorf("%w: %d", ErrStepOutOfRange, step)
	}
	from := c.state.Current
	c.state.Current = step
	c.render(step)
	c.logger.Debug("wizard jump", "from", from, "to", step)
	return nil
}

// Validate runs the validator on step and updates its banner. When scroll
// is set a failing step is brought into view.
func (c *Controller) Validate(step int, scroll bool) validation.Result {
	return c.validateStep(step, scroll)
}

// ValidateAll validates every step in order without scrolling and stops at
// the first failing one.
func (c *Controller) ValidateAll() Summary {
	for step := 1; step <= c.state.Total; step++ {
		result := c.validateStep(step, false)
		if !result.Valid {
			return Summary{Valid: false, FirstInvalidStep: step, Result: result}
		}
	}
	return Summary{Valid: true}
}

// Submit validates the whole form and hands it to the submitter. A failure
// jumps to the first invalid step, re-validates it with scrolling and
// returns an *IncompleteError.
func (c *Controller) Submit(ctx context.Context) (Submission, error) {
	if ctx == nil {
		return Submission{}, errors.New("wizard: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}

	summary := c.ValidateAll()
	if !summary.Valid {
		step := summary.FirstInvalidStep
		c.state.Current = step
		c.render(step)
		result := c.validateStep(step, true)
		c.logger.Info("wizard submission blocked", "step", step, "errors", len(result.Errors))
		return Submission{}, &IncompleteError{Step: step, Result: result}
	}
	if c.submitter == nil {
		return Submission{}, ErrNoSubmitter
	}

	values := c.form.Values()
	if c.filter != nil {
		values = c.filter(values)
	}
	submission := Submission{
		ID:          c.newID(),
		SubmittedAt: c.now(),
		Values:      values,
	}
	if err := c.submitter.Submit(ctx, submission); err != nil {
		return Submission{}, fmt.Errorf("wizard: submit: %w", err)
	}
	c.logger.Info("wizard submitted", "id", submission.ID)
	return submission, nil
}

// Changed reacts to an edit of field: hooks run, dependent sections are
// toggled and, when the field belongs to the displayed step, that step is
// re-validated without scrolling so flags clear as the user types.
func (c *Controller) Changed(field string) (validation.Result, bool, error) {
	var errs []error
	value := form.StringValue(c.form, field)
	for _, hook := range c.hooks[field] {
		if err := hook(value); err != nil {
			errs = append(errs, err)
		}
	}
	if c.toggles != nil {
		if _, err := c.toggles.Changed(field); err != nil {
			errs = append(errs, err)
		}
	}

	f, ok := c.form.Field(field)
	if !ok || f.Step != c.state.Current {
		return validation.Result{}, false, errors.Join(errs...)
	}
	return c.validateStep(c.state.Current, false), true, errors.Join(errs...)
}

// Blurred reacts to field losing focus by running its autofill targets.
func (c *Controller) Blurred(field string) error {
	targets := c.autofill[field]
	if len(targets) == 0 {
		return nil
	}
	value := form.StringValue(c.form, field)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var errs []error
	for _, target := range targets {
		if _, ok := c.form.Field(target); !ok {
			continue
		}
		if form.StringValue(c.form, target) != "" {
			continue
		}
		if err := c.form.SetValue(target, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) validateStep(step int, scroll bool) validation.Result {
	result := c.validator.Validate(step)
	if result.Valid {
		c.surface.ClearErrors(step)
		return result
	}
	c.surface.ShowErrors(step, result.Errors)
	if scroll {
		c.surface.ScrollTo(step)
	}
	return result
}

func (c *Controller) render(step int) {
	c.surface.Render(c.Frame(step))
	c.surface.ScrollTo(step)
}
