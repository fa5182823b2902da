package wizard

import (
	"log/slog"
	"time"
)

// Option customises a Controller.
type Option func(*Controller)

// WithSurface sets the rendering surface.
func WithSurface(s Surface) Option {
	return func(c *Controller) {
		if s != nil {
			c.surface = s
		}
	}
}

// WithSubmitter sets the submission sink.
func WithSubmitter(s Submitter) Option {
	return func(c *Controller) {
		c.submitter = s
	}
}

// WithToggles wires conditional visibility: conditions are applied after the
// first render and re-evaluated when their trigger changes.
func WithToggles(t Toggles) Option {
	return func(c *Controller) {
		c.toggles = t
	}
}

// WithLogger sets the logger used for transitions and blocked submissions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used for defaults and submissions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides how submission ids are produced.
func WithIDGenerator(next func() string) Option {
	return func(c *Controller) {
		if next != nil {
			c.newID = next
		}
	}
}

// WithAutofill copies source into target when source loses focus and target
// is still empty.
func WithAutofill(source, target string) Option {
	return func(c *Controller) {
		c.autofill[source] = append(c.autofill[source], target)
	}
}

// WithTodayDefault fills the date field with today's date at Init when it is
// empty.
func WithTodayDefault(field string) Option {
	return func(c *Controller) {
		c.todayDefaults = append(c.todayDefaults, field)
	}
}

// WithValuesFilter transforms the form values before they are submitted.
func WithValuesFilter(filter func(map[string]any) map[string]any) Option {
	return func(c *Controller) {
		c.filter = filter
	}
}

// WithFieldHook runs fn after field changes and before live re-validation.
func WithFieldHook(field string, fn func(value string) error) Option {
	return func(c *Controller) {
		if fn != nil {
			c.hooks[field] = append(c.hooks[field], fn)
		}
	}
}
