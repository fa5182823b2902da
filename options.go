package formwizard

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-formwizard/pkg/rules"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Option customises a Session.
type Option func(*config)

type config struct {
	surface   wizard.Surface
	submitter wizard.Submitter
	logger    *slog.Logger
	now       func() time.Time
	rules     rules.Set
	extras    map[string]any
	values    map[string]any
}

// WithSurface sets where step frames and error banners are drawn.
func WithSurface(s wizard.Surface) Option {
	return func(c *config) {
		c.surface = s
	}
}

// WithSubmitter sets the sink receiving the final submission.
func WithSubmitter(s wizard.Submitter) Option {
	return func(c *config) {
		c.submitter = s
	}
}

// WithLogger routes session logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock pins "today" for date rules and defaults.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRules overrides or extends the step rules. Steps present in set replace
// the built-in rule for that step.
func WithRules(set rules.Set) Option {
	return func(c *config) {
		c.rules = set
	}
}

// WithExtras exposes additional data to visibility expressions under
// "extras".
func WithExtras(extras map[string]any) Option {
	return func(c *config) {
		c.extras = extras
	}
}

// WithValues pre-fills the session, for example from a saved draft. Entries
// referenced by the values are instantiated first.
func WithValues(values map[string]any) Option {
	return func(c *config) {
		c.values = values
	}
}
