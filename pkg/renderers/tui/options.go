package tui

import (
	"io"

	"github.com/goliatone/go-formwizard/pkg/form"
)

// OutputFormat controls how submitted values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes applied to printed lines.
type Theme struct {
	StepPrefix  string
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the host.
type Option func(*Host)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(h *Host) {
		if driver != nil {
			h.driver = driver
		}
	}
}

// WithOutputFormat selects the submission serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(h *Host) {
		if format != "" {
			h.format = format
		}
	}
}

// WithOutput sets where the serialized submission is written.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		if w != nil {
			h.out = w
		}
	}
}

// WithUploadPolicy replaces the default upload limits.
func WithUploadPolicy(policy UploadPolicy) Option {
	return func(h *Host) {
		h.policy = policy
	}
}

// WithFileStat overrides how file paths typed by the user are inspected.
func WithFileStat(stat func(path string) (form.Attachment, error)) Option {
	return func(h *Host) {
		if stat != nil {
			h.stat = stat
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(h *Host) {
		h.theme = theme
	}
}
