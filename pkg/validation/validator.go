package validation

import (
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/rules"
)

// DefaultRequiredMessage is reported once per step when visible required
// fields are incomplete.
const DefaultRequiredMessage = "Required fields on this step are incomplete."

// IssueKind separates step-agnostic presence failures from business rules.
type IssueKind string

const (
	IssueMissingRequired IssueKind = "missing_required"
	IssueRuleViolation   IssueKind = "rule_violation"
)

// Issue is one validation failure with the fields it flags.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
	Fields  []string  `json:"fields,omitempty"`
}

// Result captures one validation pass over a step. Errors holds the banner
// messages: trimmed, de-duplicated and in the order they were raised.
type Result struct {
	Step   int      `json:"step"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
	Issues []Issue  `json:"issues,omitempty"`
}

// Flagged lists every field flagged by the result, in first-seen order.
func (r Result) Flagged() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, issue := range r.Issues {
		for _, name := range issue.Fields {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// Form is the surface the validator needs: read access plus step layout,
// visibility and invalid markers.
type Form interface {
	form.Accessor
	StepFields(step int) []form.Field
	Visible(f form.Field) bool
	MarkInvalid(names ...string)
	ClearInvalid(step int)
}

// Validator runs the generic required check and the step rule for one step
// at a time.
type Validator struct {
	form            Form
	rules           rules.Set
	entries         rules.Entries
	now             func() time.Time
	requiredMessage string
}

// Option customises a Validator.
type Option func(*Validator)

// WithClock overrides the reference time used by date rules.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithEntries exposes the live repeatable entries to rules.
func WithEntries(entries rules.Entries) Option {
	return func(v *Validator) {
		v.entries = entries
	}
}

// WithRequiredMessage replaces the generic required-field message.
func WithRequiredMessage(message string) Option {
	return func(v *Validator) {
		if strings.TrimSpace(message) != "" {
			v.requiredMessage = message
		}
	}
}

// New returns a validator over f dispatching business rules from set.
func New(f Form, set rules.Set, opts ...Option) *Validator {
	v := &Validator{
		form:            f,
		rules:           set,
		now:             time.Now,
		requiredMessage: DefaultRequiredMessage,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Validate checks one step. Previous invalid markers on the step are
// cleared, then every field flagged by this pass is marked.
func (v *Validator) Validate(step int) Result {
	v.form.ClearInvalid(step)

	result := Result{Step: step}
	if missing := v.missingRequired(step); len(missing) > 0 {
		result.Issues = append(result.Issues, Issue{
			Kind:    IssueMissingRequired,
			Message: v.requiredMessage,
			Fields:  missing,
		})
	}

	input := rules.Input{Fields: v.form, Today: v.now(), Entries: v.entries}
	for _, violation := range v.rules.Lookup(step)(input) {
		result.Issues = append(result.Issues, Issue{
			Kind:    IssueRuleViolation,
			Message: violation.Message,
			Fields:  violation.Fields,
		})
	}

	messages := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		messages = append(messages, issue.Message)
	}
	result.Errors = normalizeMessages(messages)
	result.Valid = len(result.Issues) == 0

	v.form.MarkInvalid(result.Flagged()...)
	return result
}

// missingRequired returns the visible required fields of step that are not
// satisfied. Radio groups are evaluated once per name.
func (v *Validator) missingRequired(step int) []string {
	var missing []string
	seen := make(map[string]struct{})
	for _, f := range v.form.StepFields(step) {
		if !f.Required || !v.form.Visible(f) {
			continue
		}
		if _, done := seen[f.Name]; done {
			continue
		}
		seen[f.Name] = struct{}{}
		if !v.satisfied(f) {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

func (v *Validator) satisfied(f form.Field) bool {
	switch f.Kind {
	case form.KindRadio:
		return v.form.RadioValue(f.Name) != ""
	case form.KindCheckbox:
		return f.Checked
	case form.KindFile:
		return v.form.HasFile(f)
	case form.KindMultiSelect:
		return len(f.Values) > 0
	default:
		return strings.TrimSpace(f.Value) != ""
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
