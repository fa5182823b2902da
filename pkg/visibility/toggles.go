package visibility

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/form"
)

// Target is the form surface toggles read triggers from and write section
// visibility to.
type Target interface {
	form.Accessor
	SetSectionVisible(id string, visible bool)
}

// Change reports the visibility computed for one section.
type Change struct {
	Section string `json:"section"`
	Visible bool   `json:"visible"`
}

// Toggles keeps the registered conditions of a form and re-evaluates them
// when their trigger changes. Each condition only sees its own trigger value,
// so visibility is a pure function of that value.
type Toggles struct {
	eval       Evaluator
	target     Target
	conditions []form.Condition
	extras     map[string]any
}

// ToggleOption customises Toggles.
type ToggleOption func(*Toggles)

// WithExtras exposes additional context to every rule.
func WithExtras(extras map[string]any) ToggleOption {
	return func(t *Toggles) {
		t.extras = extras
	}
}

// NewToggles binds eval to target.
func NewToggles(eval Evaluator, target Target, opts ...ToggleOption) *Toggles {
	t := &Toggles{eval: eval, target: target}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Register adds conditions. A condition for an already registered section
// replaces the previous one.
func (t *Toggles) Register(conditions ...form.Condition) {
	for _, c := range conditions {
		t.Unregister(c.Section)
		t.conditions = append(t.conditions, c)
	}
}

// Unregister drops the condition of section and reports whether one existed.
func (t *Toggles) Unregister(section string) bool {
	for i, c := range t.conditions {
		if c.Section == section {
			t.conditions = append(t.conditions[:i], t.conditions[i+1:]...)
			return true
		}
	}
	return false
}

// Conditions returns the registered conditions in registration order.
func (t *Toggles) Conditions() []form.Condition {
	return append([]form.Condition(nil), t.conditions...)
}

// Triggers reports whether field drives at least one section.
func (t *Toggles) Triggers(field string) bool {
	for _, c := range t.conditions {
		if c.Trigger == field {
			return true
		}
	}
	return false
}

// Changed re-evaluates the sections triggered by field.
func (t *Toggles) Changed(field string) ([]Change, error) {
	return t.apply(func(c form.Condition) bool { return c.Trigger == field })
}

// ApplyAll evaluates every registered condition once. Hosts call it before
// the first render to establish the initial visibility.
func (t *Toggles) ApplyAll() ([]Change, error) {
	return t.apply(func(form.Condition) bool { return true })
}

func (t *Toggles) apply(match func(form.Condition) bool) ([]Change, error) {
	var (
		changes []Change
		errs    []error
	)
	for _, c := range t.conditions {
		if !match(c) {
			continue
		}
		ctx := Context{
			Values: map[string]any{c.Trigger: form.Value(t.target, c.Trigger)},
			Extras: t.extras,
		}
		visible, err := t.eval.Eval(c.Section, c.Rule, ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("visibility: section %s: %w", c.Section, err))
			continue
		}
		t.target.SetSectionVisible(c.Section, visible)
		changes = append(changes, Change{Section: c.Section, Visible: visible})
	}
	return changes, errors.Join(errs...)
}
