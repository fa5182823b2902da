// Package formwizard assembles the career application wizard: the form
// definition, conditional sections, repeatable entries, step validation and
// the navigation controller.
package formwizard

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/career"
	"github.com/goliatone/go-formwizard/pkg/entries"
	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/visibility"
	"github.com/goliatone/go-formwizard/pkg/visibility/expr"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Session is one applicant's pass through the wizard.
type Session struct {
	Definition *form.Definition
	Form       *form.Memory
	Toggles    *visibility.Toggles
	Entries    *entries.Builder
	Validator  *validation.Validator
	Controller *wizard.Controller
}

// NewSession wires a session over def and renders its first step. A nil def
// uses the embedded career application.
func NewSession(def *form.Definition, opts ...Option) (*Session, error) {
	cfg := config{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if def == nil {
		var err error
		if def, err = DefaultDefinition(); err != nil {
			return nil, err
		}
	} else if err := def.Validate(); err != nil {
		return nil, err
	}

	mem, conditions, err := def.Build()
	if err != nil {
		return nil, fmt.Errorf("formwizard: build form: %w", err)
	}

	eval := expr.New()
	if err := checkConditions(eval, def, conditions); err != nil {
		return nil, err
	}
	var toggleOpts []visibility.ToggleOption
	if cfg.extras != nil {
		toggleOpts = append(toggleOpts, visibility.WithExtras(cfg.extras))
	}
	toggles := visibility.NewToggles(eval, mem, toggleOpts...)
	toggles.Register(conditions...)

	builder := entries.New(def, mem, toggles)
	if len(cfg.values) > 0 {
		if err := builder.Restore(cfg.values); err != nil {
			return nil, fmt.Errorf("formwizard: restore entries: %w", err)
		}
		if err := mem.Apply(cfg.values); err != nil {
			return nil, fmt.Errorf("formwizard: restore values: %w", err)
		}
	}

	set := career.Rules()
	if cfg.rules != nil {
		set = set.Merge(cfg.rules)
	}
	validator := validation.New(mem, set,
		validation.WithClock(cfg.now),
		validation.WithEntries(builder),
	)

	controllerOpts := []wizard.Option{
		wizard.WithToggles(toggles),
		wizard.WithLogger(cfg.logger),
		wizard.WithClock(cfg.now),
		wizard.WithValuesFilter(builder.Prune),
		wizard.WithAutofill(career.FieldFullName, career.FieldConsentName),
		wizard.WithTodayDefault(career.FieldConsentDate),
		wizard.WithFieldHook(career.FieldChildrenCount, childrenHook(builder)),
	}
	if cfg.surface != nil {
		controllerOpts = append(controllerOpts, wizard.WithSurface(cfg.surface))
	}
	if cfg.submitter != nil {
		controllerOpts = append(controllerOpts, wizard.WithSubmitter(cfg.submitter))
	}
	controller, err := wizard.New(def.StepLayout(), mem, validator, controllerOpts...)
	if err != nil {
		return nil, err
	}
	if err := controller.Init(); err != nil {
		return nil, fmt.Errorf("formwizard: init: %w", err)
	}

	cfg.logger.Debug("formwizard session ready",
		"definition", def.ID,
		"steps", len(def.Steps),
		"conditions", len(conditions),
	)
	return &Session{
		Definition: def,
		Form:       mem,
		Toggles:    toggles,
		Entries:    builder,
		Validator:  validator,
		Controller: controller,
	}, nil
}

// Set writes a text, select or radio value and reports the edit to the
// controller. The result is meaningful only when revalidated is true.
func (s *Session) Set(name, value string) (result validation.Result, revalidated bool, err error) {
	if err := s.Form.SetValue(name, value); err != nil {
		return validation.Result{}, false, err
	}
	return s.Controller.Changed(name)
}

// Choose selects values on a multi-select field.
func (s *Session) Choose(name string, values ...string) error {
	if err := s.Form.SetValues(name, values...); err != nil {
		return err
	}
	_, _, err := s.Controller.Changed(name)
	return err
}

// Tick sets a checkbox.
func (s *Session) Tick(name string, checked bool) error {
	if err := s.Form.SetChecked(name, checked); err != nil {
		return err
	}
	_, _, err := s.Controller.Changed(name)
	return err
}

// Attach records files on an upload field.
func (s *Session) Attach(name string, files ...form.Attachment) error {
	if err := s.Form.Attach(name, files...); err != nil {
		return err
	}
	_, _, err := s.Controller.Changed(name)
	return err
}

// Blur signals that name lost focus.
func (s *Session) Blur(name string) error {
	return s.Controller.Blurred(name)
}

// checkConditions compiles every visibility rule up front, including those
// carried by repeatable templates, so a typo fails at startup.
func checkConditions(eval *expr.Evaluator, def *form.Definition, conditions []form.Condition) error {
	all := append([]form.Condition(nil), conditions...)
	for _, rep := range def.Repeatables {
		_, entry, err := def.Entry(rep.Kind, 1)
		if err != nil {
			return fmt.Errorf("formwizard: %s template: %w", rep.Kind, err)
		}
		all = append(all, entry...)
	}
	var errs []error
	for _, c := range all {
		if err := eval.Check(c.Rule); err != nil {
			errs = append(errs, fmt.Errorf("section %s: %w", c.Section, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("formwizard: visibility rules: %w", err)
	}
	return nil
}

// childrenHook keeps the child entries at 1..count, the keys the declared
// count is read back with. Values outside the accepted range are left to the
// family rule.
func childrenHook(builder *entries.Builder) func(string) error {
	return func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return builder.Span(career.KindChild, 0)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil
		}
		if n > career.MaxChildren {
			n = career.MaxChildren
		}
		return builder.Span(career.KindChild, n)
	}
}
