// Package tui drives a career application session from the terminal. The
// Host doubles as the wizard surface, printing progress and error banners,
// and as the submission sink, writing the serialized application.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/rules"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Host prompts for each visible field of the displayed step and navigates
// the wizard until the application is submitted.
type Host struct {
	driver PromptDriver
	out    io.Writer
	format OutputFormat
	policy UploadPolicy
	stat   func(path string) (form.Attachment, error)
	theme  Theme

	ctx     context.Context
	filling bool
}

var (
	_ wizard.Surface   = (*Host)(nil)
	_ wizard.Submitter = (*Host)(nil)
)

// New returns a host using the survey driver, JSON output to stdout and the
// default upload policy.
func New(opts ...Option) *Host {
	h := &Host{
		out:    os.Stdout,
		format: OutputFormatJSON,
		policy: DefaultUploadPolicy(),
		stat:   statFile,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.driver == nil {
		h.driver = NewSurveyDriver(h.out, h.theme)
	}
	return h
}

// Render prints the step indicator.
func (h *Host) Render(f wizard.Frame) {
	_ = h.say(h.ctx, h.theme.StepPrefix, fmt.Sprintf("%s (%d%%)", f.Indicator, int(f.Percent)))
}

// ShowErrors prints the banner of step. Banners raised by live
// re-validation while a step is being filled are suppressed.
func (h *Host) ShowErrors(step int, messages []string) {
	if h.filling {
		return
	}
	for _, msg := range messages {
		_ = h.say(h.ctx, h.theme.ErrorPrefix, msg)
	}
}

// say prints one themed line through the driver.
func (h *Host) say(ctx context.Context, prefix, msg string) error {
	return h.driver.Info(ctx, prefix+msg)
}

// ClearErrors is a no-op; printed banners scroll away.
func (h *Host) ClearErrors(int) {}

// ScrollTo is a no-op on a terminal.
func (h *Host) ScrollTo(int) {}

// Submit writes the serialized values to the host output.
func (h *Host) Submit(_ context.Context, s wizard.Submission) error {
	payload, err := Encode(h.format, s.Values)
	if err != nil {
		return err
	}
	if _, err := h.out.Write(payload); err != nil {
		return fmt.Errorf("tui: write submission: %w", err)
	}
	if len(payload) > 0 && payload[len(payload)-1] != '\n' {
		_, err = io.WriteString(h.out, "\n")
	}
	return err
}

// Run fills s step by step until it is submitted. After each step a menu
// offers the navigation moves and entry edits of that step. Fields flagged by
// a failed step are asked again. The session must have been created with this host as
// its surface and submitter.
func (h *Host) Run(ctx context.Context, s *formwizard.Session) (wizard.Submission, error) {
	if ctx == nil {
		return wizard.Submission{}, errors.New("tui: context is required")
	}
	if s == nil {
		return wizard.Submission{}, errors.New("tui: session is required")
	}
	h.ctx = ctx
	defer func() { h.ctx = context.Background() }()

	r := &run{host: h, session: s, asked: make(map[string]bool)}
	for {
		if err := ctx.Err(); err != nil {
			return wizard.Submission{}, err
		}
		state := s.Controller.State()
		if err := r.fill(ctx, state.Current); err != nil {
			return wizard.Submission{}, err
		}
		action, err := r.menu(ctx, state)
		if err != nil {
			return wizard.Submission{}, err
		}

		switch action.kind {
		case actionNext:
			result, err := s.Controller.Next()
			if err != nil {
				return wizard.Submission{}, err
			}
			if !result.Valid {
				r.forget(state.Current, result.Flagged())
			}
		case actionPrevious:
			if err := s.Controller.Previous(); err != nil {
				return wizard.Submission{}, err
			}
			r.forget(s.Controller.State().Current, nil)
		case actionAdd:
			if _, err := s.Entries.Add(action.entry); err != nil {
				return wizard.Submission{}, err
			}
		case actionRemove:
			if err := s.Entries.Remove(action.entry, action.index); err != nil {
				return wizard.Submission{}, err
			}
		case actionSubmit:
			sub, err := s.Controller.Submit(ctx)
			var incomplete *wizard.IncompleteError
			if errors.As(err, &incomplete) {
				r.forget(incomplete.Step, incomplete.Result.Flagged())
				continue
			}
			return sub, err
		}
	}
}

type actionKind int

const (
	actionNext actionKind = iota
	actionSubmit
	actionPrevious
	actionAdd
	actionRemove
)

type action struct {
	kind  actionKind
	label string
	entry string
	index int
}

type run struct {
	host    *Host
	session *formwizard.Session
	asked   map[string]bool
}

// fill prompts every visible field of step not asked yet. Banners raised
// by live re-validation stay quiet until the step is left.
func (r *run) fill(ctx context.Context, step int) error {
	r.host.filling = true
	defer func() { r.host.filling = false }()
	return r.promptPending(ctx, step)
}

// menu offers the moves available from state: Next or Submit first, then
// Previous, then adding or removing entries of the step's optional
// repeatables.
func (r *run) menu(ctx context.Context, state wizard.State) (action, error) {
	actions := []action{{kind: actionNext, label: "Next"}}
	if state.Current >= state.Total {
		actions[0] = action{kind: actionSubmit, label: "Submit application"}
	}
	if state.Current > 1 {
		actions = append(actions, action{kind: actionPrevious, label: "Previous"})
	}
	for _, rep := range r.session.Definition.Repeatables {
		if rep.Step != state.Current || !rep.Optional {
			continue
		}
		actions = append(actions, action{kind: actionAdd, label: "Add " + strings.ToLower(rep.Label), entry: rep.Kind})
		for _, index := range r.session.Entries.Indices(rep.Kind) {
			actions = append(actions, action{
				kind:  actionRemove,
				label: fmt.Sprintf("Remove %s %d", strings.ToLower(rep.Label), index),
				entry: rep.Kind,
				index: index,
			})
		}
	}

	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.label
	}
	name := r.session.Controller.Frame(state.Current).Name
	idx, err := r.host.driver.Select(ctx, SelectConfig{Message: name + ": what next?", Options: labels})
	if err != nil {
		return action{}, err
	}
	if idx < 0 || idx >= len(actions) {
		return actions[0], nil
	}
	return actions[idx], nil
}

func (r *run) promptPending(ctx context.Context, step int) error {
	for {
		f, ok := r.next(step)
		if !ok {
			return nil
		}
		r.asked[f.Name] = true
		if err := r.prompt(ctx, f); err != nil {
			return err
		}
	}
}

// next returns the first visible field of step that has not been asked.
// Answers can reveal sections or add entries, so the layout is re-read each
// time.
func (r *run) next(step int) (form.Field, bool) {
	for _, f := range r.session.Form.StepFields(step) {
		if r.asked[f.Name] || !r.session.Form.Visible(f) {
			continue
		}
		return f, true
	}
	return form.Field{}, false
}

// forget marks names for another prompt. An empty list re-opens the whole
// step.
func (r *run) forget(step int, names []string) {
	if len(names) == 0 {
		for _, f := range r.session.Form.StepFields(step) {
			delete(r.asked, f.Name)
		}
		return
	}
	for _, name := range names {
		delete(r.asked, name)
	}
}

func (r *run) prompt(ctx context.Context, f form.Field) error {
	label := f.DisplayLabel()
	if f.Required {
		label += " *"
	}
	s := r.session

	switch f.Kind {
	case form.KindRadio:
		options := make([]string, len(f.Options))
		current := s.Form.RadioValue(f.Name)
		def := 0
		for i, opt := range f.Options {
			options[i] = opt.DisplayLabel()
			if opt.Value == current {
				def = i
			}
		}
		idx, err := r.host.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: def})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(f.Options) {
			return r.retry(ctx, f, fmt.Errorf("no option selected"))
		}
		return r.commit(ctx, f, func() error {
			_, _, err := s.Set(f.Name, f.Options[idx].Value)
			return err
		})

	case form.KindSelect:
		options := make([]string, len(f.Options))
		def := 0
		for i, opt := range f.Options {
			options[i] = opt.DisplayLabel()
			if opt.Value == f.Value {
				def = i
			}
		}
		idx, err := r.host.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: def})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(f.Options) {
			return r.retry(ctx, f, fmt.Errorf("no option selected"))
		}
		return r.commit(ctx, f, func() error {
			_, _, err := s.Set(f.Name, f.Options[idx].Value)
			return err
		})

	case form.KindMultiSelect:
		options := make([]string, len(f.Options))
		var defaults []int
		for i, opt := range f.Options {
			options[i] = opt.DisplayLabel()
			for _, v := range f.Values {
				if v == opt.Value {
					defaults = append(defaults, i)
				}
			}
		}
		picked, err := r.host.driver.MultiSelect(ctx, SelectConfig{Message: label, Options: options, Defaults: defaults})
		if err != nil {
			return err
		}
		values := make([]string, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(f.Options) {
				values = append(values, f.Options[idx].Value)
			}
		}
		return r.commit(ctx, f, func() error { return s.Choose(f.Name, values...) })

	case form.KindCheckbox:
		checked, err := r.host.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: f.Checked})
		if err != nil {
			return err
		}
		return r.commit(ctx, f, func() error { return s.Tick(f.Name, checked) })

	case form.KindTextArea:
		text, err := r.host.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: f.Value})
		if err != nil {
			return err
		}
		return r.commit(ctx, f, func() error {
			_, _, err := s.Set(f.Name, text)
			return err
		})

	case form.KindFile:
		path, err := r.host.driver.Input(ctx, InputConfig{Message: label, Help: "Path to a PDF, JPG or PNG file; leave empty to skip."})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}
		attachment, err := r.host.stat(path)
		if err == nil {
			err = r.host.policy.Check(attachment)
		}
		if err != nil {
			return r.retry(ctx, f, err)
		}
		return r.commit(ctx, f, func() error { return s.Attach(f.Name, attachment) })

	default:
		text, err := r.host.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   f.Value,
			Validator: inputValidator(f.Kind),
		})
		if err != nil {
			return err
		}
		return r.commit(ctx, f, func() error {
			_, _, err := s.Set(f.Name, strings.TrimSpace(text))
			return err
		})
	}
}

// commit applies an answer and signals the blur that follows it.
func (r *run) commit(ctx context.Context, f form.Field, apply func() error) error {
	if err := apply(); err != nil {
		if errors.Is(err, form.ErrUnknownOption) || errors.Is(err, form.ErrKindMismatch) {
			return r.retry(ctx, f, err)
		}
		return err
	}
	return r.session.Blur(f.Name)
}

// retry reports err and asks for f again.
func (r *run) retry(ctx context.Context, f form.Field, err error) error {
	if infoErr := r.host.say(ctx, r.host.theme.ErrorPrefix, fmt.Sprintf("Invalid %s: %v", f.DisplayLabel(), err)); infoErr != nil {
		return infoErr
	}
	current, ok := r.session.Form.Field(f.Name)
	if !ok {
		return nil
	}
	return r.prompt(ctx, current)
}

// inputValidator rejects malformed dates and numbers at the prompt. Empty
// answers pass so required-ness stays with the step validator.
func inputValidator(kind form.Kind) func(string) error {
	switch kind {
	case form.KindDate:
		return func(v string) error {
			if strings.TrimSpace(v) == "" {
				return nil
			}
			if _, ok := rules.ParseDate(v, nil); !ok {
				return fmt.Errorf("use the YYYY-MM-DD format")
			}
			return nil
		}
	case form.KindNumber:
		return func(v string) error {
			if strings.TrimSpace(v) == "" {
				return nil
			}
			if _, err := strconv.Atoi(strings.TrimSpace(v)); err != nil {
				return fmt.Errorf("enter a whole number")
			}
			return nil
		}
	default:
		return nil
	}
}
