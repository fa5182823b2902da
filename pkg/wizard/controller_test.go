package wizard_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/visibility"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

var now = time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC)

type recordingSurface struct {
	events []string
	frames []wizard.Frame
	errors map[int][]string
}

func newSurface() *recordingSurface {
	return &recordingSurface{errors: make(map[int][]string)}
}

func (s *recordingSurface) Render(f wizard.Frame) {
	s.frames = append(s.frames, f)
	s.events = append(s.events, fmt.Sprintf("render:%d", f.Step))
}

func (s *recordingSurface) ShowErrors(step int, messages []string) {
	s.errors[step] = messages
	s.events = append(s.events, fmt.Sprintf("errors:%d", step))
}

func (s *recordingSurface) ClearErrors(step int) {
	delete(s.errors, step)
	s.events = append(s.events, fmt.Sprintf("clear:%d", step))
}

func (s *recordingSurface) ScrollTo(step int) {
	s.events = append(s.events, fmt.Sprintf("scroll:%d", step))
}

func (s *recordingSurface) last() wizard.Frame {
	return s.frames[len(s.frames)-1]
}

// stubValidator fails the steps listed in invalid.
type stubValidator struct {
	invalid map[int]bool
	calls   []int
}

func (v *stubValidator) Validate(step int) validation.Result {
	v.calls = append(v.calls, step)
	if v.invalid[step] {
		return validation.Result{Step: step, Errors: []string{fmt.Sprintf("step %d broken", step)}}
	}
	return validation.Result{Step: step, Valid: true}
}

type stubToggles struct {
	applied int
	changed []string
}

func (t *stubToggles) Changed(field string) ([]visibility.Change, error) {
	t.changed = append(t.changed, field)
	return nil, nil
}

func (t *stubToggles) ApplyAll() ([]visibility.Change, error) {
	t.applied++
	return nil, nil
}

func threeSteps() []form.Step {
	return []form.Step{
		{Index: 1, Name: "Personal Information", Selector: "#step-1"},
		{Index: 2, Name: ""},
		{Index: 3, Name: "Consent"},
	}
}

func newMemory() *form.Memory {
	return form.NewMemory(threeSteps(),
		form.Field{Name: "full_name", Kind: form.KindText, Step: 1},
		form.Field{Name: "city", Kind: form.KindText, Step: 2},
		form.Field{Name: "consent_name", Kind: form.KindText, Step: 3},
		form.Field{Name: "consent_date", Kind: form.KindDate, Step: 3},
	)
}

func newController(t *testing.T, v wizard.Validator, opts ...wizard.Option) (*wizard.Controller, *recordingSurface, *form.Memory) {
	t.Helper()
	surface := newSurface()
	mem := newMemory()
	opts = append([]wizard.Option{wizard.WithSurface(surface), wizard.WithClock(func() time.Time { return now })}, opts...)
	c, err := wizard.New(threeSteps(), mem, v, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c, surface, mem
}

func TestController_InitRendersFirstStepThenAppliesToggles(t *testing.T) {
	toggles := &stubToggles{}
	c, surface, _ := newController(t, &stubValidator{}, wizard.WithToggles(toggles))
	if err := c.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if toggles.applied != 1 {
		t.Fatalf("expected toggles to be applied once, got %d", toggles.applied)
	}

	want := wizard.Frame{
		Step:         1,
		Total:        3,
		Name:         "Personal Information",
		Selector:     "#step-1",
		Percent:      100.0 / 3,
		Indicator:    "1/3: Personal Information",
		ShowPrevious: false,
		ShowNext:     true,
		ShowSubmit:   false,
	}
	if diff := cmp.Diff(want, surface.last()); diff != "" {
		t.Fatalf("frame mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wizard.State{Current: 1, Total: 3}, c.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestController_FrameFallbackNameAndLastStepButtons(t *testing.T) {
	c, _, _ := newController(t, &stubValidator{})
	if got := c.Frame(2).Indicator; got != "2/3: Step 2" {
		t.Fatalf("indicator = %q", got)
	}
	last := c.Frame(3)
	if last.ShowNext || !last.ShowSubmit || !last.ShowPrevious || last.Percent != 100 {
		t.Fatalf("unexpected last frame %#v", last)
	}
}

func TestController_NextBlocksOnInvalidStep(t *testing.T) {
	v := &stubValidator{invalid: map[int]bool{1: true}}
	c, surface, _ := newController(t, v)
	if err := c.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	result, err := c.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if got := c.State().Current; got != 1 {
		t.Fatalf("current step = %d, want 1", got)
	}
	if diff := cmp.Diff([]string{"step 1 broken"}, surface.errors[1]); diff != "" {
		t.Fatalf("banner mismatch (-want +got):\n%s", diff)
	}

	v.invalid[1] = false
	if _, err := c.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if got := c.State().Current; got != 2 {
		t.Fatalf("current step = %d, want 2", got)
	}
	if _, ok := surface.errors[1]; ok {
		t.Fatalf("passing validation should clear the banner")
	}
}

func TestController_PreviousNeverValidates(t *testing.T) {
	v := &stubValidator{invalid: map[int]bool{2: true}}
	c, _, _ := newController(t, v)
	if err := c.JumpTo(2); err != nil {
		t.Fatalf("jump: %v", err)
	}
	if err := c.Previous(); err != nil {
		t.Fatalf("previous: %v", err)
	}
	if len(v.calls) != 0 {
		t.Fatalf("previous should not validate, got calls %v", v.calls)
	}
	if err := c.Previous(); !errors.Is(err, wizard.ErrFirstStep) {
		t.Fatalf("expected ErrFirstStep, got %v", err)
	}
}

func TestController_NavigationBounds(t *testing.T) {
	c, _, _ := newController(t, &stubValidator{})
	if err := c.JumpTo(0); !errors.Is(err, wizard.ErrStepOutOfRange) {
		t.Fatalf("expected ErrStepOutOfRange, got %v", err)
	}
	if err := c.JumpTo(4); !errors.Is(err, wizard.ErrStepOutOfRange) {
		t.Fatalf("expected ErrStepOutOfRange, got %v", err)
	}
	if err := c.JumpTo(3); err != nil {
		t.Fatalf("jump: %v", err)
	}
	if _, err := c.Next(); !errors.Is(err, wizard.ErrLastStep) {
		t.Fatalf("expected ErrLastStep, got %v", err)
	}
}

func TestController_ValidateAllStopsAtFirstInvalidStepWithoutScrolling(t *testing.T) {
	v := &stubValidator{invalid: map[int]bool{2: true, 3: true}}
	c, surface, _ := newController(t, v)

	summary := c.ValidateAll()
	if summary.Valid || summary.FirstInvalidStep != 2 {
		t.Fatalf("unexpected summary %#v", summary)
	}
	if diff := cmp.Diff([]int{1, 2}, v.calls); diff != "" {
		t.Fatalf("validated steps mismatch (-want +got):\n%s", diff)
	}
	for _, ev := range surface.events {
		if ev == "scroll:2" {
			t.Fatalf("ValidateAll must not scroll")
		}
	}
}

func TestController_SubmitBlockedJumpsToFirstInvalidStep(t *testing.T) {
	v := &stubValidator{invalid: map[int]bool{3: true}}
	submitted := false
	sink := wizard.SubmitterFunc(func(context.Context, wizard.Submission) error {
		submitted = true
		return nil
	})
	c, surface, _ := newController(t, v, wizard.WithSubmitter(sink))

	_, err := c.Submit(context.Background())
	var incomplete *wizard.IncompleteError
	if !errors.As(err, &incomplete) || !errors.Is(err, wizard.ErrIncomplete) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	if incomplete.Step != 3 || c.State().Current != 3 {
		t.Fatalf("expected to land on step 3, got error step %d state %d", incomplete.Step, c.State().Current)
	}
	if submitted {
		t.Fatalf("submitter must not run when validation fails")
	}
	n := len(surface.events)
	if diff := cmp.Diff([]string{"render:3", "scroll:3", "errors:3", "scroll:3"}, surface.events[n-4:]); diff != "" {
		t.Fatalf("event tail mismatch (-want +got):\n%s", diff)
	}
}

func TestController_SubmitHandsValuesToSink(t *testing.T) {
	var got wizard.Submission
	sink := wizard.SubmitterFunc(func(_ context.Context, s wizard.Submission) error {
		got = s
		return nil
	})
	c, _, mem := newController(t, &stubValidator{},
		wizard.WithSubmitter(sink),
		wizard.WithIDGenerator(func() string { return "app-1" }),
		wizard.WithValuesFilter(func(values map[string]any) map[string]any {
			delete(values, "city")
			return values
		}),
	)
	if err := mem.SetValue("full_name", "Ada"); err != nil {
		t.Fatalf("set: %v", err)
	}

	returned, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := wizard.Submission{
		ID:          "app-1",
		SubmittedAt: now,
		Values: map[string]any{
			"full_name":    "Ada",
			"consent_name": "",
			"consent_date": "",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
	if returned.ID != "app-1" {
		t.Fatalf("returned submission id = %q", returned.ID)
	}
}

func TestController_SubmitErrors(t *testing.T) {
	c, _, _ := newController(t, &stubValidator{})
	if _, err := c.Submit(context.Background()); !errors.Is(err, wizard.ErrNoSubmitter) {
		t.Fatalf("expected ErrNoSubmitter, got %v", err)
	}

	boom := errors.New("sink down")
	c, _, _ = newController(t, &stubValidator{}, wizard.WithSubmitter(wizard.SubmitterFunc(func(context.Context, wizard.Submission) error {
		return boom
	})))
	if _, err := c.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Submit(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestController_ChangedRevalidatesOnlyTheDisplayedStep(t *testing.T) {
	v := &stubValidator{invalid: map[int]bool{1: true}}
	toggles := &stubToggles{}
	var hooked []string
	c, surface, _ := newController(t, v,
		wizard.WithToggles(toggles),
		wizard.WithFieldHook("full_name", func(value string) error {
			hooked = append(hooked, value)
			return nil
		}),
	)

	_, revalidated, err := c.Changed("city")
	if err != nil {
		t.Fatalf("changed: %v", err)
	}
	if revalidated || len(v.calls) != 0 {
		t.Fatalf("fields of other steps must not trigger validation")
	}

	result, revalidated, err := c.Changed("full_name")
	if err != nil {
		t.Fatalf("changed: %v", err)
	}
	if !revalidated || result.Valid {
		t.Fatalf("expected a failing live validation, got %#v", result)
	}
	for _, ev := range surface.events {
		if ev == "scroll:1" {
			t.Fatalf("live validation must not scroll")
		}
	}
	if diff := cmp.Diff([]string{"city", "full_name"}, toggles.changed); diff != "" {
		t.Fatalf("toggled fields mismatch (-want +got):\n%s", diff)
	}
	if len(hooked) != 1 {
		t.Fatalf("expected hook to run once, got %v", hooked)
	}
}

func TestController_AutofillAndTodayDefault(t *testing.T) {
	c, _, mem := newController(t, &stubValidator{},
		wizard.WithAutofill("full_name", "consent_name"),
		wizard.WithTodayDefault("consent_date"),
	)
	if err := c.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := form.StringValue(mem, "consent_date"); got != "2026-10-16" {
		t.Fatalf("consent_date = %q", got)
	}

	if err := mem.SetValue("full_name", "Ada Lovelace"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Blurred("full_name"); err != nil {
		t.Fatalf("blurred: %v", err)
	}
	if got := form.StringValue(mem, "consent_name"); got != "Ada Lovelace" {
		t.Fatalf("consent_name = %q", got)
	}

	if err := mem.SetValue("full_name", "Someone Else"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Blurred("full_name"); err != nil {
		t.Fatalf("blurred: %v", err)
	}
	if got := form.StringValue(mem, "consent_name"); got != "Ada Lovelace" {
		t.Fatalf("autofill must not overwrite, got %q", got)
	}
}

func TestNew_RequiresStepsAndCollaborators(t *testing.T) {
	if _, err := wizard.New(nil, newMemory(), &stubValidator{}); err == nil {
		t.Fatalf("expected error without steps")
	}
	if _, err := wizard.New(threeSteps(), nil, &stubValidator{}); err == nil {
		t.Fatalf("expected error without form")
	}
}
