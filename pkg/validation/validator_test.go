package validation_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/rules"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

func fixedClock() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }

func newForm() *form.Memory {
	steps := []form.Step{{Index: 1, Name: "One"}, {Index: 2, Name: "Two"}}
	return form.NewMemory(steps,
		form.Field{Name: "full_name", Kind: form.KindText, Step: 1, Required: true},
		form.Field{Name: "gender", Kind: form.KindRadio, Value: "male", Step: 1, Required: true},
		form.Field{Name: "gender", Kind: form.KindRadio, Value: "female", Step: 1, Required: true},
		form.Field{Name: "terms", Kind: form.KindCheckbox, Step: 1, Required: true},
		form.Field{Name: "cv", Kind: form.KindFile, Step: 1, Required: true},
		form.Field{Name: "skills", Kind: form.KindMultiSelect, Step: 1, Required: true},
		form.Field{Name: "notes", Kind: form.KindTextArea, Step: 1},
		form.Field{Name: "passport_no", Kind: form.KindText, Step: 2, Required: true, Sections: []string{"passport-fields"}},
		form.Field{Name: "city", Kind: form.KindText, Step: 2, Required: true},
	)
}

func fill(t *testing.T, mem *form.Memory) {
	t.Helper()
	err := mem.Apply(map[string]any{
		"full_name": "Ada",
		"gender":    "female",
		"terms":     true,
		"cv":        []string{"cv.pdf"},
		"skills":    []string{"go"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
}

func TestValidate_GenericPassFlagsEveryMissingKind(t *testing.T) {
	mem := newForm()
	if err := mem.SetValue("full_name", "   "); err != nil {
		t.Fatalf("set: %v", err)
	}
	v := validation.New(mem, nil, validation.WithClock(fixedClock))

	got := v.Validate(1)
	want := validation.Result{
		Step:   1,
		Valid:  false,
		Errors: []string{validation.DefaultRequiredMessage},
		Issues: []validation.Issue{{
			Kind:    validation.IssueMissingRequired,
			Message: validation.DefaultRequiredMessage,
			Fields:  []string{"full_name", "gender", "terms", "cv", "skills"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cv", "full_name", "gender", "skills", "terms"}, mem.InvalidNames()); diff != "" {
		t.Fatalf("invalid markers mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_CompleteStepPasses(t *testing.T) {
	mem := newForm()
	fill(t, mem)
	mem.MarkInvalid("full_name")

	got := validation.New(mem, nil).Validate(1)
	if !got.Valid || len(got.Errors) != 0 || len(got.Issues) != 0 {
		t.Fatalf("expected valid result, got %#v", got)
	}
	if names := mem.InvalidNames(); len(names) != 0 {
		t.Fatalf("markers should be cleared by a passing validation, got %v", names)
	}
}

func TestValidate_HiddenRequiredFieldsAreSkipped(t *testing.T) {
	mem := newForm()
	if err := mem.SetValue("city", "Berlin"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v := validation.New(mem, nil)

	if got := v.Validate(2); got.Valid {
		t.Fatalf("visible empty passport_no should block the step")
	}
	mem.SetSectionVisible("passport-fields", false)
	if got := v.Validate(2); !got.Valid {
		t.Fatalf("hidden section should be ignored, got %#v", got)
	}
}

func TestValidate_RuleViolationsAccumulateWithGenericErrors(t *testing.T) {
	mem := newForm()
	var seen rules.Input
	set := rules.Set{
		1: func(in rules.Input) []rules.Violation {
			seen = in
			return []rules.Violation{
				rules.Violate("  Name looks odd.  ", "full_name"),
				rules.Violate("Name looks odd.", "notes"),
			}
		},
	}
	v := validation.New(mem, set, validation.WithClock(fixedClock), validation.WithRequiredMessage("Fill everything in."))

	got := v.Validate(1)
	if diff := cmp.Diff([]string{"Fill everything in.", "Name looks odd."}, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if len(got.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(got.Issues))
	}
	if !mem.Invalid("notes") {
		t.Fatalf("rule-flagged optional field should be marked invalid")
	}
	if !seen.Today.Equal(fixedClock()) {
		t.Fatalf("rule received today=%v", seen.Today)
	}
}

type stubEntries []int

func (s stubEntries) Indices(string) []int { return s }

func TestValidate_PassesEntriesToRules(t *testing.T) {
	mem := newForm()
	fill(t, mem)
	var got []int
	set := rules.Set{1: func(in rules.Input) []rules.Violation {
		got = in.Indices("child")
		return nil
	}}
	validation.New(mem, set, validation.WithEntries(stubEntries{1, 3})).Validate(1)
	if diff := cmp.Diff([]int{1, 3}, got); diff != "" {
		t.Fatalf("indices mismatch (-want +got):\n%s", diff)
	}
}
