package expr

import (
	"testing"

	"github.com/goliatone/go-formwizard/pkg/visibility"
)

func TestEvaluatorEqualityOnTrigger(t *testing.T) {
	t.Parallel()

	eval := New()

	ok, err := eval.Eval("passport-fields", `passport_has == "yes"`, visibility.Context{
		Values: map[string]any{"passport_has": "yes"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true")
	}

	ok, err = eval.Eval("passport-fields", `passport_has == "yes"`, visibility.Context{
		Values: map[string]any{"passport_has": "no"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected false for non-matching value")
	}
}

func TestEvaluatorCheckboxAndNot(t *testing.T) {
	t.Parallel()

	eval := New()

	ok, err := eval.Eval("spouse-fields", "has_spouse", visibility.Context{
		Values: map[string]any{"has_spouse": true},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true")
	}

	ok, err = eval.Eval("spouse-fields", "!has_spouse", visibility.Context{
		Values: map[string]any{"has_spouse": false},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for !false")
	}
}

func TestEvaluatorMembership(t *testing.T) {
	t.Parallel()

	eval := New()
	rule := `recognition_status in ["yes", "in progress"]`
	for value, want := range map[string]bool{"yes": true, "in progress": true, "no": false, "": false} {
		ok, err := eval.Eval("recognition-fields", rule, visibility.Context{
			Values: map[string]any{"recognition_status": value},
		})
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", value, err)
		}
		if ok != want {
			t.Fatalf("Eval(%q) = %v, want %v", value, ok, want)
		}
	}
}

func TestEvaluatorUndefinedTriggerIsHidden(t *testing.T) {
	t.Parallel()

	eval := New()
	ok, err := eval.Eval("military-section", `gender == "male"`, visibility.Context{})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected false for undefined trigger")
	}

	ok, err = eval.Eval("anything", "missing", visibility.Context{})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected nil result to hide the section")
	}
}

func TestEvaluatorExtras(t *testing.T) {
	t.Parallel()

	eval := New()
	ok, err := eval.Eval("beta", `extras.beta == true && flag == "on"`, visibility.Context{
		Values: map[string]any{"flag": "on"},
		Extras: map[string]any{"beta": true},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true")
	}
}

func TestEvaluatorErrors(t *testing.T) {
	t.Parallel()

	eval := New()
	if err := eval.Check(`passport_has == `); err == nil {
		t.Fatalf("expected compile error")
	}
	if err := eval.Check(`passport_has == "yes"`); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if _, err := eval.Eval("count", `children_count + 1`, visibility.Context{
		Values: map[string]any{"children_count": 1},
	}); err == nil {
		t.Fatalf("expected error for non-boolean result")
	}

	ok, err := eval.Eval("always", "   ", visibility.Context{})
	if err != nil || !ok {
		t.Fatalf("empty rule should be visible, got %v %v", ok, err)
	}
}
