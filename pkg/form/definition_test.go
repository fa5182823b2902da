package form_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/form"
)

const sampleDefinition = `
id: sample
catalogs:
  departments:
    - {value: kitchen, label: Kitchen}
    - {value: service, label: Service}
    - {value: other, label: Other, other: true}
steps:
  - index: 1
    name: Identity
    selector: "#step-1"
    fields:
      - {name: full_name, kind: text, label: Full name, required: true}
      - name: passport_has
        kind: radio
        required: true
        options: [{value: "yes"}, {value: "no"}]
      - name: passport-fields
        kind: section
        trigger: passport_has
        visible_when: passport_has == "yes"
        fields:
          - {name: passport_no, required: true}
          - {name: passport_photo, kind: file, required: true}
  - index: 2
    name: Work
    fields:
      - {name: choice1, kind: select, options_from: "departments:no-other", required: true}
      - {name: experience_departments_1, kind: multiselect, options_from: departments}
repeatables:
  - kind: child
    step: 2
    initial: 1
    key: child_name_{index}
    fields:
      - {name: "child_name_{index}", label: "Child {index}", required: true}
      - name: child_passport_has_{index}
        kind: select
        options: [{value: "yes"}, {value: "no"}]
      - name: child-passport-fields-{index}
        kind: section
        trigger: child_passport_has_{index}
        visible_when: child_passport_has_{index} == "yes"
        fields:
          - {name: "child_passport_no_{index}", required: true}
`

func mustParse(t *testing.T) *form.Definition {
	t.Helper()
	def, err := form.Parse([]byte(sampleDefinition), "sample.yaml")
	if err != nil {
		t.Fatalf("parse definition: %v", err)
	}
	return def
}

func TestBuild_ExpandsStepsSectionsAndInitialEntries(t *testing.T) {
	def := mustParse(t)
	mem, conditions, err := def.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	wantSteps := []form.Step{
		{Index: 1, Name: "Identity", Selector: "#step-1"},
		{Index: 2, Name: "Work"},
	}
	if diff := cmp.Diff(wantSteps, mem.Steps()); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	if got := len(mem.Fields("passport_has")); got != 2 {
		t.Fatalf("expected one radio element per option, got %d", got)
	}

	photo, ok := mem.Field("passport_photo")
	if !ok {
		t.Fatalf("passport_photo missing")
	}
	if diff := cmp.Diff([]string{"passport-fields"}, photo.Sections); diff != "" {
		t.Fatalf("section chain mismatch (-want +got):\n%s", diff)
	}

	child, ok := mem.Field("child_name_1")
	if !ok {
		t.Fatalf("initial child entry not built")
	}
	if child.Group != "child-1" || child.Label != "Child 1" || child.Step != 2 {
		t.Fatalf("unexpected child field: %#v", child)
	}

	wantConditions := []form.Condition{
		{Section: "passport-fields", Trigger: "passport_has", Rule: `passport_has == "yes"`},
		{Section: "child-passport-fields-1", Trigger: "child_passport_has_1", Rule: `child_passport_has_1 == "yes"`},
	}
	if diff := cmp.Diff(wantConditions, conditions); diff != "" {
		t.Fatalf("conditions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_CatalogModifierDropsOtherOptions(t *testing.T) {
	mem, _, err := mustParse(t).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	choice, _ := mem.Field("choice1")
	for _, opt := range choice.Options {
		if opt.Other {
			t.Fatalf("choice1 should not offer catch-all options: %#v", choice.Options)
		}
	}
	if len(choice.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(choice.Options))
	}
	departments, _ := mem.Field("experience_departments_1")
	if len(departments.Options) != 3 {
		t.Fatalf("expected full catalog, got %#v", departments.Options)
	}
}

func TestEntry_SubstitutesIndex(t *testing.T) {
	def := mustParse(t)
	fields, conditions, err := def.Entry("child", 4)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
		if f.Group != "child-4" {
			t.Fatalf("field %s has group %q", f.Name, f.Group)
		}
	}
	want := []string{"child_name_4", "child_passport_has_4", "child_passport_no_4"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if len(conditions) != 1 || conditions[0].Trigger != "child_passport_has_4" {
		t.Fatalf("unexpected conditions: %#v", conditions)
	}

	if _, _, err := def.Entry("pet", 1); err == nil {
		t.Fatalf("expected error for unknown repeatable")
	}
}

func TestValidate_ReportsStructuralProblems(t *testing.T) {
	tests := []struct {
		name string
		def  form.Definition
		want string
	}{
		{
			name: "no steps",
			def:  form.Definition{ID: "empty"},
			want: "declares no steps",
		},
		{
			name: "index gap",
			def: form.Definition{Steps: []form.StepSpec{
				{Index: 1, Name: "one"},
				{Index: 3, Name: "three"},
			}},
			want: "has index 3, want 2",
		},
		{
			name: "duplicate field",
			def: form.Definition{Steps: []form.StepSpec{
				{Index: 1, Name: "one", Fields: []form.FieldSpec{{Name: "a"}, {Name: "a"}}},
			}},
			want: `duplicate field "a"`,
		},
		{
			name: "unknown kind",
			def: form.Definition{Steps: []form.StepSpec{
				{Index: 1, Name: "one", Fields: []form.FieldSpec{{Name: "a", Kind: "slider"}}},
			}},
			want: "unknown field kind",
		},
		{
			name: "unknown catalog",
			def: form.Definition{Steps: []form.StepSpec{
				{Index: 1, Name: "one", Fields: []form.FieldSpec{{Name: "a", Kind: "select", OptionsFrom: "cities"}}},
			}},
			want: `unknown catalog "cities"`,
		},
		{
			name: "section without rule",
			def: form.Definition{Steps: []form.StepSpec{
				{Index: 1, Name: "one", Fields: []form.FieldSpec{{Name: "sec", Kind: "section"}}},
			}},
			want: "needs trigger and visible_when",
		},
		{
			name: "repeatable template without placeholder",
			def: form.Definition{
				Steps: []form.StepSpec{{Index: 1, Name: "one"}},
				Repeatables: []form.RepeatableSpec{{
					Kind: "child", Step: 1, Key: "child_name",
					Fields: []form.FieldSpec{{Name: "child_name"}},
				}},
			},
			want: "lacks {index}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParse_RejectsEmptyAndInvalid(t *testing.T) {
	if _, err := form.Parse([]byte("  \n"), "blank.yaml"); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := form.Parse([]byte("steps: [unterminated"), "broken.yaml"); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}

func TestLoadFS_ReadsDefinition(t *testing.T) {
	fsys := fstest.MapFS{
		"defs/sample.yaml": {Data: []byte(sampleDefinition)},
	}
	def, err := form.LoadFS(fsys, "defs/sample.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if def.ID != "sample" {
		t.Fatalf("unexpected id %q", def.ID)
	}

	_, err = form.LoadFS(fsys, "defs/missing.yaml")
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestMatchIndex(t *testing.T) {
	tests := []struct {
		template string
		name     string
		want     int
		ok       bool
	}{
		{"child_name_{index}", "child_name_3", 3, true},
		{"child_name_{index}", "child_name_12", 12, true},
		{"child-passport-fields-{index}", "child-passport-fields-2", 2, true},
		{"child_name_{index}", "child_name_", 0, false},
		{"child_name_{index}", "child_name_x", 0, false},
		{"child_name_{index}", "child_name_0", 0, false},
		{"child_name_{index}", "spouse_name", 0, false},
		{"child_name", "child_name", 0, false},
	}
	for _, tt := range tests {
		got, ok := form.MatchIndex(tt.template, tt.name)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("MatchIndex(%q, %q) = %d, %v; want %d, %v", tt.template, tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
