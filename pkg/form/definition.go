package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IndexPlaceholder is substituted with the entry index in repeatable field
// templates.
const IndexPlaceholder = "{index}"

// Definition describes a wizard form: its steps, their fields, conditional
// sections, option catalogs and repeatable entry templates.
type Definition struct {
	ID          string              `json:"id" yaml:"id"`
	Steps       []StepSpec          `json:"steps" yaml:"steps"`
	Catalogs    map[string][]Option `json:"catalogs,omitempty" yaml:"catalogs,omitempty"`
	Repeatables []RepeatableSpec    `json:"repeatables,omitempty" yaml:"repeatables,omitempty"`
}

// StepSpec declares one step and the fields it owns.
type StepSpec struct {
	Index    int         `json:"index" yaml:"index"`
	Name     string      `json:"name" yaml:"name"`
	Selector string      `json:"selector,omitempty" yaml:"selector,omitempty"`
	Fields   []FieldSpec `json:"fields" yaml:"fields"`
}

// FieldSpec declares a field or, with kind section, a conditional section
// wrapping nested fields. Sections carry the trigger field and the rule that
// decides their visibility.
type FieldSpec struct {
	Name         string      `json:"name" yaml:"name"`
	Kind         string      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label        string      `json:"label,omitempty" yaml:"label,omitempty"`
	Required     bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Options      []Option    `json:"options,omitempty" yaml:"options,omitempty"`
	OptionsFrom  string      `json:"options_from,omitempty" yaml:"options_from,omitempty"`
	CloneOptions bool        `json:"clone_options,omitempty" yaml:"clone_options,omitempty"`
	Trigger      string      `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	VisibleWhen  string      `json:"visible_when,omitempty" yaml:"visible_when,omitempty"`
	Fields       []FieldSpec `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// RepeatableSpec is the template for dynamic entries such as children or
// work experience. Within lists the sections enclosing every entry. Entries
// of an Optional repeatable whose key field is blank are left out of
// submissions.
type RepeatableSpec struct {
	Kind     string      `json:"kind" yaml:"kind"`
	Label    string      `json:"label,omitempty" yaml:"label,omitempty"`
	Step     int         `json:"step" yaml:"step"`
	Within   []string    `json:"within,omitempty" yaml:"within,omitempty"`
	Initial  int         `json:"initial,omitempty" yaml:"initial,omitempty"`
	Key      string      `json:"key" yaml:"key"`
	Optional bool        `json:"optional,omitempty" yaml:"optional,omitempty"`
	Fields   []FieldSpec `json:"fields" yaml:"fields"`
}

// Names lists the field templates of the repeatable, sections excluded.
func (r RepeatableSpec) Names() []string {
	var out []string
	walkSpecs(r.Fields, func(spec FieldSpec) {
		if kind, err := ParseKind(spec.Kind); err == nil && kind != KindSection {
			out = append(out, spec.Name)
		}
	})
	return out
}

// MatchIndex extracts the entry index from name when it was produced by
// template.
func MatchIndex(template, name string) (int, bool) {
	prefix, suffix, ok := strings.Cut(template, IndexPlaceholder)
	if !ok || len(name) <= len(prefix)+len(suffix) {
		return 0, false
	}
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	middle := name[len(prefix) : len(name)-len(suffix)]
	index, err := strconv.Atoi(middle)
	if err != nil || index < 1 {
		return 0, false
	}
	return index, true
}

// KeyName returns the key field name of entry index.
func (r RepeatableSpec) KeyName(index int) string {
	return Indexed(r.Key, index)
}

// CloneSources lists the field templates whose options are copied from the
// first entry when new entries are built.
func (r RepeatableSpec) CloneSources() []string {
	var out []string
	walkSpecs(r.Fields, func(spec FieldSpec) {
		if spec.CloneOptions {
			out = append(out, spec.Name)
		}
	})
	return out
}

// Indexed substitutes index into a template name.
func Indexed(template string, index int) string {
	return strings.ReplaceAll(template, IndexPlaceholder, fmt.Sprint(index))
}

// Group names the field group of entry index of kind.
func Group(kind string, index int) string {
	return fmt.Sprintf("%s-%d", kind, index)
}

// Repeatable returns the template registered for kind.
func (d *Definition) Repeatable(kind string) (RepeatableSpec, bool) {
	if d == nil {
		return RepeatableSpec{}, false
	}
	for _, r := range d.Repeatables {
		if r.Kind == kind {
			return r, true
		}
	}
	return RepeatableSpec{}, false
}

// StepLayout returns the step descriptors in ordinal order.
func (d *Definition) StepLayout() []Step {
	out := make([]Step, 0, len(d.Steps))
	for _, s := range d.Steps {
		out = append(out, Step{Index: s.Index, Name: s.Name, Selector: s.Selector})
	}
	return out
}

// Build validates the definition and instantiates an in-memory form with
// the initial entries of every repeatable. The returned conditions drive
// section visibility.
func (d *Definition) Build() (*Memory, []Condition, error) {
	if err := d.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		fields     []Field
		conditions []Condition
	)
	for _, step := range d.Steps {
		for _, spec := range step.Fields {
			f, c, err := d.expand(spec, step.Index, nil, "", 0)
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, f...)
			conditions = append(conditions, c...)
		}
	}

	mem := NewMemory(d.StepLayout(), fields...)
	for _, rep := range d.Repeatables {
		for i := 1; i <= rep.Initial; i++ {
			f, c, err := d.Entry(rep.Kind, i)
			if err != nil {
				return nil, nil, err
			}
			if err := mem.Add(f...); err != nil {
				return nil, nil, err
			}
			conditions = append(conditions, c...)
		}
	}
	return mem, conditions, nil
}

// Entry expands the template of kind for index. Fields are tagged with the
// entry group so they can be removed together.
func (d *Definition) Entry(kind string, index int) ([]Field, []Condition, error) {
	rep, ok := d.Repeatable(kind)
	if !ok {
		return nil, nil, fmt.Errorf("form: unknown repeatable %q", kind)
	}
	if index < 1 {
		return nil, nil, fmt.Errorf("form: repeatable %q index %d out of range", kind, index)
	}
	chain := append([]string(nil), rep.Within...)
	group := Group(kind, index)

	var (
		fields     []Field
		conditions []Condition
	)
	for _, spec := range rep.Fields {
		f, c, err := d.expand(spec, rep.Step, chain, group, index)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, f...)
		conditions = append(conditions, c...)
	}
	return fields, conditions, nil
}

// ResolveOptions returns the inline options of spec or the catalog it
// references. A ":no-other" suffix drops catch-all options.
func (d *Definition) ResolveOptions(spec FieldSpec) ([]Option, error) {
	if spec.OptionsFrom == "" {
		return append([]Option(nil), spec.Options...), nil
	}
	name, modifier, _ := strings.Cut(spec.OptionsFrom, ":")
	catalog, ok := d.Catalogs[name]
	if !ok {
		return nil, fmt.Errorf("form: field %q references unknown catalog %q", spec.Name, name)
	}
	switch modifier {
	case "":
		return append([]Option(nil), catalog...), nil
	case "no-other":
		out := make([]Option, 0, len(catalog))
		for _, opt := range catalog {
			if !opt.Other {
				out = append(out, opt)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("form: field %q uses unknown catalog modifier %q", spec.Name, modifier)
	}
}

func (d *Definition) expand(spec FieldSpec, step int, chain []string, group string, index int) ([]Field, []Condition, error) {
	kind, err := ParseKind(spec.Kind)
	if err != nil {
		return nil, nil, err
	}
	name := spec.Name
	if index > 0 {
		name = Indexed(name, index)
	}

	if kind == KindSection {
		cond := Condition{Section: name, Trigger: spec.Trigger, Rule: spec.VisibleWhen}
		if index > 0 {
			cond.Trigger = Indexed(cond.Trigger, index)
			cond.Rule = Indexed(cond.Rule, index)
		}
		nested := append(append([]string(nil), chain...), name)
		fields := []Field{}
		conditions := []Condition{cond}
		for _, child := range spec.Fields {
			f, c, err := d.expand(child, step, nested, group, index)
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, f...)
			conditions = append(conditions, c...)
		}
		return fields, conditions, nil
	}

	options, err := d.ResolveOptions(spec)
	if err != nil {
		return nil, nil, err
	}
	label := spec.Label
	if index > 0 {
		label = Indexed(label, index)
	}
	base := Field{
		Name:     name,
		Kind:     kind,
		Label:    label,
		Required: spec.Required,
		Step:     step,
		Sections: append([]string(nil), chain...),
		Group:    group,
		Options:  options,
	}
	if kind != KindRadio {
		return []Field{base}, nil, nil
	}

	// One element per option, all sharing the group name.
	out := make([]Field, 0, len(options))
	for _, opt := range options {
		member := base.clone()
		member.Value = opt.Value
		out = append(out, member)
	}
	return out, nil, nil
}

// Validate reports structural problems: gaps in step indices, duplicate
// names, unknown kinds or catalogs, sections without a rule and repeatables
// pointing at missing steps or sections.
func (d *Definition) Validate() error {
	if d == nil {
		return errors.New("form: definition is nil")
	}
	var errs []error
	if len(d.Steps) == 0 {
		errs = append(errs, errors.New("form: definition declares no steps"))
	}

	names := make(map[string]struct{})
	sections := make(map[string]struct{})
	var triggers []FieldSpec
	for pos, step := range d.Steps {
		if step.Index != pos+1 {
			errs = append(errs, fmt.Errorf("form: step %q has index %d, want %d", step.Name, step.Index, pos+1))
		}
		if strings.TrimSpace(step.Name) == "" {
			errs = append(errs, fmt.Errorf("form: step %d has no name", step.Index))
		}
		errs = append(errs, d.checkSpecs(step.Fields, names, sections, &triggers)...)
	}
	for _, sec := range triggers {
		if _, ok := names[sec.Trigger]; !ok {
			errs = append(errs, fmt.Errorf("form: section %q is triggered by unknown field %q", sec.Name, sec.Trigger))
		}
	}

	kinds := make(map[string]struct{})
	for _, rep := range d.Repeatables {
		errs = append(errs, d.checkRepeatable(rep, kinds, sections)...)
	}
	return errors.Join(errs...)
}

func (d *Definition) checkRepeatable(rep RepeatableSpec, kinds, staticSections map[string]struct{}) []error {
	var errs []error
	if strings.TrimSpace(rep.Kind) == "" {
		return []error{errors.New("form: repeatable without kind")}
	}
	if _, dup := kinds[rep.Kind]; dup {
		errs = append(errs, fmt.Errorf("form: duplicate repeatable %q", rep.Kind))
	}
	kinds[rep.Kind] = struct{}{}
	if rep.Step < 1 || rep.Step > len(d.Steps) {
		errs = append(errs, fmt.Errorf("form: repeatable %q targets unknown step %d", rep.Kind, rep.Step))
	}
	if rep.Initial < 0 {
		errs = append(errs, fmt.Errorf("form: repeatable %q has negative initial count", rep.Kind))
	}
	for _, id := range rep.Within {
		if _, ok := staticSections[id]; !ok {
			errs = append(errs, fmt.Errorf("form: repeatable %q is placed within unknown section %q", rep.Kind, id))
		}
	}

	names := make(map[string]struct{})
	sections := make(map[string]struct{})
	var triggers []FieldSpec
	errs = append(errs, d.checkSpecs(rep.Fields, names, sections, &triggers)...)
	for name := range names {
		if !strings.Contains(name, IndexPlaceholder) {
			errs = append(errs, fmt.Errorf("form: repeatable %q field %q lacks %s", rep.Kind, name, IndexPlaceholder))
		}
	}
	for name := range sections {
		if !strings.Contains(name, IndexPlaceholder) {
			errs = append(errs, fmt.Errorf("form: repeatable %q section %q lacks %s", rep.Kind, name, IndexPlaceholder))
		}
	}
	for _, sec := range triggers {
		if _, ok := names[sec.Trigger]; !ok {
			errs = append(errs, fmt.Errorf("form: repeatable %q section %q is triggered by unknown field %q", rep.Kind, sec.Name, sec.Trigger))
		}
	}
	if _, ok := names[rep.Key]; !ok {
		errs = append(errs, fmt.Errorf("form: repeatable %q key %q is not one of its fields", rep.Kind, rep.Key))
	}
	return errs
}

func (d *Definition) checkSpecs(specs []FieldSpec, names, sections map[string]struct{}, triggers *[]FieldSpec) []error {
	var errs []error
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			errs = append(errs, errors.New("form: field without name"))
			continue
		}
		kind, err := ParseKind(spec.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("form: field %q: %w", name, err))
			continue
		}
		if kind == KindSection {
			if _, dup := sections[name]; dup {
				errs = append(errs, fmt.Errorf("form: duplicate section %q", name))
			}
			sections[name] = struct{}{}
			if spec.Trigger == "" || strings.TrimSpace(spec.VisibleWhen) == "" {
				errs = append(errs, fmt.Errorf("form: section %q needs trigger and visible_when", name))
			} else {
				*triggers = append(*triggers, spec)
			}
			errs = append(errs, d.checkSpecs(spec.Fields, names, sections, triggers)...)
			continue
		}
		if _, dup := names[name]; dup {
			errs = append(errs, fmt.Errorf("form: duplicate field %q", name))
		}
		names[name] = struct{}{}

		options, err := d.ResolveOptions(spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if kind == KindRadio && len(options) == 0 {
			errs = append(errs, fmt.Errorf("form: radio group %q has no options", name))
		}
	}
	return errs
}

func walkSpecs(specs []FieldSpec, fn func(FieldSpec)) {
	for _, spec := range specs {
		fn(spec)
		if len(spec.Fields) > 0 {
			walkSpecs(spec.Fields, fn)
		}
	}
}
