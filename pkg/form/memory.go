package form

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of date inputs.
const DateLayout = "2006-01-02"

// Memory is an in-memory form: an ordered list of elements plus the
// visibility state of conditional sections. It backs the terminal host, the
// batch validator and tests. Memory is not safe for concurrent use; the
// wizard drives it from a single event loop.
type Memory struct {
	steps    []Step
	fields   []Field
	sections map[string]bool
}

var _ Accessor = (*Memory)(nil)

// NewMemory returns a form holding fields laid out over steps.
func NewMemory(steps []Step, fields ...Field) *Memory {
	m := &Memory{
		steps:    append([]Step(nil), steps...),
		sections: make(map[string]bool),
	}
	for _, f := range fields {
		m.fields = append(m.fields, f.clone())
	}
	return m
}

// Steps returns the step layout in ordinal order.
func (m *Memory) Steps() []Step {
	return append([]Step(nil), m.steps...)
}

// Field implements Accessor.
func (m *Memory) Field(name string) (Field, bool) {
	for _, f := range m.fields {
		if f.Name == name {
			return f.clone(), true
		}
	}
	return Field{}, false
}

// Fields implements Accessor.
func (m *Memory) Fields(name string) []Field {
	var out []Field
	for _, f := range m.fields {
		if f.Name == name {
			out = append(out, f.clone())
		}
	}
	return out
}

// RadioValue implements Accessor.
func (m *Memory) RadioValue(name string) string {
	for _, f := range m.fields {
		if f.Name == name && f.Kind == KindRadio && f.Checked {
			return f.Value
		}
	}
	return ""
}

// HasFile implements Accessor. The live element is consulted so stale
// snapshots still report the current attachment state.
func (m *Memory) HasFile(f Field) bool {
	if current, ok := m.Field(f.Name); ok {
		return len(current.Files) > 0
	}
	return len(f.Files) > 0
}

// StepFields returns every element tagged with step, in document order.
func (m *Memory) StepFields(step int) []Field {
	var out []Field
	for _, f := range m.fields {
		if f.Step == step {
			out = append(out, f.clone())
		}
	}
	return out
}

// Visible reports whether every section enclosing f is visible.
func (m *Memory) Visible(f Field) bool {
	for _, id := range f.Sections {
		if !m.SectionVisible(id) {
			return false
		}
	}
	return true
}

// SectionVisible reports the visibility of a conditional section. Sections
// never toggled are visible.
func (m *Memory) SectionVisible(id string) bool {
	visible, ok := m.sections[id]
	return !ok || visible
}

// SetSectionVisible shows or hides a conditional section.
func (m *Memory) SetSectionVisible(id string, visible bool) {
	m.sections[id] = visible
}

// MarkInvalid sets the invalid marker on every element carrying one of names.
func (m *Memory) MarkInvalid(names ...string) {
	if len(names) == 0 {
		return
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	for i := range m.fields {
		if _, ok := set[m.fields[i].Name]; ok {
			m.fields[i].Invalid = true
		}
	}
}

// ClearInvalid removes the invalid marker from every element of step.
func (m *Memory) ClearInvalid(step int) {
	for i := range m.fields {
		if m.fields[i].Step == step {
			m.fields[i].Invalid = false
		}
	}
}

// Invalid reports whether any element named name carries the invalid marker.
func (m *Memory) Invalid(name string) bool {
	for _, f := range m.fields {
		if f.Name == name && f.Invalid {
			return true
		}
	}
	return false
}

// InvalidNames lists the names currently marked invalid, sorted.
func (m *Memory) InvalidNames() []string {
	seen := make(map[string]struct{})
	for _, f := range m.fields {
		if f.Invalid {
			seen[f.Name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SetValue assigns a scalar value. Radio groups are checked by value,
// checkboxes accept boolean spellings and multi-selects take a single value.
func (m *Memory) SetValue(name, value string) error {
	idx := m.indices(name)
	if len(idx) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	first := m.fields[idx[0]]
	switch first.Kind {
	case KindRadio:
		return m.Check(name, value)
	case KindCheckbox:
		checked, err := parseChecked(value)
		if err != nil {
			return fmt.Errorf("form: %s: %w", name, err)
		}
		return m.SetChecked(name, checked)
	case KindMultiSelect:
		if strings.TrimSpace(value) == "" {
			return m.SetValues(name)
		}
		return m.SetValues(name, value)
	case KindFile:
		return fmt.Errorf("%w: %s is a file input", ErrKindMismatch, name)
	case KindSelect:
		if value != "" && len(first.Options) > 0 && !first.HasOption(value) {
			return fmt.Errorf("%w: %s=%q", ErrUnknownOption, name, value)
		}
	}
	for _, i := range idx {
		m.fields[i].Value = value
	}
	return nil
}

// SetValues replaces the selection of a multi-select.
func (m *Memory) SetValues(name string, values ...string) error {
	idx := m.indices(name)
	if len(idx) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f := m.fields[idx[0]]
	if f.Kind != KindMultiSelect {
		return fmt.Errorf("%w: %s is not a multi-select", ErrKindMismatch, name)
	}
	if len(f.Options) > 0 {
		for _, v := range values {
			if !f.HasOption(v) {
				return fmt.Errorf("%w: %s=%q", ErrUnknownOption, name, v)
			}
		}
	}
	m.fields[idx[0]].Values = append([]string(nil), values...)
	return nil
}

// Check selects the member of a radio group whose value matches. An empty
// value clears the group.
func (m *Memory) Check(name, value string) error {
	idx := m.indices(name)
	if len(idx) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if m.fields[idx[0]].Kind != KindRadio {
		return fmt.Errorf("%w: %s is not a radio group", ErrKindMismatch, name)
	}
	if value != "" {
		found := false
		for _, i := range idx {
			if m.fields[i].Value == value {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s=%q", ErrUnknownOption, name, value)
		}
	}
	for _, i := range idx {
		m.fields[i].Checked = value != "" && m.fields[i].Value == value
	}
	return nil
}

// SetChecked ticks or clears a checkbox.
func (m *Memory) SetChecked(name string, checked bool) error {
	idx := m.indices(name)
	if len(idx) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if m.fields[idx[0]].Kind != KindCheckbox {
		return fmt.Errorf("%w: %s is not a checkbox", ErrKindMismatch, name)
	}
	for _, i := range idx {
		m.fields[i].Checked = checked
	}
	return nil
}

// Attach replaces the files attached to a file input.
func (m *Memory) Attach(name string, files ...Attachment) error {
	idx := m.indices(name)
	if len(idx) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if m.fields[idx[0]].Kind != KindFile {
		return fmt.Errorf("%w: %s is not a file input", ErrKindMismatch, name)
	}
	m.fields[idx[0]].Files = append([]Attachment(nil), files...)
	return nil
}

// Detach removes every file from a file input.
func (m *Memory) Detach(name string) error {
	return m.Attach(name)
}

// Add appends elements to the form. Names must be new unless the element
// joins an existing radio group.
func (m *Memory) Add(fields ...Field) error {
	for _, f := range fields {
		if existing, ok := m.Field(f.Name); ok {
			if existing.Kind != KindRadio || f.Kind != KindRadio {
				return fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
			}
		}
		m.fields = append(m.fields, f.clone())
	}
	return nil
}

// RemoveGroup deletes every element belonging to group and returns how many
// were removed.
func (m *Memory) RemoveGroup(group string) int {
	if group == "" {
		return 0
	}
	kept := m.fields[:0]
	removed := 0
	for _, f := range m.fields {
		if f.Group == group {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	m.fields = kept
	return removed
}

// Names lists the distinct field names in document order.
func (m *Memory) Names() []string {
	seen := make(map[string]struct{}, len(m.fields))
	var out []string
	for _, f := range m.fields {
		if _, ok := seen[f.Name]; ok {
			continue
		}
		seen[f.Name] = struct{}{}
		out = append(out, f.Name)
	}
	return out
}

// Values snapshots the form keyed by field name, using the shapes documented
// on Value.
func (m *Memory) Values() map[string]any {
	out := make(map[string]any, len(m.fields))
	for _, name := range m.Names() {
		out[name] = Value(m, name)
	}
	return out
}

// Apply loads a value map into the form. Every key is attempted; failures are
// joined into the returned error.
func (m *Memory) Apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, name := range keys {
		if err := m.apply(name, values[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Memory) apply(name string, raw any) error {
	f, ok := m.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	switch f.Kind {
	case KindCheckbox:
		switch v := raw.(type) {
		case bool:
			return m.SetChecked(name, v)
		case nil:
			return m.SetChecked(name, false)
		default:
			return m.SetValue(name, scalarString(v))
		}
	case KindMultiSelect:
		return m.SetValues(name, stringList(raw)...)
	case KindFile:
		names := stringList(raw)
		files := make([]Attachment, 0, len(names))
		for _, n := range names {
			if strings.TrimSpace(n) != "" {
				files = append(files, Attachment{Name: n})
			}
		}
		return m.Attach(name, files...)
	default:
		return m.SetValue(name, scalarString(raw))
	}
}

func (m *Memory) indices(name string) []int {
	var out []int
	for i, f := range m.fields {
		if f.Name == name {
			out = append(out, i)
		}
	}
	return out
}

func parseChecked(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "off", "no":
		return false, nil
	case "1", "true", "on", "yes":
		return true, nil
	default:
		return false, fmt.Errorf("invalid checkbox value %q", value)
	}
}

func scalarString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(DateLayout)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func stringList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, scalarString(item))
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	default:
		return []string{scalarString(v)}
	}
}
