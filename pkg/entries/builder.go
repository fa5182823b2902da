// Package entries builds repeatable field groups (children, work experience,
// education) from the templates of a form definition.
//
// Indices come from a per-kind counter: every Add allocates counter+1 and
// Remove never decrements it, so removed indices leave gaps instead of being
// reused. Renumbering would rename the field keys a consumer already relies on.
// Span is the exception: entries driven by a declared count are kept at
// exactly 1..n, because consumers read them back by that count.
package entries

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/visibility"
)

// Repeatable kinds of the career application.
const (
	Child      = "child"
	Experience = "experience"
	Education  = "education"
)

// ErrUnknownEntry is returned when removing an index that is not live.
var ErrUnknownEntry = errors.New("entries: unknown entry")

// Form is the form surface entries are added to and removed from.
type Form interface {
	form.Accessor
	Add(fields ...form.Field) error
	RemoveGroup(group string) int
	SectionVisible(id string) bool
}

// Toggles keeps the visibility conditions that entries bring along.
type Toggles interface {
	Register(conditions ...form.Condition)
	Unregister(section string) bool
	Changed(field string) ([]visibility.Change, error)
}

// Builder allocates and tracks repeatable entries.
type Builder struct {
	def      *form.Definition
	form     Form
	toggles  Toggles
	counters map[string]int
	live     map[string][]int
}

// New returns a builder whose counters start at the initial entry count of
// every repeatable, matching what Definition.Build instantiated. toggles may
// be nil when entries carry no conditional sections.
func New(def *form.Definition, f Form, toggles Toggles) *Builder {
	b := &Builder{
		def:      def,
		form:     f,
		toggles:  toggles,
		counters: make(map[string]int),
		live:     make(map[string][]int),
	}
	if def != nil {
		for _, rep := range def.Repeatables {
			b.counters[rep.Kind] = rep.Initial
			for i := 1; i <= rep.Initial; i++ {
				b.live[rep.Kind] = append(b.live[rep.Kind], i)
			}
		}
	}
	return b
}

// Add instantiates the next entry of kind and returns its index.
func (b *Builder) Add(kind string) (int, error) {
	if _, ok := b.def.Repeatable(kind); !ok {
		return 0, fmt.Errorf("entries: unknown repeatable %q", kind)
	}
	index := b.counters[kind] + 1
	if err := b.insert(kind, index); err != nil {
		return 0, err
	}
	return index, nil
}

// AddChild appends a child entry.
func (b *Builder) AddChild() (int, error) { return b.Add(Child) }

// AddExperience appends a work-experience entry.
func (b *Builder) AddExperience() (int, error) { return b.Add(Experience) }

// AddEducation appends an education entry.
func (b *Builder) AddEducation() (int, error) { return b.Add(Education) }

// Remove deletes entry index of kind. The counter is left untouched.
func (b *Builder) Remove(kind string, index int) error {
	live := b.live[kind]
	pos := sort.SearchInts(live, index)
	if pos >= len(live) || live[pos] != index {
		return fmt.Errorf("%w: %s %d", ErrUnknownEntry, kind, index)
	}

	b.form.RemoveGroup(form.Group(kind, index))
	if b.toggles != nil {
		_, conditions, err := b.def.Entry(kind, index)
		if err != nil {
			return err
		}
		for _, c := range conditions {
			b.toggles.Unregister(c.Section)
		}
	}
	b.live[kind] = append(live[:pos:pos], live[pos+1:]...)
	return nil
}

// Indices returns the live indices of kind in ascending order.
func (b *Builder) Indices(kind string) []int {
	return append([]int(nil), b.live[kind]...)
}

// Count returns the number of live entries of kind.
func (b *Builder) Count(kind string) int {
	return len(b.live[kind])
}

// Next returns the index the next Add of kind would allocate.
func (b *Builder) Next(kind string) int {
	return b.counters[kind] + 1
}

// Resize adds or removes entries until kind has n live entries. Shrinking
// drops the highest indices first.
func (b *Builder) Resize(kind string, n int) error {
	if n < 0 {
		n = 0
	}
	for b.Count(kind) < n {
		if _, err := b.Add(kind); err != nil {
			return err
		}
	}
	for b.Count(kind) > n {
		live := b.live[kind]
		if err := b.Remove(kind, live[len(live)-1]); err != nil {
			return err
		}
	}
	return nil
}

// Span makes the live entries of kind exactly 1..n and resets the counter to
// n. Entries already inside that range keep their values; the rest are
// removed and missing indices are filled in.
func (b *Builder) Span(kind string, n int) error {
	if _, ok := b.def.Repeatable(kind); !ok {
		return fmt.Errorf("entries: unknown repeatable %q", kind)
	}
	if n < 0 {
		n = 0
	}
	live := b.Indices(kind)
	for i := len(live) - 1; i >= 0; i-- {
		if live[i] <= n {
			continue
		}
		if err := b.Remove(kind, live[i]); err != nil {
			return err
		}
	}
	for index := 1; index <= n; index++ {
		if b.isLive(kind, index) {
			continue
		}
		if err := b.insert(kind, index); err != nil {
			return err
		}
	}
	b.counters[kind] = n
	return nil
}

// Restore instantiates every entry referenced by a field name in values,
// keeping the referenced indices and moving counters past the highest one.
func (b *Builder) Restore(values map[string]any) error {
	if b.def == nil {
		return nil
	}
	for _, rep := range b.def.Repeatables {
		wanted := make(map[int]struct{})
		for name := range values {
			for _, template := range rep.Names() {
				if index, ok := form.MatchIndex(template, name); ok {
					wanted[index] = struct{}{}
				}
			}
		}
		indices := make([]int, 0, len(wanted))
		for index := range wanted {
			indices = append(indices, index)
		}
		sort.Ints(indices)
		for _, index := range indices {
			if b.isLive(rep.Kind, index) {
				continue
			}
			if err := b.insert(rep.Kind, index); err != nil {
				return err
			}
		}
	}
	return nil
}

// Prune drops the values of entries enclosed by a hidden section and of
// optional entries whose key field is blank.
func (b *Builder) Prune(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	if b.def == nil {
		return out
	}
	for _, rep := range b.def.Repeatables {
		hidden := !b.withinVisible(rep)
		if !hidden && !rep.Optional {
			continue
		}
		for _, index := range b.live[rep.Kind] {
			if !hidden {
				key, _ := out[rep.KeyName(index)].(string)
				if strings.TrimSpace(key) != "" {
					continue
				}
			}
			for _, template := range rep.Names() {
				delete(out, form.Indexed(template, index))
			}
		}
	}
	return out
}

func (b *Builder) withinVisible(rep form.RepeatableSpec) bool {
	for _, section := range rep.Within {
		if !b.form.SectionVisible(section) {
			return false
		}
	}
	return true
}

func (b *Builder) isLive(kind string, index int) bool {
	live := b.live[kind]
	pos := sort.SearchInts(live, index)
	return pos < len(live) && live[pos] == index
}

func (b *Builder) insert(kind string, index int) error {
	rep, _ := b.def.Repeatable(kind)
	fields, conditions, err := b.def.Entry(kind, index)
	if err != nil {
		return err
	}
	b.cloneOptions(rep, index, fields)
	if err := b.form.Add(fields...); err != nil {
		return fmt.Errorf("entries: add %s %d: %w", kind, index, err)
	}

	if b.toggles != nil && len(conditions) > 0 {
		b.toggles.Register(conditions...)
		var errs []error
		seen := make(map[string]struct{}, len(conditions))
		for _, c := range conditions {
			if _, done := seen[c.Trigger]; done {
				continue
			}
			seen[c.Trigger] = struct{}{}
			if _, err := b.toggles.Changed(c.Trigger); err != nil {
				errs = append(errs, err)
			}
		}
		if err := errors.Join(errs...); err != nil {
			return fmt.Errorf("entries: %s %d visibility: %w", kind, index, err)
		}
	}

	if index > b.counters[kind] {
		b.counters[kind] = index
	}
	live := append(b.live[kind], index)
	sort.Ints(live)
	b.live[kind] = live
	return nil
}

// cloneOptions copies the option set of the first entry onto the matching
// fields of a new entry, so catalogs edited on the template carry over.
func (b *Builder) cloneOptions(rep form.RepeatableSpec, index int, fields []form.Field) {
	if index == 1 {
		return
	}
	for _, template := range rep.CloneSources() {
		source, ok := b.form.Field(form.Indexed(template, 1))
		if !ok || len(source.Options) == 0 {
			continue
		}
		target := form.Indexed(template, index)
		for i := range fields {
			if fields[i].Name == target {
				fields[i].Options = append([]form.Option(nil), source.Options...)
			}
		}
	}
}
