// Package rules holds the per-step business rule contract: a rule inspects
// the form and returns violations, and a Set dispatches rules by step index
// with an explicit no-op default.
package rules

import (
	"sort"
	"time"

	"github.com/goliatone/go-formwizard/pkg/form"
)

// Entries reports the live indices of a repeatable kind.
type Entries interface {
	Indices(kind string) []int
}

// Input is what a rule sees: field access, the reference day and, when
// available, the live repeatable entries.
type Input struct {
	Fields  form.Accessor
	Today   time.Time
	Entries Entries
}

// Indices returns the live indices of kind, or nil without an entry source.
func (in Input) Indices(kind string) []int {
	if in.Entries == nil {
		return nil
	}
	return in.Entries.Indices(kind)
}

// Violation is a business-rule failure: a user-facing message plus the fields
// to flag.
type Violation struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// Violate builds a Violation.
func Violate(message string, fields ...string) Violation {
	return Violation{Message: message, Fields: fields}
}

// Rule evaluates one step.
type Rule func(Input) []Violation

// None is the rule of steps without business constraints.
func None(Input) []Violation { return nil }

// Set maps step indices to rules.
type Set map[int]Rule

// Lookup returns the rule for step, or None when the step has none.
func (s Set) Lookup(step int) Rule {
	if rule, ok := s[step]; ok && rule != nil {
		return rule
	}
	return None
}

// Steps lists the step indices with a registered rule, ascending.
func (s Set) Steps() []int {
	out := make([]int, 0, len(s))
	for step := range s {
		out = append(out, step)
	}
	sort.Ints(out)
	return out
}

// Merge returns a copy of s with other's entries layered on top.
func (s Set) Merge(other Set) Set {
	out := make(Set, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
