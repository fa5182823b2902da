// Package form models the application form the wizard drives: named,
// possibly repeated input elements grouped into addressable steps, with
// optional conditional sections and repeatable entry groups.
//
// Accessor is the read-only contract the validation core depends on. Memory
// implements it over an in-memory element list and additionally exposes the
// mutators hosts use to record answers (SetValue, Check, Attach, ...). Radio
// groups are stored the way a browser form stores them: one element per
// option, all sharing the group name.
//
// Definitions describe a form declaratively (YAML or JSON). Load and Parse
// read them, Definition.Validate checks structural invariants, and
// Definition.Build expands a definition into a Memory plus the visibility
// conditions its sections declare.
package form
