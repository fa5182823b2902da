// Package visibility decides which conditional sections of a form are shown.
// A section is visible while the rule bound to its trigger field holds;
// fields inside hidden sections are skipped by the required check.
package visibility

// Evaluator determines whether a section should be visible based on a rule
// string and the trigger values in ctx.
type Evaluator interface {
	Eval(section, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the trigger values
// keyed by field name while Extras allows callers to inject arbitrary context
// such as feature flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(section, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(section, rule string, ctx Context) (bool, error) {
	return fn(section, rule, ctx)
}
