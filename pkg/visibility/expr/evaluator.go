package expr

import (
	"fmt"
	"strings"
	"sync"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-formwizard/pkg/visibility"
)

// MaxNodes bounds the AST size of a visibility rule.
const MaxNodes = 100

// Evaluator runs visibility rules written in expr-lang syntax:
//
//   - comparisons: `passport_has == "yes"`, `children_count > 0`
//   - membership: `recognition_status in ["yes", "in progress"]`
//   - composition: `a == "yes" && b != "no"`, `!has_spouse`
//
// Trigger values are top-level identifiers; visibility.Context.Extras is
// reachable under `extras`. Unknown identifiers evaluate to nil. Compiled
// programs are cached per rule.
type Evaluator struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

var _ visibility.Evaluator = (*Evaluator)(nil)

func New() *Evaluator {
	return &Evaluator{programs: make(map[string]*vm.Program)}
}

// Check compiles rule without running it.
func (e *Evaluator) Check(rule string) error {
	if strings.TrimSpace(rule) == "" {
		return nil
	}
	_, err := e.program(rule)
	return err
}

// Eval implements visibility.Evaluator. An empty rule is always visible and a
// nil result counts as hidden.
func (e *Evaluator) Eval(section, rule string, ctx visibility.Context) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}

	program, err := e.program(trimmed)
	if err != nil {
		return false, err
	}

	env := make(map[string]any, len(ctx.Values)+1)
	for k, v := range ctx.Values {
		env[k] = v
	}
	if ctx.Extras != nil {
		env["extras"] = ctx.Extras
	}

	output, err := exprlang.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("expr: evaluate %q for %s: %w", trimmed, section, err)
	}
	switch v := output.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expr: rule %q for %s returned %T, want bool", trimmed, section, output)
	}
}

func (e *Evaluator) program(rule string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[rule]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if program, ok := e.programs[rule]; ok {
		return program, nil
	}
	program, err := exprlang.Compile(rule,
		exprlang.AllowUndefinedVariables(),
		exprlang.MaxNodes(MaxNodes),
	)
	if err != nil {
		return nil, fmt.Errorf("expr: compile %q: %w", rule, err)
	}
	e.programs[rule] = program
	return program, nil
}
