package schemadef

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reoring/kanon"
)

// checks attaches the node's check expressions as context-aware refinements,
// in document order after the built-in constraints.
func (l *loader) checks(n *node, s kanon.Schema) (kanon.Schema, error) {
	all := n.spec.Checks
	if n.spec.Check != "" {
		all = append([]Check{{Expr: n.spec.Check}}, all...)
	}
	for i, c := range all {
		if c.Expr == "" {
			return nil, fmt.Errorf("schemadef: %s: check %d has no expr", n.path, i)
		}
		prog, err := expr.Compile(c.Expr, expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("schemadef: %s: check %q: %w", n.path, c.Expr, err)
		}
		s = kanon.RefineContext(s, l.evaluator(prog, c.Expr), c.Message)
	}
	return s, nil
}

func (l *loader) evaluator(prog *vm.Program, src string) func(context.Context, any) error {
	return func(_ context.Context, v any) error {
		env := make(map[string]any, len(l.opts.Env)+1)
		maps.Copy(env, l.opts.Env)
		env["value"] = v
		out, err := expr.Run(prog, env)
		if err != nil {
			return fmt.Errorf("check %q: %w", src, err)
		}
		if ok, _ := out.(bool); !ok {
			return errors.New("check failed: " + src)
		}
		return nil
	}
}
