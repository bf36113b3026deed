// Package cel compiles the item predicates users can set per source.
package cel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"
)

// Evaluator compiles CEL expressions over an item bound to "_".
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the string, list and math extensions.
func NewEvaluator() (*Evaluator, error) {
	env, err := newStandardCELEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// GetEnvironment returns the CEL environment for introspection.
func (e *Evaluator) GetEnvironment() *cel.Env {
	return e.env
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 4+len(opts))
	allOpts = append(allOpts,
		cel.Variable("_", cel.MapType(cel.StringType, cel.DynType)),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Predicate is a compiled boolean expression. A nil Predicate accepts
// everything.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile parses and checks expr. An empty expression yields a nil Predicate.
func (e *Evaluator) Compile(expr string) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(types.BoolType) && !out.IsExactType(types.DynType) {
		return nil, fmt.Errorf("filter %q must return bool, got %s", expr, out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// Match evaluates p against attrs.
func (p *Predicate) Match(attrs map[string]any) (bool, error) {
	if p == nil {
		return true, nil
	}
	out, _, err := p.prg.Eval(map[string]any{"_": attrs})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %s, not bool", p.expr, out.Type())
	}
	return bool(b), nil
}

// Attributed is implemented by items that expose fields to filters.
type Attributed interface {
	Attributes() map[string]any
}

// Filter keeps the items p accepts, in order. Items whose evaluation fails
// are dropped and their errors joined.
func Filter[T Attributed](p *Predicate, items []T) ([]T, error) {
	if p == nil {
		return items, nil
	}
	kept := make([]T, 0, len(items))
	var errs []error
	for _, it := range items {
		ok, err := p.Match(it.Attributes())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			kept = append(kept, it)
		}
	}
	return kept, errors.Join(errs...)
}
