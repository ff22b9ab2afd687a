package manifest

import (
	"context"
	"errors"

	"github.com/karupanerura/lox-expression/internal/expression"
	"github.com/karupanerura/lox-expression/internal/types"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Manifest is an ordered list of independent expressions to evaluate.
type Manifest struct {
	Cases []Case
}

type Case struct {
	Name       string  `mapstructure:"name"`
	Expression string  `mapstructure:"expression"`
	Expect     *string `mapstructure:"expect"`
}

type Result struct {
	Name       string  `json:"name"`
	Expression string  `json:"expression"`
	Passed     bool    `json:"passed"`
	Type       string  `json:"type,omitempty"`
	Value      any     `json:"value,omitempty"`
	Rendered   string  `json:"rendered,omitempty"`
	Expect     *string `json:"expect,omitempty"`
	Error      any     `json:"error,omitempty"`
}

type Report struct {
	Cases  []Result `json:"cases"`
	Passed int      `json:"passed"`
	Failed int      `json:"failed"`
}

// Run evaluates every case with at most parallelism cases in flight.
// Results keep the manifest order.
func (m *Manifest) Run(ctx context.Context, parallelism int) (*Report, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]Result, len(m.Cases))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for i, c := range m.Cases {
		i, c := i, c
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.Run()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	passed := len(lo.Filter(results, func(r Result, _ int) bool { return r.Passed }))
	return &Report{
		Cases:  results,
		Passed: passed,
		Failed: len(results) - passed,
	}, nil
}

// Run compiles and evaluates the case on its own private tree.
func (c Case) Run() Result {
	r := Result{
		Name:       c.Name,
		Expression: c.Expression,
		Expect:     c.Expect,
	}

	v, err := expression.NewEvaluator().Evaluate(c.Expression)
	if err != nil {
		var exception types.Exception
		if errors.As(err, &exception) {
			r.Error = exception.Exception()
		} else {
			r.Error = err.Error()
		}
		return r
	}

	r.Type = v.Kind().String()
	r.Value = types.Interface(v)
	r.Rendered = v.String()
	r.Passed = c.Expect == nil || *c.Expect == r.Rendered
	return r
}
