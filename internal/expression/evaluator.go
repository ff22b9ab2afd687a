package expression

import (
	"github.com/karupanerura/lox-expression/internal/interpreter"
	"github.com/karupanerura/lox-expression/internal/types"
)

type Evaluator struct {
	interpreter *interpreter.Interpreter
}

func NewEvaluator() *Evaluator {
	return &Evaluator{interpreter: interpreter.New()}
}

func (e *Evaluator) EvaluateValue(expr *Expr) (types.Value, error) {
	ip := e.interpreter
	if ip == nil {
		ip = interpreter.New()
	}
	return ip.Evaluate(expr.Tree)
}

// Evaluate compiles and evaluates source in one step.
func (e *Evaluator) Evaluate(source string) (types.Value, error) {
	expr, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return e.EvaluateValue(expr)
}
