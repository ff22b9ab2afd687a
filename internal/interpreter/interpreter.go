package interpreter

import (
	"fmt"

	"github.com/karupanerura/lox-expression/internal/ast"
	"github.com/karupanerura/lox-expression/internal/token"
	"github.com/karupanerura/lox-expression/internal/types"
	"github.com/samber/lo"
)

const (
	numberOperandsMessage     = "invalid operand type: a numerical value is expected"
	numberOrStringOperandsMsg = "operands must be two numbers or two strings"
)

// Interpreter evaluates expression trees. It holds no state between calls.
type Interpreter struct {
	walker treeWalker
}

func New() *Interpreter {
	return &Interpreter{}
}

// Evaluate computes the value of expr. The first runtime error aborts the
// whole evaluation and is returned as a *types.Error carrying the operator
// token.
func (i *Interpreter) Evaluate(expr ast.Expr) (types.Value, error) {
	return ast.Walk[types.Value](i.walker, expr)
}

type treeWalker struct{}

var _ ast.Visitor[types.Value] = treeWalker{}

func (w treeWalker) VisitBinary(expr *ast.Binary) (types.Value, error) {
	left, err := ast.Walk[types.Value](w, expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := ast.Walk[types.Value](w, expr.Right)
	if err != nil {
		return nil, err
	}

	op := expr.Operator
	switch op.Kind {
	case token.EqualEqual:
		return types.Bool(types.Equal(left, right)), nil
	case token.BangEqual:
		return types.Bool(!types.Equal(left, right)), nil
	case token.Plus:
		switch lhs := left.(type) {
		case types.Number:
			if rhs, ok := right.(types.Number); ok {
				return lhs + rhs, nil
			}
		case types.String:
			if rhs, ok := right.(types.String); ok {
				return lhs + rhs, nil
			}
		}
		return nil, operandError(op, numberOrStringOperandsMsg, left, right)
	}

	lhs, lok := left.(types.Number)
	rhs, rok := right.(types.Number)
	if !lok || !rok {
		return nil, operandError(op, numberOperandsMessage, left, right)
	}
	switch op.Kind {
	case token.Minus:
		return lhs - rhs, nil
	case token.Star:
		return lhs * rhs, nil
	case token.Slash:
		// IEEE 754 semantics: x/0 is a signed infinity, 0/0 is NaN
		return lhs / rhs, nil
	case token.Greater:
		return types.Bool(lhs > rhs), nil
	case token.GreaterEqual:
		return types.Bool(lhs >= rhs), nil
	case token.Less:
		return types.Bool(lhs < rhs), nil
	case token.LessEqual:
		return types.Bool(lhs <= rhs), nil
	default:
		return nil, types.NewError(types.TypeErrorTag, op, "operator not supported: %q", op.Lexeme)
	}
}

func (w treeWalker) VisitGrouping(expr *ast.Grouping) (types.Value, error) {
	return ast.Walk[types.Value](w, expr.Inner)
}

func (w treeWalker) VisitLiteral(expr *ast.Literal) (types.Value, error) {
	switch expr.Kind {
	case ast.NilLiteral:
		return types.Nil{}, nil
	case ast.BoolLiteral:
		return types.Bool(expr.Token.Kind == token.True), nil
	case ast.StringLiteral:
		return types.String(expr.Token.Text), nil
	case ast.NumberLiteral:
		return types.Number(expr.Token.Number), nil
	default:
		panic(fmt.Sprintf("should not reach here: unknown literal kind %v", expr.Kind))
	}
}

func (w treeWalker) VisitUnary(expr *ast.Unary) (types.Value, error) {
	operand, err := ast.Walk[types.Value](w, expr.Operand)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Kind {
	case token.Bang:
		return types.Bool(!types.Truthy(operand)), nil
	case token.Minus:
		if n, ok := operand.(types.Number); ok {
			return -n, nil
		}
		return nil, operandError(expr.Operator, numberOperandsMessage, operand)
	default:
		return nil, types.NewError(types.TypeErrorTag, expr.Operator, "operator not supported: %q", expr.Operator.Lexeme)
	}
}

func operandError(op token.Token, message string, operands ...types.Value) *types.Error {
	e := types.NewError(types.TypeErrorTag, op, "%s", message)
	e.Extra = map[string]any{
		"operator": op.Lexeme,
		"operands": lo.Map(operands, func(v types.Value, _ int) string { return v.Kind().String() }),
	}
	return e
}
