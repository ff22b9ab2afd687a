package printer

import (
	"fmt"
	"strings"

	"github.com/karupanerura/lox-expression/internal/ast"
)

type Style string

const (
	// InfixStyle fully parenthesizes every operation in source order. The
	// output parses back to an equivalent tree.
	InfixStyle Style = "infix"
	// PrefixStyle renders operations as (op operand...), Lisp style.
	PrefixStyle Style = "prefix"
)

func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case InfixStyle, PrefixStyle:
		return Style(s), nil
	default:
		return "", fmt.Errorf("unknown print style: %q", s)
	}
}

// Print renders expr in the given style.
func Print(expr ast.Expr, style Style) string {
	var v ast.Visitor[string]
	switch style {
	case PrefixStyle:
		v = prefixPrinter{}
	default:
		v = infixPrinter{}
	}
	s, _ := ast.Walk(v, expr)
	return s
}

func Infix(expr ast.Expr) string {
	return Print(expr, InfixStyle)
}

func Prefix(expr ast.Expr) string {
	return Print(expr, PrefixStyle)
}

type infixPrinter struct{}

func (p infixPrinter) VisitBinary(expr *ast.Binary) (string, error) {
	left, _ := ast.Walk[string](p, expr.Left)
	right, _ := ast.Walk[string](p, expr.Right)

	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(left)
	b.WriteByte(' ')
	b.WriteString(expr.Operator.Lexeme)
	b.WriteByte(' ')
	b.WriteString(right)
	b.WriteByte(')')
	return b.String(), nil
}

func (p infixPrinter) VisitGrouping(expr *ast.Grouping) (string, error) {
	inner, _ := ast.Walk[string](p, expr.Inner)
	return "(" + inner + ")", nil
}

func (p infixPrinter) VisitLiteral(expr *ast.Literal) (string, error) {
	return expr.Token.Lexeme, nil
}

func (p infixPrinter) VisitUnary(expr *ast.Unary) (string, error) {
	operand, _ := ast.Walk[string](p, expr.Operand)
	return "(" + expr.Operator.Lexeme + operand + ")", nil
}

type prefixPrinter struct{}

func (p prefixPrinter) VisitBinary(expr *ast.Binary) (string, error) {
	left, _ := ast.Walk[string](p, expr.Left)
	right, _ := ast.Walk[string](p, expr.Right)
	return fmt.Sprintf("(%s %s %s)", expr.Operator.Lexeme, left, right), nil
}

func (p prefixPrinter) VisitGrouping(expr *ast.Grouping) (string, error) {
	inner, _ := ast.Walk[string](p, expr.Inner)
	return "(" + inner + ")", nil
}

func (p prefixPrinter) VisitLiteral(expr *ast.Literal) (string, error) {
	return expr.Token.Lexeme, nil
}

func (p prefixPrinter) VisitUnary(expr *ast.Unary) (string, error) {
	operand, _ := ast.Walk[string](p, expr.Operand)
	return fmt.Sprintf("(%s %s)", expr.Operator.Lexeme, operand), nil
}
