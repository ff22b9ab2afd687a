package ast

import (
	"fmt"

	"github.com/karupanerura/lox-expression/internal/token"
)

// Expr is a node of an expression tree. The set of node types is closed:
// only the types in this package implement it.
type Expr interface {
	exprNode()
}

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

type Grouping struct {
	Inner Expr
}

type Unary struct {
	Operator token.Token
	Operand  Expr
}

type LiteralKind int

const (
	BoolLiteral LiteralKind = iota
	NilLiteral
	NumberLiteral
	StringLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case BoolLiteral:
		return "Bool"
	case NilLiteral:
		return "Nil"
	case NumberLiteral:
		return "Number"
	case StringLiteral:
		return "String"
	default:
		return fmt.Sprintf("LiteralKind(%d)", int(k))
	}
}

// Literal keeps the source token; the value is decoded from it on demand.
type Literal struct {
	Kind  LiteralKind
	Token token.Token
}

func (*Binary) exprNode()   {}
func (*Grouping) exprNode() {}
func (*Unary) exprNode()    {}
func (*Literal) exprNode()  {}

var (
	_ Expr = (*Binary)(nil)
	_ Expr = (*Grouping)(nil)
	_ Expr = (*Unary)(nil)
	_ Expr = (*Literal)(nil)
)
