package ast

import "fmt"

// Visitor handles each node type of an expression tree. Implementations
// recurse into children by calling Walk again.
type Visitor[T any] interface {
	VisitBinary(*Binary) (T, error)
	VisitGrouping(*Grouping) (T, error)
	VisitLiteral(*Literal) (T, error)
	VisitUnary(*Unary) (T, error)
}

// Walk dispatches expr to the handler of v matching its node type.
func Walk[T any](v Visitor[T], expr Expr) (T, error) {
	switch e := expr.(type) {
	case *Binary:
		return v.VisitBinary(e)
	case *Grouping:
		return v.VisitGrouping(e)
	case *Literal:
		return v.VisitLiteral(e)
	case *Unary:
		return v.VisitUnary(e)
	default:
		panic(fmt.Sprintf("should not reach here: unknown expression node %T", expr))
	}
}
