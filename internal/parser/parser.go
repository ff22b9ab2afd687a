package parser

import (
	"github.com/karupanerura/lox-expression/internal/ast"
	"github.com/karupanerura/lox-expression/internal/token"
	"github.com/karupanerura/lox-expression/internal/types"
	"github.com/samber/lo"
)

var (
	equalityOperators   = []token.Kind{token.BangEqual, token.EqualEqual}
	comparisonOperators = []token.Kind{token.Greater, token.GreaterEqual, token.Less, token.LessEqual}
	termOperators       = []token.Kind{token.Minus, token.Plus}
	factorOperators     = []token.Kind{token.Slash, token.Star}
	unaryOperators      = []token.Kind{token.Bang, token.Minus}
)

type parser struct {
	tokens  []token.Token
	current int
}

// Parse builds one expression tree from tokens. The first problem aborts the
// parse and is reported as a *types.Error carrying the offending token.
//
// tokens must end with a token.EOF, as the lexer guarantees; a missing one is
// treated as if it were there.
func Parse(tokens []token.Token) (ast.Expr, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) != 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.Token{Kind: token.EOF, Line: line})
	}

	p := &parser{tokens: tokens}
	if p.check(token.EOF) {
		return nil, types.NewError(types.ParseErrorTag, p.peek(), "no expression found")
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.check(token.EOF) {
		return nil, types.NewError(types.ParseErrorTag, p.peek(), "unexpected token after expression: %q", p.peek().Lexeme)
	}
	return expr, nil
}

func (p *parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *parser) advance() token.Token {
	tok := p.tokens[p.current]
	if tok.Kind != token.EOF {
		p.current++
	}
	return tok
}

// match consumes the next token when it is one of kinds.
func (p *parser) match(kinds []token.Kind) (token.Token, bool) {
	if lo.Contains(kinds, p.peek().Kind) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *parser) expression() (ast.Expr, error) {
	return p.equality()
}

func (p *parser) equality() (ast.Expr, error) {
	return p.binary(equalityOperators, p.comparison)
}

func (p *parser) comparison() (ast.Expr, error) {
	return p.binary(comparisonOperators, p.term)
}

func (p *parser) term() (ast.Expr, error) {
	return p.binary(termOperators, p.factor)
}

func (p *parser) factor() (ast.Expr, error) {
	return p.binary(factorOperators, p.unary)
}

// binary parses one left-associative precedence level.
func (p *parser) binary(operators []token.Kind, operand func() (ast.Expr, error)) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.match(operators)
		if !ok {
			return expr, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
}

func (p *parser) unary() (ast.Expr, error) {
	if op, ok := p.match(unaryOperators); ok {
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: op, Operand: operand}, nil
	}
	return p.primary()
}

func (p *parser) primary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.True, token.False:
		return &ast.Literal{Kind: ast.BoolLiteral, Token: p.advance()}, nil
	case token.Nil:
		return &ast.Literal{Kind: ast.NilLiteral, Token: p.advance()}, nil
	case token.String:
		return &ast.Literal{Kind: ast.StringLiteral, Token: p.advance()}, nil
	case token.Number:
		return &ast.Literal{Kind: ast.NumberLiteral, Token: p.advance()}, nil
	case token.LeftParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if !p.check(token.RightParen) {
			return nil, types.NewError(types.ParseErrorTag, p.peek(), "expected ')' after expression")
		}
		p.advance()
		return &ast.Grouping{Inner: inner}, nil
	case token.Illegal:
		return nil, types.NewError(types.SyntaxErrorTag, tok, "%s", tok.Text)
	default:
		return nil, types.NewError(types.ParseErrorTag, tok, "expected expression")
	}
}
