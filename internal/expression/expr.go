package expression

import (
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/lox-expression/internal/ast"
	"github.com/karupanerura/lox-expression/internal/lexer"
	"github.com/karupanerura/lox-expression/internal/parser"
	"github.com/karupanerura/lox-expression/internal/printer"
	"github.com/karupanerura/lox-expression/internal/token"
)

const debugEnv = "LOX_EXPRESSION_DEBUG"

var compilerDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv(debugEnv)); v && err == nil {
		compilerDebugLog = true
	}
}

// Expr is a parsed expression together with the tokens it was built from.
type Expr struct {
	Source string
	Tokens []token.Token
	Tree   ast.Expr
}

func (e *Expr) String() string {
	return e.Source
}

// Compile scans and parses source into an expression tree.
func Compile(source string) (*Expr, error) {
	return compile(source, compilerDebugLog)
}

// CompileWithDebugOutput is Compile with token and tree dumps on the log.
func CompileWithDebugOutput(source string) (*Expr, error) {
	return compile(source, true)
}

func compile(source string, debug bool) (*Expr, error) {
	tokens := lexer.Scan(source)
	if debug {
		pp.Println(source)
		pp.Println(tokens)
	}

	tree, err := parser.Parse(tokens)
	if err != nil {
		if debug {
			log.Printf("parse failed: %v", err)
		}
		return nil, err
	}
	if debug {
		pp.Println(tree)
		log.Println(printer.Prefix(tree))
	}

	return &Expr{
		Source: source,
		Tokens: tokens,
		Tree:   tree,
	}, nil
}
