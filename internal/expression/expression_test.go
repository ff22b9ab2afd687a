package expression_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/lox-expression/internal/expression"
	"github.com/karupanerura/lox-expression/internal/token"
	"github.com/karupanerura/lox-expression/internal/types"
)

func TestCompileAndEvaluate(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source                string
		expected              types.Value
		expectToBeParseErr    bool
		expectToBeEvaluateErr bool
		debug                 bool
	}{
		{
			source:             "",
			expectToBeParseErr: true,
		},
		{
			source:             "+",
			expectToBeParseErr: true,
		},
		{
			source:             "1 +",
			expectToBeParseErr: true,
		},
		{
			source:             "()",
			expectToBeParseErr: true,
		},
		{
			source:             "((1)",
			expectToBeParseErr: true,
		},
		{
			source:             "(1))",
			expectToBeParseErr: true,
		},
		{
			source:             "x",
			expectToBeParseErr: true,
		},
		{
			source:             "1 $ 2",
			expectToBeParseErr: true,
		},
		{
			source:             "1 and 2",
			expectToBeParseErr: true,
		},
		{
			source:   "true",
			expected: types.Bool(true),
		},
		{
			source:   "nil",
			expected: types.Nil{},
		},
		{
			source:   "((false))",
			expected: types.Bool(false),
		},
		{
			source:   "1+2*3",
			expected: types.Number(7),
		},
		{
			source:   "8-4-2",
			expected: types.Number(2),
		},
		{
			source:   "(1+2)*3",
			expected: types.Number(9),
		},
		{
			source:   `"a"+"b"`,
			expected: types.String("ab"),
		},
		{
			source:                `1+"a"`,
			expectToBeEvaluateErr: true,
		},
		{
			source:   "!nil",
			expected: types.Bool(true),
		},
		{
			source:   "!0",
			expected: types.Bool(false),
		},
		{
			source:   "!false",
			expected: types.Bool(true),
		},
		{
			source:   `1=="1"`,
			expected: types.Bool(false),
		},
		{
			source:   "1/0",
			expected: types.Number(math.Inf(1)),
		},
		{
			source:   "// leading comment\n1 + 1 // trailing comment",
			expected: types.Number(2),
		},
		{
			source:   "1 + 2 * 3 == 7",
			expected: types.Bool(true),
			debug:    true,
		},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			compile := expression.Compile
			if tt.debug {
				compile = expression.CompileWithDebugOutput
			}

			expr, err := compile(tt.source)
			if err != nil {
				if tt.expectToBeParseErr {
					t.Logf("expected parse error: %v", err)
					return
				}
				t.Fatal(err)
			}
			if tt.expectToBeParseErr {
				t.Error("should be parse error")
				return
			}

			ret, err := expression.NewEvaluator().EvaluateValue(expr)
			if err != nil {
				if tt.expectToBeEvaluateErr {
					t.Logf("expected evaluate error: %v", err)
					return // ok
				}
				t.Fatal(err)
			}
			if tt.expectToBeEvaluateErr {
				t.Error("should be evaluate error")
				return
			}

			if diff := cmp.Diff(tt.expected, ret); diff != "" {
				t.Errorf("unexpected value (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileKeepsTokens(t *testing.T) {
	t.Parallel()

	expr, err := expression.Compile("1 // one\n")
	if err != nil {
		t.Fatal(err)
	}
	if expr.String() != "1 // one\n" {
		t.Errorf("unexpected source: %q", expr.String())
	}

	expected := []token.Token{
		{Kind: token.Number, Lexeme: "1", Line: 1, Number: 1},
		{Kind: token.EOF, Line: 2},
	}
	if diff := cmp.Diff(expected, expr.Tokens); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestZeroEvaluator(t *testing.T) {
	t.Parallel()

	var e expression.Evaluator
	ret, err := e.Evaluate("2 * 21")
	if err != nil {
		t.Fatal(err)
	}
	if ret != types.Number(42) {
		t.Errorf("expect to 42 but got %v", ret)
	}
}

func FuzzCompile(f *testing.F) {
	for _, seed := range []string{"", "1+2*3", `"a" + 1`, "!(nil)", "((1)"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, source string) {
		expr, err := expression.Compile(source)
		if err != nil {
			t.Logf("INVALID: %q (%v)", source, err)
			return
		}

		if _, err := expression.NewEvaluator().EvaluateValue(expr); err != nil {
			t.Logf("FAILED: %q (%v)", source, err)
			return
		}
		t.Logf("PASS: %q", source)
	})
}
