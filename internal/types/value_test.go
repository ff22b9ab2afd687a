package types_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/lox-expression/internal/token"
	"github.com/karupanerura/lox-expression/internal/types"
)

func TestValueString(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		value    types.Value
		expected string
	}{
		{value: types.Nil{}, expected: "Nil"},
		{value: types.Bool(true), expected: "true"},
		{value: types.Bool(false), expected: "false"},
		{value: types.String("raw \"content\""), expected: `raw "content"`},
		{value: types.String(""), expected: ""},
		{value: types.Number(7), expected: "7"},
		{value: types.Number(-2.5), expected: "-2.5"},
		{value: types.Number(0.1 + 0.2), expected: "0.30000000000000004"},
		{value: types.Number(1e21), expected: "1000000000000000000000"},
		{value: types.Number(math.Inf(1)), expected: "inf"},
		{value: types.Number(math.Inf(-1)), expected: "-inf"},
		{value: types.Number(math.NaN()), expected: "NaN"},
	} {
		if got := tt.value.String(); got != tt.expected {
			t.Errorf("%#v: expect to %q but got %q", tt.value, tt.expected, got)
		}
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		value    types.Value
		expected bool
	}{
		{value: types.Nil{}, expected: false},
		{value: types.Bool(false), expected: false},
		{value: types.Bool(true), expected: true},
		{value: types.Number(0), expected: true},
		{value: types.String(""), expected: true},
	} {
		if got := types.Truthy(tt.value); got != tt.expected {
			t.Errorf("%#v: expect to %v but got %v", tt.value, tt.expected, got)
		}
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		a, b     types.Value
		expected bool
	}{
		{a: types.Nil{}, b: types.Nil{}, expected: true},
		{a: types.Nil{}, b: types.Bool(false), expected: false},
		{a: types.Number(1), b: types.String("1"), expected: false},
		{a: types.Number(0), b: types.Bool(false), expected: false},
		{a: types.String("a"), b: types.String("a"), expected: true},
		{a: types.Number(1), b: types.Number(1), expected: true},
		{a: types.Number(math.NaN()), b: types.Number(math.NaN()), expected: false},
		{a: types.Bool(true), b: types.Bool(true), expected: true},
	} {
		if got := types.Equal(tt.a, tt.b); got != tt.expected {
			t.Errorf("Equal(%#v, %#v): expect to %v but got %v", tt.a, tt.b, tt.expected, got)
		}
	}
}

func TestInterface(t *testing.T) {
	t.Parallel()

	got := []any{
		types.Interface(types.Nil{}),
		types.Interface(types.Bool(true)),
		types.Interface(types.String("s")),
		types.Interface(types.Number(1.5)),
		types.Interface(types.Number(math.Inf(1))),
	}
	expected := []any{nil, true, "s", 1.5, "inf"}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected values (-want +got):\n%s", diff)
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	tok := token.Token{Kind: token.Plus, Lexeme: "+", Line: 3}
	e := types.NewError(types.TypeErrorTag, tok, "bad operand %d", 1)
	e.Extra = map[string]any{"operator": "+"}

	if got := e.Error(); got != "TypeError: bad operand 1" {
		t.Errorf("unexpected Error(): %q", got)
	}
	if got := e.Report(); got != "bad operand 1\n[line 3]" {
		t.Errorf("unexpected Report(): %q", got)
	}

	var exception types.Exception
	if !errors.As(fmt.Errorf("wrapped: %w", e), &exception) {
		t.Fatal("should be an exception")
	}
	expected := map[string]any{
		"tags":     []any{types.TypeErrorTag},
		"message":  "bad operand 1",
		"line":     3,
		"lexeme":   "+",
		"operator": "+",
	}
	if diff := cmp.Diff(expected, exception.Exception()); diff != "" {
		t.Errorf("unexpected exception (-want +got):\n%s", diff)
	}
}
