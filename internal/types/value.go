package types

import (
	"math"
	"strconv"
)

type Kind int

const (
	NilKind Kind = iota
	BoolKind
	StringKind
	NumberKind
)

func (k Kind) String() string {
	switch k {
	case NilKind:
		return "Nil"
	case BoolKind:
		return "Bool"
	case StringKind:
		return "String"
	case NumberKind:
		return "Number"
	default:
		return "Unknown"
	}
}

// Value is a runtime value. Only Nil, Bool, String and Number implement it.
type Value interface {
	Kind() Kind
	String() string
	value()
}

type Nil struct{}

type Bool bool

type String string

type Number float64

func (Nil) Kind() Kind    { return NilKind }
func (Bool) Kind() Kind   { return BoolKind }
func (String) Kind() Kind { return StringKind }
func (Number) Kind() Kind { return NumberKind }

func (Nil) value()    {}
func (Bool) value()   {}
func (String) value() {}
func (Number) value() {}

func (Nil) String() string {
	return "Nil"
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (s String) String() string {
	return string(s)
}

func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Truthy reports the truthiness of v: only Nil and false are falsy.
func Truthy(v Value) bool {
	switch vv := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(vv)
	default:
		return true
	}
}

// Equal compares per variant. Values of different variants are never equal
// and numbers follow IEEE 754, so NaN is not equal to itself.
func Equal(a, b Value) bool {
	switch lhs := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		rhs, ok := b.(Bool)
		return ok && lhs == rhs
	case String:
		rhs, ok := b.(String)
		return ok && lhs == rhs
	case Number:
		rhs, ok := b.(Number)
		return ok && lhs == rhs
	default:
		return false
	}
}

// Interface converts v into a plain Go value suitable for JSON encoding.
// Non-finite numbers have no JSON form and are returned as their rendering.
func Interface(v Value) any {
	switch vv := v.(type) {
	case Bool:
		return bool(vv)
	case String:
		return string(vv)
	case Number:
		if f := float64(vv); math.IsInf(f, 0) || math.IsNaN(f) {
			return vv.String()
		}
		return float64(vv)
	default:
		return nil
	}
}
