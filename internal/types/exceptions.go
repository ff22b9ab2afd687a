package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/karupanerura/lox-expression/internal/token"
	"github.com/samber/lo"
)

type ErrorTag string

const (
	SyntaxErrorTag ErrorTag = "SyntaxError"
	ParseErrorTag  ErrorTag = "ParseError"
	TypeErrorTag   ErrorTag = "TypeError"
)

type Exception interface {
	error
	Exception() any
}

// Error is a failure attributed to a source token: a lexical error surfaced
// by the parser, a parse error, or a runtime type error.
type Error struct {
	Tag   ErrorTag
	Token token.Token
	Err   error
	Extra map[string]any
}

var _ Exception = (*Error)(nil)

func NewError(tag ErrorTag, tok token.Token, format string, args ...any) *Error {
	return &Error{
		Tag:   tag,
		Token: tok,
		Err:   fmt.Errorf(format, args...),
	}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the diagnostic without the tag prefix.
func (e *Error) Message() string {
	if e.Err == nil {
		return string(e.Tag)
	}
	return e.Err.Error()
}

func (e *Error) Line() int {
	return e.Token.Line
}

// Report renders the message followed by the source line of the token.
func (e *Error) Report() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message(), e.Line())
}

func (e *Error) Exception() any {
	tags := []any{e.Tag}
	for err := e.Err; err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}

	o := map[string]any{
		"tags":    tags,
		"message": e.Message(),
		"line":    e.Line(),
		"lexeme":  e.Token.Lexeme,
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}
