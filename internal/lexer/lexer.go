package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/karupanerura/lox-expression/internal/token"
)

const (
	unterminatedStringMessage = "Unterminated string"
	invalidCharacterMessage   = "Invalid character"
	invalidNumberMessage      = "Failed to parse number"
)

type lexer struct {
	source string
	start  int
	index  int
	line   int
	tokens []token.Token
}

// Scan converts source into tokens in a single pass. It never fails: lexical
// problems become token.Illegal entries and scanning continues. The result
// always ends with exactly one token.EOF.
func Scan(source string) []token.Token {
	l := &lexer{
		source: source,
		line:   1,
	}
	for !l.isAtEnd() {
		l.start = l.index
		l.scanToken()
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Line: l.line})
	return l.tokens
}

func (l *lexer) isAtEnd() bool {
	return l.index >= len(l.source)
}

func (l *lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.index]
}

func (l *lexer) peekNext() byte {
	if l.index+1 >= len(l.source) {
		return 0
	}
	return l.source[l.index+1]
}

func (l *lexer) advanceOnMatch(c byte) bool {
	if l.isAtEnd() || l.source[l.index] != c {
		return false
	}
	l.index++
	return true
}

func (l *lexer) lexeme() string {
	return l.source[l.start:l.index]
}

func (l *lexer) emit(kind token.Kind) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: l.lexeme(), Line: l.line})
}

func (l *lexer) emitIllegal(message string) {
	l.tokens = append(l.tokens, token.Token{Kind: token.Illegal, Lexeme: l.lexeme(), Line: l.line, Text: message})
}

// emitEither picks the two-character kind when the next byte is '='.
func (l *lexer) emitEither(single, double token.Kind) {
	if l.advanceOnMatch('=') {
		l.emit(double)
	} else {
		l.emit(single)
	}
}

func (l *lexer) scanToken() {
	c := l.source[l.index]
	l.index++
	switch c {
	case '(':
		l.emit(token.LeftParen)
	case ')':
		l.emit(token.RightParen)
	case '{':
		l.emit(token.LeftBrace)
	case '}':
		l.emit(token.RightBrace)
	case ',':
		l.emit(token.Comma)
	case '.':
		l.emit(token.Dot)
	case '-':
		l.emit(token.Minus)
	case '+':
		l.emit(token.Plus)
	case ';':
		l.emit(token.Semicolon)
	case '*':
		l.emit(token.Star)
	case '!':
		l.emitEither(token.Bang, token.BangEqual)
	case '=':
		l.emitEither(token.Equal, token.EqualEqual)
	case '>':
		l.emitEither(token.Greater, token.GreaterEqual)
	case '<':
		l.emitEither(token.Less, token.LessEqual)
	case '/':
		if l.advanceOnMatch('/') {
			// line comment: the newline itself is left for the main loop
			for !l.isAtEnd() && l.peek() != '\n' {
				l.index++
			}
		} else {
			l.emit(token.Slash)
		}
	case '"':
		l.scanString()
	case ' ', '\r', '\t':
		// just skip white spaces
	case '\n':
		l.line++
	default:
		switch {
		case isDigit(c):
			l.scanNumber()
		case isAlpha(c):
			l.scanIdentifier()
		default:
			// consume the whole rune so one bad character gives one token
			if c >= utf8.RuneSelf {
				_, size := utf8.DecodeRuneInString(l.source[l.start:])
				l.index = l.start + size
			}
			l.emitIllegal(invalidCharacterMessage)
		}
	}
}

// scanString does not advance the line counter for newlines inside the
// literal; tokens after a multi-line string report the line it started on.
func (l *lexer) scanString() {
	for !l.isAtEnd() && l.peek() != '"' {
		l.index++
	}
	if l.isAtEnd() {
		l.emitIllegal(unterminatedStringMessage)
		return
	}
	l.index++ // closing quote

	l.tokens = append(l.tokens, token.Token{
		Kind:   token.String,
		Lexeme: l.lexeme(),
		Line:   l.line,
		Text:   l.source[l.start+1 : l.index-1],
	})
}

func (l *lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.index++
	}
	// a trailing '.' without a digit after it is not part of the number
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.index++
		for isDigit(l.peek()) {
			l.index++
		}
	}

	v, err := strconv.ParseFloat(l.lexeme(), 64)
	if err != nil {
		l.emitIllegal(invalidNumberMessage)
		return
	}
	l.tokens = append(l.tokens, token.Token{
		Kind:   token.Number,
		Lexeme: l.lexeme(),
		Line:   l.line,
		Number: v,
	})
}

func (l *lexer) scanIdentifier() {
	for isAlphaNumeric(l.peek()) {
		l.index++
	}
	l.emit(token.LookupIdent(l.lexeme()))
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
