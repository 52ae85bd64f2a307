package scanner

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/token"
)

// Scanner performs lexical analysis on Lox source.
type Scanner struct {
	source string
	tokens []token.Token
	diags  []diagnostics.Diagnostic

	start   int // first byte of the current lexeme
	current int // next byte to read
	line    int
}

// New creates a scanner for source.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// Scan tokenizes source in one pass. The token slice always ends with exactly
// one EOF token, even when diagnostics were produced.
func Scan(source string) ([]token.Token, []diagnostics.Diagnostic) {
	return New(source).ScanTokens()
}

// ScanTokens runs the scanner to the end of its source.
func (s *Scanner) ScanTokens() ([]token.Token, []diagnostics.Diagnostic) {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))
	return s.tokens, s.diags
}

func (s *Scanner) scanToken() {
	ch := s.advance()
	switch ch {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case '!':
		s.addToken(s.pick('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.pick('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.pick('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.pick('=', token.GreaterEqual, token.Greater))
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.current++
			}
		} else {
			s.addToken(token.Slash)
		}
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(ch):
			s.scanNumber()
		case isAlpha(ch):
			s.scanIdentifier()
		default:
			// Consume the rest of a multi-byte character so it yields one diagnostic.
			if ch >= utf8.RuneSelf {
				_, size := utf8.DecodeRuneInString(s.source[s.start:])
				s.current = s.start + size
			}
			s.diags = append(s.diags, diagnostics.AtLine(s.line, "Unexpected character."))
		}
	}
}

func (s *Scanner) scanString() {
	startLine := s.line
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}
	if s.isAtEnd() {
		s.diags = append(s.diags, diagnostics.AtLine(startLine, "Unterminated string."))
		return
	}
	s.current++ // closing '"'
	value := s.source[s.start+1 : s.current-1]
	s.addLiteral(token.String, value)
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.current++
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.current++
		for isDigit(s.peek()) {
			s.current++
		}
	}
	// Out-of-range literals keep the ±Inf ParseFloat returns.
	value, err := strconv.ParseFloat(s.source[s.start:s.current], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		s.diags = append(s.diags, diagnostics.AtLine(s.line, "Invalid number literal."))
		return
	}
	s.addLiteral(token.Number, value)
}

func (s *Scanner) scanIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.current++
	}
	kind, ok := token.Keyword(s.source[s.start:s.current])
	if !ok {
		kind = token.Identifier
	}
	s.addToken(kind)
}

func (s *Scanner) addToken(kind token.Kind) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Kind, literal any) {
	s.tokens = append(s.tokens, token.New(kind, s.source[s.start:s.current], literal, s.line))
}

func (s *Scanner) pick(expected byte, matched, single token.Kind) token.Kind {
	if s.match(expected) {
		return matched
	}
	return single
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) advance() byte {
	ch := s.source[s.current]
	s.current++
	return ch
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
