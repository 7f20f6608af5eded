package lexer

import (
	"github.com/thisisjab/arrowjq/lambda/token"
)

type Lexer struct {
	input   []rune
	pos     int  // position of the current character in the input string
	readPos int  // position of the next character to be read
	char    rune // current character being processed

	line    int
	lineBeg int // offset of the first character of the current line

	sawNewline bool
	prev       token.TokenType // type of the last token returned
}

func New(input string) *Lexer {
	l := &Lexer{input: []rune(input), line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	// A CRLF pair is one line break, counted at the '\n'.
	if isLineTerminator(l.char) && !(l.char == '\r' && l.peekChar() == '\n') {
		l.line++
		l.lineBeg = l.readPos
	}
	if l.readPos >= len(l.input) {
		l.char = 0
	} else {
		l.char = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() rune {
	return l.peekCharAt(0)
}

func (l *Lexer) peekCharAt(n int) rune {
	if l.readPos+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.pos - l.lineBeg + 1}
}

// NextToken scans the next token. Once the input is exhausted it keeps
// returning EOF.
func (l *Lexer) NextToken() token.Token {
	tok := l.scan()
	l.prev = tok.Type
	return tok
}

func (l *Lexer) scan() token.Token {
	l.sawNewline = false
	if illegal, ok := l.skipWhitespaceAndComments(); !ok {
		return illegal
	}

	tok := token.Token{Pos: l.position(), NewlineBefore: l.sawNewline}

	if l.atEOF() {
		tok.Type = token.EOF
		return tok
	}

	switch l.char {
	case '=':
		switch {
		case l.peekChar() == '>':
			l.readChar()
			tok.Type, tok.Literal = token.ARROW, "=>"
		case l.peekChar() == '=' && l.peekCharAt(1) == '=':
			l.readChar()
			l.readChar()
			tok.Type, tok.Literal = token.STRICTEQUAL, "==="
		case l.peekChar() == '=':
			l.readChar()
			tok.Type, tok.Literal = token.EQUAL, "=="
		default:
			tok.Type, tok.Literal = token.ASSIGN, "="
		}
	case '!':
		switch {
		case l.peekChar() == '=' && l.peekCharAt(1) == '=':
			l.readChar()
			l.readChar()
			tok.Type, tok.Literal = token.STRICTNOTEQUAL, "!=="
		case l.peekChar() == '=':
			l.readChar()
			tok.Type, tok.Literal = token.NOTEQUAL, "!="
		default:
			tok.Type, tok.Literal = token.NOT, "!"
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = token.LESSEQUAL, "<="
		} else {
			tok.Type, tok.Literal = token.LESS, "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = token.GREATEREQUAL, ">="
		} else {
			tok.Type, tok.Literal = token.GREATER, ">"
		}
	case '&':
		if l.peekChar() != '&' {
			return l.illegal(tok)
		}
		l.readChar()
		tok.Type, tok.Literal = token.AND, "&&"
	case '|':
		if l.peekChar() != '|' {
			return l.illegal(tok)
		}
		l.readChar()
		tok.Type, tok.Literal = token.OR, "||"
	case '?':
		if l.peekChar() == '?' {
			l.readChar()
			tok.Type, tok.Literal = token.NULLISH, "??"
		} else {
			tok.Type, tok.Literal = token.QUESTION, "?"
		}
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			tok.Type, tok.Literal = token.POWER, "**"
		} else {
			tok.Type, tok.Literal = token.STAR, "*"
		}
	case '.':
		switch {
		case isDigit(l.peekChar()):
			return l.readNumber(tok)
		case l.peekChar() == '.' && l.peekCharAt(1) == '.':
			l.readChar()
			l.readChar()
			tok.Type, tok.Literal = token.ELLIPSIS, "..."
		default:
			tok.Type, tok.Literal = token.DOT, "."
		}
	case '+':
		tok.Type, tok.Literal = token.PLUS, "+"
	case '-':
		tok.Type, tok.Literal = token.MINUS, "-"
	case '/':
		if l.regExpAllowed() {
			return l.readRegExp(tok)
		}
		tok.Type, tok.Literal = token.SLASH, "/"
	case '%':
		tok.Type, tok.Literal = token.PERCENT, "%"
	case ',':
		tok.Type, tok.Literal = token.COMMA, ","
	case ';':
		tok.Type, tok.Literal = token.SEMICOLON, ";"
	case ':':
		tok.Type, tok.Literal = token.COLON, ":"
	case '(':
		tok.Type, tok.Literal = token.LPAREN, "("
	case ')':
		tok.Type, tok.Literal = token.RPAREN, ")"
	case '[':
		tok.Type, tok.Literal = token.LBRACKET, "["
	case ']':
		tok.Type, tok.Literal = token.RBRACKET, "]"
	case '{':
		tok.Type, tok.Literal = token.LBRACE, "{"
	case '}':
		tok.Type, tok.Literal = token.RBRACE, "}"
	case '"', '\'':
		return l.readString(tok)
	default:
		if isIdentStart(l.char) {
			return l.readIdentifier(tok)
		} else if isDigit(l.char) {
			return l.readNumber(tok)
		}
		return l.illegal(tok)
	}

	l.readChar()
	return tok
}

func (l *Lexer) illegal(tok token.Token) token.Token {
	tok.Type = token.ILLEGAL
	tok.Literal = string(l.char)
	l.readChar()
	return tok
}

func (l *Lexer) readIdentifier(tok token.Token) token.Token {
	pos := l.pos
	for isIdentPart(l.char) && !l.atEOF() {
		l.readChar()
	}

	tok.Literal = string(l.input[pos:l.pos])
	tok.Type = lookupIdent(tok.Literal)
	return tok
}

func lookupIdent(ident string) token.TokenType {
	if tok, ok := token.Keywords[ident]; ok {
		return tok
	}
	return token.IDENT
}

// readNumber consumes a numeric literal. Validation of the digits is left to
// ParseNumber; the lexer only finds the boundaries so the raw text survives
// untouched.
func (l *Lexer) readNumber(tok token.Token) token.Token {
	pos := l.pos

	if l.char == '0' && isRadixPrefix(l.peekChar()) {
		l.readChar()
		l.readChar()
		for isHexDigit(l.char) || l.char == '_' {
			l.readChar()
		}
	} else {
		for isDigit(l.char) || l.char == '_' {
			l.readChar()
		}
		if l.char == '.' {
			l.readChar()
			for isDigit(l.char) || l.char == '_' {
				l.readChar()
			}
		}
		if l.char == 'e' || l.char == 'E' {
			next := l.peekChar()
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
				l.readChar()
				if l.char == '+' || l.char == '-' {
					l.readChar()
				}
				for isDigit(l.char) || l.char == '_' {
					l.readChar()
				}
			}
		}
	}

	tok.Literal = string(l.input[pos:l.pos])

	// An identifier directly after a number ("3in", "1abc") is not valid.
	if isIdentStart(l.char) && !l.atEOF() {
		for isIdentPart(l.char) && !l.atEOF() {
			l.readChar()
		}
		tok.Type = token.ILLEGAL
		tok.Literal = string(l.input[pos:l.pos])
		return tok
	}

	if _, err := ParseNumber(tok.Literal); err != nil {
		tok.Type = token.ILLEGAL
		return tok
	}

	tok.Type = token.NUMBER
	return tok
}

// readString consumes a quoted string, keeping the quotes in the literal.
// An unterminated string is ILLEGAL.
func (l *Lexer) readString(tok token.Token) token.Token {
	pos := l.pos
	quote := l.char

	for {
		l.readChar()
		switch {
		case l.atEOF() || l.char == '\n' || l.char == '\r':
			tok.Type = token.ILLEGAL
			tok.Literal = string(l.input[pos:l.pos])
			return tok
		case l.char == '\\':
			// The escaped character, including a line terminator, is part of
			// the string.
			l.readChar()
			if l.atEOF() {
				tok.Type = token.ILLEGAL
				tok.Literal = string(l.input[pos:l.pos])
				return tok
			}
			if l.char == '\r' && l.peekChar() == '\n' {
				l.readChar()
			}
		case l.char == quote:
			l.readChar()
			tok.Literal = string(l.input[pos:l.pos])
			if _, err := Unquote(tok.Literal); err != nil {
				tok.Type = token.ILLEGAL
				return tok
			}
			tok.Type = token.STRING
			return tok
		}
	}
}

// regExpAllowed reports whether a '/' starts a regular expression rather
// than a division, judged by the token before it.
func (l *Lexer) regExpAllowed() bool {
	switch l.prev {
	case token.IDENT, token.NUMBER, token.STRING, token.REGEXP,
		token.TRUE, token.FALSE, token.NULL, token.THIS,
		token.RPAREN, token.RBRACKET, token.RBRACE:
		return false
	default:
		return true
	}
}

// readRegExp consumes a regular expression literal with its flags. The body
// may not span lines, and a '/' inside a class does not close it.
func (l *Lexer) readRegExp(tok token.Token) token.Token {
	pos := l.pos
	inClass := false

	for {
		l.readChar()
		switch {
		case l.atEOF() || isLineTerminator(l.char):
			tok.Type = token.ILLEGAL
			tok.Literal = string(l.input[pos:l.pos])
			return tok
		case l.char == '\\':
			if l.readPos >= len(l.input) || isLineTerminator(l.peekChar()) {
				l.readChar()
				tok.Type = token.ILLEGAL
				tok.Literal = string(l.input[pos:l.pos])
				return tok
			}
			l.readChar()
		case l.char == '[':
			inClass = true
		case l.char == ']':
			inClass = false
		case l.char == '/' && !inClass:
			l.readChar()
			for isIdentPart(l.char) {
				l.readChar()
			}
			tok.Type = token.REGEXP
			tok.Literal = string(l.input[pos:l.pos])
			return tok
		}
	}
}

// skipWhitespaceAndComments advances past blanks and comments. It returns
// false with an ILLEGAL token when a block comment is never closed.
func (l *Lexer) skipWhitespaceAndComments() (token.Token, bool) {
	for {
		switch {
		case isLineTerminator(l.char):
			l.sawNewline = true
			l.readChar()
		case isWhitespace(l.char):
			l.readChar()
		case l.char == '/' && l.peekChar() == '/':
			for !l.atEOF() && !isLineTerminator(l.char) {
				l.readChar()
			}
		case l.char == '/' && l.peekChar() == '*':
			start := l.position()
			l.readChar()
			l.readChar()
			for {
				if l.atEOF() {
					return token.Token{Type: token.ILLEGAL, Literal: "/*", Pos: start}, false
				}
				if l.char == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				if isLineTerminator(l.char) {
					l.sawNewline = true
				}
				l.readChar()
			}
		default:
			return token.Token{}, true
		}
	}
}

func isIdentStart(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' || r == '$' || r > 0x7f && isUnicodeLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func isRadixPrefix(r rune) bool {
	return r == 'x' || r == 'X' || r == 'o' || r == 'O' || r == 'b' || r == 'B'
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\v' || r == '\f' || r == 0xa0 || r == 0xfeff
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}
