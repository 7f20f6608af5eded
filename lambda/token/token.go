package token

import "fmt"

const (
	ILLEGAL TokenType = iota
	EOF

	// Identifiers + literals
	IDENT
	NUMBER
	STRING
	REGEXP

	// Keywords
	TRUE
	FALSE
	NULL
	ASYNC
	RETURN
	LET
	CONST
	VAR
	THIS
	TYPEOF
	VOID
	DELETE
	IN
	INSTANCEOF
	NEW
	FUNCTION

	// Delimiters
	COMMA
	SEMICOLON
	COLON
	QUESTION
	DOT
	ELLIPSIS
	ARROW
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE

	// Operators
	ASSIGN
	EQUAL
	STRICTEQUAL
	NOTEQUAL
	STRICTNOTEQUAL
	LESS
	LESSEQUAL
	GREATER
	GREATEREQUAL
	AND
	OR
	NULLISH
	NOT
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	POWER
)

type TokenType int

var names = [...]string{
	ILLEGAL:        "ILLEGAL",
	EOF:            "EOF",
	IDENT:          "IDENT",
	NUMBER:         "NUMBER",
	STRING:         "STRING",
	REGEXP:         "REGEXP",
	TRUE:           "true",
	FALSE:          "false",
	NULL:           "null",
	ASYNC:          "async",
	RETURN:         "return",
	LET:            "let",
	CONST:          "const",
	VAR:            "var",
	THIS:           "this",
	TYPEOF:         "typeof",
	VOID:           "void",
	DELETE:         "delete",
	IN:             "in",
	INSTANCEOF:     "instanceof",
	NEW:            "new",
	FUNCTION:       "function",
	COMMA:          ",",
	SEMICOLON:      ";",
	COLON:          ":",
	QUESTION:       "?",
	DOT:            ".",
	ELLIPSIS:       "...",
	ARROW:          "=>",
	LPAREN:         "(",
	RPAREN:         ")",
	LBRACKET:       "[",
	RBRACKET:       "]",
	LBRACE:         "{",
	RBRACE:         "}",
	ASSIGN:         "=",
	EQUAL:          "==",
	STRICTEQUAL:    "===",
	NOTEQUAL:       "!=",
	STRICTNOTEQUAL: "!==",
	LESS:           "<",
	LESSEQUAL:      "<=",
	GREATER:        ">",
	GREATEREQUAL:   ">=",
	AND:            "&&",
	OR:             "||",
	NULLISH:        "??",
	NOT:            "!",
	PLUS:           "+",
	MINUS:          "-",
	STAR:           "*",
	SLASH:          "/",
	PERCENT:        "%",
	POWER:          "**",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Keywords maps reserved words to their token types. Anything not listed
// here lexes as IDENT.
var Keywords = map[string]TokenType{
	"true":       TRUE,
	"false":      FALSE,
	"null":       NULL,
	"async":      ASYNC,
	"return":     RETURN,
	"let":        LET,
	"const":      CONST,
	"var":        VAR,
	"this":       THIS,
	"typeof":     TYPEOF,
	"void":       VOID,
	"delete":     DELETE,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"new":        NEW,
	"function":   FUNCTION,
}

// Position locates a token in the source text. Line and Column are 1-based,
// Offset is the 0-based rune offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Type    TokenType
	Literal string
	Pos     Position

	// NewlineBefore reports whether a line terminator separates this token
	// from the previous one.
	NewlineBefore bool
}

// IsKeyword reports whether the token is a reserved word. Reserved words
// are still valid property names after a dot.
func (t Token) IsKeyword() bool {
	_, ok := Keywords[t.Literal]
	return ok && t.Type != IDENT && t.Type != STRING && t.Type != NUMBER
}
