package parser

import (
	"fmt"

	"github.com/thisisjab/arrowjq/fault"
	"github.com/thisisjab/arrowjq/lambda/ast"
	"github.com/thisisjab/arrowjq/lambda/lexer"
	"github.com/thisisjab/arrowjq/lambda/token"
)

// Parse parses src as a script and returns its syntax tree. Any syntax
// error is returned as a fault with SyntaxErrorCode and the position of the
// offending token.
func Parse(src string) (*ast.Program, error) {
	return New(lexer.New(src)).ParseProgram()
}

// Parser is a recursive-descent parser for the subset of JavaScript that
// arrow function filters are written in. The whole token stream is read up
// front, because telling "(a, b) => ..." from a parenthesized expression
// needs unbounded lookahead.
type Parser struct {
	tokens    []token.Token
	pos       int
	curToken  token.Token
	peekToken token.Token

	functionDepth int
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{}

	for {
		tok := l.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	p.pos = -1
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.peekAt(1)
}

// peekAt returns the token n positions after the current one. Past the end
// it returns the EOF token.
func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// syntaxError is the panic value used to unwind out of a failed parse.
type syntaxError struct {
	err fault.Fault
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	panic(syntaxError{
		err: fault.New(fault.SyntaxErrorCode, fmt.Sprintf("Line %d: %s", pos.Line, msg)).
			WithMetadata(fault.PositionMetadata{Line: pos.Line, Column: pos.Column}),
	})
}

func (p *Parser) unexpected(tok token.Token) {
	switch tok.Type {
	case token.EOF:
		p.errorf(tok.Pos, "Unexpected end of input")
	case token.ILLEGAL:
		p.errorf(tok.Pos, "Invalid or unexpected token")
	case token.NUMBER:
		p.errorf(tok.Pos, "Unexpected number")
	case token.STRING:
		p.errorf(tok.Pos, "Unexpected string")
	case token.IDENT:
		p.errorf(tok.Pos, "Unexpected identifier")
	default:
		p.errorf(tok.Pos, "Unexpected token %s", tok.Literal)
	}
}

func (p *Parser) expect(t token.TokenType) token.Token {
	tok := p.curToken
	if tok.Type != t {
		p.unexpected(tok)
	}
	p.nextToken()
	return tok
}

// ParseProgram parses every statement up to the end of input.
func (p *Parser) ParseProgram() (program *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(syntaxError)
			if !ok {
				panic(r)
			}
			program, err = nil, se.err
		}
	}()

	program = &ast.Program{Pos: ast.Pos{Start: p.curToken.Pos}}
	for p.curToken.Type != token.EOF {
		program.Body = append(program.Body, p.parseStatement())
	}

	return program, nil
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.SEMICOLON:
		stmt := &ast.EmptyStatement{Pos: ast.Pos{Start: p.curToken.Pos}}
		p.nextToken()
		return stmt
	case token.LBRACE:
		return p.parseBlock()
	case token.LET, token.CONST, token.VAR:
		return p.parseVariableDeclaration()
	case token.RETURN:
		return p.parseReturn()
	default:
		start := p.curToken.Pos
		expr := p.parseExpression()
		p.consumeTerminator()
		return &ast.ExpressionStatement{Pos: ast.Pos{Start: start}, Expression: expr}
	}
}

// consumeTerminator ends a statement: an explicit semicolon, or an implied
// one before a closing brace, end of input or a line break.
func (p *Parser) consumeTerminator() {
	switch {
	case p.curToken.Type == token.SEMICOLON:
		p.nextToken()
	case p.curToken.Type == token.EOF, p.curToken.Type == token.RBRACE, p.curToken.NewlineBefore:
	default:
		p.unexpected(p.curToken)
	}
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	block := &ast.BlockStatement{Pos: ast.Pos{Start: p.curToken.Pos}}
	p.expect(token.LBRACE)

	for p.curToken.Type != token.RBRACE {
		if p.curToken.Type == token.EOF {
			p.unexpected(p.curToken)
		}
		block.Body = append(block.Body, p.parseStatement())
	}
	p.nextToken()

	return block
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Pos: ast.Pos{Start: p.curToken.Pos}, DeclKind: p.curToken.Literal}
	p.nextToken()

	for {
		d := &ast.VariableDeclarator{Pos: ast.Pos{Start: p.curToken.Pos}, ID: p.parseBindingTarget()}
		if p.curToken.Type == token.ASSIGN {
			p.nextToken()
			d.Init = p.parseAssignment()
		} else if decl.DeclKind == "const" {
			p.errorf(p.curToken.Pos, "Missing initializer in const declaration")
		}
		decl.Declarations = append(decl.Declarations, d)

		if p.curToken.Type != token.COMMA {
			break
		}
		p.nextToken()
	}

	p.consumeTerminator()
	return decl
}

func (p *Parser) parseReturn() *ast.ReturnStatement {
	if p.functionDepth == 0 {
		p.errorf(p.curToken.Pos, "Illegal return statement")
	}

	stmt := &ast.ReturnStatement{Pos: ast.Pos{Start: p.curToken.Pos}}
	p.nextToken()

	switch {
	case p.curToken.Type == token.SEMICOLON, p.curToken.Type == token.RBRACE,
		p.curToken.Type == token.EOF, p.curToken.NewlineBefore:
	default:
		stmt.Argument = p.parseExpression()
	}

	p.consumeTerminator()
	return stmt
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment parses at the precedence of an assignment expression,
// which is where arrow functions and conditionals live.
func (p *Parser) parseAssignment() ast.Expression {
	if p.isArrowAhead() {
		return p.parseArrow()
	}

	expr := p.parseConditional()
	if p.curToken.Type == token.ASSIGN {
		p.errorf(p.curToken.Pos, "Assignment is not supported")
	}
	return expr
}

func (p *Parser) isArrowAhead() bool {
	switch p.curToken.Type {
	case token.ASYNC:
		if p.peekToken.NewlineBefore {
			return false
		}
		switch p.peekToken.Type {
		case token.ARROW:
			return true
		case token.IDENT, token.ASYNC:
			return p.peekAt(2).Type == token.ARROW
		case token.LPAREN:
			return p.closingParenFollowedByArrow(1)
		}
		return false
	case token.IDENT:
		return p.peekToken.Type == token.ARROW
	case token.LPAREN:
		return p.closingParenFollowedByArrow(0)
	}
	return false
}

// closingParenFollowedByArrow reports whether the parenthesis at offset n
// from the current token is closed by a token that is followed by "=>".
func (p *Parser) closingParenFollowedByArrow(n int) bool {
	depth := 0
	for i := p.pos + n; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Type == token.ARROW
			}
		case token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseArrow() *ast.ArrowFunctionExpression {
	fn := &ast.ArrowFunctionExpression{Pos: ast.Pos{Start: p.curToken.Pos}}

	if p.curToken.Type == token.ASYNC && p.peekToken.Type != token.ARROW {
		fn.Async = true
		p.nextToken()
	}

	if p.curToken.Type == token.LPAREN {
		fn.Params = p.parseParams()
	} else {
		fn.Params = []ast.Pattern{p.parseBindingIdentifier()}
	}

	if p.curToken.NewlineBefore {
		p.unexpected(p.curToken)
	}
	p.expect(token.ARROW)

	if p.curToken.Type == token.LBRACE {
		p.functionDepth++
		fn.Body = p.parseBlock()
		p.functionDepth--
	} else {
		fn.Body = p.parseAssignment()
	}

	return fn
}

func (p *Parser) parseParams() []ast.Pattern {
	p.expect(token.LPAREN)

	var params []ast.Pattern
	for p.curToken.Type != token.RPAREN {
		if p.curToken.Type == token.ELLIPSIS {
			params = append(params, p.parseRestElement())
			if p.curToken.Type != token.RPAREN {
				p.errorf(p.curToken.Pos, "Rest parameter must be last formal parameter")
			}
			break
		}

		params = append(params, p.parseBindingElement())
		if p.curToken.Type != token.RPAREN {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RPAREN)

	return params
}

func (p *Parser) parseRestElement() *ast.RestElement {
	rest := &ast.RestElement{Pos: ast.Pos{Start: p.curToken.Pos}}
	p.expect(token.ELLIPSIS)
	rest.Argument = p.parseBindingTarget()
	return rest
}

// parseBindingElement parses a binding target with an optional default.
func (p *Parser) parseBindingElement() ast.Pattern {
	start := p.curToken.Pos
	target := p.parseBindingTarget()
	if p.curToken.Type != token.ASSIGN {
		return target
	}
	p.nextToken()
	return &ast.AssignmentPattern{Pos: ast.Pos{Start: start}, Left: target, Right: p.parseAssignment()}
}

func (p *Parser) parseBindingTarget() ast.Pattern {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseObjectPattern()
	case token.LBRACKET:
		return p.parseArrayPattern()
	default:
		return p.parseBindingIdentifier()
	}
}

func (p *Parser) parseBindingIdentifier() *ast.Identifier {
	tok := p.curToken
	if tok.Type != token.IDENT && tok.Type != token.ASYNC {
		p.unexpected(tok)
	}
	p.nextToken()
	return &ast.Identifier{Pos: ast.Pos{Start: tok.Pos}, Name: tok.Literal}
}

func (p *Parser) parseObjectPattern() *ast.ObjectPattern {
	pattern := &ast.ObjectPattern{Pos: ast.Pos{Start: p.curToken.Pos}}
	p.expect(token.LBRACE)

	for p.curToken.Type != token.RBRACE {
		if p.curToken.Type == token.ELLIPSIS {
			pattern.Properties = append(pattern.Properties, p.parseRestElement())
			break
		}

		prop := &ast.Property{Pos: ast.Pos{Start: p.curToken.Pos}}
		keyTok := p.curToken
		prop.Key, prop.Computed = p.parsePropertyKey()

		if p.curToken.Type == token.COLON {
			p.nextToken()
			prop.Value = p.parseBindingElement()
		} else {
			if prop.Computed || keyTok.Type != token.IDENT && keyTok.Type != token.ASYNC {
				p.unexpected(p.curToken)
			}
			prop.Shorthand = true
			var value ast.Pattern = &ast.Identifier{Pos: ast.Pos{Start: keyTok.Pos}, Name: keyTok.Literal}
			if p.curToken.Type == token.ASSIGN {
				p.nextToken()
				value = &ast.AssignmentPattern{Pos: ast.Pos{Start: keyTok.Pos}, Left: value, Right: p.parseAssignment()}
			}
			prop.Value = value
		}
		pattern.Properties = append(pattern.Properties, prop)

		if p.curToken.Type != token.RBRACE {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RBRACE)

	return pattern
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	pattern := &ast.ArrayPattern{Pos: ast.Pos{Start: p.curToken.Pos}}
	p.expect(token.LBRACKET)

	for p.curToken.Type != token.RBRACKET {
		switch p.curToken.Type {
		case token.COMMA:
			pattern.Elements = append(pattern.Elements, nil)
			p.nextToken()
			continue
		case token.ELLIPSIS:
			pattern.Elements = append(pattern.Elements, p.parseRestElement())
			p.expect(token.RBRACKET)
			return pattern
		}

		pattern.Elements = append(pattern.Elements, p.parseBindingElement())
		if p.curToken.Type != token.RBRACKET {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RBRACKET)

	return pattern
}

// parsePropertyKey parses an object literal or pattern key: a name, a
// keyword, a string, a number or a computed [expression].
func (p *Parser) parsePropertyKey() (ast.Expression, bool) {
	tok := p.curToken
	switch {
	case tok.Type == token.LBRACKET:
		p.nextToken()
		key := p.parseAssignment()
		p.expect(token.RBRACKET)
		return key, true
	case tok.Type == token.STRING, tok.Type == token.NUMBER:
		return p.parseLiteral(), false
	case tok.Type == token.IDENT || tok.IsKeyword():
		p.nextToken()
		return &ast.Identifier{Pos: ast.Pos{Start: tok.Pos}, Name: tok.Literal}, false
	}
	p.unexpected(tok)
	return nil, false
}

func (p *Parser) parseConditional() ast.Expression {
	start := p.curToken.Pos
	test := p.parseBinary(0)
	if p.curToken.Type != token.QUESTION {
		return test
	}
	p.nextToken()

	cond := &ast.ConditionalExpression{Pos: ast.Pos{Start: start}, Test: test}
	cond.Consequent = p.parseAssignment()
	p.expect(token.COLON)
	cond.Alternate = p.parseAssignment()

	return cond
}

var precedences = map[token.TokenType]int{
	token.NULLISH:        1,
	token.OR:             2,
	token.AND:            3,
	token.EQUAL:          4,
	token.NOTEQUAL:       4,
	token.STRICTEQUAL:    4,
	token.STRICTNOTEQUAL: 4,
	token.LESS:           5,
	token.LESSEQUAL:      5,
	token.GREATER:        5,
	token.GREATEREQUAL:   5,
	token.IN:             5,
	token.INSTANCEOF:     5,
	token.PLUS:           6,
	token.MINUS:          6,
	token.STAR:           7,
	token.SLASH:          7,
	token.PERCENT:        7,
	token.POWER:          8,
}

// parseBinary parses binary and logical operators by precedence climbing.
// Operators bind left to right, except ** which binds right to left.
func (p *Parser) parseBinary(minPrec int) ast.Expression {
	start := p.curToken.Pos
	left := p.parseUnary()

	for {
		prec := precedences[p.curToken.Type]
		if prec == 0 || prec <= minPrec {
			return left
		}

		op := p.curToken
		p.nextToken()

		var right ast.Expression
		if op.Type == token.POWER {
			right = p.parseBinary(prec - 1)
		} else {
			right = p.parseBinary(prec)
		}

		switch op.Type {
		case token.AND, token.OR, token.NULLISH:
			left = &ast.LogicalExpression{Pos: ast.Pos{Start: start}, Operator: op.Literal, Left: left, Right: right}
		default:
			left = &ast.BinaryExpression{Pos: ast.Pos{Start: start}, Operator: op.Literal, Left: left, Right: right}
		}
	}
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.curToken.Type {
	case token.NOT, token.MINUS, token.PLUS, token.TYPEOF, token.VOID, token.DELETE:
		op := p.curToken
		p.nextToken()
		return &ast.UnaryExpression{Pos: ast.Pos{Start: op.Pos}, Operator: op.Literal, Argument: p.parseUnary()}
	}
	return p.parseCallOrMember()
}

func (p *Parser) parseCallOrMember() ast.Expression {
	start := p.curToken.Pos

	var expr ast.Expression
	if p.curToken.Type == token.NEW {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}

	for {
		switch p.curToken.Type {
		case token.DOT, token.LBRACKET:
			expr = p.parseMember(start, expr)
		case token.LPAREN:
			expr = &ast.CallExpression{Pos: ast.Pos{Start: start}, Callee: expr, Arguments: p.parseArguments()}
		default:
			return expr
		}
	}
}

func (p *Parser) parseNew() ast.Expression {
	start := p.curToken.Pos
	p.expect(token.NEW)

	var callee ast.Expression
	if p.curToken.Type == token.NEW {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	for p.curToken.Type == token.DOT || p.curToken.Type == token.LBRACKET {
		callee = p.parseMember(start, callee)
	}

	expr := &ast.NewExpression{Pos: ast.Pos{Start: start}, Callee: callee}
	if p.curToken.Type == token.LPAREN {
		expr.Arguments = p.parseArguments()
	}
	return expr
}

func (p *Parser) parseMember(start token.Position, object ast.Expression) ast.Expression {
	if p.curToken.Type == token.LBRACKET {
		p.nextToken()
		property := p.parseExpression()
		p.expect(token.RBRACKET)
		return &ast.MemberExpression{Pos: ast.Pos{Start: start}, Object: object, Property: property, Computed: true}
	}

	p.expect(token.DOT)
	name := p.curToken
	if name.Type != token.IDENT && !name.IsKeyword() {
		p.unexpected(name)
	}
	p.nextToken()

	return &ast.MemberExpression{
		Pos:      ast.Pos{Start: start},
		Object:   object,
		Property: &ast.Identifier{Pos: ast.Pos{Start: name.Pos}, Name: name.Literal},
	}
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(token.LPAREN)

	var args []ast.Expression
	for p.curToken.Type != token.RPAREN {
		if p.curToken.Type == token.ELLIPSIS {
			start := p.curToken.Pos
			p.nextToken()
			args = append(args, &ast.SpreadElement{Pos: ast.Pos{Start: start}, Argument: p.parseAssignment()})
		} else {
			args = append(args, p.parseAssignment())
		}

		if p.curToken.Type != token.RPAREN {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RPAREN)

	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.curToken

	switch tok.Type {
	case token.IDENT, token.ASYNC:
		p.nextToken()
		return &ast.Identifier{Pos: ast.Pos{Start: tok.Pos}, Name: tok.Literal}
	case token.NUMBER, token.STRING, token.REGEXP, token.TRUE, token.FALSE, token.NULL:
		return p.parseLiteral()
	case token.THIS:
		p.nextToken()
		return &ast.ThisExpression{Pos: ast.Pos{Start: tok.Pos}}
	case token.LPAREN:
		p.nextToken()
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return expr
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	}

	p.unexpected(tok)
	return nil
}

func (p *Parser) parseLiteral() *ast.Literal {
	tok := p.curToken
	lit := &ast.Literal{Pos: ast.Pos{Start: tok.Pos}, Raw: tok.Literal}

	switch tok.Type {
	case token.NUMBER:
		v, err := lexer.ParseNumber(tok.Literal)
		if err != nil {
			p.errorf(tok.Pos, "Invalid or unexpected token")
		}
		lit.Value = v
	case token.STRING:
		v, err := lexer.Unquote(tok.Literal)
		if err != nil {
			p.errorf(tok.Pos, "Invalid or unexpected token")
		}
		lit.Value = v
	case token.REGEXP:
		pattern, flags, err := lexer.SplitRegExp(tok.Literal)
		if err != nil {
			p.errorf(tok.Pos, "Invalid regular expression flags")
		}
		lit.Value = ast.RegExp{Pattern: pattern, Flags: flags}
	case token.TRUE:
		lit.Value = true
	case token.FALSE:
		lit.Value = false
	case token.NULL:
		lit.Value = nil
	default:
		p.unexpected(tok)
	}

	p.nextToken()
	return lit
}

func (p *Parser) parseArrayLiteral() *ast.ArrayExpression {
	arr := &ast.ArrayExpression{Pos: ast.Pos{Start: p.curToken.Pos}}
	p.expect(token.LBRACKET)

	for p.curToken.Type != token.RBRACKET {
		switch p.curToken.Type {
		case token.COMMA:
			arr.Elements = append(arr.Elements, nil)
			p.nextToken()
			continue
		case token.ELLIPSIS:
			start := p.curToken.Pos
			p.nextToken()
			arr.Elements = append(arr.Elements, &ast.SpreadElement{Pos: ast.Pos{Start: start}, Argument: p.parseAssignment()})
		default:
			arr.Elements = append(arr.Elements, p.parseAssignment())
		}

		if p.curToken.Type != token.RBRACKET {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RBRACKET)

	return arr
}

func (p *Parser) parseObjectLiteral() *ast.ObjectExpression {
	obj := &ast.ObjectExpression{Pos: ast.Pos{Start: p.curToken.Pos}}
	p.expect(token.LBRACE)

	for p.curToken.Type != token.RBRACE {
		if p.curToken.Type == token.ELLIPSIS {
			start := p.curToken.Pos
			p.nextToken()
			obj.Properties = append(obj.Properties, &ast.SpreadElement{Pos: ast.Pos{Start: start}, Argument: p.parseAssignment()})
		} else {
			prop := &ast.Property{Pos: ast.Pos{Start: p.curToken.Pos}}
			keyTok := p.curToken
			prop.Key, prop.Computed = p.parsePropertyKey()

			if p.curToken.Type == token.COLON {
				p.nextToken()
				prop.Value = p.parseAssignment()
			} else {
				if prop.Computed || keyTok.Type != token.IDENT && keyTok.Type != token.ASYNC {
					p.unexpected(p.curToken)
				}
				prop.Shorthand = true
				prop.Value = &ast.Identifier{Pos: ast.Pos{Start: keyTok.Pos}, Name: keyTok.Literal}
			}
			obj.Properties = append(obj.Properties, prop)
		}

		if p.curToken.Type != token.RBRACE {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RBRACE)

	return obj
}
