package ast

import (
	"github.com/thisisjab/arrowjq/lambda/token"
)

// Kind identifies the syntactic construct a Node represents. The String
// form matches the ESTree type names so diagnostics read the same as in
// other JavaScript tooling.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Statements
	KindProgram
	KindExpressionStatement
	KindEmptyStatement
	KindVariableDeclaration
	KindVariableDeclarator
	KindBlockStatement
	KindReturnStatement

	// Expressions
	KindIdentifier
	KindLiteral
	KindMemberExpression
	KindCallExpression
	KindBinaryExpression
	KindLogicalExpression
	KindArrowFunctionExpression
	KindUnaryExpression
	KindConditionalExpression
	KindArrayExpression
	KindObjectExpression
	KindProperty
	KindThisExpression
	KindSpreadElement
	KindNewExpression

	// Patterns
	KindObjectPattern
	KindArrayPattern
	KindRestElement
	KindAssignmentPattern
)

var kindNames = [...]string{
	KindInvalid:                 "Invalid",
	KindProgram:                 "Program",
	KindExpressionStatement:     "ExpressionStatement",
	KindEmptyStatement:          "EmptyStatement",
	KindVariableDeclaration:     "VariableDeclaration",
	KindVariableDeclarator:      "VariableDeclarator",
	KindBlockStatement:          "BlockStatement",
	KindReturnStatement:         "ReturnStatement",
	KindIdentifier:              "Identifier",
	KindLiteral:                 "Literal",
	KindMemberExpression:        "MemberExpression",
	KindCallExpression:          "CallExpression",
	KindBinaryExpression:        "BinaryExpression",
	KindLogicalExpression:       "LogicalExpression",
	KindArrowFunctionExpression: "ArrowFunctionExpression",
	KindUnaryExpression:         "UnaryExpression",
	KindConditionalExpression:   "ConditionalExpression",
	KindArrayExpression:         "ArrayExpression",
	KindObjectExpression:        "ObjectExpression",
	KindProperty:                "Property",
	KindThisExpression:          "ThisExpression",
	KindSpreadElement:           "SpreadElement",
	KindNewExpression:           "NewExpression",
	KindObjectPattern:           "ObjectPattern",
	KindArrayPattern:            "ArrayPattern",
	KindRestElement:             "RestElement",
	KindAssignmentPattern:       "AssignmentPattern",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Kinds lists every valid Kind, in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames)-1)
	for k := KindProgram; int(k) < len(kindNames); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Node is the interface that all nodes in the syntax tree implement.
// It uses a private marker method so only types defined in this package
// can be nodes, which keeps the set of variants closed.
type Node interface {
	Kind() Kind
	Position() token.Position
	node()
}

// Statement is a Node that can appear at the top level of a Program or
// inside a block.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is a Node that can bind names, such as an arrow function
// parameter. A plain Identifier is both an Expression and a Pattern.
type Pattern interface {
	Node
	patternNode()
}

// Pos is embedded in every node to record where it starts.
type Pos struct {
	Start token.Position
}

func (p Pos) Position() token.Position { return p.Start }
func (Pos) node()                      {}

type Program struct {
	Pos
	Body []Statement
}

func (*Program) Kind() Kind { return KindProgram }

type ExpressionStatement struct {
	Pos
	Expression Expression
}

func (*ExpressionStatement) Kind() Kind     { return KindExpressionStatement }
func (*ExpressionStatement) statementNode() {}

type EmptyStatement struct {
	Pos
}

func (*EmptyStatement) Kind() Kind     { return KindEmptyStatement }
func (*EmptyStatement) statementNode() {}

// VariableDeclaration is a let, const or var statement. DeclKind holds the
// keyword.
type VariableDeclaration struct {
	Pos
	DeclKind     string
	Declarations []*VariableDeclarator
}

func (*VariableDeclaration) Kind() Kind     { return KindVariableDeclaration }
func (*VariableDeclaration) statementNode() {}

type VariableDeclarator struct {
	Pos
	ID   Pattern
	Init Expression // nil when there is no initializer
}

func (*VariableDeclarator) Kind() Kind { return KindVariableDeclarator }

type BlockStatement struct {
	Pos
	Body []Statement
}

func (*BlockStatement) Kind() Kind     { return KindBlockStatement }
func (*BlockStatement) statementNode() {}

type ReturnStatement struct {
	Pos
	Argument Expression // nil for a bare return
}

func (*ReturnStatement) Kind() Kind     { return KindReturnStatement }
func (*ReturnStatement) statementNode() {}

type Identifier struct {
	Pos
	Name string
}

func (*Identifier) Kind() Kind      { return KindIdentifier }
func (*Identifier) expressionNode() {}
func (*Identifier) patternNode()    {}

// Literal is a string, number, regular expression, boolean or null literal.
// Raw is the exact source text; Value is the decoded value: string, float64,
// RegExp, bool or nil.
type Literal struct {
	Pos
	Raw   string
	Value any
}

func (*Literal) Kind() Kind      { return KindLiteral }
func (*Literal) expressionNode() {}

// RegExp is the value of a regular expression literal. The pattern is kept
// as written; it is never compiled.
type RegExp struct {
	Pattern string
	Flags   string
}

func (r RegExp) String() string {
	return "/" + r.Pattern + "/" + r.Flags
}

// MemberExpression is object.property, or object[property] when Computed.
// For a non-computed access Property is always an *Identifier.
type MemberExpression struct {
	Pos
	Object   Expression
	Property Expression
	Computed bool
}

func (*MemberExpression) Kind() Kind      { return KindMemberExpression }
func (*MemberExpression) expressionNode() {}

type CallExpression struct {
	Pos
	Callee    Expression
	Arguments []Expression
}

func (*CallExpression) Kind() Kind      { return KindCallExpression }
func (*CallExpression) expressionNode() {}

type BinaryExpression struct {
	Pos
	Operator string
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) Kind() Kind      { return KindBinaryExpression }
func (*BinaryExpression) expressionNode() {}

// LogicalExpression is a short-circuit operation: &&, || or ??.
type LogicalExpression struct {
	Pos
	Operator string
	Left     Expression
	Right    Expression
}

func (*LogicalExpression) Kind() Kind      { return KindLogicalExpression }
func (*LogicalExpression) expressionNode() {}

// ArrowFunctionExpression is params => body. Body is an Expression, or a
// *BlockStatement for the braced form.
type ArrowFunctionExpression struct {
	Pos
	Params []Pattern
	Body   Node
	Async  bool
}

func (*ArrowFunctionExpression) Kind() Kind      { return KindArrowFunctionExpression }
func (*ArrowFunctionExpression) expressionNode() {}

type UnaryExpression struct {
	Pos
	Operator string
	Argument Expression
}

func (*UnaryExpression) Kind() Kind      { return KindUnaryExpression }
func (*UnaryExpression) expressionNode() {}

type ConditionalExpression struct {
	Pos
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (*ConditionalExpression) Kind() Kind      { return KindConditionalExpression }
func (*ConditionalExpression) expressionNode() {}

type ArrayExpression struct {
	Pos
	Elements []Expression // holes are nil
}

func (*ArrayExpression) Kind() Kind      { return KindArrayExpression }
func (*ArrayExpression) expressionNode() {}

type ObjectExpression struct {
	Pos
	Properties []Node // *Property or *SpreadElement
}

func (*ObjectExpression) Kind() Kind      { return KindObjectExpression }
func (*ObjectExpression) expressionNode() {}

// Property is a key/value pair in an object literal or object pattern. In a
// pattern, Value is a Pattern.
type Property struct {
	Pos
	Key       Expression
	Value     Node
	Computed  bool
	Shorthand bool
}

func (*Property) Kind() Kind { return KindProperty }

type ThisExpression struct {
	Pos
}

func (*ThisExpression) Kind() Kind      { return KindThisExpression }
func (*ThisExpression) expressionNode() {}

type SpreadElement struct {
	Pos
	Argument Expression
}

func (*SpreadElement) Kind() Kind      { return KindSpreadElement }
func (*SpreadElement) expressionNode() {}

type NewExpression struct {
	Pos
	Callee    Expression
	Arguments []Expression
}

func (*NewExpression) Kind() Kind      { return KindNewExpression }
func (*NewExpression) expressionNode() {}

type ObjectPattern struct {
	Pos
	Properties []Node // *Property or *RestElement
}

func (*ObjectPattern) Kind() Kind   { return KindObjectPattern }
func (*ObjectPattern) patternNode() {}

type ArrayPattern struct {
	Pos
	Elements []Pattern // holes are nil
}

func (*ArrayPattern) Kind() Kind   { return KindArrayPattern }
func (*ArrayPattern) patternNode() {}

type RestElement struct {
	Pos
	Argument Pattern
}

func (*RestElement) Kind() Kind   { return KindRestElement }
func (*RestElement) patternNode() {}

// AssignmentPattern is a pattern with a default value, such as x = 1.
type AssignmentPattern struct {
	Pos
	Left  Pattern
	Right Expression
}

func (*AssignmentPattern) Kind() Kind   { return KindAssignmentPattern }
func (*AssignmentPattern) patternNode() {}
