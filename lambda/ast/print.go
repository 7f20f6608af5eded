package ast

import (
	"strings"
)

// Sprint renders n as a compact, parenthesized outline. It is meant for
// debugging and tests, not as source code.
func Sprint(n Node) string {
	var b strings.Builder
	printNode(&b, n)
	return b.String()
}

func printNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("_")
	case *Program:
		printStatements(b, n.Body)
	case *ExpressionStatement:
		printNode(b, n.Expression)
	case *EmptyStatement:
		b.WriteString("(empty)")
	case *VariableDeclaration:
		b.WriteString("(")
		b.WriteString(n.DeclKind)
		for i, d := range n.Declarations {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(" ")
			printNode(b, d)
		}
		b.WriteString(")")
	case *VariableDeclarator:
		printNode(b, n.ID)
		if n.Init != nil {
			b.WriteString(" = ")
			printNode(b, n.Init)
		}
	case *BlockStatement:
		b.WriteString("{")
		if len(n.Body) > 0 {
			b.WriteString(" ")
			printStatements(b, n.Body)
			b.WriteString(" ")
		}
		b.WriteString("}")
	case *ReturnStatement:
		b.WriteString("(return")
		if n.Argument != nil {
			b.WriteString(" ")
			printNode(b, n.Argument)
		}
		b.WriteString(")")
	case *Identifier:
		b.WriteString(n.Name)
	case *Literal:
		b.WriteString(n.Raw)
	case *MemberExpression:
		if n.Computed {
			b.WriteString("([] ")
		} else {
			b.WriteString("(. ")
		}
		printNode(b, n.Object)
		b.WriteString(" ")
		printNode(b, n.Property)
		b.WriteString(")")
	case *CallExpression:
		b.WriteString("(call ")
		printNode(b, n.Callee)
		printArgs(b, n.Arguments)
		b.WriteString(")")
	case *NewExpression:
		b.WriteString("(new ")
		printNode(b, n.Callee)
		printArgs(b, n.Arguments)
		b.WriteString(")")
	case *BinaryExpression:
		printOperation(b, n.Operator, n.Left, n.Right)
	case *LogicalExpression:
		printOperation(b, n.Operator, n.Left, n.Right)
	case *UnaryExpression:
		printOperation(b, n.Operator, n.Argument)
	case *ConditionalExpression:
		printOperation(b, "?", n.Test, n.Consequent, n.Alternate)
	case *ArrowFunctionExpression:
		if n.Async {
			b.WriteString("(async=> (")
		} else {
			b.WriteString("(=> (")
		}
		for i, param := range n.Params {
			if i > 0 {
				b.WriteString(" ")
			}
			printNode(b, param)
		}
		b.WriteString(") ")
		printNode(b, n.Body)
		b.WriteString(")")
	case *ArrayExpression:
		b.WriteString("[")
		for i, el := range n.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			if el == nil {
				b.WriteString("_")
				continue
			}
			printNode(b, el)
		}
		b.WriteString("]")
	case *ArrayPattern:
		b.WriteString("[")
		for i, el := range n.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			if el == nil {
				b.WriteString("_")
				continue
			}
			printNode(b, el)
		}
		b.WriteString("]")
	case *ObjectExpression:
		printProperties(b, n.Properties)
	case *ObjectPattern:
		printProperties(b, n.Properties)
	case *Property:
		if n.Shorthand {
			printNode(b, n.Value)
			return
		}
		if n.Computed {
			b.WriteString("[")
			printNode(b, n.Key)
			b.WriteString("]")
		} else {
			printNode(b, n.Key)
		}
		b.WriteString(": ")
		printNode(b, n.Value)
	case *ThisExpression:
		b.WriteString("this")
	case *SpreadElement:
		b.WriteString("...")
		printNode(b, n.Argument)
	case *RestElement:
		b.WriteString("...")
		printNode(b, n.Argument)
	case *AssignmentPattern:
		printOperation(b, "=", n.Left, n.Right)
	default:
		b.WriteString("(")
		b.WriteString(n.Kind().String())
		b.WriteString(")")
	}
}

func printStatements(b *strings.Builder, stmts []Statement) {
	for i, s := range stmts {
		if i > 0 {
			b.WriteString("; ")
		}
		printNode(b, s)
	}
}

func printArgs(b *strings.Builder, args []Expression) {
	for _, arg := range args {
		b.WriteString(" ")
		printNode(b, arg)
	}
}

func printOperation(b *strings.Builder, op string, operands ...Node) {
	b.WriteString("(")
	b.WriteString(op)
	for _, o := range operands {
		b.WriteString(" ")
		printNode(b, o)
	}
	b.WriteString(")")
}

func printProperties(b *strings.Builder, props []Node) {
	b.WriteString("{")
	for i, prop := range props {
		if i > 0 {
			b.WriteString(", ")
		}
		printNode(b, prop)
	}
	b.WriteString("}")
}
