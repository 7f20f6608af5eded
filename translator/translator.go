// Package translator turns a single-parameter arrow function into a jq
// filter.
//
// The pipeline is parse, Validate, Compile and Emit. Every step is a pure
// function of its input, so a Translate call is safe to run concurrently
// with others.
package translator

import (
	"github.com/thisisjab/arrowjq/lambda/ast"
	"github.com/thisisjab/arrowjq/lambda/parser"
)

// Translate converts the source of one arrow function, such as
// "x => x.items.map(i => i.name)", into a jq filter (".items | map(.name)").
func Translate(src string) (string, error) {
	program, err := parser.Parse(src)
	if err != nil {
		return "", err
	}

	param, body, err := Validate(program)
	if err != nil {
		return "", err
	}

	fragment, err := Compile(param, body)
	if err != nil {
		return "", err
	}

	if startsWithPath(param, body) {
		return fragment, nil
	}
	return Emit(fragment), nil
}

// Emit turns a compiled fragment into a complete filter by anchoring it on
// the identity filter ".".
func Emit(fragment string) string {
	return "." + fragment
}

// startsWithPath reports whether the fragment compiled from node begins with
// a field access on context, such as ".a" for x.a. Such a fragment is
// already anchored; prefixing it would give "..a", which jq reads as
// recursive descent. The leftmost operand decides, since it is emitted
// first.
func startsWithPath(context string, node ast.Node) bool {
	switch n := node.(type) {
	case *ast.MemberExpression:
		if id, ok := n.Object.(*ast.Identifier); ok && id.Name == context {
			return !n.Computed
		}
		return startsWithPath(context, n.Object)
	case *ast.CallExpression:
		if m, ok := n.Callee.(*ast.MemberExpression); ok {
			return startsWithPath(context, m.Object)
		}
		return false
	case *ast.BinaryExpression:
		return startsWithPath(context, n.Left)
	case *ast.LogicalExpression:
		return startsWithPath(context, n.Left)
	default:
		return false
	}
}
