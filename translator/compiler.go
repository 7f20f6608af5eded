package translator

import (
	"math"
	"strconv"
	"strings"

	"github.com/thisisjab/arrowjq/fault"
	"github.com/thisisjab/arrowjq/lambda/ast"
)

var binaryOperators = map[string]string{
	"<":   "<",
	">":   ">",
	"==":  "==",
	"===": "==",
	"!=":  "!=",
	"!==": "!=",
}

// "||" also emits "and". Existing filters depend on it, see DESIGN.md
// before changing this.
var logicalOperators = map[string]string{
	"&&": "and",
	"||": "and",
}

// Compile converts an expression into a filter fragment. context is the
// parameter name that stands for the current pipeline value; references to
// it compile to the empty fragment.
func Compile(context string, node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.CallExpression:
		return compileCall(context, n)

	case *ast.MemberExpression:
		return compileMember(context, n)

	case *ast.Identifier:
		if n.Name == context {
			return "", nil
		}
		return n.Name, nil

	case *ast.BinaryExpression:
		left, right, err := compileOperands(context, n.Left, n.Right)
		if err != nil {
			return "", err
		}
		op, ok := binaryOperators[n.Operator]
		if !ok {
			return "", failAt(n, fault.UnrecognizedOperatorCode, "unrecognized binary operator: %s", n.Operator)
		}
		return left + " " + op + " " + right, nil

	case *ast.LogicalExpression:
		left, right, err := compileOperands(context, n.Left, n.Right)
		if err != nil {
			return "", err
		}
		op, ok := logicalOperators[n.Operator]
		if !ok {
			return "", failAt(n, fault.UnrecognizedOperatorCode, "unrecognized logical operator: %s", n.Operator)
		}
		return left + " " + op + " " + right, nil

	case *ast.Literal:
		return n.Raw, nil

	case nil:
		return "", fault.New(fault.UnrecognizedExpressionCode, "unrecognized expression: missing node")

	default:
		return "", failAt(node, fault.UnrecognizedExpressionCode, "unrecognized expression: %s", node.Kind())
	}
}

func compileOperands(context string, left, right ast.Node) (string, string, error) {
	l, err := Compile(context, left)
	if err != nil {
		return "", "", err
	}
	r, err := Compile(context, right)
	if err != nil {
		return "", "", err
	}
	return l, r, nil
}

func compileMember(context string, m *ast.MemberExpression) (string, error) {
	object, err := Compile(context, m.Object)
	if err != nil {
		return "", err
	}

	if m.Computed {
		// object[property]
		property, err := Compile(context, m.Property)
		if err != nil {
			return "", err
		}
		return object + "[" + property + "]", nil
	}

	// object.property
	name, ok := m.Property.(*ast.Identifier)
	if !ok {
		return "", failAt(m.Property, fault.UnrecognizedExpressionCode, "unrecognized expression: %s", m.Property.Kind())
	}
	return object + "." + name.Name, nil
}

// compileCall handles the method call pattern <object>.<method>(<args>).
// The object is compiled under the current context before the method is
// looked at, so errors inside the object are reported first.
func compileCall(context string, call *ast.CallExpression) (string, error) {
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return "", failAt(call.Callee, fault.UnrecognizedCalleeCode, "unrecognized callee: %s", ast.Sprint(call.Callee))
	}

	callee, err := Compile(context, member.Object)
	if err != nil {
		return "", err
	}

	method := methodName(member)
	switch method {
	case "filter", "map":
		body, err := compilePredicate(method, call)
		if err != nil {
			return "", err
		}
		if method == "filter" {
			return callee + " | map(select(" + body + "))", nil
		}
		return callee + " | map(" + body + ")", nil

	case "slice":
		return callee + "[" + sliceBound(call.Arguments, 0) + ":" + sliceBound(call.Arguments, 1) + "]", nil

	default:
		return "", failAt(member.Property, fault.UnrecognizedMethodCode, "unrecognized method: %s", method)
	}
}

// methodName returns the name a member call invokes. Computed members such
// as x["map"] come back bracketed, which never matches a known method.
func methodName(m *ast.MemberExpression) string {
	if id, ok := m.Property.(*ast.Identifier); ok && !m.Computed {
		return id.Name
	}
	return "[" + ast.Sprint(m.Property) + "]"
}

// compilePredicate compiles the body of a map or filter callback. The
// callback's first parameter becomes the context for its body only.
func compilePredicate(method string, call *ast.CallExpression) (string, error) {
	if len(call.Arguments) != 1 {
		return "", failAt(call, fault.WrongArgumentCountCode, "%s accepts exactly 1 argument, got %d", method, len(call.Arguments))
	}

	predicate, ok := call.Arguments[0].(*ast.ArrowFunctionExpression)
	if !ok {
		return "", failAt(call.Arguments[0], fault.PredicateNotArrowCode, "%s predicate must be an arrow function, got %s", method, call.Arguments[0].Kind())
	}

	if len(predicate.Params) < 1 {
		return "", failAt(predicate, fault.PredicateMissingParameterCode, "%s predicate must have at least 1 parameter", method)
	}

	item, ok := predicate.Params[0].(*ast.Identifier)
	if !ok {
		return "", failAt(predicate.Params[0], fault.DestructuredParameterCode, "%s predicate parameter must not be destructured: %s", method, predicate.Params[0].Kind())
	}

	return Compile(item.Name, predicate.Body)
}

// sliceBound reads the i-th slice argument. Bounds are taken from literal
// values only; anything else, including a missing argument, leaves that end
// of the slice open.
func sliceBound(args []ast.Expression, i int) string {
	if i >= len(args) {
		return ""
	}

	lit, ok := args[i].(*ast.Literal)
	if !ok {
		return ""
	}

	switch v := lit.Value.(type) {
	case float64:
		return formatNumber(v)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case ast.RegExp:
		return v.String()
	default:
		return ""
	}
}

// formatNumber renders v the way JavaScript's String(number) does.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func failAt(n ast.Node, code fault.Code, format string, args ...any) error {
	f := fault.Newf(code, format, args...)
	if n == nil {
		return f
	}
	pos := n.Position()
	return f.WithMetadata(fault.PositionMetadata{Line: pos.Line, Column: pos.Column})
}
