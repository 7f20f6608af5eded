package translator

import (
	"github.com/thisisjab/arrowjq/fault"
	"github.com/thisisjab/arrowjq/lambda/ast"
)

// Validate checks that program is a single expression statement holding a
// synchronous arrow function with exactly one plain identifier parameter.
// It returns the parameter name and the function body.
func Validate(program *ast.Program) (string, ast.Node, error) {
	switch n := len(program.Body); {
	case n == 0:
		return "", nil, fault.New(fault.MultipleStatementsCode, "expected exactly one statement, found none")
	case n > 1:
		return "", nil, failAt(program.Body[1], fault.MultipleStatementsCode, "multiple statements found: expected 1, got %d", n)
	}

	stmt, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return "", nil, failAt(program.Body[0], fault.UnexpectedStatementKindCode, "not an expression statement: %s", program.Body[0].Kind())
	}

	fn, ok := stmt.Expression.(*ast.ArrowFunctionExpression)
	if !ok {
		return "", nil, failAt(stmt.Expression, fault.NotAnArrowFunctionCode, "not an arrow function: %s", stmt.Expression.Kind())
	}

	if len(fn.Params) != 1 {
		return "", nil, failAt(fn, fault.WrongParameterCountCode, "function should accept exactly one parameter, got %d", len(fn.Params))
	}

	param, ok := fn.Params[0].(*ast.Identifier)
	if !ok {
		return "", nil, failAt(fn.Params[0], fault.DestructuredParameterCode, "function parameter shouldn't be destructured: %s", fn.Params[0].Kind())
	}

	if fn.Async {
		return "", nil, failAt(fn, fault.AsyncNotSupportedCode, "function should be synchronous")
	}

	return param.Name, fn.Body, nil
}
