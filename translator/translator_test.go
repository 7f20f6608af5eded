package translator

import (
	"testing"

	"github.com/thisisjab/arrowjq/fault"
	"github.com/thisisjab/arrowjq/lambda/parser"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// identity and literals
		{"x => x", "."},
		{"x => 1", ".1"},
		{"x => 1.50", ".1.50"},
		{"x => 0x1F", ".0x1F"},
		{"x => 'a'", ".'a'"},
		{`x => "a\tb"`, `."a\tb"`},
		{"x => true", ".true"},
		{"x => false", ".false"},
		{"x => null", ".null"},
		{"x => .5", "..5"},
		{"x => .5 < x.a", "..5 < .a"},

		// member access
		{"x => x.p", ".p"},
		{"x => x.a.b", ".a.b"},
		{"x => x['p']", ".['p']"},
		{"x => x[0]", ".[0]"},
		{"x => x[x.k]", ".[.k]"},
		{"x => x.a[0].b", ".a[0].b"},
		{"item => item.default", ".default"},

		// method chains
		{"x => x.a.filter(y => y.b).map(y => y.c)", ".a | map(select(.b)) | map(.c)"},
		{"x => x.map(y => y.a)", ". | map(.a)"},
		{"x => x.filter(y => y.a > 1)", ". | map(select(.a > 1))"},
		{"x => x.map((y, i) => y.a)", ". | map(.a)"},
		{"x => x.a.filter(y => y.b.map(z => z.c))", ".a | map(select(.b | map(.c)))"},
		{"x => x.items.slice(0, 2).map(i => i.name)", ".items[0:2] | map(.name)"},
		{"x => x.a.map(x => x.b)", ".a | map(.b)"},
		{"x => x.a.map(y => x.b)", ".a | map(x.b)"},

		// slices
		{"x => x.slice(1, 3)", ".[1:3]"},
		{"x => x.slice(1)", ".[1:]"},
		{"x => x.slice()", ".[:]"},
		{"x => x.slice(-1)", ".[:]"},
		{"x => x.slice(x.a, 2)", ".[:2]"},
		{"x => x.slice(1.50, 1e3)", ".[1.5:1000]"},
		{"x => x.slice(0x10)", ".[16:]"},
		{"x => x.slice('a', null)", ".[a:]"},
		{"x => x.slice(true)", ".[true:]"},
		{"x => x.slice(1, 2, 3)", ".[1:2]"},
		{"x => x.slice(1e21, 1e-7)", ".[1e+21:1e-7]"},
		{"x => x.slice(/a/g)", ".[/a/g:]"},

		// operators
		{"x => x.a < x.b", ".a < .b"},
		{"x => x.a > x.b", ".a > .b"},
		{"x => x.a === x.b", ".a == .b"},
		{"x => x.a == x.b", ".a == .b"},
		{"x => x.a !== x.b", ".a != .b"},
		{"x => x.a != x.b", ".a != .b"},
		{"x => x.a == 'b'", ".a == 'b'"},
		{"x => x.a == /b/", ".a == /b/"},
		{"x => x.a.filter(y => y.b == /c[/]d/i)", ".a | map(select(.b == /c[/]d/i))"},
		{"x => x.a && x.b", ".a and .b"},
		{"x => x.a || x.b", ".a and .b"},
		{"x => x.a && x.b || x.c", ".a and .b and .c"},
		{"x => x.users.filter(u => u.age > 18 && u.active === true)", ".users | map(select(.age > 18 and .active == true))"},

		// free identifiers pass through
		{"x => y", ".y"},
		{"x => x.a == y", ".a == y"},
		{"x => y.a", ".y.a"},
		{"x => x[0] < x.a", ".[0] < .a"},

		// layout does not matter
		{"x =>\n  x.a // first\n   .b;", ".a.b"},
		{"(x) => (x.a)", ".a"},
	}

	for _, tt := range tests {
		actual, err := Translate(tt.input)
		if err != nil {
			t.Fatalf("Translate(%q) returned error: %v", tt.input, err)
		}

		if actual != tt.expected {
			t.Fatalf("Translate(%q) = %q, want %q", tt.input, actual, tt.expected)
		}
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		input   string
		code    fault.Code
		message string
	}{
		{"x =>", fault.SyntaxErrorCode, "Line 1: Unexpected end of input"},

		{"x => x(); y => y", fault.MultipleStatementsCode, "multiple statements found: expected 1, got 2"},
		{"", fault.MultipleStatementsCode, "expected exactly one statement, found none"},
		{"let a = 1", fault.UnexpectedStatementKindCode, "not an expression statement: VariableDeclaration"},
		{";", fault.UnexpectedStatementKindCode, "not an expression statement: EmptyStatement"},
		{"{ x => x }", fault.UnexpectedStatementKindCode, "not an expression statement: BlockStatement"},
		{"x.a", fault.NotAnArrowFunctionCode, "not an arrow function: MemberExpression"},
		{"(a, b) => a", fault.WrongParameterCountCode, "function should accept exactly one parameter, got 2"},
		{"() => 1", fault.WrongParameterCountCode, "function should accept exactly one parameter, got 0"},
		{"({x}) => x", fault.DestructuredParameterCode, "function parameter shouldn't be destructured: ObjectPattern"},
		{"([x]) => x", fault.DestructuredParameterCode, "function parameter shouldn't be destructured: ArrayPattern"},
		{"(...x) => x", fault.DestructuredParameterCode, "function parameter shouldn't be destructured: RestElement"},
		{"(x = 1) => x", fault.DestructuredParameterCode, "function parameter shouldn't be destructured: AssignmentPattern"},
		{"async x => x", fault.AsyncNotSupportedCode, "function should be synchronous"},
		{"async (x) => x", fault.AsyncNotSupportedCode, "function should be synchronous"},
		{"async ({x}) => x", fault.DestructuredParameterCode, "function parameter shouldn't be destructured: ObjectPattern"},

		{"x => x.foo()", fault.UnrecognizedMethodCode, "unrecognized method: foo"},
		{"x => x['map'](y => y)", fault.UnrecognizedMethodCode, "unrecognized method: ['map']"},
		{"x => x.foo().map(y => y)", fault.UnrecognizedMethodCode, "unrecognized method: foo"},
		{"x => x()", fault.UnrecognizedCalleeCode, "unrecognized callee: x"},
		{"x => x.a.map(y => y())", fault.UnrecognizedCalleeCode, "unrecognized callee: y"},
		{"x => x.map()", fault.WrongArgumentCountCode, "map accepts exactly 1 argument, got 0"},
		{"x => x.filter(a => a, 1)", fault.WrongArgumentCountCode, "filter accepts exactly 1 argument, got 2"},
		{"x => x.map(1)", fault.PredicateNotArrowCode, "map predicate must be an arrow function, got Literal"},
		{"x => x.filter(f)", fault.PredicateNotArrowCode, "filter predicate must be an arrow function, got Identifier"},
		{"x => x.map(() => 1)", fault.PredicateMissingParameterCode, "map predicate must have at least 1 parameter"},
		{"x => x.map(({a}) => a)", fault.DestructuredParameterCode, "map predicate parameter must not be destructured: ObjectPattern"},
		{"x => x.a <= 1", fault.UnrecognizedOperatorCode, "unrecognized binary operator: <="},
		{"x => x.a >= 1", fault.UnrecognizedOperatorCode, "unrecognized binary operator: >="},
		{"x => x.a + 1", fault.UnrecognizedOperatorCode, "unrecognized binary operator: +"},
		{"x => (x.a + 1) < 2", fault.UnrecognizedOperatorCode, "unrecognized binary operator: +"},
		{"x => x.a ?? 1", fault.UnrecognizedOperatorCode, "unrecognized logical operator: ??"},
		{"x => !x.a", fault.UnrecognizedExpressionCode, "unrecognized expression: UnaryExpression"},
		{"x => x.a ? 1 : 2", fault.UnrecognizedExpressionCode, "unrecognized expression: ConditionalExpression"},
		{"x => [x]", fault.UnrecognizedExpressionCode, "unrecognized expression: ArrayExpression"},
		{"x => ({a: x})", fault.UnrecognizedExpressionCode, "unrecognized expression: ObjectExpression"},
		{"x => this", fault.UnrecognizedExpressionCode, "unrecognized expression: ThisExpression"},
		{"x => { return x }", fault.UnrecognizedExpressionCode, "unrecognized expression: BlockStatement"},
		{"x => new Date()", fault.UnrecognizedExpressionCode, "unrecognized expression: NewExpression"},
		{"x => y => y", fault.UnrecognizedExpressionCode, "unrecognized expression: ArrowFunctionExpression"},
		{"x => x.map(y => { return y })", fault.UnrecognizedExpressionCode, "unrecognized expression: BlockStatement"},
	}

	for _, tt := range tests {
		actual, err := Translate(tt.input)
		if err == nil {
			t.Fatalf("Translate(%q) = %q, expected an error", tt.input, actual)
		}

		if code := fault.CodeOf(err); code != tt.code {
			t.Fatalf("Translate(%q): expected code %s, got %s (%v)", tt.input, tt.code, code, err)
		}
		if err.Error() != tt.message {
			t.Fatalf("Translate(%q): expected message %q, got %q", tt.input, tt.message, err.Error())
		}
		if !tt.code.IsTranslation() {
			t.Fatalf("code %s should be a translation code", tt.code)
		}
	}
}

func TestTranslateErrorPositions(t *testing.T) {
	tests := []struct {
		input  string
		line   int
		column int
	}{
		{"x => x.foo()", 1, 8},
		{"x => x(); y => y", 1, 11},
		{"x =>\n  x.a <= 1", 2, 3},
		{"x => x.map(1)", 1, 12},
		{"({x}) => x", 1, 2},
		{"x => x.a.map(y =>\n  !y)", 2, 3},
	}

	for _, tt := range tests {
		_, err := Translate(tt.input)
		if err == nil {
			t.Fatalf("Translate(%q): expected an error", tt.input)
		}

		pos, ok := fault.PositionOf(err)
		if !ok {
			t.Fatalf("Translate(%q): expected position metadata on %v", tt.input, err)
		}
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Fatalf("Translate(%q): expected position %d:%d, got %s", tt.input, tt.line, tt.column, pos)
		}
	}
}

func TestTranslateIsDeterministic(t *testing.T) {
	inputs := []string{
		"x => x.a.filter(y => y.b > 1).map(y => y.c)",
		"x => x.foo()",
	}

	for _, input := range inputs {
		first, firstErr := Translate(input)
		for range 10 {
			again, err := Translate(input)
			if again != first {
				t.Fatalf("Translate(%q) = %q, previously %q", input, again, first)
			}
			if (err == nil) != (firstErr == nil) || err != nil && err.Error() != firstErr.Error() {
				t.Fatalf("Translate(%q) error %v, previously %v", input, err, firstErr)
			}
		}
	}
}

func TestEmit(t *testing.T) {
	tests := map[string]string{
		"":           ".",
		".a":         "..a",
		".5":         "..5",
		"[0:1]":      ".[0:1]",
		" | map(.a)": ". | map(.a)",
	}

	for fragment, expected := range tests {
		if actual := Emit(fragment); actual != expected {
			t.Fatalf("Emit(%q) = %q, want %q", fragment, actual, expected)
		}
	}
}

func TestStartsWithPath(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"x => x", false},
		{"x => x.a", true},
		{"x => x.a[0].b", true},
		{"x => x[0].b", false},
		{"x => x.a.map(y => y)", true},
		{"x => x.map(y => y)", false},
		{"x => x.slice(1)", false},
		{"x => x.a > 1", true},
		{"x => 1 > x.a", false},
		{"x => x.a && x.b", true},
		{"x => .5", false},
		{"x => y.a", false},
	}

	for _, tt := range tests {
		program, err := parser.Parse(tt.input)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
		}
		param, body, err := Validate(program)
		if err != nil {
			t.Fatalf("Validate(%q) returned error: %v", tt.input, err)
		}

		if actual := startsWithPath(param, body); actual != tt.expected {
			t.Fatalf("startsWithPath(%q) = %v, want %v", tt.input, actual, tt.expected)
		}
	}
}
