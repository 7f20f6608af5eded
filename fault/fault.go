package fault

import (
	"errors"
	"fmt"
)

type Code string

const (
	UnknownCode  Code = "unknown"
	NotFoundCode Code = "not_found"
	BadInputCode Code = "bad_input"

	// Input is not valid source text.
	SyntaxErrorCode Code = "syntax_error"

	// Input parsed, but is not a single qualifying arrow function.
	MultipleStatementsCode      Code = "multiple_statements"
	UnexpectedStatementKindCode Code = "unexpected_statement_kind"
	NotAnArrowFunctionCode      Code = "not_an_arrow_function"
	WrongParameterCountCode     Code = "wrong_parameter_count"
	DestructuredParameterCode   Code = "destructured_parameter"
	AsyncNotSupportedCode       Code = "async_not_supported"

	// The function body uses a construct with no filter translation.
	WrongArgumentCountCode        Code = "wrong_argument_count"
	PredicateNotArrowCode         Code = "predicate_not_arrow"
	PredicateMissingParameterCode Code = "predicate_missing_parameter"
	UnrecognizedMethodCode        Code = "unrecognized_method"
	UnrecognizedCalleeCode        Code = "unrecognized_callee"
	UnrecognizedOperatorCode      Code = "unrecognized_operator"
	UnrecognizedExpressionCode    Code = "unrecognized_expression"
)

// IsTranslation reports whether the code describes rejected input text, as
// opposed to a transport or lookup problem.
func (c Code) IsTranslation() bool {
	switch c {
	case SyntaxErrorCode,
		MultipleStatementsCode, UnexpectedStatementKindCode, NotAnArrowFunctionCode,
		WrongParameterCountCode, DestructuredParameterCode, AsyncNotSupportedCode,
		WrongArgumentCountCode, PredicateNotArrowCode, PredicateMissingParameterCode,
		UnrecognizedMethodCode, UnrecognizedCalleeCode, UnrecognizedOperatorCode,
		UnrecognizedExpressionCode:
		return true
	}
	return false
}

type FieldErrorsMetadata map[string][]string

// PositionMetadata locates the offending construct in the input text.
type PositionMetadata struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p PositionMetadata) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Fault struct {
	code     Code
	message  string
	metadata any
	original error
}

func New(code Code, message string) Fault {
	return Fault{
		code:    code,
		message: message,
	}
}

func Newf(code Code, format string, args ...any) Fault {
	return New(code, fmt.Sprintf(format, args...))
}

func (f Fault) WithMetadata(metadata any) Fault {
	e := f
	e.metadata = metadata
	return e
}

func (f Fault) WithOriginal(original error) Fault {
	e := f
	e.original = original
	return e
}

func (f Fault) Code() Code {
	return f.code
}

func (f Fault) Message() string {
	return f.message
}

func (f Fault) Metadata() any {
	return f.metadata
}

func (f Fault) Original() error {
	return f.original
}

func (f Fault) Unwrap() error {
	return f.original
}

func (f Fault) Error() string {
	if f.original != nil {
		return fmt.Sprintf("%s: %v", f.message, f.original)
	}
	return f.message
}

// CodeOf returns the code of the first Fault in err's chain, or UnknownCode.
func CodeOf(err error) Code {
	var f Fault
	if errors.As(err, &f) {
		return f.code
	}
	return UnknownCode
}

// PositionOf returns the input position attached to the first Fault in
// err's chain, if any.
func PositionOf(err error) (PositionMetadata, bool) {
	var f Fault
	if !errors.As(err, &f) {
		return PositionMetadata{}, false
	}
	pos, ok := f.metadata.(PositionMetadata)
	return pos, ok
}
