// Package errors implements the compiler's error taxonomy: one typed error
// per phase, each carrying a numbered diagnostic code and the phase's exit
// status, plus a warning accumulator for non-fatal semantic observations.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which phase raised a CompilerError and fixes the process
// exit code that phase must use.
type Kind string

const (
	Usage    Kind = "UsageError"
	IO       Kind = "IOError"
	Syntax   Kind = "SyntaxError"
	Semantic Kind = "SemanticError"
	IR       Kind = "IRError"
	Opt      Kind = "OptError"
	Codegen  Kind = "CodegenError"
)

// ExitCode returns the process exit status mandated for a Kind.
func (k Kind) ExitCode() int {
	switch k {
	case Usage, IO:
		return 1
	case Syntax:
		return 2
	case Semantic:
		return 3
	case IR:
		return 4
	case Opt:
		return 5
	case Codegen:
		return 6
	default:
		return 1
	}
}

func (k Kind) phase() string {
	switch k {
	case Usage, IO:
		return "shell"
	case Syntax:
		return "C1/C2"
	case Semantic:
		return "C3"
	case IR:
		return "C4"
	case Opt:
		return "C5/C6"
	case Codegen:
		return "C7"
	default:
		return "?"
	}
}

// CompilerError is the single error type returned by every phase. Code is a
// dotted diagnostic number such as "03.22"; it is empty for internal errors
// (IRError/OptError/CodegenError) that have no user-facing numbering scheme.
type CompilerError struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *CompilerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s || %s [%s] -> %s", e.Kind.phase(), e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s || %s -> %s", e.Kind.phase(), e.Kind, e.Message)
}

// Unwrap exposes the pkg/errors-captured stack trace (if any) to callers
// using errors.As / errors.Cause.
func (e *CompilerError) Unwrap() error { return e.cause }

// ExitCode returns the exit status this error terminates the process with.
func (e *CompilerError) ExitCode() int { return e.Kind.ExitCode() }

func newf(kind Kind, code, format string, args ...interface{}) *CompilerError {
	msg := fmt.Sprintf(format, args...)
	return &CompilerError{Kind: kind, Code: code, Message: msg, cause: errors.WithStack(fmt.Errorf("%s", msg))}
}

func NewUsageError(format string, args ...interface{}) *CompilerError {
	return newf(Usage, "", format, args...)
}

func NewIOError(format string, args ...interface{}) *CompilerError {
	return newf(IO, "", format, args...)
}

func NewSyntaxError(code, format string, args ...interface{}) *CompilerError {
	return newf(Syntax, code, format, args...)
}

func NewSemanticError(code, format string, args ...interface{}) *CompilerError {
	return newf(Semantic, code, format, args...)
}

func NewIRError(format string, args ...interface{}) *CompilerError {
	return newf(IR, "", format, args...)
}

func NewOptError(format string, args ...interface{}) *CompilerError {
	return newf(Opt, "", format, args...)
}

func NewCodegenError(format string, args ...interface{}) *CompilerError {
	return newf(Codegen, "", format, args...)
}

// StackTrace returns a formatted stack trace for -debug-dump, if the error
// was constructed through this package (it always is).
func StackTrace(err error) string {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	var st stackTracer
	cur := err
	for cur != nil {
		if s, ok := cur.(stackTracer); ok {
			st = s
			break
		}
		u, ok := cur.(interface{ Unwrap() error })
		if !ok {
			break
		}
		cur = u.Unwrap()
	}
	if st == nil {
		return ""
	}
	return fmt.Sprintf("%+v", st.StackTrace())
}

// Warning is a non-fatal diagnostic accumulated during C3 and reported in
// report section 3. It never affects the exit code.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string {
	if w.Code != "" {
		return fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return w.Message
}
