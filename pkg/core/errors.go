package core

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

type (
	// ReferenceNotFoundError indicates that a named upstream stack has not
	// been applied, so its outputs cannot be consumed. Always fatal.
	ReferenceNotFoundError struct {
		Stack string
		Key   string
	}

	// UnresolvedLookupError indicates a wiring reference to a role, group or
	// policy name absent from the resolved table. In lenient mode the single
	// edge is skipped with a warning; in strict mode it aborts the stack.
	UnresolvedLookupError struct {
		Kind  string
		Name  string
		Stack string
	}

	// UnsupportedPolicyKindError is an exhaustiveness failure on the policy
	// kind tagged union. Fatal at construction time.
	UnsupportedPolicyKindError struct {
		Kind string
	}

	WrappedError struct {
		Message string
		Cause   error
		Stack   errors.StackTrace
	}
)

func (err *ReferenceNotFoundError) Error() string {
	if err.Key != "" {
		return fmt.Sprintf("stack %q has no output %q: has it been applied?", err.Stack, err.Key)
	}
	return fmt.Sprintf("no outputs found for stack %q: has it been applied?", err.Stack)
}

func (err *UnresolvedLookupError) Error() string {
	return fmt.Sprintf("%s %q is not declared for stack %q", err.Kind, err.Name, err.Stack)
}

func (err *UnsupportedPolicyKindError) Error() string {
	return fmt.Sprintf("unsupported policy kind %q", err.Kind)
}

func (err *WrappedError) Error() string {
	if err.Message != "" {
		return err.Message + ": " + err.Cause.Error()
	}
	return err.Cause.Error()
}

func (err *WrappedError) Format(s fmt.State, verb rune) {
	if err.Message != "" {
		fmt.Fprint(s, err.Message+": ")
	}
	if len(err.Stack) > 0 && s.Flag('+') {
		err.Stack.Format(s, verb)
	}
	if formatter, ok := err.Cause.(fmt.Formatter); ok {
		formatter.Format(s, verb)
	} else {
		fmt.Fprint(s, err.Cause.Error())
	}
}

func (err *WrappedError) Unwrap() error {
	return err.Cause
}

func WrapErrf(err error, msg string, args ...interface{}) *WrappedError {
	return &WrappedError{
		Message: fmt.Sprintf(msg, args...),
		Cause:   err,
		Stack:   callers(2),
	}
}

func callers(depth int) errors.StackTrace {
	const maxDepth = 32

	var pcs [maxDepth]uintptr
	n := runtime.Callers(depth+1, pcs[:])

	frames := make([]errors.Frame, n)
	for i, frame := range pcs[:n] {
		frames[i] = errors.Frame(frame)
	}
	return errors.StackTrace(frames)
}
