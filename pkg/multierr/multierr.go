package multierr

import (
	"bytes"
	"errors"
	"fmt"
)

// Error collects independent failures so that one bad resource does not
// abort the rest of a stack synthesis.
type Error []error

func (e Error) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"

	case 1:
		return e[0].Error()

	default:
		buf := new(bytes.Buffer)
		fmt.Fprintf(buf, "%d errors occurred:", len(e))
		for _, err := range e {
			fmt.Fprintf(buf, `
	* %v`, err)
		}
		return buf.String()
	}
}

// Append mutates e, adding err. Appending nil is a no-op, so callers can
// funnel every result through without checking first:
//
//	var e Error
//	e.Append(doThing())
func (e *Error) Append(err error) {
	switch {
	case e == nil:
		// nothing to do; callers should use the value form via auto-referencing

	case err == nil:

	case *e == nil:
		*e = Error{err}

	default:
		*e = append(*e, err)
	}
}

// Append combines err1 and err2 without mutating either, flattening err1 if
// it is already an Error.
func Append(err1, err2 error) Error {
	switch {
	case err1 == nil && err2 == nil:
		return nil

	case err1 == nil:
		return Error{err2}

	case err2 == nil:
		return Error{err1}
	}

	if merr, ok := err1.(Error); ok {
		merr.Append(err2)
		return merr
	}
	return Error{err1, err2}
}

// ErrOrNil converts e into a plain error. A nil Error must not be returned
// directly as an error (a typed nil compares non-nil); a single element
// unwraps to itself.
func (e Error) ErrOrNil() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	default:
		return e
	}
}

func (e Error) Unwrap() error {
	switch len(e) {
	case 0:
		return nil

	case 1:
		return e[0]

	default:
		rest := e[1:]
		return fmt.Errorf("%w (and %d more)", rest.ErrOrNil(), len(rest))
	}
}

func (e Error) As(target any) bool {
	for _, err := range e {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}

func (e Error) Is(target error) bool {
	for _, err := range e {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
