package multierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Append(t *testing.T) {
	assert := assert.New(t)

	var e Error
	e.Append(nil)
	assert.Nil(e.ErrOrNil())

	first := errors.New("first")
	e.Append(first)
	assert.Same(first, e.ErrOrNil())

	second := errors.New("second")
	e.Append(second)
	err := e.ErrOrNil()
	if assert.Error(err) {
		assert.Contains(err.Error(), "2 errors occurred")
		assert.Contains(err.Error(), "first")
		assert.Contains(err.Error(), "second")
	}
}

func Test_PackageAppend(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	cases := []struct {
		name    string
		err1    error
		err2    error
		wantLen int
	}{
		{name: "both nil", wantLen: 0},
		{name: "first nil", err2: second, wantLen: 1},
		{name: "second nil", err1: first, wantLen: 1},
		{name: "both set", err1: first, err2: second, wantLen: 2},
		{name: "flattens", err1: Error{first}, err2: second, wantLen: 2},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Len(Append(tt.err1, tt.err2), tt.wantLen)
		})
	}
}

type lookupError struct{ name string }

func (e *lookupError) Error() string { return fmt.Sprintf("lookup %q failed", e.name) }

func Test_ErrorsAsAndIs(t *testing.T) {
	assert := assert.New(t)

	sentinel := errors.New("sentinel")
	e := Error{
		fmt.Errorf("wrapping: %w", sentinel),
		&lookupError{name: "ghost"},
	}

	assert.ErrorIs(e, sentinel)
	var lookup *lookupError
	if assert.ErrorAs(e, &lookup) {
		assert.Equal("ghost", lookup.name)
	}
}
