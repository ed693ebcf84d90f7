package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepoNotFoundUnwraps(t *testing.T) {
	underlying := errors.New("boom")
	err := NewRepoNotFound("/tmp/repo", underlying)
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "/tmp/repo")
}

func TestIndexCorruptUnwraps(t *testing.T) {
	underlying := errors.New("bad magic")
	err := NewIndexCorrupt("/tmp/index.bin", "magic mismatch", underlying)
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "magic mismatch")
}

func TestNewMultiErrorFiltersNils(t *testing.T) {
	e1 := errors.New("one")
	e2 := errors.New("two")
	merr := NewMultiError([]error{nil, e1, nil, e2})
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, merr.Error(), "2 errors")
}

func TestNewMultiErrorEmptyReturnsNil(t *testing.T) {
	assert.Nil(t, NewMultiError([]error{nil, nil}))
	assert.Nil(t, NewMultiError(nil))
}

func TestNewMultiErrorSingleReturnsItsMessage(t *testing.T) {
	e1 := errors.New("only one")
	merr := NewMultiError([]error{e1})
	assert.Equal(t, "only one", merr.Error())
}
