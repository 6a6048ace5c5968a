package errors_test

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"stock-reconciler/core/errors"

	"github.com/stretchr/testify/assert"
)

func TestInputFormatError(t *testing.T) {
	err := errors.NewInputFormatError("inventory", 3, "Quantity", "abc", "not a number")

	assert.True(t, errors.Is(err, errors.ErrInputFormat))
	assert.False(t, errors.Is(err, errors.ErrSchemaMismatch))
	assert.Equal(t, `inventory line 3 column Quantity: not a number (got "abc")`, err.Error())

	bare := errors.NewInputFormatError("invoice", 0, "", "", "missing column Item")
	assert.Equal(t, "invoice: missing column Item", bare.Error())
}

func TestSchemaMismatchError(t *testing.T) {
	err := errors.NewSchemaMismatchError("invoice", "Widget", 2, 5)
	wrapped := fmt.Errorf("load: %w", err)

	assert.True(t, errors.Is(wrapped, errors.ErrSchemaMismatch))

	var sm *errors.SchemaMismatchError
	assert.True(t, errors.As(wrapped, &sm))
	assert.Equal(t, "Widget", sm.Key)
	assert.Equal(t, []int{2, 5}, sm.Lines)
}

func TestWrapIO(t *testing.T) {
	assert.Nil(t, errors.WrapIO("read", "x.csv", nil))

	err := errors.WrapIO("read", "x.csv", os.ErrNotExist)
	assert.True(t, errors.Is(err, errors.ErrIO))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "read x.csv")
}
