package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "should vanish"))
}

func TestHasCodeFindsCodeThroughChain(t *testing.T) {
	cause := errors.New("disk on fire")
	inner := Wrap(cause, CodeInternal, "query trainee")
	outer := Wrap(inner, CodeNotFound, "trainee lookup")

	assert.True(t, HasCode(outer, CodeNotFound))
	assert.True(t, HasCode(outer, CodeInternal))
	assert.False(t, HasCode(outer, CodeConflict))
}

func TestHasCodeUncodedError(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.False(t, HasCode(nil, CodeInternal))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeBadRequest, CodeOf(New(CodeBadRequest, "bad rep code")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestErrorsIsThroughWrap(t *testing.T) {
	sentinel := errors.New("not found")
	wrapped := Wrap(fmt.Errorf("get exam: %w", sentinel), CodeNotFound, "exam lookup")

	require.True(t, errors.Is(wrapped, sentinel))
}
