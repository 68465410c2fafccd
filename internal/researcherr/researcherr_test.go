package researcherr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	err := New(KindTransient, "op.Name", errors.New("boom"))
	assert.True(t, Is(err, KindTransient))
	assert.False(t, Is(err, KindFatal))
}

func TestIsFalseForPlainError(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), KindFatal))
}

func TestErrorMessageIncludesOpAndKind(t *testing.T) {
	err := New(KindValidation, "sanitize.Query", errors.New("empty"))
	assert.Contains(t, err.Error(), "sanitize.Query")
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "empty")
}

func TestUnwrapReturnsUnderlyingError(t *testing.T) {
	underlying := errors.New("root cause")
	err := New(KindFatal, "op", underlying)
	assert.ErrorIs(t, err, underlying)
}
