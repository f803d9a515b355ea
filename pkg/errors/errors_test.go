package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New(ErrCodeSMILESInvalidChar, "invalid character")
	assert.Equal(t, "[SMI_001] invalid character", e.Error())

	withDetail := e.WithDetail(`near "C?C"`)
	assert.Equal(t, `[SMI_001] invalid character: near "C?C"`, withDetail.Error())
	// The original is untouched.
	assert.Empty(t, e.Detail)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))

	cause := fmt.Errorf("disk full")
	e := Wrap(cause, ErrCodeDatabaseError, "store failed")
	assert.Equal(t, ErrCodeDatabaseError, e.Code)
	assert.ErrorIs(t, e, cause)
}

func TestWrap_PreservesCodeForUnknown(t *testing.T) {
	inner := New(ErrCodePerceptionKekulization, "failed")
	e := Wrap(inner, CodeUnknown, "while perceiving")
	assert.Equal(t, ErrCodePerceptionKekulization, e.Code)
}

func TestIsCodeAndGetCode(t *testing.T) {
	e := New(ErrCodeSMILESDotSeparator, "dot")
	wrapped := Wrap(e, ErrCodeInternal, "outer")

	assert.True(t, IsCode(wrapped, ErrCodeSMILESDotSeparator))
	assert.True(t, IsCode(wrapped, ErrCodeInternal))
	assert.False(t, IsCode(wrapped, ErrCodeNotFound))

	assert.Equal(t, ErrCodeInternal, GetCode(wrapped))
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(fmt.Errorf("plain")))
}

func TestErrorFamilies(t *testing.T) {
	assert.True(t, IsParseError(New(ErrCodeSMILESUnclosedRing, "ring")))
	assert.True(t, IsPerceptionError(New(ErrCodePerceptionBondOrder, "bo")))
	assert.True(t, IsMisuse(New(ErrCodeGraphNoSuchAtom, "atom")))
	assert.False(t, IsParseError(New(ErrCodeInternal, "x")))
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "multi-fragment SMILES not supported",
		DefaultMessageForCode(ErrCodeSMILESDotSeparator))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE")))
}
