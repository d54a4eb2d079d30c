package mcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "NetworkIO", NetworkIO.String())
	assert.Equal(t, "VarIntTooLarge", VarIntTooLarge.String())
	assert.Equal(t, "Unknown", Kind(999).String())
}

func TestNewAndIs(t *testing.T) {
	err := New(ProtocolMismatch, "bad magic")
	assert.True(t, Is(err, ProtocolMismatch))
	assert.False(t, Is(err, NetworkIO))
	assert.Contains(t, err.Error(), "ProtocolMismatch")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(NetworkIO, cause, "dial tcp")
	assert.True(t, Is(err, NetworkIO))
	assert.ErrorIs(t, err, cause)
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(NetworkIO, nil, "noop"))
}

func TestWrapf(t *testing.T) {
	cause := errors.New("boom")
	err := Wrapf(InvalidNumber, cause, "parse field %d", 3)
	assert.True(t, Is(err, InvalidNumber))
	assert.Contains(t, err.Error(), "parse field 3")
}
