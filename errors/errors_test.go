package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrUnknownTarget, "simulating trajectory")

	assert.Contains(t, wrapped.Error(), "simulating trajectory")
	assert.True(t, Is(wrapped, ErrUnknownTarget))
	assert.False(t, Is(wrapped, ErrEmptyTable))
}

func TestNewUnknownTargetError(t *testing.T) {
	err := NewUnknownTargetError("zebra")
	require.NotNil(t, err)

	assert.True(t, IsUnknownTarget(err))
	assert.Contains(t, err.Error(), `"zebra"`)
}

func TestNewInvalidInputError(t *testing.T) {
	err := NewInvalidInputError("object %q has %d attributes, want %d", "0007", 3, 5)
	require.NotNil(t, err)

	assert.True(t, Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), `"0007"`)
}

func TestIsUnknownTargetNil(t *testing.T) {
	assert.False(t, IsUnknownTarget(nil))
	assert.False(t, IsNotFoundError(nil))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrEmptyTable, ErrUnknownTarget, ErrNoTargets, ErrInvalidInput, ErrNotFound}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "sentinel %d should not match sentinel %d", i, j)
		}
	}
}
