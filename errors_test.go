package raptor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidRequestErrorUnwrapsToSentinel(t *testing.T) {
	err := newInvalidRequest("access_legs must be non-empty")
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.Contains(t, err.Error(), "access_legs must be non-empty")
}

func TestDataInconsistencyErrorUnwrapsToSentinel(t *testing.T) {
	err := newDataInconsistency(3, "non-monotone arrival")
	assert.True(t, errors.Is(err, ErrDataInconsistency))
	assert.Contains(t, err.Error(), "pattern 3")
	assert.Contains(t, err.Error(), "non-monotone arrival")
}

func TestWrapCancelledPreservesSentinelAndCause(t *testing.T) {
	err := wrapCancelled(context.DeadlineExceeded)
	assert.True(t, errors.Is(err, ErrCancelled))
	assert.Contains(t, err.Error(), context.DeadlineExceeded.Error())
}
