package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	e := WrapError("badges", "AwardBadge", ErrValidation, "user id is required", nil)
	assert.Equal(t, "badges.AwardBadge: user id is required", e.Error())

	cause := errors.New("connection reset")
	e = WrapError("scoring", "Recalculate", ErrServiceUnavailable, "score upsert failed", cause)
	assert.Equal(t, "scoring.Recalculate: score upsert failed: connection reset", e.Error())
}

func TestDomainError_MatchesKindAndCause(t *testing.T) {
	sentinel := errors.New("score record not found")
	err := WrapError("scoring", "GetScoreBreakdown", ErrNotFound, "score row missing", sentinel)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, ErrAlreadyExists)

	// Matching survives further wrapping.
	outer := fmt.Errorf("outer: %w", err)
	assert.ErrorIs(t, outer, ErrNotFound)
	assert.ErrorIs(t, outer, sentinel)
}

func TestDomainError_UnwrapPrefersCause(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, cause, errors.Unwrap(WrapError("d", "Op", ErrNotFound, "m", cause)))
	assert.Equal(t, ErrNotFound, errors.Unwrap(WrapError("d", "Op", ErrNotFound, "m", nil)))
}

func TestKindHelpers(t *testing.T) {
	assert.True(t, IsNotFound(WrapError("d", "Op", ErrNotFound, "m", nil)))
	assert.False(t, IsNotFound(WrapError("d", "Op", ErrValidation, "m", nil)))
	assert.False(t, IsNotFound(nil))

	assert.True(t, IsAlreadyExists(WrapError("d", "Op", ErrAlreadyExists, "m", nil)))
	assert.False(t, IsAlreadyExists(errors.New("plain")))
}
