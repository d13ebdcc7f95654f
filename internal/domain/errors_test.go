package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_MatchesSentinelThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create slot: %w", &ValidationError{Failures: []ValidationFailure{
		{Field: "date", Required: true, ErrorMessage: "date is required"},
		{Field: "end_time", ErrorMessage: "end_time must be after start_time"},
	}})

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrConflict)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Failures, 2)
	assert.Contains(t, err.Error(), "date: date is required")
}

func TestConflictError_MatchesSentinel(t *testing.T) {
	err := &ConflictError{Conflicts: []SlotConflict{{Type: ConflictOverlap, Message: "overlap"}}}

	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "overlap")
}
