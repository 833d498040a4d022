package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "rejected", "completed"} {
		s, err := ParseStatus(raw)
		assert.NoError(t, err)
		assert.Equal(t, Status(raw), s)
	}

	// "approved" is a client-side alias for confirmed.
	s, err := ParseStatus("approved")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusIsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.False(t, StatusRejected.IsActive())
	assert.False(t, StatusCompleted.IsActive())
}
