package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingReferenceFormat(t *testing.T) {
	ref, err := NewBookingReference()
	require.NoError(t, err)
	assert.Regexp(t, `^BKG-[0-9A-F]{12}$`, ref)
}

func TestNewBookingReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref, err := NewBookingReference()
		require.NoError(t, err)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestTicketNumber(t *testing.T) {
	assert.Equal(t, "BKG-00AA11BB22CC-1", TicketNumber("BKG-00AA11BB22CC", 0))
	assert.Equal(t, "BKG-00AA11BB22CC-3", TicketNumber("BKG-00AA11BB22CC", 2))
}
