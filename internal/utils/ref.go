package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// NewBookingReference returns a human-readable booking reference of the
// form "BKG-XXXXXXXXXXXX" where X is upper-case hex from a secure
// random source.  Six random bytes give 48 bits of entropy, which makes
// collisions under concurrent load a non-concern without coordinating
// on a clock or a sequence.
func NewBookingReference() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "BKG-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// TicketNumber derives the number of the ticket at the given zero-based
// position within a booking.  Numbers are the booking reference plus a
// 1-based index, so they are unique as long as references are.
func TicketNumber(bookingRef string, index int) string {
	return fmt.Sprintf("%s-%d", bookingRef, index+1)
}
