package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursorToken(t *testing.T) {
	createdAt := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursorToken(createdAt, "entry-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedCreatedAt, decodedID, err := DecodeCursorToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")
	assert.Equal(t, "entry-42", decodedID, "Record id should match after decode")

	// Zero time values round-trip too
	zeroToken := EncodeCursorToken(time.Time{}, "")
	decodedZero, decodedEmptyID, err := DecodeCursorToken(zeroToken)
	assert.NoError(t, err)
	assert.Equal(t, time.Time{}, decodedZero)
	assert.Empty(t, decodedEmptyID)
}

func TestDecodeCursorTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeCursorToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Missing separator
	_, _, err = DecodeCursorToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// Invalid time component
	_, _, err = DecodeCursorToken(EncodeMultiFieldToken("notadate", "entry-1"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestMultiFieldTokenRoundTrip(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	fields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fields)
}
