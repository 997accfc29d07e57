package pagination_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finhealth/savings_app/internal/utils/pagination"
)

func TestEntryTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 29, 10, 30, 0, 123456789, time.UTC)

	token := pagination.EncodeEntryToken(createdAt, 42)
	require.NotEmpty(t, token)

	gotTime, gotID, err := pagination.DecodeEntryToken(token)
	require.NoError(t, err)
	assert.True(t, gotTime.Equal(createdAt))
	assert.Equal(t, int64(42), gotID)
}

func TestDecodeEntryTokenErrors(t *testing.T) {
	_, _, err := pagination.DecodeEntryToken("not base64 !!!")
	assert.Error(t, err)

	// Valid base64, but not the expected layout.
	_, _, err = pagination.DecodeEntryToken(base64.StdEncoding.EncodeToString([]byte("no separator")))
	assert.Error(t, err)

	_, _, err = pagination.DecodeEntryToken(base64.StdEncoding.EncodeToString([]byte("bad-time|42")))
	assert.Error(t, err)

	_, _, err = pagination.DecodeEntryToken(base64.StdEncoding.EncodeToString([]byte("2026-08-29T10:30:00Z|not-a-number")))
	assert.Error(t, err)
}
