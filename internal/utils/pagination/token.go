package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeEntryToken creates a base64 cursor from a ledger entry's creation
// time and ID, for consistent keyset pagination over entry history.
func EncodeEntryToken(createdAt time.Time, entryID int64) string {
	tokenStr := fmt.Sprintf("%s|%d", createdAt.Format(timeFormat), entryID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeEntryToken parses a cursor back into creation time and entry ID.
func DecodeEntryToken(token string) (time.Time, int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	entryID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (entry_id parse): %w", err)
	}

	return createdAt, entryID, nil
}
