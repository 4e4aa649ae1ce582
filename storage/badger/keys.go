package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/commatch/core"
)

// Key prefixes for different data types
const (
	profilePrefix        = "prof"
	profileHistoryPrefix = "profhist"
)

// makeProfileKey generates a key for a profile by user id.
func makeProfileKey(id core.UserID) []byte {
	return []byte(fmt.Sprintf("%s:%d", profilePrefix, id))
}

// makeHistoryKey generates a composite key for an archived profile version.
// Format: prefix:userID:archivedAt. BigEndian encoding keeps the entries
// for one user contiguous and ordered by archive time.
func makeHistoryKey(userID core.UserID, archivedAt time.Time) []byte {
	prefix := []byte(profileHistoryPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(userID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(archivedAt.UnixMicro()))
	return buf
}

// makePartialHistoryKey generates the per-user prefix for history scans.
func makePartialHistoryKey(userID core.UserID) []byte {
	prefix := []byte(profileHistoryPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(userID))
	return buf
}
