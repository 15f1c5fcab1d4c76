package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/tastetrail/tastetrail/core"
)

// Key prefixes for different data types
const (
	placeRecordPrefix  = "plarec"
	placeOrderPrefix   = "plaord"
	placeOrderIDPrefix = "plaordid"
	placeOrderSeq      = "plaordseq"
	embeddingPrefix    = "embvec:ent"
	embeddingMetaKey   = "embvec:meta"
)

// embeddingFormatVersion tags persisted embedding entries. Bump it whenever
// the vector serialization or the descriptive-text construction changes so
// stale caches are discarded instead of silently reused.
const embeddingFormatVersion uint64 = 1

// makePlaceKey generates a key for a place record by ID.
func makePlaceKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", placeRecordPrefix, id))
}

// makeOrderKey generates a key for the insertion-order index.
// Format: prefix:position
func makeOrderKey(position uint64) []byte {
	prefix := placeOrderPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort matches insertion order
	binary.BigEndian.PutUint64(buf[offset:], position)
	return buf
}

// makeOrderByIDKey generates the reverse-lookup key from place ID to its
// insertion-order position.
func makeOrderByIDKey(id core.ID) []byte {
	prefix := placeOrderIDPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeEmbeddingKey generates a key for a persisted place embedding.
func makeEmbeddingKey(id core.ID) []byte {
	prefix := embeddingPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// embeddingIDFromKey recovers the place ID from an embedding entry key.
func embeddingIDFromKey(key []byte) (core.ID, error) {
	prefixLen := len(embeddingPrefix) + 1
	if len(key) != prefixLen+8 {
		return 0, fmt.Errorf("malformed embedding key of length %d", len(key))
	}
	return core.ID(binary.BigEndian.Uint64(key[prefixLen:])), nil
}
