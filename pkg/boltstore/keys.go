package boltstore

import (
	"encoding/binary"
	"strings"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// Bucket name constants for bbolt storage.
var (
	bucketMeta    = []byte("meta")
	bucketPlayers = []byte("players")
	bucketIndex   = []byte("index")
)

// Meta key constants.
var (
	keyVersion = []byte("version")
)

const schemaVersion = 1

// idToKey converts a PlayerID to an 8-byte big-endian key.
func idToKey(id gamedb.PlayerID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// keyToID converts an 8-byte big-endian key back to a PlayerID.
func keyToID(b []byte) gamedb.PlayerID {
	return gamedb.PlayerID(binary.BigEndian.Uint64(b))
}

// nameKey is the index key for a player name.
func nameKey(name string) []byte {
	return []byte(strings.ToLower(name))
}
