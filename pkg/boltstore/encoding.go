package boltstore

import (
	"bytes"
	"encoding/gob"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// encodeRecord serializes a PlayerRecord to bytes using gob.
func encodeRecord(rec *gamedb.PlayerRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeRecord deserializes bytes back into a PlayerRecord.
func decodeRecord(data []byte) (*gamedb.PlayerRecord, error) {
	var rec gamedb.PlayerRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
