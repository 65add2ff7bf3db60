package boltstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "players.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAssignsIDs(t *testing.T) {
	s := openTemp(t)
	a := &gamedb.PlayerRecord{ID: gamedb.NoPlayer, Name: "철수"}
	b := &gamedb.PlayerRecord{ID: gamedb.NoPlayer, Name: "영희"}
	require.NoError(t, s.Put(a))
	require.NoError(t, s.Put(b))
	assert.Equal(t, gamedb.PlayerID(1), a.ID)
	assert.Equal(t, gamedb.PlayerID(2), b.ID)
	assert.Equal(t, 2, s.Count())
}

func TestGetByNameRoundTrip(t *testing.T) {
	s := openTemp(t)
	rec := &gamedb.PlayerRecord{
		ID:        gamedb.NoPlayer,
		Name:      "Frodo",
		Password:  "$2a$10$hash",
		Level:     5,
		Flags:     gamedb.PlrSiteOK,
		LoadRoom:  3001,
		Aliases:   gamedb.AliasList{{Name: "k", Replacement: "kill"}},
		LastLogon: time.Unix(1700000000, 0).UTC(),
	}
	require.NoError(t, s.Put(rec))

	got, err := s.GetByName("frodo")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Frodo", got.Name)
	assert.Equal(t, 5, got.Level)
	assert.Equal(t, gamedb.RoomVnum(3001), got.LoadRoom)
	require.Len(t, got.Aliases, 1)
	assert.Equal(t, "kill", got.Aliases[0].Replacement)
	assert.True(t, rec.LastLogon.Equal(got.LastLogon))

	_, err = s.GetByName("sam")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Get(99)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRenameMovesIndex(t *testing.T) {
	s := openTemp(t)
	rec := &gamedb.PlayerRecord{ID: gamedb.NoPlayer, Name: "old"}
	require.NoError(t, s.Put(rec))
	rec.Name = "new"
	require.NoError(t, s.Put(rec))

	_, err := s.GetByName("old")
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := s.GetByName("NEW")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, 1, s.Count())
}

func TestDelete(t *testing.T) {
	s := openTemp(t)
	rec := &gamedb.PlayerRecord{ID: gamedb.NoPlayer, Name: "gone"}
	require.NoError(t, s.Put(rec))
	require.NoError(t, s.Delete(rec.ID))
	_, err := s.GetByName("gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(rec.ID), ErrNotFound)

	// ids are never reused
	next := &gamedb.PlayerRecord{ID: gamedb.NoPlayer, Name: "gone"}
	require.NoError(t, s.Put(next))
	assert.Greater(t, next.ID, rec.ID)
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put(&gamedb.PlayerRecord{ID: gamedb.NoPlayer, Name: "철수"}))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetByName("철수")
	require.NoError(t, err)
	assert.Equal(t, gamedb.PlayerID(1), got.ID)
}

func TestBackup(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put(&gamedb.PlayerRecord{ID: gamedb.NoPlayer, Name: "철수"}))
	path := filepath.Join(t.TempDir(), "backup.db")
	require.NoError(t, s.Backup(path))

	b, err := Open(path, nil)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, 1, b.Count())
}

func TestRecordCharacterRoundTrip(t *testing.T) {
	rec := &gamedb.PlayerRecord{ID: 7, Name: "철수", Level: 3, LoadRoom: 3001,
		Aliases: gamedb.AliasList{{Name: "k", Replacement: "kill"}}}
	ch := rec.NewCharacter()
	assert.Equal(t, gamedb.PlayerID(7), ch.PlayerID)
	assert.Equal(t, gamedb.RoomVnum(3001), ch.LoadRoom)

	ch.Aliases.InsertFront(gamedb.Alias{Name: "n2", Replacement: "n;n", Kind: gamedb.AliasComplex})
	assert.Len(t, rec.Aliases, 1)

	ch.Room = 3054
	rec.Update(ch)
	assert.Equal(t, gamedb.RoomVnum(3054), rec.LoadRoom)
	assert.Len(t, rec.Aliases, 2)
}
