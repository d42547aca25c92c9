package kvstore

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stablepay/storage"
)

type record struct {
	Name   string
	Amount *big.Int
	Flag   bool
}

func TestStoreRoundTrip(t *testing.T) {
	store := New(storage.NewMemDB())

	stored := &record{Name: "alpha", Amount: big.NewInt(123456), Flag: true}
	require.NoError(t, store.KVPut([]byte("records/alpha"), stored))

	loaded := new(record)
	ok, err := store.KVGet([]byte("records/alpha"), loaded)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alpha", loaded.Name)
	require.Equal(t, "123456", loaded.Amount.String())
	require.True(t, loaded.Flag)
}

func TestStoreMissingKey(t *testing.T) {
	store := New(storage.NewMemDB())

	ok, err := store.KVGet([]byte("records/none"), new(record))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = store.KVHas([]byte("records/none"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	store := New(storage.NewMemDB())

	require.Error(t, store.KVPut(nil, &record{}))
	_, err := store.KVGet(nil, new(record))
	require.Error(t, err)
	_, err = store.KVHas(nil)
	require.Error(t, err)
}

func TestStoreKeysAreHashed(t *testing.T) {
	db := storage.NewMemDB()
	store := New(db)
	require.NoError(t, store.KVPut([]byte("plain-key"), &record{Name: "x"}))

	// The backend must never see the raw key.
	raw, err := db.Get([]byte("plain-key"))
	require.NoError(t, err)
	require.Nil(t, raw)
}
