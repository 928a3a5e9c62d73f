package database

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/decentralized-identity/fuzzy-encryption/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, ok := NewKVStore(dir).(*Store)
	require.True(t, ok)
	return store
}

func TestStoreAndGetRecord(t *testing.T) {
	store := newTestStore(t)

	record := types.AuditRecord{
		Height:    1,
		Timestamp: 1000,
		Kind:      types.RecordKindParams,
		Payload:   []byte(`{"setSize":9}`),
		Memo:      "test params",
	}
	require.NoError(t, record.CreateHash())
	require.NoError(t, store.StoreRecord(record))

	got, err := store.GetRecord(record.Hash)
	require.NoError(t, err)
	if diff := cmp.Diff(record, *got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestFindRecordByTimestamp(t *testing.T) {
	store := newTestStore(t)

	record := types.AuditRecord{Height: 2, Timestamp: 2000, Kind: types.RecordKindSecret, Payload: []byte("{}")}
	require.NoError(t, record.CreateHash())
	require.NoError(t, store.StoreRecord(record))

	got, err := store.FindRecordByTimestamp(2000)
	require.NoError(t, err)
	require.Equal(t, record.Hash, got.Hash)
}

func TestGetLatestRecordsSkipsGaps(t *testing.T) {
	store := newTestStore(t)

	for _, h := range []uint64{1, 3, 5} {
		record := types.AuditRecord{Height: h, Timestamp: h * 10, Kind: types.RecordKindParams, Payload: []byte("{}")}
		require.NoError(t, record.CreateHash())
		require.NoError(t, store.StoreRecord(record))
	}

	records, err := store.GetLatestRecords(5, 5)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, uint64(5), records[0].Height)
	require.Equal(t, uint64(3), records[1].Height)
	require.Equal(t, uint64(1), records[2].Height)
}

func TestStoreAndGetValue(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.StoreValue("key", []byte("value")))

	got, err := store.GetValue("key")
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)
}

func TestGetValueDetectsCorruption(t *testing.T) {
	_, err := verifyChecksum([]byte("short"))
	require.Error(t, err)

	stored := withChecksum([]byte("payload"))
	stored[0] ^= 0xFF
	_, err = verifyChecksum(stored)
	require.Error(t, err)
}
