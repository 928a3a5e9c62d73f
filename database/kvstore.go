// Package database persists vault audit records -- the Params/Secret
// envelopes a service produced -- in a badger key-value store, indexed by
// hash, timestamp, and height the way the scheme this package descends
// from indexed its signed blocks.
package database

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger"
	"github.com/zeebo/blake3"

	"github.com/decentralized-identity/fuzzy-encryption/types"
)

const (
	// Prefixes identify each key's role in the datastore.
	HashKeyPrefix      = 0x1
	TimestampKeyPrefix = 0x2
	HeightKeyPrefix    = 0x3
	FixedKeyPrefix     = 0xFF // any other key
)

const checksumSize = 32

// Store implements types.KVStore over badger. Every value it writes is
// prefixed with a blake3-256 checksum of its payload; GetRecord and
// GetValue recompute and verify the checksum on read, surfacing silent
// disk corruption as an error instead of a bad unmarshal.
type Store struct {
	StorFileLocation string
	storHandler      *badger.DB
}

// NewKVStore opens (creating if necessary) a badger store at
// locationDirectory.
func NewKVStore(locationDirectory string) types.KVStore {
	options := badger.DefaultOptions(locationDirectory)
	options.Truncate = true // avoids problems with Windows

	stor, err := badger.Open(options)
	if err != nil {
		panic(err)
	}

	return &Store{
		StorFileLocation: locationDirectory,
		storHandler:      stor,
	}
}

func withChecksum(payload []byte) []byte {
	sum := blake3.Sum256(payload)
	return append(sum[:], payload...)
}

func verifyChecksum(stored []byte) ([]byte, error) {
	if len(stored) < checksumSize {
		return nil, fmt.Errorf("database: stored value too short to carry a checksum")
	}
	want := stored[:checksumSize]
	payload := stored[checksumSize:]
	got := blake3.Sum256(payload)
	for i := 0; i < checksumSize; i++ {
		if want[i] != got[i] {
			return nil, fmt.Errorf("database: checksum mismatch, stored value is corrupt")
		}
	}
	return payload, nil
}

func storeUIntIndex(txn *badger.Txn, key uint64, value []byte, prefix byte) error {
	index := make([]byte, 8)
	binary.LittleEndian.PutUint64(index, key)
	index = append([]byte{prefix}, index...)
	return txn.Set(index, value)
}

func readUIntIndex(txn *badger.Txn, key uint64, prefix byte) ([]byte, error) {
	index := make([]byte, 8)
	binary.LittleEndian.PutUint64(index, key)
	index = append([]byte{prefix}, index...)

	item, err := txn.Get(index)
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func storeStringIndex(txn *badger.Txn, key string, value []byte, prefix byte) error {
	index := append([]byte{prefix}, []byte(key)...)
	return txn.Set(index, value)
}

func readStringIndex(txn *badger.Txn, key string, prefix byte) ([]byte, error) {
	index := append([]byte{prefix}, []byte(key)...)
	item, err := txn.Get(index)
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// StoreRecord persists an audit record, indexed by its hash, timestamp,
// and height so it can be found by any of the three.
func (s Store) StoreRecord(record types.AuditRecord) error {
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	stored := withChecksum(bytes)

	return s.storHandler.Update(func(txn *badger.Txn) error {
		if err := storeStringIndex(txn, record.Hash, stored, HashKeyPrefix); err != nil {
			return err
		}
		if err := storeUIntIndex(txn, record.Timestamp, []byte(record.Hash), TimestampKeyPrefix); err != nil {
			return err
		}
		return storeUIntIndex(txn, record.Height, []byte(record.Hash), HeightKeyPrefix)
	})
}

// GetRecord reads an audit record by its hash.
func (s Store) GetRecord(hash string) (*types.AuditRecord, error) {
	var record types.AuditRecord
	err := s.storHandler.View(func(txn *badger.Txn) error {
		stored, err := readStringIndex(txn, hash, HashKeyPrefix)
		if err != nil {
			return err
		}
		payload, err := verifyChecksum(stored)
		if err != nil {
			return err
		}
		return json.Unmarshal(payload, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindRecordByTimestamp reads an audit record by its timestamp index.
func (s Store) FindRecordByTimestamp(timestamp uint64) (*types.AuditRecord, error) {
	var record types.AuditRecord
	err := s.storHandler.View(func(txn *badger.Txn) error {
		hashBytes, err := readUIntIndex(txn, timestamp, TimestampKeyPrefix)
		if err != nil {
			return err
		}
		stored, err := readStringIndex(txn, string(hashBytes), HashKeyPrefix)
		if err != nil {
			return err
		}
		payload, err := verifyChecksum(stored)
		if err != nil {
			return err
		}
		return json.Unmarshal(payload, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetLatestRecords walks the height index backward over n heights, from
// height down to (height - n + 1), skipping any height with no record, and
// returns what it found in descending height order.
func (s Store) GetLatestRecords(height uint64, n int) ([]types.AuditRecord, error) {
	var records []types.AuditRecord
	err := s.storHandler.View(func(txn *badger.Txn) error {
		for i := 0; i < n && int64(height)-int64(i) >= 0; i++ {
			h := height - uint64(i)
			hashBytes, err := readUIntIndex(txn, h, HeightKeyPrefix)
			if err == badger.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return err
			}
			stored, err := readStringIndex(txn, string(hashBytes), HashKeyPrefix)
			if err != nil {
				return err
			}
			payload, err := verifyChecksum(stored)
			if err != nil {
				return err
			}
			var record types.AuditRecord
			if err := json.Unmarshal(payload, &record); err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}

// StoreValue stores an arbitrary value in the database, indexed by a
// string key.
func (s Store) StoreValue(key string, value []byte) error {
	return s.storHandler.Update(func(txn *badger.Txn) error {
		return storeStringIndex(txn, key, withChecksum(value), FixedKeyPrefix)
	})
}

// GetValue returns a value stored in the database, indexed by a string
// key.
func (s *Store) GetValue(key string) ([]byte, error) {
	var payload []byte
	err := s.storHandler.View(func(txn *badger.Txn) error {
		stored, err := readStringIndex(txn, key, FixedKeyPrefix)
		if err != nil {
			return err
		}
		payload, err = verifyChecksum(stored)
		return err
	})
	return payload, err
}
