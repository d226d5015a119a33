// Package kvstorage is the BadgerDB-backed implementation of env.Storage:
// the durable half of the capability Environment injects into the core.
// Keys are the storage-key constants pkg/ctx defines (profile, library,
// notifications, ...); values are whatever JSON-serializable type the
// caller passes.
package kvstorage

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"golang.org/x/crypto/hkdf"

	"github.com/tomtom215/catalogcore/internal/coremetrics"
)

// Store wraps a *badger.DB and implements env.Storage. Every key this
// module writes is prefixed so the same database can later be shared
// with other subsystems without a collision.
type Store struct {
	db     *badger.DB
	prefix string
}

const defaultPrefix = "catalogcore:"

// encryptionSalt/encryptionInfo bind the derived AES key to this
// package's specific use, so the same secret can't be replayed to derive
// a key for an unrelated purpose.
const (
	encryptionSalt = "catalogcore-storage-encryption"
	encryptionInfo = "kvstorage-aes256-v1"
	aesKeySize     = 32
)

// deriveEncryptionKey expands secret into a 256-bit AES key via
// HKDF-SHA256, rather than using the secret bytes directly as key
// material.
func deriveEncryptionKey(secret string) ([]byte, error) {
	key := make([]byte, aesKeySize)
	r := hkdf.New(sha256.New, []byte(secret), []byte(encryptionSalt), []byte(encryptionInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("kvstorage: derive encryption key: %w", err)
	}
	return key, nil
}

// Open opens (creating if absent) a Badger database rooted at dir.
// encryptionSecret, when non-empty, enables BadgerDB's at-rest AES
// encryption with a key derived from it; it must stay stable across
// restarts or previously written values become undecryptable.
func Open(dir, encryptionSecret string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if encryptionSecret != "" {
		key, err := deriveEncryptionKey(encryptionSecret)
		if err != nil {
			return nil, err
		}
		opts = opts.WithEncryptionKey(key).WithIndexCacheSize(64 << 20)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("kvstorage: open %s: %w", dir, err)
	}
	return &Store{db: db, prefix: defaultPrefix}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) key(k string) []byte { return []byte(s.prefix + k) }

// GetStorage implements env.Storage. It returns (false, nil) when the key
// is absent, matching the "Null means delete" / "absent means never
// written" contract spec.md §4.1 describes.
func (s *Store) GetStorage(_ context.Context, key string, out any) (bool, error) {
	start := time.Now()
	defer func() { coremetrics.StorageOpDuration.WithLabelValues("get", key).Observe(time.Since(start).Seconds()) }()

	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("kvstorage: get %s: %w", key, err)
		}
		found = true
		return item.Value(func(val []byte) error {
			if len(val) == 0 {
				return nil
			}
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// SetStorage implements env.Storage. A nil value deletes the key.
func (s *Store) SetStorage(_ context.Context, key string, value any) error {
	start := time.Now()
	defer func() { coremetrics.StorageOpDuration.WithLabelValues("set", key).Observe(time.Since(start).Seconds()) }()

	if value == nil {
		return s.db.Update(func(txn *badger.Txn) error {
			err := txn.Delete(s.key(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		})
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kvstorage: marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(key), data)
	})
}
