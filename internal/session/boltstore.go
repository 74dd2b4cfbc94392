package session

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionBucketName = []byte("sessions")

// BoltStore persists sessions in a bbolt database so in-flight forms
// survive bot restarts.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}

func (b *BoltStore) Get(key Key) (*Session, bool, error) {
	var s Session
	found := false

	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(sessionBucketName).Get(keyBytes(key))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("decode session %s: %w", key, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &s, true, nil
}

func (b *BoltStore) Put(s *Session) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		raw, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode session %s: %w", s.Key, err)
		}
		return tx.Bucket(sessionBucketName).Put(keyBytes(s.Key), raw)
	})
}

func (b *BoltStore) Delete(key Key) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucketName).Delete(keyBytes(key))
	})
}

func (b *BoltStore) DeleteIdle(cutoff time.Time) (int, error) {
	removed := 0

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionBucketName)

		var doomed [][]byte
		err := bucket.ForEach(func(k, raw []byte) error {
			var s Session
			if err := json.Unmarshal(raw, &s); err != nil {
				// Unreadable entries are dropped as well.
				doomed = append(doomed, append([]byte(nil), k...))
				return nil
			}
			if s.IdleSince(cutoff) {
				doomed = append(doomed, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range doomed {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		removed = len(doomed)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func keyBytes(key Key) []byte {
	return []byte(key.String())
}
