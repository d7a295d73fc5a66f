// Package memstore holds the in-process fallback for state that would
// otherwise live in Redis.
package memstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/tidwall/buntdb"

	"xeyronox-link-bot/internal/domain/ports/repository"
)

var _ repository.UpdateDedupStore = (*DedupStore)(nil)

type DedupStore struct {
	db  *buntdb.DB
	ttl time.Duration
}

// NewDedupStore opens an in-memory buntdb. Entries expire after ttl.
func NewDedupStore(ttl time.Duration) (*DedupStore, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, err
	}
	return &DedupStore{db: db, ttl: ttl}, nil
}

func (s *DedupStore) MarkSeen(ctx context.Context, updateID int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := "update:" + strconv.Itoa(updateID)
	first := false
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}
		first = true
		_, _, err = tx.Set(key, "1", &buntdb.SetOptions{Expires: true, TTL: s.ttl})
		return err
	})
	if err != nil {
		return false, err
	}
	return first, nil
}

func (s *DedupStore) Close() error { return s.db.Close() }
