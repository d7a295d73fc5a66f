package redis

import (
	"context"
	"strconv"
	"time"

	"xeyronox-link-bot/internal/domain/ports/repository"
)

var _ repository.UpdateDedupStore = (*DedupStore)(nil)

// DedupStore keeps accepted update IDs in Redis so redeliveries are skipped
// across restarts and replicas.
type DedupStore struct {
	client RedisClient
	ttl    time.Duration
}

func NewDedupStore(client RedisClient, ttl time.Duration) *DedupStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DedupStore{client: client, ttl: ttl}
}

func UpdateKey(updateID int) string {
	return "dedup:update:" + strconv.Itoa(updateID)
}

func (s *DedupStore) MarkSeen(ctx context.Context, updateID int) (bool, error) {
	return s.client.SetNX(ctx, UpdateKey(updateID), 1, s.ttl)
}

func (s *DedupStore) Close() error { return s.client.Close() }
