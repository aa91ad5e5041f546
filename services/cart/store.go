package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"learnhub-storefront-api/models"
)

// Store is the persistence boundary for cart snapshots. Load returns
// nil, nil when nothing is stored under the key; corrupt data is treated the
// same way so a bad record can never keep a cart from loading.
type Store interface {
	Load(ctx context.Context, key string) (*models.CartSnapshot, error)
	Save(ctx context.Context, key string, snapshot models.CartSnapshot) error
	Delete(ctx context.Context, key string) error
}

const cartKeyPrefix = "cart:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL for cart store: %v", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for cart store: %v", err)
	}

	return &RedisStore{client: client, ttl: 30 * 24 * time.Hour}, nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (*models.CartSnapshot, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cart %s: %v", key, err)
	}

	var snapshot models.CartSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		log.Printf("Corrupt cart snapshot for key %s, starting empty: %v", key, err)
		return nil, nil
	}
	return &snapshot, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, snapshot models.CartSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %v", err)
	}

	if err := s.client.Set(ctx, cartKeyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %v", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cart %s: %v", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore keeps snapshots in process memory. It backs tests and the
// degraded Redis-less boot path; carts then live only for the server session.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string]models.CartSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]models.CartSnapshot)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (*models.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[key]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, snapshot models.CartSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = snapshot
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}
