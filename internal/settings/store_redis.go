package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"fieldgate/pkg/platform/sentinel"
)

// RedisStore persists settings in Redis, one hash per namespace so a
// namespace can be listed with a single HGETALL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed settings store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func namespaceKey(namespace string) string {
	return "settings:" + namespace
}

func (s *RedisStore) Get(ctx context.Context, namespace, key string) (*Setting, error) {
	payload, err := s.client.HGet(ctx, namespaceKey(namespace), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("setting %s/%s not found: %w", namespace, key, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	var setting Setting
	if err := json.Unmarshal([]byte(payload), &setting); err != nil {
		return nil, fmt.Errorf("decode setting %s/%s: %w", namespace, key, err)
	}
	return &setting, nil
}

func (s *RedisStore) Put(ctx context.Context, setting *Setting) error {
	payload, err := json.Marshal(setting)
	if err != nil {
		return fmt.Errorf("encode setting: %w", err)
	}
	if err := s.client.HSet(ctx, namespaceKey(setting.Namespace), setting.Key, payload).Err(); err != nil {
		return fmt.Errorf("put setting: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	removed, err := s.client.HDel(ctx, namespaceKey(namespace), key).Result()
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("setting %s/%s not found: %w", namespace, key, sentinel.ErrNotFound)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, namespace string) ([]*Setting, error) {
	entries, err := s.client.HGetAll(ctx, namespaceKey(namespace)).Result()
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	out := make([]*Setting, 0, len(entries))
	for key, payload := range entries {
		var setting Setting
		if err := json.Unmarshal([]byte(payload), &setting); err != nil {
			return nil, fmt.Errorf("decode setting %s/%s: %w", namespace, key, err)
		}
		out = append(out, &setting)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
