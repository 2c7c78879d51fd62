// Package cache 统一的 TTL 键值缓存，取代各组件各自维护的临时缓存。
// 读写方必须把缓存值当作可能过期的副本；任何改变被缓存集合的写操作
// 之后都要显式 Clear 相关键。
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

type Store struct {
	rdb    *redis.Client
	prefix string
}

func NewStore(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + ":" + k
}

// Get 读取缓存并反序列化到 dest；未命中或已过期返回 false
func (s *Store) Get(ctx context.Context, k string, dest interface{}) (bool, error) {
	val, err := s.rdb.Get(ctx, s.key(k)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		// 缓存里的脏数据按未命中处理，顺手清掉
		s.rdb.Del(ctx, s.key(k))
		return false, nil
	}
	return true, nil
}

// Set 序列化写入，ttl 到期自动失效
func (s *Store) Set(ctx context.Context, k string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(k), data, ttl).Err()
}

// Clear 显式失效一个或多个键
func (s *Store) Clear(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.rdb.Del(ctx, full...).Err()
}
