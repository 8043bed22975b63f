package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidCartQuantity 写入购物车的数量必须为正
var ErrInvalidCartQuantity = errors.New("cart quantity must be positive")

// CartStore 会话购物车存储：会话首次写入时创建，闲置超过 TTL 后过期
type CartStore interface {
	Get(ctx context.Context, sessionID string) (map[string]int, error)
	Set(ctx context.Context, sessionID, productID string, quantity int) error
	Remove(ctx context.Context, sessionID, productID string) error
	Clear(ctx context.Context, sessionID string) error
	Touch(ctx context.Context, sessionID string) error
}

// RedisCartStore 基于 Redis Hash 的购物车，每次访问刷新过期时间
type RedisCartStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCartStore 创建 Redis 购物车存储
func NewRedisCartStore(client *redis.Client, prefix string, ttl time.Duration) *RedisCartStore {
	if prefix == "" {
		prefix = redisPrefix
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCartStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisCartStore) key(sessionID string) string {
	return joinKey(s.prefix, "cart:"+sessionID)
}

// Get 读取购物车
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (map[string]int, error) {
	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	getCmd := pipe.HGetAll(ctx, key)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	raw := getCmd.Val()
	items := make(map[string]int, len(raw))
	for productID, value := range raw {
		quantity, err := strconv.Atoi(value)
		if err != nil || quantity <= 0 {
			continue
		}
		items[productID] = quantity
	}
	return items, nil
}

// Set 设置商品数量
func (s *RedisCartStore) Set(ctx context.Context, sessionID, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidCartQuantity
	}
	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, productID, quantity)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Remove 移除商品
func (s *RedisCartStore) Remove(ctx context.Context, sessionID, productID string) error {
	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, key, productID)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Clear 清空购物车
func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// Touch 刷新过期时间
func (s *RedisCartStore) Touch(ctx context.Context, sessionID string) error {
	return s.client.Expire(ctx, s.key(sessionID), s.ttl).Err()
}
