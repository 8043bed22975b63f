package cache

import (
	"context"
	"sync"
	"time"
)

type memoryCart struct {
	items     map[string]int
	touchedAt time.Time
}

// MemoryCartStore 进程内购物车，未启用 Redis 时使用，过期在访问时惰性清理
type MemoryCartStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	carts map[string]*memoryCart
	now   func() time.Time
}

// NewMemoryCartStore 创建内存购物车存储
func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryCartStore{
		ttl:   ttl,
		carts: make(map[string]*memoryCart),
		now:   time.Now,
	}
}

// cart 返回未过期的购物车，create 为 true 时按需创建；调用方需持有锁
func (s *MemoryCartStore) cart(sessionID string, create bool) *memoryCart {
	now := s.now()
	c, ok := s.carts[sessionID]
	if ok && now.Sub(c.touchedAt) > s.ttl {
		delete(s.carts, sessionID)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		c = &memoryCart{items: make(map[string]int)}
		s.carts[sessionID] = c
	}
	c.touchedAt = now
	return c
}

// Get 读取购物车副本
func (s *MemoryCartStore) Get(_ context.Context, sessionID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(sessionID, false)
	items := make(map[string]int)
	if c == nil {
		return items, nil
	}
	for productID, quantity := range c.items {
		items[productID] = quantity
	}
	return items, nil
}

// Set 设置商品数量
func (s *MemoryCartStore) Set(_ context.Context, sessionID, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidCartQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID, true).items[productID] = quantity
	return nil
}

// Remove 移除商品
func (s *MemoryCartStore) Remove(_ context.Context, sessionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.cart(sessionID, false); c != nil {
		delete(c.items, productID)
	}
	return nil
}

// Clear 清空购物车
func (s *MemoryCartStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// Touch 刷新过期时间
func (s *MemoryCartStore) Touch(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(sessionID, false)
	return nil
}

// Sweep 清理已过期的购物车，返回清理数量
func (s *MemoryCartStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for sessionID, c := range s.carts {
		if now.Sub(c.touchedAt) > s.ttl {
			delete(s.carts, sessionID)
			removed++
		}
	}
	return removed
}
