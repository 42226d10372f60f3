package repository

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryTenantNameCache implements domain.TenantNameCache with an in-process LRU.
// Entries expire after the TTL given at construction; per-call TTLs are ignored.
type MemoryTenantNameCache struct {
	cache *lru.LRU[string, string]
}

// NewMemoryTenantNameCache creates an LRU cache holding at most size entries
func NewMemoryTenantNameCache(size int, ttl time.Duration) *MemoryTenantNameCache {
	if size < 1 {
		size = 1024
	}
	return &MemoryTenantNameCache{
		cache: lru.NewLRU[string, string](size, nil, ttl),
	}
}

func (m *MemoryTenantNameCache) GetTenantName(ctx context.Context, key string) (string, bool, error) {
	name, ok := m.cache.Get(key)
	return name, ok, nil
}

func (m *MemoryTenantNameCache) SetTenantName(ctx context.Context, key, name string, ttl time.Duration) error {
	m.cache.Add(key, name)
	return nil
}
