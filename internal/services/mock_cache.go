package services

import (
	"context"
	"sync"
	"time"
)

// MockCache is an in-memory Cache implementation for testing
type MockCache struct {
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetFunc func(ctx context.Context, key string) (string, error)

	mu      sync.Mutex
	entries map[string]string

	// Track calls for testing
	SetCalls []string
	GetCalls []string
}

// Ensure MockCache implements Cache interface
var _ Cache = (*MockCache)(nil)

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{
		entries:  make(map[string]string),
		SetCalls: make([]string, 0),
		GetCalls: make([]string, 0),
	}
}

func (m *MockCache) Ping(ctx context.Context) error {
	return nil
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, key)
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	if s, ok := value.(string); ok {
		m.entries[key] = s
	}
	return nil
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return m.entries[key], nil
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *MockCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		if _, ok := m.entries[key]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCache) Close() error {
	return nil
}
