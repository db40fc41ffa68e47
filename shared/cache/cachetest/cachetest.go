// Package cachetest provides an in-memory RedisCache for service tests.
package cachetest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"alojasys/shared/cache"
)

type Memory struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func New() *Memory {
	return &Memory{entries: map[string][]byte{}}
}

func (m *Memory) Save(_ context.Context, key string, value any, _ int) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = raw

	return nil
}

func (m *Memory) Get(_ context.Context, key string, value any) error {
	m.mu.Lock()
	raw, ok := m.entries[key]
	m.mu.Unlock()

	if !ok {
		return cache.Nil
	}

	return json.Unmarshal(raw, value)
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)

	return nil
}

func (m *Memory) Clear(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix = strings.TrimSuffix(prefix, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}

	return nil
}
