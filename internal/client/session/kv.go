package session

import (
	"bytes"
	"context"
	"sync"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/repositories/metadata"
)

// KV is the storage slot abstraction behind Store. Get returns (nil, nil)
// for absent keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var _ KV = (metadata.Repository)(nil)

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string][]byte)}
}

func (kv *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	v, ok := kv.m[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (kv *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.m[key] = bytes.Clone(value)
	return nil
}

func (kv *MemoryKV) Delete(ctx context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	delete(kv.m, key)
	return nil
}
