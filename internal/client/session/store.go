package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/hospitaladmin/internal/common"
	"github.com/dmitrijs2005/hospitaladmin/internal/logging"
)

var ErrInvalidSession = errors.New("session is not valid")

// Store owns the session slot of a KV.
type Store struct {
	mu  sync.Mutex
	kv  KV
	key string
	log logging.Logger
}

func NewStore(kv KV, log logging.Logger) *Store {
	return &Store{kv: kv, key: common.SessionStorageKey, log: log}
}

// Save overwrites the stored session with s.
func (st *Store) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrInvalidSession
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return st.kv.Set(ctx, st.key, data)
}

// Load returns the stored session, or nil when there is none. Records that
// do not decode or are not valid are deleted and reported as nil; only
// storage failures are returned as errors.
func (st *Store) Load(ctx context.Context) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := st.kv.Get(ctx, st.key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		st.log.Warn(ctx, "purging unreadable session record", "error", err)
		return nil, st.kv.Delete(ctx, st.key)
	}
	if !s.Valid() {
		st.log.Info(ctx, "purging invalid session record", "username", s.Username)
		return nil, st.kv.Delete(ctx, st.key)
	}
	return &s, nil
}

// Clear removes the stored session. Clearing an empty slot is not an error.
func (st *Store) Clear(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.kv.Delete(ctx, st.key)
}
