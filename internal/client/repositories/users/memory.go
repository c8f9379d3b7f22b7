package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*User
	byName map[string]string
	now    func() time.Time
}

// NewMemoryRepository returns a repository pre-filled with seed. Seed users
// without an id get one assigned.
func NewMemoryRepository(seed ...*User) *MemoryRepository {
	r := &MemoryRepository{
		byID:   make(map[string]*User),
		byName: make(map[string]string),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, u := range seed {
		c := *u
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = r.now()
		}
		r.byID[c.ID] = &c
		r.byName[c.Username] = c.ID
	}
	return r
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, ErrNoRows
	}
	c := *r.byID[id]
	return &c, nil
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return nil, ErrDuplicate
	}

	c := *user
	c.ID = uuid.NewString()
	c.CreatedAt = r.now()
	c.LastLogin = nil
	r.byID[c.ID] = &c
	r.byName[c.Username] = c.ID

	out := c
	return &out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, patch Patch) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNoRows
	}
	if patch.Username != nil && *patch.Username != u.Username {
		if _, taken := r.byName[*patch.Username]; taken {
			return nil, ErrDuplicate
		}
		delete(r.byName, u.Username)
		r.byName[*patch.Username] = id
	}
	patch.Apply(u)

	out := *u
	return &out, nil
}

func (r *MemoryRepository) Probe(ctx context.Context) error {
	return ctx.Err()
}
