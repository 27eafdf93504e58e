package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/postboard/posts-service/internal/post"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-process post store used for STORAGE_MODE=memory and
// unit tests. It hands out copies so callers never alias stored posts.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[primitive.ObjectID]*post.Post
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[primitive.ObjectID]*post.Post)}
}

func (m *MemoryRepo) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := validateNew(p); err != nil {
		return nil, err
	}
	rec := *p
	rec.ID = primitive.NewObjectID()
	rec.Likes = 0
	if rec.Date.IsZero() {
		rec.Date = now()
	} else {
		rec.Date = bsonTime(rec.Date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[rec.ID] = &rec
	out := rec
	return &out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, u *post.Update) (*post.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err := validateUpdate(u); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[oid]
	if !ok {
		return nil, nil
	}
	if u != nil {
		if u.Title != nil {
			p.Title = *u.Title
		}
		if u.Content != nil {
			p.Content = *u.Content
		}
		if u.Author != nil {
			p.Author = *u.Author
		}
		if u.Date != nil {
			p.Date = bsonTime(*u.Date)
		}
	}
	out := *p
	return &out, nil
}

func (m *MemoryRepo) Find(ctx context.Context, id string) (*post.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[oid]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (m *MemoryRepo) List(ctx context.Context) ([]*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*post.Post, 0, len(m.store))
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	// ObjectIDs sort in creation order, same as the Mongo store's _id sort
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[oid]; !ok {
		return &DeleteResult{DeletedCount: 0}, nil
	}
	delete(m.store, oid)
	return &DeleteResult{DeletedCount: 1}, nil
}

func (m *MemoryRepo) Like(ctx context.Context, id string) (*post.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[oid]
	if !ok {
		return nil, nil
	}
	p.Likes++
	out := *p
	return &out, nil
}

func now() time.Time {
	return bsonTime(time.Now())
}

// bsonTime matches the millisecond precision of BSON datetimes.
func bsonTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
