// Package session keeps per-visitor portal state: the API login and the
// single pending application slot.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Record field names. A session record is a flat string map.
const (
	FieldToken   = "session-token"
	FieldFlag    = "session-flag"
	FieldUser    = "user-blob"
	FieldPending = "pending-application-blob"
)

// ErrStoreClosed is returned by a store after Close.
var ErrStoreClosed = errors.New("session store closed")

// Store persists session records. Implementations must make Take atomic:
// two concurrent Takes of the same field never both see the value.
type Store interface {
	// Get returns the record fields, or an empty map for an unknown session.
	Get(ctx context.Context, id string) (map[string]string, error)
	// Set writes fields and extends the record's lifetime.
	Set(ctx context.Context, id string, fields map[string]string) error
	// Delete removes fields from the record.
	Delete(ctx context.Context, id string, fields ...string) error
	// Take reads and removes one field.
	Take(ctx context.Context, id, field string) (string, bool, error)
	Close() error
}

type memoryRecord struct {
	fields    map[string]string
	expiresAt time.Time
}

// MemoryStore is an in-process Store with sliding expiry.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	records map[string]*memoryRecord
	closed  bool
}

// NewMemoryStore creates a MemoryStore whose records expire ttl after their last write.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]*memoryRecord),
	}
}

// record returns the live record for id; mu must be held.
func (s *MemoryStore) record(id string) *memoryRecord {
	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	if s.ttl > 0 && s.now().After(rec.expiresAt) {
		delete(s.records, id)
		return nil
	}
	return rec
}

func (s *MemoryStore) Get(_ context.Context, id string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	out := map[string]string{}
	if rec := s.record(id); rec != nil {
		for k, v := range rec.fields {
			out[k] = v
		}
	}
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	rec := s.record(id)
	if rec == nil {
		rec = &memoryRecord{fields: map[string]string{}}
		s.records[id] = rec
	}
	for k, v := range fields {
		rec.fields[k] = v
	}
	rec.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if rec := s.record(id); rec != nil {
		for _, f := range fields {
			delete(rec.fields, f)
		}
	}
	return nil
}

func (s *MemoryStore) Take(_ context.Context, id, field string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrStoreClosed
	}

	rec := s.record(id)
	if rec == nil {
		return "", false, nil
	}
	v, ok := rec.fields[field]
	delete(rec.fields, field)
	return v, ok, nil
}

// Sweep drops expired records and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id := range s.records {
		if s.record(id) == nil {
			n++
		}
	}
	return n
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}
