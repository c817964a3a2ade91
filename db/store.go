package db

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Record is one stored document.
type Record map[string]interface{}

// DocumentStore is the narrow document database the dashboard depends on.
// Read and ReadLatest return a nil record, not an error, when nothing matches.
type DocumentStore interface {
	Write(ctx context.Context, collection, documentID string, record Record) error
	Read(ctx context.Context, collection, documentID string) (Record, error)
	ReadLatest(ctx context.Context, collection, orderField string) (Record, error)
	Close() error
}

// MemoryStore keeps documents in process. Used when no Firestore credentials
// are configured and in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Record)}
}

func (m *MemoryStore) Write(_ context.Context, collection, documentID string, record Record) error {
	if collection == "" || documentID == "" {
		return fmt.Errorf("write %q/%q: collection and document id are required", collection, documentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]Record)
		m.collections[collection] = docs
	}
	docs[documentID] = copyRecord(record)
	return nil
}

func (m *MemoryStore) Read(_ context.Context, collection, documentID string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.collections[collection][documentID]
	if !ok {
		return nil, nil
	}
	return copyRecord(rec), nil
}

// ReadLatest returns the document with the greatest orderField. Documents
// without the field are skipped; ties go to the greater document id.
func (m *MemoryStore) ReadLatest(_ context.Context, collection, orderField string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		bestID string
		best   interface{}
	)
	for id, rec := range m.collections[collection] {
		v, ok := rec[orderField]
		if !ok {
			continue
		}
		if bestID == "" {
			bestID, best = id, v
			continue
		}
		less, err := lessValue(best, v)
		if err != nil {
			return nil, fmt.Errorf("order %s by %s: %w", collection, orderField, err)
		}
		greater, _ := lessValue(v, best)
		if less || (!greater && id > bestID) {
			bestID, best = id, v
		}
	}
	if bestID == "" {
		return nil, nil
	}
	return copyRecord(m.collections[collection][bestID]), nil
}

func (m *MemoryStore) Close() error { return nil }

func copyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// lessValue orders the field types the dashboard stores: times, numbers and strings.
func lessValue(a, b interface{}) (bool, error) {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv), nil
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv, nil
		}
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if aok && bok {
			return af < bf, nil
		}
	}
	return false, fmt.Errorf("cannot compare %T with %T", a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
