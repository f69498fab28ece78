package jobs

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"mediaengine/types"
)

// ErrNotFound is returned when no job exists for an ID
var ErrNotFound = errors.New("job not found")

// Store persists job records
type Store interface {
	Save(ctx context.Context, job types.Job) error
	Get(ctx context.Context, id string) (types.Job, error)
	// List returns jobs newest first
	List(ctx context.Context) ([]types.Job, error)
}

// MemoryStore keeps job records in process memory (thread-safe).
// Once the limit is reached the oldest records are dropped.
type MemoryStore struct {
	mu    sync.RWMutex
	jobs  map[string]types.Job
	order []string
	limit int
}

// NewMemoryStore creates a store holding at most limit jobs (limit <= 0 means unbounded)
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{
		jobs:  make(map[string]types.Job),
		order: make([]string, 0),
		limit: limit,
	}
}

// Save inserts or replaces a job record
func (m *MemoryStore) Save(_ context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("job id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := m.jobs[job.ID]; ok {
		job.CreatedAt = existing.CreatedAt
	} else {
		if job.CreatedAt.IsZero() {
			job.CreatedAt = now
		}
		m.order = append(m.order, job.ID)
	}
	job.UpdatedAt = now
	m.jobs[job.ID] = job

	if m.limit > 0 && len(m.order) > m.limit {
		for _, id := range m.order[:len(m.order)-m.limit] {
			delete(m.jobs, id)
		}
		m.order = append([]string{}, m.order[len(m.order)-m.limit:]...)
	}
	return nil
}

// Get returns the job with id
func (m *MemoryStore) Get(_ context.Context, id string) (types.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return types.Job{}, ErrNotFound
	}
	return job, nil
}

// List returns a snapshot of all jobs, most recently created first
func (m *MemoryStore) List(_ context.Context) ([]types.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Job, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.jobs[m.order[i]])
	}
	return out, nil
}

// sortNewestFirst orders jobs by creation time, newest first
func sortNewestFirst(list []types.Job) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
