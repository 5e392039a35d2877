package audit

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	events []Event
}

// NewInMemoryRepository creates a new in-memory audit repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Record stores an event.
func (r *InMemoryRepository) Record(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	return nil
}

// ListByPatient retrieves events for a patient, newest first.
func (r *InMemoryRepository) ListByPatient(_ context.Context, patientID string, opts ListOptions) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []Event
	for _, e := range r.events {
		if e.PatientID == patientID {
			events = append(events, e)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(events) > limit {
		events = events[:limit]
	}

	return events, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
