package workflow

import (
	"context"
	"sort"
	"sync"

	"github.com/BSFactor/Academic-Calendar/internal/apperr"
	"github.com/BSFactor/Academic-Calendar/internal/model"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	mu     sync.Mutex
	events map[string]model.Event
}

func newMemStore() *memStore {
	return &memStore{events: make(map[string]model.Event)}
}

func (m *memStore) CreateEvent(_ context.Context, event model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *memStore) GetEvent(_ context.Context, eventID string) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[eventID]
	if !ok {
		return model.Event{}, apperr.New(apperr.NotFound, "event_not_found")
	}
	return event, nil
}

func (m *memStore) DecideEvent(_ context.Context, eventID string, status model.EventStatus, reviewerID string) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[eventID]
	if !ok {
		return model.Event{}, apperr.New(apperr.NotFound, "event_not_found")
	}
	if event.Status != model.StatusPending {
		return model.Event{}, apperr.New(apperr.Conflict, "event_already_decided")
	}
	event.Status = status
	event.ApprovedBy = &reviewerID
	m.events[eventID] = event
	return event, nil
}

func (m *memStore) ListEventsByOwnerAndStatus(_ context.Context, ownerID string, status model.EventStatus) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]model.Event, 0)
	for _, event := range m.events {
		if event.AssignedTo == ownerID && event.Status == status {
			events = append(events, event)
		}
	}
	sortByStart(events)
	return events, nil
}

func (m *memStore) ListEventsByStatus(_ context.Context, status model.EventStatus) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]model.Event, 0)
	for _, event := range m.events {
		if event.Status == status {
			events = append(events, event)
		}
	}
	sortByStart(events)
	return events, nil
}

func sortByStart(events []model.Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
}
