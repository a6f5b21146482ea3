package db

import (
	"context"
	"store/entities"
	"sync"
)

type EventRepositoryMock struct {
	lock   sync.Mutex
	events map[string]entities.Event
}

func NewEventRepositoryMock() *EventRepositoryMock {
	return &EventRepositoryMock{
		events: map[string]entities.Event{},
	}
}

func (m *EventRepositoryMock) Create(ctx context.Context, event entities.Event) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.events[event.EventID]; ok {
		return nil
	}
	m.events[event.EventID] = event
	return nil
}

func (m *EventRepositoryMock) All() []entities.Event {
	m.lock.Lock()
	defer m.lock.Unlock()

	result := make([]entities.Event, 0, len(m.events))
	for _, event := range m.events {
		result = append(result, event)
	}
	return result
}
