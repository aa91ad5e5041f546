package cart

import (
	"sync"

	"learnhub-storefront-api/services/notification"
)

// Manager hands out the live cart aggregate for a cart key. Each key gets
// exactly one Service for the lifetime of the process, loaded from the store
// on first touch.
type Manager struct {
	mu       sync.Mutex
	carts    map[string]*Service
	store    Store
	notifier notification.Notifier
}

func NewManager(store Store, notifier notification.Notifier) *Manager {
	return &Manager{
		carts:    make(map[string]*Service),
		store:    store,
		notifier: notifier,
	}
}

func (m *Manager) Get(key string) *Service {
	m.mu.Lock()
	defer m.mu.Unlock()

	if svc, ok := m.carts[key]; ok {
		return svc
	}
	svc := NewService(key, m.store, m.notifier)
	m.carts[key] = svc
	return svc
}
