package logging

import (
	"errors"
	"sort"
	"sync"
)

// ErrNoFactory is returned by a Manager built without a Factory.
var ErrNoFactory = errors.New("logging: manager has no factory")

// Manager hands out one Logger per source, creating it on first use.
type Manager struct {
	factory Factory

	mu      sync.RWMutex
	loggers map[string]Logger
}

// NewManager returns a Manager backed by f.
func NewManager(f Factory) *Manager {
	return &Manager{factory: f, loggers: make(map[string]Logger)}
}

// GetLogger returns the cached Logger for source or creates it.
func (m *Manager) GetLogger(source string) (Logger, error) {
	if source == "" {
		return nil, ErrNoSource
	}
	if m.factory == nil {
		return nil, ErrNoFactory
	}
	m.mu.RLock()
	l, ok := m.loggers[source]
	m.mu.RUnlock()
	if ok {
		return l, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.loggers[source]; ok {
		return l, nil
	}
	l, err := m.factory(source)
	if err != nil {
		return nil, err
	}
	m.loggers[source] = l
	return l, nil
}

// GetLoggerFor returns the Logger named after the type of v.
func (m *Manager) GetLoggerFor(v any) (Logger, error) {
	source, err := SourceOf(v)
	if err != nil {
		return nil, err
	}
	return m.GetLogger(source)
}

// Sources lists the sources with a cached Logger.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.loggers))
	for s := range m.loggers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
