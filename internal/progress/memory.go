package progress

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory keeps documents in a map. State is lost on restart.
// Documents are stored encoded so callers never share maps with the backend.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemory() *Memory { return &Memory{docs: make(map[string][]byte)} }

func (m *Memory) Load(_ context.Context, profileID string) (Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decode(profileID)
}

func (m *Memory) Update(_ context.Context, profileID string, fn func(*Progress) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.decode(profileID)
	if err != nil {
		return err
	}
	if err := fn(&p); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	m.docs[profileID] = raw
	return nil
}

func (m *Memory) Delete(_ context.Context, profileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, profileID)
	return nil
}

func (m *Memory) decode(profileID string) (Progress, error) {
	raw, ok := m.docs[profileID]
	if !ok {
		return Default(), nil
	}
	var p Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return Progress{}, err
	}
	p.normalize()
	return p, nil
}
