package bulkedit

import (
	"fmt"
	"sync"
)

// Manager tracks live workflow instances by id so HTTP callers can address
// them across requests. Instances live in memory only; a completed or
// abandoned workflow is simply dropped.
type Manager struct {
	engine *Engine

	mu        sync.Mutex
	workflows map[string]*Workflow
}

// NewManager creates a Manager over the engine.
func NewManager(engine *Engine) *Manager {
	return &Manager{engine: engine, workflows: make(map[string]*Workflow)}
}

// Start creates and registers a new workflow instance.
func (m *Manager) Start(tenantID string, targetIDs []string) (*Workflow, error) {
	w, err := m.engine.Start(tenantID, targetIDs)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.workflows[w.ID()] = w
	m.mu.Unlock()
	return w, nil
}

// Get returns the workflow with the given id for the tenant.
func (m *Manager) Get(tenantID, id string) (*Workflow, error) {
	m.mu.Lock()
	w, ok := m.workflows[id]
	m.mu.Unlock()
	if !ok || w.TenantID() != tenantID {
		return nil, fmt.Errorf("%w: unknown workflow %q", ErrValidation, id)
	}
	return w, nil
}

// Remove drops a workflow instance.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.workflows, id)
	m.mu.Unlock()
}

// Engine returns the underlying engine for non-interactive callers.
func (m *Manager) Engine() *Engine { return m.engine }
