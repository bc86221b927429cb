package services

import (
	"maps"
	"sync"

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/logger"
)

// ExpansionManager holds which TOC nodes are expanded. A node that was
// never touched is collapsed.
type ExpansionManager struct {
	mu       sync.Mutex
	expanded map[string]bool
	onChange func(state map[string]bool)
}

// NewExpansionManager creates an empty expansion state.
func NewExpansionManager() *ExpansionManager {
	return &ExpansionManager{}
}

// OnChange registers fn to receive a snapshot after every real update.
func (m *ExpansionManager) OnChange(fn func(state map[string]bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Toggle flips the expansion of id and returns the new value.
func (m *ExpansionManager) Toggle(id string) bool {
	m.mu.Lock()
	m.ensure()
	m.expanded[id] = !m.expanded[id]
	v := m.expanded[id]
	snap, fn := m.snapshotLocked(), m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return v
}

// SetExpanded sets the expansion of id and reports whether it changed.
func (m *ExpansionManager) SetExpanded(id string, expanded bool) bool {
	m.mu.Lock()
	m.ensure()
	if m.expanded[id] == expanded {
		m.mu.Unlock()
		return false
	}
	m.expanded[id] = expanded
	snap, fn := m.snapshotLocked(), m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return true
}

// IsExpanded reports whether id is expanded.
func (m *ExpansionManager) IsExpanded(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expanded[id]
}

// Snapshot returns a copy of the expansion state.
func (m *ExpansionManager) Snapshot() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Reset collapses everything. The change callback is not fired.
func (m *ExpansionManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expanded = nil
}

// SyncActive expands every ancestor of activeID in toc so the active
// node is visible. Siblings and descendants are left alone. Returns
// whether any node changed; the change callback fires only then.
func (m *ExpansionManager) SyncActive(toc []domain.Section, activeID string) bool {
	if activeID == "" {
		return false
	}
	path, ok := domain.AncestorPath(toc, activeID)
	if !ok || len(path) == 0 {
		return false
	}

	m.mu.Lock()
	m.ensure()
	changed := false
	for _, id := range path {
		if !m.expanded[id] {
			m.expanded[id] = true
			changed = true
		}
	}
	if !changed {
		m.mu.Unlock()
		return false
	}
	snap, fn := m.snapshotLocked(), m.onChange
	m.mu.Unlock()

	logger.Debug("expansion: expanded %d ancestors of %q", len(path), activeID)
	if fn != nil {
		fn(snap)
	}
	return true
}

func (m *ExpansionManager) ensure() {
	if m.expanded == nil {
		m.expanded = make(map[string]bool)
	}
}

func (m *ExpansionManager) snapshotLocked() map[string]bool {
	out := make(map[string]bool, len(m.expanded))
	maps.Copy(out, m.expanded)
	return out
}
