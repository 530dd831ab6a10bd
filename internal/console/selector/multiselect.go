package selector

import "sync"

// MultiSelect holds a multi-value selection with an optional exclusive
// sentinel. The sentinel ("all") and concrete values can never coexist:
// picking the sentinel drops every concrete value, and picking a concrete
// value drops the sentinel.
type MultiSelect struct {
	sentinel string

	mu     sync.Mutex
	values []string
}

func NewMultiSelect(sentinel string) *MultiSelect {
	return &MultiSelect{sentinel: sentinel}
}

// Values returns a copy of the current selection in pick order.
func (m *MultiSelect) Values() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.values))
	copy(out, m.values)
	return out
}

// Select adds a value to the selection, enforcing sentinel exclusivity.
// Selecting an already-present value is a no-op.
func (m *MultiSelect) Select(value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if value == m.sentinel && m.sentinel != "" {
		m.values = []string{m.sentinel}
		return
	}

	filtered := m.values[:0]
	for _, v := range m.values {
		if v == value {
			return
		}
		if v != m.sentinel || m.sentinel == "" {
			filtered = append(filtered, v)
		}
	}
	m.values = append(filtered, value)
}

// Deselect removes a value from the selection if present.
func (m *MultiSelect) Deselect(value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := m.values[:0]
	for _, v := range m.values {
		if v != value {
			filtered = append(filtered, v)
		}
	}
	m.values = filtered
}

// Set replaces the selection wholesale, normalizing sentinel exclusivity:
// if the sentinel appears anywhere in the input it wins alone.
func (m *MultiSelect) Set(values []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sentinel != "" {
		for _, v := range values {
			if v == m.sentinel {
				m.values = []string{m.sentinel}
				return
			}
		}
	}
	m.values = append([]string(nil), values...)
}

// Clear empties the selection.
func (m *MultiSelect) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = nil
}
