package selector

import "context"

// Chain links selectors so that choosing a value on one cascades to its
// descendants: the direct child reloads its options from the new parent value,
// and clearing propagates through empty values down the rest of the chain.
type Chain struct {
	selectors []*Selector
}

func NewChain(selectors ...*Selector) *Chain {
	return &Chain{selectors: selectors}
}

// Selectors returns the chain members in parent-to-child order.
func (c *Chain) Selectors() []*Selector {
	return c.selectors
}

// Select sets a value on the selector at index and cascades downstream. Each
// descendant is re-parented on its predecessor's post-resolution value, so a
// choice invalidated by new options clears everything below it.
func (c *Chain) Select(ctx context.Context, index int, value string) {
	if index < 0 || index >= len(c.selectors) {
		return
	}

	c.selectors[index].SetValue(value)
	for i := index + 1; i < len(c.selectors); i++ {
		c.selectors[i].SetParent(ctx, c.selectors[i-1].Value())
	}
}

// Reset clears every selector in the chain.
func (c *Chain) Reset() {
	for _, s := range c.selectors {
		s.SetValue("")
		s.mu.Lock()
		s.generation++
		s.options = nil
		s.loading = false
		s.mu.Unlock()
	}
}
