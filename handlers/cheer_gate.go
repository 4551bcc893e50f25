package handlers

import "sync"

// CheerGate remembers which feed items each viewer has cheered so a
// repeat cheer is ignored.
type CheerGate struct {
	mu   sync.Mutex
	seen map[string]map[string]struct{}
}

func NewCheerGate() *CheerGate {
	return &CheerGate{seen: make(map[string]map[string]struct{})}
}

// TryMark records the cheer and reports whether it is the viewer's first.
func (g *CheerGate) TryMark(viewerID, itemID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	items, ok := g.seen[viewerID]
	if !ok {
		items = make(map[string]struct{})
		g.seen[viewerID] = items
	}
	if _, done := items[itemID]; done {
		return false
	}
	items[itemID] = struct{}{}
	return true
}

// Unmark rolls back a TryMark whose cheer failed.
func (g *CheerGate) Unmark(viewerID, itemID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen[viewerID], itemID)
}

func (g *CheerGate) Has(viewerID, itemID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.seen[viewerID][itemID]
	return ok
}
