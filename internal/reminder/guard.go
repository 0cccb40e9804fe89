package reminder

import "sync"

// DeliveryGuard suppresses repeated delivery callbacks for the same
// notification handle within one session. The platform may replay a
// received callback (e.g. on app resume); only the first observation
// of a handle is processed. The seen-set is in-memory only — a fresh
// session starts empty, which is an accepted tradeoff at session
// boundaries.
type DeliveryGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDeliveryGuard creates an empty guard
func NewDeliveryGuard() *DeliveryGuard {
	return &DeliveryGuard{seen: make(map[string]struct{})}
}

// ShouldProcess returns true exactly once per handle per session
func (g *DeliveryGuard) ShouldProcess(notificationID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[notificationID]; ok {
		return false
	}
	g.seen[notificationID] = struct{}{}
	return true
}

// Reset clears the seen-set at a session boundary
func (g *DeliveryGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen = make(map[string]struct{})
}
