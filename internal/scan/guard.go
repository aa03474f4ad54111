package scan

import "fmt"

// ViewKey identifies one visitor's view of one product at one branch. The
// dedup state is a single map keyed by these composites, scoped to the
// visitor's session.
type ViewKey struct {
	BranchID  uint
	ProductID uint
	VisitorID string
}

func (k ViewKey) String() string {
	return fmt.Sprintf("%d:%d:%s", k.BranchID, k.ProductID, k.VisitorID)
}

// Guard holds the set of view keys already counted within a session. The
// handler loads the set from the session before recording and writes the
// snapshot back afterwards.
type Guard struct {
	seen map[string]bool
}

// NewGuard wraps a previously stored set. A nil map starts a fresh guard.
func NewGuard(seen map[string]bool) *Guard {
	if seen == nil {
		seen = make(map[string]bool)
	}
	return &Guard{seen: seen}
}

func (g *Guard) Seen(k ViewKey) bool {
	return g.seen[k.String()]
}

func (g *Guard) Mark(k ViewKey) {
	g.seen[k.String()] = true
}

// Snapshot returns the set for persisting back into the session.
func (g *Guard) Snapshot() map[string]bool {
	return g.seen
}
