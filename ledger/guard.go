package ledger

import (
	"sort"
	"sync"
)

// GuardKey identifies the exclusive-access guard of one balance row.
type GuardKey struct {
	MemberID int64
	AssetID  string
}

func (k GuardKey) less(other GuardKey) bool {
	if k.MemberID != other.MemberID {
		return k.MemberID < other.MemberID
	}

	return k.AssetID < other.AssetID
}

// guardRegistry hands out one mutex per (member, asset). Guards are
// created on first use and kept for the process lifetime; the set of
// touched balance rows is small enough that eviction isn't worth it.
type guardRegistry struct {
	mu     sync.Mutex
	guards map[GuardKey]*sync.Mutex
}

func newGuardRegistry() *guardRegistry {
	return &guardRegistry{
		guards: make(map[GuardKey]*sync.Mutex),
	}
}

func (r *guardRegistry) guard(key GuardKey) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guards[key]
	if !ok {
		g = &sync.Mutex{}
		r.guards[key] = g
	}

	return g
}

// acquire locks every guard in a stable global order so that two
// multi-guard operations can never deadlock each other. Duplicate keys
// are collapsed. The returned func releases in reverse order.
func (r *guardRegistry) acquire(keys ...GuardKey) func() {
	uniq := make([]GuardKey, 0, len(keys))
	seen := make(map[GuardKey]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			uniq = append(uniq, key)
		}
	}

	sort.Slice(uniq, func(i, j int) bool { return uniq[i].less(uniq[j]) })

	locked := make([]*sync.Mutex, 0, len(uniq))
	for _, key := range uniq {
		g := r.guard(key)
		g.Lock()
		locked = append(locked, g)
	}

	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}
