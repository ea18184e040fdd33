package orchestrator

import (
	"sync"

	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/result"
)

// resultSet is the shared position-to-result map. Writers only ever
// insert/replace their own key, so a single mutex is enough: contention is
// one write per candidate, not a hot path (the real concurrency is inside
// each per-BAM pileupcache.Cache).
type resultSet struct {
	mu      sync.Mutex
	entries map[genome.Position]result.DeNovoResult
}

func newResultSet() *resultSet {
	return &resultSet{entries: make(map[genome.Position]result.DeNovoResult)}
}

func newResultSetFrom(existing []result.DeNovoResult) *resultSet {
	rs := &resultSet{entries: make(map[genome.Position]result.DeNovoResult, len(existing))}
	for _, r := range existing {
		rs.entries[r.Position] = r
	}
	return rs
}

func (rs *resultSet) put(r result.DeNovoResult) {
	rs.mu.Lock()
	rs.entries[r.Position] = r
	rs.mu.Unlock()
}

func (rs *resultSet) has(pos genome.Position) bool {
	rs.mu.Lock()
	_, ok := rs.entries[pos]
	rs.mu.Unlock()
	return ok
}

// evictNotIn drops every key not present in keep; the VCF may have shrunk
// between runs.
func (rs *resultSet) evictNotIn(keep map[genome.Position]bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for pos := range rs.entries {
		if !keep[pos] {
			delete(rs.entries, pos)
		}
	}
}

// snapshot takes a consistent copy of every entry for the checkpointer
// and the final write.
func (rs *resultSet) snapshot() []result.DeNovoResult {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]result.DeNovoResult, 0, len(rs.entries))
	for _, r := range rs.entries {
		out = append(out, r)
	}
	return out
}
