// Package pileupcache memoizes per-position Pileups for one BAM, with
// at-most-one-concurrent-build-per-key coalescing and bounded,
// position-ordered eviction.
//
// An llrb.Tree orders live entries by position (contig order, then
// coordinate) so eviction always drops the lowest-ordered entry, and a
// capacity bound of roughly twice the haplotype search distance keeps one
// full search window resident without letting memory grow unbounded across
// a chromosome-long scan.
package pileupcache

import (
	"sync"

	"github.com/biogo/hts/sam"
	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errorreporter"
	"github.com/grailbio/base/log"
	"github.com/grailbio/supernovo/allele"
	"github.com/grailbio/supernovo/circular"
	gbam "github.com/grailbio/supernovo/encoding/bam"
	"github.com/grailbio/supernovo/encoding/bamprovider"
	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/pileup"
	"github.com/pkg/errors"
)

// DefaultReadPadding is how far upstream of a queried position the cache
// pads its region scan to catch reads that start before the position but
// still overlap it (Provider region queries are start-position filtered,
// per encoding/bamprovider.NewRefIterator's doc comment; a read's start can
// never be after a position it overlaps, so only leftward padding is
// needed). 511 covers any read span short of long-read data.
const DefaultReadPadding = 511

// Cache is a per-BAM memo of Pileups. Safe for concurrent use; Get and
// GetRange calls for overlapping keys coalesce to a single underlying BAM
// scan.
type Cache struct {
	provider    bamprovider.Provider
	dict        *genome.Dictionary
	readPadding int
	capacity    int

	mu       sync.Mutex
	entries  map[genome.Position]*pileup.Pileup
	order    llrb.Tree // orderKey -> genome.Position, for eviction by position order
	inflight map[genome.Position]chan struct{}

	err errorreporter.T
}

// New builds a Cache over provider. The eviction bound is sized so the
// Cache comfortably holds one haplotype window: 2 x
// haplotypeSearchDistance positions, rounded up to the next power of two.
func New(provider bamprovider.Provider, dict *genome.Dictionary, haplotypeSearchDistance int) *Cache {
	capacity := circular.NextExp2(2 * haplotypeSearchDistance)
	return &Cache{
		provider:    provider,
		dict:        dict,
		readPadding: DefaultReadPadding,
		capacity:    capacity,
		entries:     make(map[genome.Position]*pileup.Pileup),
		inflight:    make(map[genome.Position]chan struct{}),
	}
}

// Err returns the first I/O error observed by the cache, or nil.
func (c *Cache) Err() error {
	return c.err.Err()
}

type orderKey struct {
	dict *genome.Dictionary
	pos  genome.Position
}

// Compare implements llrb.Comparable.
func (k orderKey) Compare(o llrb.Comparable) int {
	k2 := o.(orderKey)
	a, b := k.pos, k2.pos
	if k.dict.Less(a, b) {
		return -1
	}
	if k.dict.Less(b, a) {
		return 1
	}
	return 0
}

// Get returns the Pileup at pos, building it (via a single-base-window BAM
// region scan) on a cache miss. Concurrent Get calls for the same pos
// coalesce into one build.
func (c *Cache) Get(pos genome.Position) (*pileup.Pileup, error) {
	result, err := c.GetRange(pos, pos)
	if err != nil {
		return nil, err
	}
	return result[pos], nil
}

// GetRange returns Pileups for every position in the inclusive window
// [start, stop] on a single contig, computing only the positions missing
// from the cache via one overlapping-range BAM scan and reusing the rest.
// Fails if start.Contig != stop.Contig.
func (c *Cache) GetRange(start, stop genome.Position) (map[genome.Position]*pileup.Pileup, error) {
	if start.Contig != stop.Contig {
		return nil, errors.Errorf("pileupcache.GetRange: start contig %q != stop contig %q", start.Contig, stop.Contig)
	}
	if stop.Pos < start.Pos {
		start, stop = stop, start
	}

	result := make(map[genome.Position]*pileup.Pileup, stop.Pos-start.Pos+1)

	// mine: positions this call claimed and must build itself.
	// waitFor: positions another goroutine is already building.
	var mine []genome.Position
	type waiter struct {
		pos genome.Position
		ch  chan struct{}
	}
	var waitFor []waiter

	c.mu.Lock()
	for pos := start.Pos; pos <= stop.Pos; pos++ {
		gp := genome.Position{Contig: start.Contig, Pos: pos}
		if p, ok := c.entries[gp]; ok {
			result[gp] = p
			continue
		}
		if ch, ok := c.inflight[gp]; ok {
			waitFor = append(waitFor, waiter{gp, ch})
			continue
		}
		c.inflight[gp] = make(chan struct{})
		mine = append(mine, gp)
	}
	c.mu.Unlock()

	if len(mine) > 0 {
		built, err := c.build(start.Contig, mine)
		c.publish(mine, built)
		if err != nil {
			c.err.Set(err)
			return nil, err
		}
		for _, pos := range mine {
			result[pos] = built[pos]
		}
	}

	for _, w := range waitFor {
		<-w.ch
		if p, ok := c.lookup(w.pos); ok {
			result[w.pos] = p
			continue
		}
		// The owning build failed without publishing (I/O error); fall back
		// to building this single position ourselves rather than propagate
		// a partial result silently.
		p, err := c.Get(w.pos)
		if err != nil {
			return nil, err
		}
		result[w.pos] = p
	}
	return result, nil
}

// lookup returns the cached pileup at pos, if any, without claiming it.
func (c *Cache) lookup(pos genome.Position) (*pileup.Pileup, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[pos]
	return p, ok
}

// publish stores built pileups (which may be a partial map on error),
// signals and clears the inflight markers for every position in positions,
// and evicts down to capacity.
func (c *Cache) publish(positions []genome.Position, built map[genome.Position]*pileup.Pileup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pos := range positions {
		if p, ok := built[pos]; ok {
			c.entries[pos] = p
			c.order.Insert(orderKey{dict: c.dict, pos: pos})
		}
		if ch, ok := c.inflight[pos]; ok {
			close(ch)
			delete(c.inflight, pos)
		}
	}
	for len(c.entries) > c.capacity {
		min := c.order.Min()
		if min == nil {
			break
		}
		k := min.(orderKey)
		c.order.DeleteMin()
		delete(c.entries, k.pos)
	}
}

// build performs one BAM region scan covering [missing[0] - readPadding,
// missing[last] + 1) and builds a Pileup for every position in missing by
// offering every scanned read to each position's Builder in turn.
func (c *Cache) build(contig string, missing []genome.Position) (map[genome.Position]*pileup.Pileup, error) {
	out := make(map[genome.Position]*pileup.Pileup, len(missing))
	if len(missing) == 0 {
		return out, nil
	}
	header, err := c.provider.GetHeader()
	if err != nil {
		return out, errors.Wrap(err, "pileupcache: GetHeader")
	}
	ref := bamprovider.RefByName(header, contig)
	if ref == nil {
		return out, errors.Errorf("pileupcache: contig %q not found in BAM header", contig)
	}

	lo, hi := missing[0].Pos, missing[0].Pos
	for _, pos := range missing {
		if pos.Pos < lo {
			lo = pos.Pos
		}
		if pos.Pos > hi {
			hi = pos.Pos
		}
	}
	start := lo - 1 - c.readPadding // 0-based, padded
	if start < 0 {
		start = 0
	}
	shard := gbam.Shard{StartRef: ref, EndRef: ref, Start: start, End: hi} // End is 0-based exclusive == hi (1-based) inclusive

	it := c.provider.NewIterator(shard)
	var reads []*sam.Record
	for it.Scan() {
		reads = append(reads, it.Record())
	}
	if err := it.Close(); err != nil {
		return out, errors.Wrap(err, "pileupcache: region scan")
	}

	for _, pos := range missing {
		out[pos] = pileup.Build(pos, nil, reads)
	}
	log.Debug.Printf("pileupcache: built %d positions on %s from %d reads in [%d,%d]", len(missing), contig, len(reads), start, hi)
	return out, nil
}

// BuildQueried is like Get, but additionally passes queriedAlleles (ref/alt)
// into the Builder so supporting reads are labeled by the canonical allele
// rather than falling back to raw SNP(base) -- used by the candidate
// evaluation path, which always knows the ref/alt pair up front, unlike the
// haplotype evaluator's blind neighbor scan.
func (c *Cache) BuildQueried(pos genome.Position, queriedAlleles []allele.Allele) (*pileup.Pileup, error) {
	// A cached blind build is served as-is: for SNV alleles the queried
	// labeling collapses to SNP(base at offset), so the two builds agree.
	// A queried build also publishes into the cache, so a later blind
	// GetRange over the same position reuses it instead of rebuilding.
	if p, ok := c.lookup(pos); ok {
		return p, nil
	}
	header, err := c.provider.GetHeader()
	if err != nil {
		return nil, errors.Wrap(err, "pileupcache: GetHeader")
	}
	ref := bamprovider.RefByName(header, pos.Contig)
	if ref == nil {
		return nil, errors.Errorf("pileupcache: contig %q not found in BAM header", pos.Contig)
	}
	start := pos.Pos - 1 - c.readPadding
	if start < 0 {
		start = 0
	}
	shard := gbam.Shard{StartRef: ref, EndRef: ref, Start: start, End: pos.Pos}
	it := c.provider.NewIterator(shard)
	var reads []*sam.Record
	for it.Scan() {
		reads = append(reads, it.Record())
	}
	if err := it.Close(); err != nil {
		c.err.Set(err)
		return nil, errors.Wrap(err, "pileupcache: region scan")
	}
	p := pileup.Build(pos, queriedAlleles, reads)
	c.publish([]genome.Position{pos}, map[genome.Position]*pileup.Pileup{pos: p})
	return p, nil
}
