// Package pileup turns a stream of aligned reads overlapping one genomic
// position into per-allele weighted depths and diagnostic counts.
package pileup

import (
	"sync"

	"github.com/biogo/hts/sam"
	"blainsmith.com/go/seahash"
	"github.com/grailbio/supernovo/allele"
	"github.com/grailbio/supernovo/genome"
)

// ReadID is a stable identifier for a read, computed from (read name,
// first-in-pair flag, alignment start) rather than a pointer. This makes
// set intersection between two BAMs' read-id sets well defined: the same
// physical read sequenced into the child BAM and a parent BAM (in
// artifact-sharing contamination scenarios) or reappearing across two
// pileups of the same BAM produces the same ReadID, so read-id sets from
// different pileups compose by set algebra.
type ReadID uint64

func newReadID(r *sam.Record) ReadID {
	firstInPair := byte(0)
	if r.Flags&sam.Paired != 0 && r.Flags&sam.Read1 != 0 {
		firstInPair = 1
	}
	buf := make([]byte, 0, len(r.Name)+5)
	buf = append(buf, r.Name...)
	buf = append(buf, firstInPair)
	pos := uint32(r.Pos)
	buf = append(buf, byte(pos), byte(pos>>8), byte(pos>>16), byte(pos>>24))
	return ReadID(seahash.Sum64(buf))
}

// ReadIDSet is a set of ReadIDs, used both as a Pileup's per-allele record
// set and as the working set type for haplotype-concordance intersections.
type ReadIDSet map[ReadID]struct{}

// Intersect returns the number of elements common to s and other.
func (s ReadIDSet) Intersect(other ReadIDSet) int {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	n := 0
	for id := range small {
		if _, ok := big[id]; ok {
			n++
		}
	}
	return n
}

// Pileup is an immutable, per-position summary of every non-duplicate read
// overlapping that position. Once published by the Builder, a Pileup
// is never mutated; Depth is computed lazily and cached on first access.
type Pileup struct {
	Position genome.Position

	// RecordsByAllele maps an allele to the set of ReadIDs of every
	// overlapping, non-duplicate read that was assigned to it (regardless of
	// whether the read's weight was excluded from weighted depth).
	RecordsByAllele map[allele.Allele]ReadIDSet

	WeightedDepth         map[allele.Allele]float64
	ClippedCounts         map[allele.Allele]int
	EndPositionCounts     map[allele.Allele]int
	ApparentMismapCounts  map[allele.Allele]int
	UnmappedMateCounts    map[allele.Allele]int

	depthOnce sync.Once
	depth     *Depth
}

// AllRecords returns the union of every allele's ReadIDSet: every read
// contributing to any allele at this position.
func (p *Pileup) AllRecords() ReadIDSet {
	all := make(ReadIDSet)
	for _, set := range p.RecordsByAllele {
		for id := range set {
			all[id] = struct{}{}
		}
	}
	return all
}

// RawDepth returns the number of distinct reads recorded for allele a.
func (p *Pileup) RawDepth(a allele.Allele) int {
	return len(p.RecordsByAllele[a])
}

// TotalRawDepth returns the sum of raw depths across every allele, which
// equals the number of unique non-duplicate reads covering the position.
func (p *Pileup) TotalRawDepth() int {
	n := 0
	for a := range p.RecordsByAllele {
		n += p.RawDepth(a)
	}
	return n
}

// TotalWeightedDepth returns the sum of weighted depths across every
// allele at this position.
func (p *Pileup) TotalWeightedDepth() float64 {
	var w float64
	for _, wd := range p.WeightedDepth {
		w += wd
	}
	return w
}

// Depth lazily computes and caches this Pileup's Depth summary.
func (p *Pileup) Depth() *Depth {
	p.depthOnce.Do(func() {
		p.depth = newDepth(p)
	})
	return p.depth
}

// Depth summarizes the two dominant alleles at a position by weighted
// depth, A1 (major) and A2 (minor), plus the derived quantities the
// classifier and haplotype evaluator consume.
type Depth struct {
	pileup *Pileup

	// A1, A2 are the top two alleles by weighted depth. HasA1/HasA2 report
	// whether that many distinct alleles were observed at all (bi_alleles
	// can have size 0, 1, or 2).
	A1, A2       allele.Allele
	HasA1, HasA2 bool
}

func newDepth(p *Pileup) *Depth {
	type scored struct {
		a allele.Allele
		w float64
	}
	scores := make([]scored, 0, len(p.WeightedDepth))
	for a, w := range p.WeightedDepth {
		scores = append(scores, scored{a, w})
	}
	// Selection rather than a full sort: only the top two matter.
	d := &Depth{pileup: p}
	for _, s := range scores {
		switch {
		case !d.HasA1 || s.w > p.WeightedDepth[d.A1]:
			d.A2, d.HasA2 = d.A1, d.HasA1
			d.A1, d.HasA1 = s.a, true
		case !d.HasA2 || s.w > p.WeightedDepth[d.A2]:
			d.A2, d.HasA2 = s.a, true
		}
	}
	return d
}

// BiAlleles returns the set of alleles among {A1, A2} that are actually
// present (size 0, 1, or 2).
func (d *Depth) BiAlleles() []allele.Allele {
	var out []allele.Allele
	if d.HasA1 {
		out = append(out, d.A1)
	}
	if d.HasA2 {
		out = append(out, d.A2)
	}
	return out
}

// AllelicWeightedDepth returns the weighted depth for allele a.
func (d *Depth) AllelicWeightedDepth(a allele.Allele) float64 {
	return d.pileup.WeightedDepth[a]
}

// AllelicRawDepth returns the raw (read-count) depth for allele a.
func (d *Depth) AllelicRawDepth(a allele.Allele) int {
	return d.pileup.RawDepth(a)
}

// AllelicRecords returns the ReadIDSet backing allele a.
func (d *Depth) AllelicRecords(a allele.Allele) ReadIDSet {
	return d.pileup.RecordsByAllele[a]
}

// WeightedBiallelicDepth returns wd(A1) + wd(A2).
func (d *Depth) WeightedBiallelicDepth() float64 {
	return d.AllelicWeightedDepth(d.A1) + d.AllelicWeightedDepth(d.A2)
}

// WeightedMinorAlleleFraction returns wd(A2) / (wd(A1) + wd(A2)), or 0 if
// there is no A2.
func (d *Depth) WeightedMinorAlleleFraction() float64 {
	if !d.HasA2 {
		return 0
	}
	total := d.WeightedBiallelicDepth()
	if total == 0 {
		return 0
	}
	return d.AllelicWeightedDepth(d.A2) / total
}
