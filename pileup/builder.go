package pileup

import (
	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/log"
	"github.com/grailbio/supernovo/allele"
	"github.com/grailbio/supernovo/biosimd"
	"github.com/grailbio/supernovo/encoding/bam"
	"github.com/grailbio/supernovo/genome"
)

// Builder accumulates reads overlapping one position into a Pileup. It
// carries no mutable state of its own; a single Builder value may be
// reused (or copied) across positions and goroutines.
type Builder struct{}

// Build consumes reads (every read the caller believes overlaps pos; the
// Builder itself re-checks coverage) and returns the resulting Pileup.
// queriedAlleles, when non-empty, lets a read be labeled by the canonical
// allele it supports (relevant for indel support in a future revision); for
// SNV-only operation this collapses to "the base at the covered offset" as
// soon as no queried allele matches.
func Build(pos genome.Position, queriedAlleles []allele.Allele, reads []*sam.Record) *Pileup {
	p := &Pileup{
		Position:             pos,
		RecordsByAllele:      make(map[allele.Allele]ReadIDSet),
		WeightedDepth:        make(map[allele.Allele]float64),
		ClippedCounts:        make(map[allele.Allele]int),
		EndPositionCounts:    make(map[allele.Allele]int),
		ApparentMismapCounts: make(map[allele.Allele]int),
		UnmappedMateCounts:   make(map[allele.Allele]int),
	}
	for _, r := range reads {
		addRead(p, pos, queriedAlleles, r)
	}
	return p
}

func addRead(p *Pileup, pos genome.Position, queriedAlleles []allele.Allele, r *sam.Record) {
	if r.Flags&sam.Duplicate != 0 {
		return
	}
	offset, covered := readOffsetForPosition(r, pos.Pos)
	if !covered {
		return
	}
	base, ok := baseAt(r, offset)
	if !ok {
		log.Error.Printf("%v: read %s has no base at offset %d, skipping", pos, r.Name, offset)
		return
	}

	a := allele.NewSNP(base)
	for _, qa := range queriedAlleles {
		if qa.Supported(base) {
			a = qa
			break
		}
	}

	id := newReadID(r)
	if p.RecordsByAllele[a] == nil {
		p.RecordsByAllele[a] = make(ReadIDSet)
	}
	p.RecordsByAllele[a][id] = struct{}{}

	clipped := isClipped(r)
	mismapped := isApparentMismap(r)
	mateUnmapped := hasUnmappedMate(r)
	if r.Pos == pos.Pos-1 || alignmentEnd(r) == pos.Pos {
		p.EndPositionCounts[a]++
	}
	if clipped {
		p.ClippedCounts[a]++
	}
	if mismapped {
		p.ApparentMismapCounts[a]++
	}
	if mateUnmapped {
		p.UnmappedMateCounts[a]++
	}
	if clipped || mismapped || mateUnmapped {
		return
	}

	weight := allele.WeightAt(r.Qual[offset]) * allele.Accuracy(float64(r.MapQ))
	p.WeightedDepth[a] += weight
}

// readOffsetForPosition walks r's CIGAR to find the 0-based read offset
// covering the 1-based reference position pos. Returns ok=false if pos
// falls outside the alignment or inside a deletion/skip (not an actual
// base call).
func readOffsetForPosition(r *sam.Record, pos int) (offset int, ok bool) {
	if r.Ref == nil {
		return 0, false
	}
	refPos := r.Pos // 0-based
	readPos := 0
	target := pos - 1 // convert to 0-based
	if target < refPos {
		return 0, false
	}
	for _, co := range r.Cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			if target >= refPos && target < refPos+n {
				return readPos + (target - refPos), true
			}
			refPos += n
			readPos += n
		case sam.CigarInsertion, sam.CigarSoftClipped:
			readPos += n
		case sam.CigarDeletion, sam.CigarSkipped:
			if target >= refPos && target < refPos+n {
				return 0, false
			}
			refPos += n
		case sam.CigarHardClipped, sam.CigarPadded:
			// Consume neither ref nor read.
		}
	}
	return 0, false
}

// alignmentEnd returns the 0-based reference position one past the last
// reference base consumed by r's CIGAR (i.e. the position just after the
// read's aligned span).
func alignmentEnd(r *sam.Record) int {
	end := r.Pos
	for _, co := range r.Cigar {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch, sam.CigarDeletion, sam.CigarSkipped:
			end += co.Len()
		}
	}
	return end
}

// hasUnmappedMate reports whether r is a paired read whose mate failed to
// map. An unpaired (single-end) read has no mate to be unmapped and is not
// penalized.
func hasUnmappedMate(r *sam.Record) bool {
	return r.Flags&sam.Paired != 0 && r.Flags&sam.MateUnmapped != 0
}

func isClipped(r *sam.Record) bool {
	for _, co := range r.Cigar {
		if co.Type() == sam.CigarSoftClipped || co.Type() == sam.CigarHardClipped {
			return true
		}
	}
	return false
}

// isApparentMismap reports whether the fraction of CIGAR '=' operations
// over read length is less than 0.5 -- a read matching fewer than half its
// bases is likely misplaced. The test only applies to alignments that
// report '='/'X' at all; a plain-M CIGAR carries no match information, so
// such reads are never judged mismapped.
func isApparentMismap(r *sam.Record) bool {
	var equals, mismatches, total int
	for _, co := range r.Cigar {
		switch co.Type() {
		case sam.CigarEqual:
			equals += co.Len()
			total += co.Len()
		case sam.CigarMismatch:
			mismatches += co.Len()
			total += co.Len()
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarSoftClipped:
			total += co.Len()
		}
	}
	if equals+mismatches == 0 || total == 0 {
		return false
	}
	return float64(equals)/float64(total) < 0.5
}

// baseAt unpacks r's packed sequence and returns the base at the given
// 0-based read offset, via the seq nibble -> enum table in common.go.
func baseAt(r *sam.Record, offset int) (genome.Base, bool) {
	if offset < 0 || offset >= r.Seq.Length {
		return 0, false
	}
	unpacked := make([]byte, r.Seq.Length)
	biosimd.UnpackSeq(unpacked, bam.UnsafeDoubletsToBytes(r.Seq.Seq))
	nibble := unpacked[offset]
	if int(nibble) >= len(Seq8ToEnumTable) {
		return 0, false
	}
	switch Seq8ToEnumTable[nibble] {
	case BaseA:
		return genome.BaseA, true
	case BaseC:
		return genome.BaseC, true
	case BaseG:
		return genome.BaseG, true
	case BaseT:
		return genome.BaseT, true
	default:
		return genome.BaseN, true
	}
}
