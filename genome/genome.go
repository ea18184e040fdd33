// Package genome defines the basic coordinate types shared across
// SuperNovo: a contig-qualified position, and a dictionary that gives
// contigs a stable total order (mirroring the way sam.Header.Refs()
// establishes order for a BAM file).
package genome

import (
	"fmt"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
)

// Position is a 1-based genomic position on a named contig. It is a value
// type: comparisons and map keys both work directly on Position.
type Position struct {
	Contig string
	Pos    int
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.Contig, p.Pos)
}

// Dictionary assigns each contig name a stable index, so Positions on
// different contigs can be totally ordered the same way sam.Reference IDs
// order a BAM file's reference sequences.
type Dictionary struct {
	index map[string]int
	names []string
}

// NewDictionary builds a Dictionary from a BAM/CRAM header, preserving the
// header's reference order.
func NewDictionary(header *sam.Header) *Dictionary {
	d := &Dictionary{index: make(map[string]int, len(header.Refs()))}
	for _, ref := range header.Refs() {
		d.index[ref.Name()] = len(d.names)
		d.names = append(d.names, ref.Name())
	}
	return d
}

// IndexOf returns the contig's order index, or -1 if the contig is unknown.
func (d *Dictionary) IndexOf(contig string) int {
	if i, ok := d.index[contig]; ok {
		return i
	}
	return -1
}

// Less reports whether a sorts before b, ordering first by contig index
// (per the Dictionary) and then by position. Unknown contigs sort last.
func (d *Dictionary) Less(a, b Position) bool {
	ia, ib := d.IndexOf(a.Contig), d.IndexOf(b.Contig)
	if ia < 0 {
		ia = len(d.names)
	}
	if ib < 0 {
		ib = len(d.names)
	}
	if ia != ib {
		return ia < ib
	}
	return a.Pos < b.Pos
}

// Base is a single reference/alt base. SuperNovo only ever deals with SNVs,
// so a Base is always exactly one of A, C, G, T, N.
type Base byte

// The four nucleotide bases plus the "unknown" placeholder, matching the
// teacher's pileup.BaseA..BaseX enumeration.
const (
	BaseA Base = 'A'
	BaseC Base = 'C'
	BaseG Base = 'G'
	BaseT Base = 'T'
	BaseN Base = 'N'
)

// ReferencePosition is a Position plus the reference allele and the
// candidate's single alternate allele, as required to construct a SNV
// PileAllele. It is constructed from a candidate VCF record; construction
// fails if the reference allele isn't a single base, or if the record
// doesn't resolve to exactly one non-reference allele in the child's
// genotype.
type ReferencePosition struct {
	Position
	Ref Base
	Alt Base
}

// NewReferencePosition validates ref/alt shapes and builds a
// ReferencePosition. ref and alt must each be exactly one base long, and
// distinct.
func NewReferencePosition(contig string, pos int, ref, alt string) (ReferencePosition, error) {
	if len(ref) != 1 {
		return ReferencePosition{}, errors.Errorf("%s:%d: reference allele %q is not a single base", contig, pos, ref)
	}
	if len(alt) != 1 {
		return ReferencePosition{}, errors.Errorf("%s:%d: alt allele %q is not a single base (indel rejected)", contig, pos, alt)
	}
	r, a := Base(ref[0]), Base(alt[0])
	if r == a {
		return ReferencePosition{}, errors.Errorf("%s:%d: ref and alt alleles are identical (%c)", contig, pos, r)
	}
	return ReferencePosition{Position: Position{Contig: contig, Pos: pos}, Ref: r, Alt: a}, nil
}
