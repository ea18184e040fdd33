// Package allele represents the alleles a read can be observed to
// support at a reference position.
package allele

import (
	"fmt"
	"math"

	"github.com/grailbio/supernovo/genome"
)

// Kind distinguishes the two Allele shapes. Indel exists only so that an
// indel candidate can be represented and then rejected; SuperNovo never
// builds weighted-depth or concordance machinery on top of one.
type Kind int

const (
	// SNP is a single-nucleotide allele.
	SNP Kind = iota
	// Indel is a placeholder for a non-SNV allele. SuperNovo filters these
	// out during candidate parsing; the type exists so that the pileup
	// builder's "fall back to SNP(base)" logic has something to compare
	// against when handed a candidate pair.
	Indel
)

// Allele is the PileAllele of the design: either a single base (SNP) or an
// opaque Indel marker.
type Allele struct {
	kind Kind
	base genome.Base
}

// NewSNP returns the SNP allele for base.
func NewSNP(base genome.Base) Allele { return Allele{kind: SNP, base: base} }

// NewIndel returns the Indel marker allele.
func NewIndel() Allele { return Allele{kind: Indel} }

// Kind returns the allele's kind.
func (a Allele) Kind() Kind { return a.kind }

// Base returns the allele's base. Only meaningful when Kind() == SNP.
func (a Allele) Base() genome.Base { return a.base }

// String implements fmt.Stringer.
func (a Allele) String() string {
	if a.kind == Indel {
		return "<INDEL>"
	}
	return fmt.Sprintf("%c", a.base)
}

// Supported reports whether a read observed to carry `base` at the covered
// offset supports this allele. For a SNP allele this is simple base
// equality. Indel alleles are never supported -- the candidate parser
// rejects indel candidates before they reach the pileup builder, and this
// predicate exists only to keep the builder's "does one of the queried
// alleles match" logic total.
//
// The pileup builder is responsible for turning a read's packed sequence
// and a read offset into `base` (via biosimd.UnpackSeq); Allele itself has
// no BAM-record knowledge.
func (a Allele) Supported(base genome.Base) bool {
	return a.kind == SNP && base == a.base
}

// WeightAt returns the accuracy-weighted contribution of a base call with
// the given Phred base quality: accuracy(base_quality). The mapping-quality
// factor is applied separately by the pileup builder, since it is a
// property of the whole read, not of the allele.
func WeightAt(baseQual byte) float64 {
	return Accuracy(float64(baseQual))
}

// Accuracy converts a Phred-scaled quality score into a probability of
// correctness: 1 - 10^(-q/10).
//
// A whole-genome pileup scanner would precompute this over a lookup table
// (it is called once per base of every read there); SuperNovo calls it once
// per read per candidate site, so a direct math.Pow is fine.
func Accuracy(q float64) float64 {
	return 1 - math.Pow(10, -q/10)
}
