package candidate

import (
	"github.com/grailbio/supernovo/genome"
)

// Genotype is the parsed shape of one sample's GT field: the 0-based allele
// indices (0 == reference), where an index of i>0 refers to record.Alt[i-1].
type Genotype struct {
	Alleles []int16 // len 1 for haploid calls, len 2 for diploid
}

// Ploidy returns len(g.Alleles).
func (g Genotype) Ploidy() int { return len(g.Alleles) }

// IsSingleNonRef reports whether the genotype carries exactly one non-ref
// allele: a haploid non-ref call, or a heterozygous diploid call that is
// not a "het-nonref" 1/2-style call and not homozygous alt.
func (g Genotype) IsSingleNonRef() bool {
	switch len(g.Alleles) {
	case 1:
		return g.Alleles[0] > 0
	case 2:
		a, b := g.Alleles[0], g.Alleles[1]
		return (a == 0) != (b == 0) // exactly one is ref
	default:
		return false
	}
}

// AltIndex returns the 0-based index into record.Alt of the genotype's sole
// non-reference allele. Only meaningful when IsSingleNonRef is true.
func (g Genotype) AltIndex() int {
	for _, a := range g.Alleles {
		if a > 0 {
			return int(a) - 1
		}
	}
	return -1
}

// CandidateContext is a ReferencePosition plus the child genotype and, in
// trio mode, the parental genotypes and AD fields.
type CandidateContext struct {
	genome.ReferencePosition

	ChildGenotype Genotype

	// HasParents is false in solo mode.
	HasParents               bool
	Parent1Genotype          Genotype
	Parent2Genotype          Genotype
	Parent1AD, Parent2AD     []int // per-allele (ref first) raw depths from the VCF AD field, if present
}
