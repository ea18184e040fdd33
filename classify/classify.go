// Package classify holds the threshold predicates that decide whether a
// site "looks variant", "looks biallelic", or "looks de novo". The
// predicates live on an explicit Config value rather than a process-wide
// singleton, so the classifier unit-tests without any process setup.
package classify

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/supernovo/allele"
	"github.com/grailbio/supernovo/pileup"
)

// Config carries every classification threshold. There is no process-wide
// instance; callers construct one (DefaultConfig or flag-populated) and pass
// it explicitly into the Classifier, the pileup cache (for sizing) and the
// haplotype Evaluator.
type Config struct {
	MinDepth                          float64
	MinAllelicDepth                   int
	MinAllelicFrac                    float64
	MaxMiscallFrac                    float64
	MaxMiscallWeight                  float64
	VCFMaxParentAD                    int
	MinParentalDepth                  float64
	MinOtherDNAllelicDepth            float64
	MinOtherDNAllelicDepthIndependent float64
	MinHaplotypeConcordance           float64
	HaplotypeSearchDistance           int
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		MinDepth:                          10,
		MinAllelicDepth:                   4,
		MinAllelicFrac:                    0.10,
		MaxMiscallFrac:                    0.05,
		MaxMiscallWeight:                  1.0,
		VCFMaxParentAD:                    4,
		MinParentalDepth:                  10,
		MinOtherDNAllelicDepth:            1.5,
		MinOtherDNAllelicDepthIndependent: 3.0,
		MinHaplotypeConcordance:           0.75,
		HaplotypeSearchDistance:           150,
	}
}

// Classifier applies Config's thresholds to Depth/Pileup values. It holds no
// state of its own beyond Config, so a Classifier value may be freely shared
// across goroutines.
type Classifier struct {
	Config Config
}

// New returns a Classifier for cfg.
func New(cfg Config) *Classifier {
	return &Classifier{Config: cfg}
}

// LooksVariant reports whether a site carries a credible biallelic signal:
// two observed alleles, enough weighted depth, a minor-allele fraction above
// the floor, and enough raw reads behind each allele.
func (c *Classifier) LooksVariant(d *pileup.Depth) bool {
	if !d.HasA1 || !d.HasA2 {
		return false
	}
	if d.WeightedBiallelicDepth() < c.Config.MinDepth {
		return false
	}
	if d.WeightedMinorAlleleFraction() < c.Config.MinAllelicFrac {
		return false
	}
	if d.AllelicRawDepth(d.A1) < c.Config.MinAllelicDepth {
		return false
	}
	if d.AllelicRawDepth(d.A2) < c.Config.MinAllelicDepth {
		return false
	}
	return true
}

// PossibleAlleles returns the set of alleles credibly present at p: those
// whose raw count exceeds MaxMiscallWeight, or whose fraction of total raw
// count exceeds MaxMiscallFrac. Anything below both bars is treated as a
// sequencing miscall.
func (c *Classifier) PossibleAlleles(p *pileup.Pileup) map[allele.Allele]bool {
	total := p.TotalRawDepth()
	out := make(map[allele.Allele]bool)
	for a := range p.RecordsByAllele {
		raw := p.RawDepth(a)
		if float64(raw) > c.Config.MaxMiscallWeight {
			out[a] = true
			continue
		}
		if total > 0 && float64(raw)/float64(total) > c.Config.MaxMiscallFrac {
			out[a] = true
		}
	}
	return out
}

// MoreThanTwoViable reports whether p shows more than two credible alleles.
func (c *Classifier) MoreThanTwoViable(p *pileup.Pileup) bool {
	return len(c.PossibleAlleles(p)) > 2
}

// LooksBiallelic reports whether p looks variant with exactly two credible
// alleles.
func (c *Classifier) LooksBiallelic(p *pileup.Pileup) bool {
	return c.LooksVariant(p.Depth()) && !c.MoreThanTwoViable(p)
}

// DnAllele returns the child's de novo allele: the sole allele among the
// child's top two that is not in either parent's possible-allele set.
// Returns false if there is no such allele or more than one (the ambiguous
// case, logged and dropped).
//
// When both parents are absent (solo mode) there is no parental evidence to
// subtract, and the putative de novo is simply the minor allele A2; such a
// call carries no inheritance information and is only as credible as the
// haplotype and neighborhood signal behind it.
func (c *Classifier) DnAllele(child *pileup.Pileup, p1, p2 *pileup.Pileup) (allele.Allele, bool) {
	if p1 == nil && p2 == nil {
		d := child.Depth()
		if !d.HasA2 {
			return allele.Allele{}, false
		}
		return d.A2, true
	}
	parental := make(map[allele.Allele]bool)
	if p1 != nil {
		for a := range c.PossibleAlleles(p1) {
			parental[a] = true
		}
	}
	if p2 != nil {
		for a := range c.PossibleAlleles(p2) {
			parental[a] = true
		}
	}
	var candidates []allele.Allele
	for _, a := range child.Depth().BiAlleles() {
		if !parental[a] {
			candidates = append(candidates, a)
		}
	}
	switch len(candidates) {
	case 1:
		return candidates[0], true
	case 0:
		return allele.Allele{}, false
	default:
		log.Error.Printf("%v: ambiguous de novo allele, %d candidates in child.bi_alleles \\ parental -- dropping site", child.Position, len(candidates))
		return allele.Allele{}, false
	}
}

// LooksDenovo reports whether child looks biallelic with a resolvable de
// novo allele. In solo mode p1 and p2 are both nil, so the parental set is
// empty and any non-ref biallelic child trivially satisfies this; solo
// results rely entirely on haplotype concordance for credibility.
func (c *Classifier) LooksDenovo(child *pileup.Pileup, p1, p2 *pileup.Pileup) bool {
	if !c.LooksBiallelic(child) {
		return false
	}
	_, ok := c.DnAllele(child, p1, p2)
	return ok
}
