// Package haplotype scans a window around each surviving candidate and
// computes the fraction of overlapping reads whose allele calls at
// neighboring variant positions are consistent with one of the child's two
// haplotypes at the candidate -- the signal separating a real de novo
// allele (supported on one haplotype) from a scattered artifact.
package haplotype

import "github.com/grailbio/supernovo/pileup"

// Concordance measures how consistently the reads spanning both positions
// sort onto one haplotype pairing. base is the candidate pileup (its A1/A2
// define the two local haplotypes); search is a neighboring pileup. The
// A1/A2 assignment at each position is arbitrary, so both the cis (A1-A1,
// A2-A2) and trans (A1-A2, A2-A1) pairings are scored and the better one
// wins. Returns ok=false if no read spans both positions, in which case
// concordance is undefined.
func Concordance(base, search *pileup.Pileup) (score float64, ok bool) {
	bd, sd := base.Depth(), search.Depth()
	if !bd.HasA1 || !bd.HasA2 {
		return 0, false
	}

	h1, h2 := bd.AllelicRecords(bd.A1), bd.AllelicRecords(bd.A2)
	sAll := search.AllRecords()

	n1, n2 := h1.Intersect(sAll), h2.Intersect(sAll)
	if n1 == 0 && n2 == 0 {
		return 0, false
	}

	var s1, s2 pileup.ReadIDSet
	if sd.HasA1 {
		s1 = sd.AllelicRecords(sd.A1)
	}
	if sd.HasA2 {
		s2 = sd.AllelicRecords(sd.A2)
	}

	ratio := func(h pileup.ReadIDSet, s pileup.ReadIDSet, n int) float64 {
		if n == 0 {
			return 1
		}
		return float64(h.Intersect(s)) / float64(n)
	}

	cis := min(ratio(h1, s1, n1), ratio(h2, s2, n2))
	trans := min(ratio(h1, s2, n1), ratio(h2, s1, n2))
	return max(cis, trans), true
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
