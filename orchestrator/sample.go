package orchestrator

import (
	"github.com/grailbio/supernovo/allele"
	"github.com/grailbio/supernovo/pileup"
	"github.com/grailbio/supernovo/result"
)

// toSample flattens p's A1/A2-keyed fields into a result.Sample. a1/a2
// are always the *candidate's* A1/A2 allele, not whatever this particular
// pileup's own Depth() would pick, so parent fields line up with the
// child's columns even when a parent's own top-two alleles differ.
func toSample(sampleID string, p *pileup.Pileup, a1, a2 allele.Allele) result.Sample {
	return result.Sample{
		SampleID:            sampleID,
		A1WeightedDepth:     p.WeightedDepth[a1],
		A2WeightedDepth:     p.WeightedDepth[a2],
		A1RawDepth:          p.RawDepth(a1),
		A2RawDepth:          p.RawDepth(a2),
		A1ClippedCount:      p.ClippedCounts[a1],
		A2ClippedCount:      p.ClippedCounts[a2],
		A1EndPositionCount:  p.EndPositionCounts[a1],
		A2EndPositionCount:  p.EndPositionCounts[a2],
		A1MismapCount:       p.ApparentMismapCounts[a1],
		A2MismapCount:       p.ApparentMismapCounts[a2],
		A1UnmappedMateCount: p.UnmappedMateCounts[a1],
		A2UnmappedMateCount: p.UnmappedMateCounts[a2],
	}
}
