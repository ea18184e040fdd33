// Package result holds the DeNovoResult/Sample value types, the versioned
// snapshot/checkpoint codec, and the tab-delimited/summary writers. The
// candidate parser and haplotype evaluator produce the data; this package
// is purely about representing, persisting, and rendering it.
package result

import (
	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/haplotype"
)

// Sample is one sample's pileup-derived numeric fields, framed relative to
// the child's A1/A2 so parent fields are directly comparable across
// samples.
type Sample struct {
	SampleID string

	A1WeightedDepth, A2WeightedDepth         float64
	A1RawDepth, A2RawDepth                   int
	A1ClippedCount, A2ClippedCount           int
	A1EndPositionCount, A2EndPositionCount   int
	A1MismapCount, A2MismapCount             int
	A1UnmappedMateCount, A2UnmappedMateCount int
}

// DeNovoResult is a ReferencePosition plus a haplotype Result plus one
// Sample per participating sample. Samples[0] is always the child;
// Samples[1:] are the parents in trio mode (empty in solo mode).
type DeNovoResult struct {
	genome.ReferencePosition
	Haplotype haplotype.Result
	Samples   []Sample

	// SuperNovo is the final boolean this repo exists to compute: a de novo
	// call that additionally satisfies the haplotype-concordance and
	// neighborhood criteria. Set by the classifier/evaluator pipeline
	// before the result is handed to the annotator.
	SuperNovo bool

	// Annotation fields, populated by the external annotator; zero until
	// that stage runs.
	SnpeffGene   string
	SnpeffImpact string
	DnIsRef      bool
}
