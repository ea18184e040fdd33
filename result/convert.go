package result

import (
	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/haplotype"
	"github.com/grailbio/supernovo/resultpb"
)

func toProtoSample(s Sample) *resultpb.Sample {
	return &resultpb.Sample{
		SampleId:            s.SampleID,
		A1WeightedDepth:     s.A1WeightedDepth,
		A2WeightedDepth:     s.A2WeightedDepth,
		A1RawDepth:          int32(s.A1RawDepth),
		A2RawDepth:          int32(s.A2RawDepth),
		A1ClippedCount:      int32(s.A1ClippedCount),
		A2ClippedCount:      int32(s.A2ClippedCount),
		A1EndPositionCount:  int32(s.A1EndPositionCount),
		A2EndPositionCount:  int32(s.A2EndPositionCount),
		A1MismapCount:       int32(s.A1MismapCount),
		A2MismapCount:       int32(s.A2MismapCount),
		A1UnmappedMateCount: int32(s.A1UnmappedMateCount),
		A2UnmappedMateCount: int32(s.A2UnmappedMateCount),
	}
}

func fromProtoSample(s *resultpb.Sample) Sample {
	return Sample{
		SampleID:             s.SampleId,
		A1WeightedDepth:      s.A1WeightedDepth,
		A2WeightedDepth:      s.A2WeightedDepth,
		A1RawDepth:           int(s.A1RawDepth),
		A2RawDepth:           int(s.A2RawDepth),
		A1ClippedCount:       int(s.A1ClippedCount),
		A2ClippedCount:       int(s.A2ClippedCount),
		A1EndPositionCount:   int(s.A1EndPositionCount),
		A2EndPositionCount:   int(s.A2EndPositionCount),
		A1MismapCount:        int(s.A1MismapCount),
		A2MismapCount:        int(s.A2MismapCount),
		A1UnmappedMateCount:  int(s.A1UnmappedMateCount),
		A2UnmappedMateCount:  int(s.A2UnmappedMateCount),
	}
}

// ToProto converts r to its wire form.
func (r DeNovoResult) ToProto() *resultpb.DeNovoResult {
	pb := &resultpb.DeNovoResult{
		Contig:           r.Contig,
		Pos:              int64(r.Pos),
		Ref:              string(r.Ref),
		Alt:              string(r.Alt),
		OtherVariants:    int32(r.Haplotype.OtherVariants),
		OtherTriallelics: int32(r.Haplotype.OtherTriallelics),
		OtherBiallelics:  int32(r.Haplotype.OtherBiallelics),
		AdjacentDeNovos:  int32(r.Haplotype.AdjacentDeNovos),
		OtherDeNovos:     int32(r.Haplotype.OtherDeNovos),
		Concordances:     append([]float64(nil), r.Haplotype.Concordances...),
		SuperNovo:        r.SuperNovo,
		SnpeffGene:       r.SnpeffGene,
		SnpeffImpact:     r.SnpeffImpact,
		DnIsRef:          r.DnIsRef,
	}
	for _, s := range r.Samples {
		pb.Samples = append(pb.Samples, toProtoSample(s))
	}
	return pb
}

// FromProto reconstructs a DeNovoResult from its wire form.
func FromProto(pb *resultpb.DeNovoResult) DeNovoResult {
	r := DeNovoResult{
		ReferencePosition: genome.ReferencePosition{
			Position: genome.Position{Contig: pb.Contig, Pos: int(pb.Pos)},
			Ref:      genome.Base(pb.Ref[0]),
			Alt:      genome.Base(pb.Alt[0]),
		},
		Haplotype: haplotype.Result{
			OtherVariants:    int(pb.OtherVariants),
			OtherTriallelics: int(pb.OtherTriallelics),
			OtherBiallelics:  int(pb.OtherBiallelics),
			AdjacentDeNovos:  int(pb.AdjacentDeNovos),
			OtherDeNovos:     int(pb.OtherDeNovos),
			Concordances:     append([]float64(nil), pb.Concordances...),
		},
		SuperNovo:    pb.SuperNovo,
		SnpeffGene:   pb.SnpeffGene,
		SnpeffImpact: pb.SnpeffImpact,
		DnIsRef:      pb.DnIsRef,
	}
	for _, s := range pb.Samples {
		r.Samples = append(r.Samples, fromProtoSample(s))
	}
	return r
}
