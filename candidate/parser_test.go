package candidate_test

import (
	"testing"

	"github.com/grailbio/supernovo/candidate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vertgenlab/gonomics/vcf"
)

func header(samples ...string) vcf.Header {
	line := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT"
	for _, s := range samples {
		line += "\t" + s
	}
	return vcf.Header{Text: []string{"##fileformat=VCFv4.2", line}}
}

func TestParseOneHetSNVSurvives(t *testing.T) {
	h := header("child", "parent1", "parent2")
	p, err := candidate.NewParser(h, candidate.Config{ChildID: "child", Parent1ID: "parent1", Parent2ID: "parent2", VCFMaxParentAD: 4})
	require.NoError(t, err)

	recs := make(chan vcf.Vcf, 1)
	recs <- vcf.Vcf{
		Chr: "chr1", Pos: 1000, Ref: "A", Alt: []string{"G"},
		Format: []string{"GT", "AD"},
		Samples: []vcf.Sample{
			{Alleles: []int16{0, 1}, FormatData: []string{"0/1", "20,20"}},
			{Alleles: []int16{0, 0}, FormatData: []string{"0/0", "30,1"}},
			{Alleles: []int16{0, 0}, FormatData: []string{"0/0", "28,0"}},
		},
	}
	close(recs)

	out := p.ParseAll(recs)
	require.Len(t, out, 1)
	assert.Equal(t, "chr1", out[0].Contig)
	assert.Equal(t, 1000, out[0].Pos)
	assert.True(t, out[0].HasParents)
}

func TestParseOneRejectsSeenInParentVCF(t *testing.T) {
	h := header("child", "parent1", "parent2")
	p, err := candidate.NewParser(h, candidate.Config{ChildID: "child", Parent1ID: "parent1", Parent2ID: "parent2", VCFMaxParentAD: 4})
	require.NoError(t, err)

	recs := make(chan vcf.Vcf, 1)
	recs <- vcf.Vcf{
		Chr: "chr1", Pos: 2000, Ref: "A", Alt: []string{"G"},
		Format: []string{"GT", "AD"},
		Samples: []vcf.Sample{
			{Alleles: []int16{0, 1}, FormatData: []string{"0/1", "20,20"}},
			{Alleles: []int16{0, 1}, FormatData: []string{"0/1", "10,10"}}, // AD 10 > ceiling 4
			{Alleles: []int16{0, 0}, FormatData: []string{"0/0", "28,0"}},
		},
	}
	close(recs)

	out := p.ParseAll(recs)
	assert.Empty(t, out)
}

func TestParseOneRejectsNonSNV(t *testing.T) {
	h := header("child")
	p, err := candidate.NewParser(h, candidate.Config{ChildID: "child", VCFMaxParentAD: 4})
	require.NoError(t, err)

	recs := make(chan vcf.Vcf, 1)
	recs <- vcf.Vcf{
		Chr: "chr1", Pos: 3000, Ref: "A", Alt: []string{"AGG"},
		Format:  []string{"GT"},
		Samples: []vcf.Sample{{Alleles: []int16{0, 1}, FormatData: []string{"0/1"}}},
	}
	close(recs)

	out := p.ParseAll(recs)
	assert.Empty(t, out)
}

func TestParseOneRejectsHetNonref(t *testing.T) {
	h := header("child")
	p, err := candidate.NewParser(h, candidate.Config{ChildID: "child", VCFMaxParentAD: 4})
	require.NoError(t, err)

	recs := make(chan vcf.Vcf, 1)
	recs <- vcf.Vcf{
		Chr: "chr1", Pos: 4000, Ref: "A", Alt: []string{"G", "C"},
		Format:  []string{"GT"},
		Samples: []vcf.Sample{{Alleles: []int16{1, 2}, FormatData: []string{"1/2"}}},
	}
	close(recs)

	out := p.ParseAll(recs)
	assert.Empty(t, out)
}

func TestSoloModeHasNoParents(t *testing.T) {
	h := header("child")
	p, err := candidate.NewParser(h, candidate.Config{ChildID: "child", VCFMaxParentAD: 4})
	require.NoError(t, err)

	recs := make(chan vcf.Vcf, 1)
	recs <- vcf.Vcf{
		Chr: "chr1", Pos: 5000, Ref: "A", Alt: []string{"G"},
		Format:  []string{"GT"},
		Samples: []vcf.Sample{{Alleles: []int16{0, 1}, FormatData: []string{"0/1"}}},
	}
	close(recs)

	out := p.ParseAll(recs)
	require.Len(t, out, 1)
	assert.False(t, out[0].HasParents)
}
