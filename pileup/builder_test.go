package pileup_test

import (
	"fmt"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/supernovo/allele"
	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/pileup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRef(t *testing.T) *sam.Reference {
	t.Helper()
	ref, err := sam.NewReference("chr1", "", "", 1000000, nil, nil)
	require.NoError(t, err)
	return ref
}

// simpleRecord builds a single-base read aligned at the 1-based position
// pos with the given base, base quality, and mapping quality.
func simpleRecord(t *testing.T, ref *sam.Reference, name string, pos int, base byte, qual, mapq byte) *sam.Record {
	t.Helper()
	rec, err := sam.NewRecord(name, ref, nil, pos-1, -1, 1, mapq,
		sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 1)}, []byte{base}, []byte{qual}, nil)
	require.NoError(t, err)
	return rec
}

func TestBuildHetSite(t *testing.T) {
	ref := testRef(t)
	pos := genome.Position{Contig: "chr1", Pos: 1000}
	var reads []*sam.Record
	for i := 0; i < 20; i++ {
		reads = append(reads, simpleRecord(t, ref, fmt.Sprintf("a%d", i), 1000, 'A', 30, 60))
	}
	for i := 0; i < 20; i++ {
		reads = append(reads, simpleRecord(t, ref, fmt.Sprintf("g%d", i), 1000, 'G', 30, 60))
	}

	p := pileup.Build(pos, nil, reads)
	assert.Equal(t, 40, p.TotalRawDepth())

	a := allele.NewSNP(genome.BaseA)
	g := allele.NewSNP(genome.BaseG)
	assert.Equal(t, 20, p.RawDepth(a))
	assert.Equal(t, 20, p.RawDepth(g))
	assert.Empty(t, p.ApparentMismapCounts)
	assert.Empty(t, p.ClippedCounts)
	assert.Empty(t, p.UnmappedMateCounts)

	d := p.Depth()
	require.True(t, d.HasA1)
	require.True(t, d.HasA2)
	// 40 reads at BQ 30, MQ 60: each weighs accuracy(30)*accuracy(60).
	assert.InDelta(t, 39.96, d.WeightedBiallelicDepth(), 0.01)
	assert.InDelta(t, 0.5, d.WeightedMinorAlleleFraction(), 1e-9)

	// Weights are probabilities, so weighted depth never exceeds raw count.
	for _, al := range []allele.Allele{a, g} {
		assert.True(t, d.AllelicWeightedDepth(al) <= float64(p.RawDepth(al)),
			"weighted depth %v exceeds raw count %d", d.AllelicWeightedDepth(al), p.RawDepth(al))
	}
}

func TestBuildSkipsDuplicates(t *testing.T) {
	ref := testRef(t)
	pos := genome.Position{Contig: "chr1", Pos: 1000}
	rec := simpleRecord(t, ref, "dup", 1000, 'A', 30, 60)
	rec.Flags |= sam.Duplicate

	p := pileup.Build(pos, nil, []*sam.Record{rec})
	assert.Equal(t, 0, p.TotalRawDepth())
}

func TestBuildClippedCountedNotWeighted(t *testing.T) {
	ref := testRef(t)
	pos := genome.Position{Contig: "chr1", Pos: 1000}
	// 2S1M: the M base lands on 1000, but the clip disqualifies the read
	// from weighted depth.
	rec, err := sam.NewRecord("clip", ref, nil, 999, -1, 1, 60,
		sam.Cigar{sam.NewCigarOp(sam.CigarSoftClipped, 2), sam.NewCigarOp(sam.CigarMatch, 1)},
		[]byte{'T', 'T', 'A'}, []byte{30, 30, 30}, nil)
	require.NoError(t, err)

	p := pileup.Build(pos, nil, []*sam.Record{rec})
	a := allele.NewSNP(genome.BaseA)
	assert.Equal(t, 1, p.RawDepth(a))
	assert.Equal(t, 1, p.ClippedCounts[a])
	assert.Zero(t, p.WeightedDepth[a])
}

func TestBuildUnmappedMateCountedNotWeighted(t *testing.T) {
	ref := testRef(t)
	pos := genome.Position{Contig: "chr1", Pos: 1000}
	rec := simpleRecord(t, ref, "widow", 1000, 'A', 30, 60)
	rec.Flags |= sam.Paired | sam.MateUnmapped

	p := pileup.Build(pos, nil, []*sam.Record{rec})
	a := allele.NewSNP(genome.BaseA)
	assert.Equal(t, 1, p.RawDepth(a))
	assert.Equal(t, 1, p.UnmappedMateCounts[a])
	assert.Zero(t, p.WeightedDepth[a])
}

func TestBuildSingleEndReadKeepsWeight(t *testing.T) {
	ref := testRef(t)
	pos := genome.Position{Contig: "chr1", Pos: 1000}
	rec := simpleRecord(t, ref, "se", 1000, 'A', 30, 60) // unpaired, no mate at all

	p := pileup.Build(pos, nil, []*sam.Record{rec})
	a := allele.NewSNP(genome.BaseA)
	assert.Empty(t, p.UnmappedMateCounts)
	assert.True(t, p.WeightedDepth[a] > 0.9, "expected near-full weight, got %v", p.WeightedDepth[a])
}

// mismapRecord aligns a 51-base read at 1-based position 1000 with the
// given numbers of leading '=' and trailing 'X' operations.
func mismapRecord(t *testing.T, ref *sam.Reference, name string, equals, mismatches int) *sam.Record {
	t.Helper()
	length := equals + mismatches
	seq := make([]byte, length)
	qual := make([]byte, length)
	for i := range seq {
		seq[i] = 'A'
		qual[i] = 30
	}
	rec, err := sam.NewRecord(name, ref, nil, 999, -1, length, 60,
		sam.Cigar{sam.NewCigarOp(sam.CigarEqual, equals), sam.NewCigarOp(sam.CigarMismatch, mismatches)},
		seq, qual, nil)
	require.NoError(t, err)
	return rec
}

func TestBuildApparentMismapExcluded(t *testing.T) {
	ref := testRef(t)
	pos := genome.Position{Contig: "chr1", Pos: 1000}
	a := allele.NewSNP(genome.BaseA)

	// 10 of 51 bases match: suspect placement, counted but unweighted.
	suspect := pileup.Build(pos, nil, []*sam.Record{mismapRecord(t, ref, "bad", 10, 41)})
	assert.Equal(t, 1, suspect.RawDepth(a))
	assert.Equal(t, 1, suspect.ApparentMismapCounts[a])
	assert.Zero(t, suspect.WeightedDepth[a])

	// 41 of 51 match: fine.
	ok := pileup.Build(pos, nil, []*sam.Record{mismapRecord(t, ref, "good", 41, 10)})
	assert.Empty(t, ok.ApparentMismapCounts)
	assert.True(t, ok.WeightedDepth[a] > 0.9, "expected near-full weight, got %v", ok.WeightedDepth[a])
}

func TestBuildPlainMatchCigarNotJudgedMismapped(t *testing.T) {
	ref := testRef(t)
	pos := genome.Position{Contig: "chr1", Pos: 1000}
	// An M-only CIGAR reports no match/mismatch information, so the
	// equals-fraction test cannot apply.
	p := pileup.Build(pos, nil, []*sam.Record{simpleRecord(t, ref, "m", 1000, 'A', 30, 60)})
	assert.Empty(t, p.ApparentMismapCounts)
	w := p.WeightedDepth[allele.NewSNP(genome.BaseA)]
	assert.True(t, w > 0.9, "expected near-full weight, got %v", w)
}

func TestBuildEndPositionCounts(t *testing.T) {
	ref := testRef(t)
	pos := genome.Position{Contig: "chr1", Pos: 1000}
	mkRead := func(name string, pos0, length int) *sam.Record {
		seq := make([]byte, length)
		qual := make([]byte, length)
		for i := range seq {
			seq[i] = 'A'
			qual[i] = 30
		}
		rec, err := sam.NewRecord(name, ref, nil, pos0, -1, length, 60,
			sam.Cigar{sam.NewCigarOp(sam.CigarMatch, length)}, seq, qual, nil)
		require.NoError(t, err)
		return rec
	}
	reads := []*sam.Record{
		mkRead("startsAtP", 999, 10), // alignment begins at 1000
		mkRead("endsAtP", 990, 10),   // alignment's last base is 1000
		mkRead("spansP", 994, 12),    // covers 1000 mid-read
	}
	p := pileup.Build(pos, nil, reads)
	a := allele.NewSNP(genome.BaseA)
	assert.Equal(t, 3, p.RawDepth(a))
	assert.Equal(t, 2, p.EndPositionCounts[a])
}

func TestReadIDStableAcrossPileups(t *testing.T) {
	ref := testRef(t)
	// One read covering two neighboring positions must contribute the same
	// ReadID to both pileups, or haplotype set intersections would always
	// be empty.
	rec, err := sam.NewRecord("spanning", ref, nil, 999, -1, 2, 60,
		sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 2)}, []byte{'A', 'C'}, []byte{30, 30}, nil)
	require.NoError(t, err)

	p := pileup.Build(genome.Position{Contig: "chr1", Pos: 1000}, nil, []*sam.Record{rec})
	q := pileup.Build(genome.Position{Contig: "chr1", Pos: 1001}, nil, []*sam.Record{rec})
	assert.Equal(t, 1, p.AllRecords().Intersect(q.AllRecords()))
}
