package haplotype_test

import (
	"fmt"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/supernovo/classify"
	"github.com/grailbio/supernovo/encoding/bamprovider"
	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/haplotype"
	"github.com/grailbio/supernovo/pileupcache"
	"github.com/stretchr/testify/require"
)

// spanningRecord builds a read long enough to cover both the candidate
// position (1000) and a neighbor 50 bases downstream (1050), carrying
// baseAtP at the candidate offset and baseAtQ at the neighbor offset.
func spanningRecord(t *testing.T, ref *sam.Reference, name string, baseAtP, baseAtQ byte) *sam.Record {
	t.Helper()
	const length = 51 // covers ref [1000, 1050] inclusive, 0-based [999, 1049]
	seq := make([]byte, length)
	qual := make([]byte, length)
	for i := range seq {
		seq[i] = 'A'
		qual[i] = 30
	}
	seq[0] = baseAtP   // offset 0 -> 0-based pos 999 -> 1-based 1000
	seq[50] = baseAtQ  // offset 50 -> 0-based pos 1049 -> 1-based 1050
	rec, err := sam.NewRecord(name, ref, nil, 999, -1, length, 60,
		sam.Cigar{sam.NewCigarOp(sam.CigarMatch, length)}, seq, qual, nil)
	require.NoError(t, err)
	return rec
}

func testHeaderAndRef(t *testing.T) (*sam.Header, *sam.Reference) {
	t.Helper()
	header, err := sam.NewHeader(nil, []*sam.Reference{})
	require.NoError(t, err)
	ref, err := sam.NewReference("chr1", "", "", 1000000, nil, nil)
	require.NoError(t, err)
	require.NoError(t, header.AddReference(ref))
	return header, ref
}

// TestEvaluateCountsConcordantNeighbor runs a perfectly phased window end
// to end through the Cache + Evaluator: a candidate at 1000 (A1=A/A2=G)
// and a perfectly cis-concordant biallelic neighbor at 1050 (A1=C/A2=T on
// the same reads). The neighbor counts as an other_biallelic with
// concordance 1.0, and -- since no parent is present to contradict it --
// also as a non-adjacent neighbor de novo.
func TestEvaluateCountsConcordantNeighbor(t *testing.T) {
	header, ref := testHeaderAndRef(t)
	var recs []*sam.Record
	for i := 0; i < 20; i++ {
		recs = append(recs, spanningRecord(t, ref, fmt.Sprintf("hapA%d", i), 'A', 'C'))
	}
	for i := 0; i < 20; i++ {
		recs = append(recs, spanningRecord(t, ref, fmt.Sprintf("hapG%d", i), 'G', 'T'))
	}
	provider := bamprovider.NewFakeProvider(header, recs)
	dict := genome.NewDictionary(header)
	cfg := classify.DefaultConfig()
	cache := pileupcache.New(provider, dict, cfg.HaplotypeSearchDistance)
	classifier := classify.New(cfg)
	ev := haplotype.New(classifier, cache, nil, nil)

	pos := genome.Position{Contig: "chr1", Pos: 1000}
	childPileup, err := cache.Get(pos)
	require.NoError(t, err)

	result, err := ev.Evaluate(pos, childPileup)
	require.NoError(t, err)

	require.Len(t, result.Concordances, 1)
	require.InDelta(t, 1.0, result.Concordances[0], 1e-9)
	require.Equal(t, 1, result.OtherVariants)
	require.Equal(t, 1, result.OtherBiallelics)
	require.Equal(t, 0, result.OtherTriallelics)
	require.Equal(t, 1, result.OtherDeNovos)
	require.Equal(t, 0, result.AdjacentDeNovos)
}
