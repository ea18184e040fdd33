package pileupcache_test

import (
	"fmt"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/supernovo/encoding/bamprovider"
	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/pileupcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(t *testing.T, ref *sam.Reference, name string, pos int, base byte, qual byte, mapq byte) *sam.Record {
	t.Helper()
	rec, err := sam.NewRecord(name, ref, nil, pos, -1, 1, mapq,
		sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 1)}, []byte{base},
		[]byte{qual}, nil)
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

func TestGetBuildsAndCaches(t *testing.T) {
	header, ref := testHeaderAndRef(t)
	var recs []*sam.Record
	for i := 0; i < 10; i++ {
		recs = append(recs, newRecord(t, ref, fmt.Sprintf("readA%d", i), 999, 'A', 30, 60))
	}
	for i := 0; i < 10; i++ {
		recs = append(recs, newRecord(t, ref, fmt.Sprintf("readG%d", i), 999, 'G', 30, 60))
	}
	provider := bamprovider.NewFakeProvider(header, recs)
	dict := genome.NewDictionary(header)
	cache := pileupcache.New(provider, dict, 150)

	pos := genome.Position{Contig: "chr1", Pos: 1000}
	p1, err := cache.Get(pos)
	require.NoError(t, err)
	assert.Equal(t, 20, p1.TotalRawDepth())

	// A second query without intervening eviction returns an
	// identity-equal Pileup.
	p2, err := cache.Get(pos)
	require.NoError(t, err)
	assert.True(t, p1 == p2, "expected identity-equal pileup on repeat Get")
}

func TestGetRangeMatchesGet(t *testing.T) {
	header, ref := testHeaderAndRef(t)
	var recs []*sam.Record
	for i := 0; i < 5; i++ {
		recs = append(recs, newRecord(t, ref, fmt.Sprintf("r%d", i), 999, 'A', 30, 60))
	}
	provider := bamprovider.NewFakeProvider(header, recs)
	dict := genome.NewDictionary(header)
	cache := pileupcache.New(provider, dict, 150)

	pos := genome.Position{Contig: "chr1", Pos: 1000}
	byGet, err := cache.Get(pos)
	require.NoError(t, err)

	cache2 := pileupcache.New(bamprovider.NewFakeProvider(header, recs), dict, 150)
	byRange, err := cache2.GetRange(pos, pos)
	require.NoError(t, err)

	assert.Equal(t, byGet.TotalRawDepth(), byRange[pos].TotalRawDepth())
}

func TestGetRangeReusesCachedEntries(t *testing.T) {
	header, ref := testHeaderAndRef(t)
	var recs []*sam.Record
	for _, pos := range []int{999, 1049} {
		recs = append(recs, newRecord(t, ref, "r", pos, 'A', 30, 60))
	}
	provider := bamprovider.NewFakeProvider(header, recs)
	dict := genome.NewDictionary(header)
	cache := pileupcache.New(provider, dict, 150)

	p1, err := cache.Get(genome.Position{Contig: "chr1", Pos: 1000})
	require.NoError(t, err)

	result, err := cache.GetRange(
		genome.Position{Contig: "chr1", Pos: 1000},
		genome.Position{Contig: "chr1", Pos: 1050},
	)
	require.NoError(t, err)
	assert.True(t, p1 == result[genome.Position{Contig: "chr1", Pos: 1000}], "expected GetRange to reuse cached pileup")
	assert.Equal(t, 1, result[genome.Position{Contig: "chr1", Pos: 1050}].TotalRawDepth())
}

func TestGetRangeDifferentContigsFail(t *testing.T) {
	header, _ := testHeaderAndRef(t)
	provider := bamprovider.NewFakeProvider(header, nil)
	dict := genome.NewDictionary(header)
	cache := pileupcache.New(provider, dict, 150)
	_, err := cache.GetRange(
		genome.Position{Contig: "chr1", Pos: 1000},
		genome.Position{Contig: "chr2", Pos: 1000},
	)
	assert.Error(t, err)
}
