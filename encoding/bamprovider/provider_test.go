package bamprovider_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/grailbio/supernovo/encoding/bamprovider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestBAM builds a small indexed BAM file from synthetic records and
// returns its path. Synthetic in-memory fixtures rather
// than checked-in golden BAM files.
func writeTestBAM(t *testing.T, dir string, names []string, poss []int) (bamPath string) {
	header, err := sam.NewHeader(nil, []*sam.Reference{})
	require.NoError(t, err)
	ref, err := sam.NewReference("chr1", "", "", 1000000, nil, nil)
	require.NoError(t, err)
	require.NoError(t, header.AddReference(ref))

	bamPath = filepath.Join(dir, "test.bam")
	f, err := os.Create(bamPath)
	require.NoError(t, err)
	w, err := bam.NewWriter(f, header, 1)
	require.NoError(t, err)
	for i, name := range names {
		rec, err := sam.NewRecord(name, ref, nil, poss[i], -1, 10, 60,
			sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 10)}, []byte("ACGTACGTAC"),
			[]byte{30, 30, 30, 30, 30, 30, 30, 30, 30, 30}, nil)
		require.NoError(t, err)
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	in, err := os.Open(bamPath)
	require.NoError(t, err)
	defer in.Close()
	idx, err := bam.NewIndex(in, 0)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, idx.WriteTo(&buf))
	require.NoError(t, ioutil.WriteFile(bamPath+".bai", buf.Bytes(), 0644))
	return bamPath
}

func readNames(t *testing.T, it bamprovider.Iterator) []string {
	var names []string
	for it.Scan() {
		names = append(names, it.Record().Name)
	}
	assert.NoError(t, it.Err())
	return names
}

func TestRefByNameAndIterator(t *testing.T) {
	dir := t.TempDir()
	path := writeTestBAM(t, dir, []string{"read1", "read2", "read3"}, []int{100, 200, 300})

	p := bamprovider.NewProvider(path)
	defer func() { assert.NoError(t, p.Close()) }()

	header, err := p.GetHeader()
	require.NoError(t, err)
	assert.Equal(t, "chr1", bamprovider.RefByName(header, "chr1").Name())
	assert.Nil(t, bamprovider.RefByName(header, "chr2"))

	it := bamprovider.NewRefIterator(p, "chr1", 0, 250)
	names := readNames(t, it)
	assert.NoError(t, it.Close())
	assert.Equal(t, []string{"read1", "read2"}, names)
}

func TestIteratorReusedAcrossQueries(t *testing.T) {
	dir := t.TempDir()
	path := writeTestBAM(t, dir, []string{"read1", "read2", "read3"}, []int{100, 200, 300})

	p := bamprovider.NewProvider(path)
	defer func() { assert.NoError(t, p.Close()) }()

	// Two successive region queries; the second reuses the pooled iterator
	// the first one freed.
	it := bamprovider.NewRefIterator(p, "chr1", 0, 150)
	assert.Equal(t, []string{"read1"}, readNames(t, it))
	assert.NoError(t, it.Close())

	it = bamprovider.NewRefIterator(p, "chr1", 150, 1000)
	assert.Equal(t, []string{"read2", "read3"}, readNames(t, it))
	assert.NoError(t, it.Close())
}

func TestNewProviderMissingFile(t *testing.T) {
	p := bamprovider.NewProvider("/nonexistent/path.bam")
	_, err := p.GetHeader()
	assert.Error(t, err)
}
