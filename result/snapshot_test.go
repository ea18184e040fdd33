package result_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/haplotype"
	"github.com/grailbio/supernovo/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() result.DeNovoResult {
	return result.DeNovoResult{
		ReferencePosition: genome.ReferencePosition{
			Position: genome.Position{Contig: "chr1", Pos: 1000},
			Ref:      genome.BaseA,
			Alt:      genome.BaseG,
		},
		Haplotype: haplotype.Result{
			OtherVariants: 3, OtherBiallelics: 2, OtherTriallelics: 1,
			Concordances: []float64{0.9, 1.0},
		},
		Samples: []result.Sample{
			{SampleID: "child", A1WeightedDepth: 20.1, A2WeightedDepth: 19.4, A1RawDepth: 20, A2RawDepth: 20},
		},
		SuperNovo: true,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "supernovo-result")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "out.SuperNovoResultList.ser.gz")
	ctx := context.Background()
	want := []result.DeNovoResult{sampleResult()}

	require.NoError(t, result.Save(ctx, path, want))

	got, err := result.Load(ctx, path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].Position, got[0].Position)
	assert.Equal(t, want[0].Ref, got[0].Ref)
	assert.Equal(t, want[0].Alt, got[0].Alt)
	assert.Equal(t, want[0].Haplotype.OtherVariants, got[0].Haplotype.OtherVariants)
	assert.InDeltaSlice(t, want[0].Haplotype.Concordances, got[0].Haplotype.Concordances, 1e-9)
	require.Len(t, got[0].Samples, 1)
	assert.Equal(t, "child", got[0].Samples[0].SampleID)
	assert.InDelta(t, 20.1, got[0].Samples[0].A1WeightedDepth, 1e-9)
}

func TestLoadMissingFileReturnsNilNotError(t *testing.T) {
	got, err := result.Load(context.Background(), "/nonexistent/path/does-not-exist.ser.gz")
	require.NoError(t, err)
	assert.Nil(t, got)
}
