package result_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/supernovo/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTSVMissingSampleRendersDot(t *testing.T) {
	var buf bytes.Buffer
	r := sampleResult() // only has a "child" sample
	require.NoError(t, result.WriteTSV(&buf, []result.DeNovoResult{r}, []string{"child", "parent1"}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	header := strings.Split(lines[0], "\t")
	row := strings.Split(lines[1], "\t")
	require.Equal(t, len(header), len(row))

	// Find a parent1 column and confirm it's rendered as ".".
	found := false
	for i, col := range header {
		if col == "parent1_a1_weighted_depth" {
			assert.Equal(t, ".", row[i])
			found = true
		}
	}
	assert.True(t, found, "expected a parent1_a1_weighted_depth column")
}

func TestWriteSummaryCountsSuperNovoOnly(t *testing.T) {
	var buf bytes.Buffer
	r1 := sampleResult()
	r1.SnpeffGene = "BRCA1"
	r1.SnpeffImpact = "HIGH"
	r2 := sampleResult()
	r2.SuperNovo = false // excluded
	require.NoError(t, result.WriteSummary(&buf, []result.DeNovoResult{r1, r2}))

	out := buf.String()
	assert.Contains(t, out, "supernovo\t1\n")
	assert.Contains(t, out, "supernovo_damaging\t1\n")
	assert.Contains(t, out, "BRCA1_AnyImpact\t1\n")
	assert.Contains(t, out, "BRCA1\t1\n")
	assert.Contains(t, out, "HIGH\t1\n")
}
