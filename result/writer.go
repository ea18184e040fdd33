package result

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// tsvMissing is rendered for a missing optional value.
const tsvMissing = "."

// WriteTSV renders results as the tab-delimited output: ReferencePosition
// columns, then HaplotypeResult columns, then one flattened `<outer>_<inner>`
// column group per sample (child, then parent1/parent2 in trio mode).
// sampleNames fixes the column groups' order and presence regardless of
// which samples any individual result happens to carry.
func WriteTSV(w io.Writer, results []DeNovoResult, sampleNames []string) error {
	bw := newRowWriter(w)
	if err := bw.row(tsvHeader(sampleNames)); err != nil {
		return err
	}
	for _, r := range results {
		if err := bw.row(tsvRow(r, sampleNames)); err != nil {
			return err
		}
	}
	return bw.err
}

func tsvHeader(sampleNames []string) []string {
	cols := []string{"contig", "pos", "ref", "alt"}
	cols = append(cols,
		"haplotype_other_variants", "haplotype_other_triallelics", "haplotype_other_biallelics",
		"haplotype_adjacent_de_novos", "haplotype_other_de_novos", "haplotype_mean_concordance",
		"super_novo", "snpeff_gene", "snpeff_impact", "dn_is_ref",
	)
	for _, name := range sampleNames {
		for _, field := range sampleFieldNames {
			cols = append(cols, name+"_"+field)
		}
	}
	return cols
}

var sampleFieldNames = []string{
	"a1_weighted_depth", "a2_weighted_depth",
	"a1_raw_depth", "a2_raw_depth",
	"a1_clipped_count", "a2_clipped_count",
	"a1_end_position_count", "a2_end_position_count",
	"a1_mismap_count", "a2_mismap_count",
	"a1_unmapped_mate_count", "a2_unmapped_mate_count",
}

func tsvRow(r DeNovoResult, sampleNames []string) []string {
	row := []string{r.Contig, strconv.Itoa(r.Pos), string(r.Ref), string(r.Alt)}
	row = append(row,
		strconv.Itoa(r.Haplotype.OtherVariants),
		strconv.Itoa(r.Haplotype.OtherTriallelics),
		strconv.Itoa(r.Haplotype.OtherBiallelics),
		strconv.Itoa(r.Haplotype.AdjacentDeNovos),
		strconv.Itoa(r.Haplotype.OtherDeNovos),
		formatFloatOrMissing(meanConcordance(r.Haplotype.Concordances), len(r.Haplotype.Concordances) > 0),
		strconv.FormatBool(r.SuperNovo),
		stringOrMissing(r.SnpeffGene),
		stringOrMissing(r.SnpeffImpact),
		strconv.FormatBool(r.DnIsRef),
	)
	bySample := make(map[string]Sample, len(r.Samples))
	for _, s := range r.Samples {
		bySample[s.SampleID] = s
	}
	for _, name := range sampleNames {
		s, ok := bySample[name]
		row = append(row, sampleFields(s, ok)...)
	}
	return row
}

func sampleFields(s Sample, present bool) []string {
	if !present {
		out := make([]string, len(sampleFieldNames))
		for i := range out {
			out[i] = tsvMissing
		}
		return out
	}
	return []string{
		formatFloat(s.A1WeightedDepth), formatFloat(s.A2WeightedDepth),
		strconv.Itoa(s.A1RawDepth), strconv.Itoa(s.A2RawDepth),
		strconv.Itoa(s.A1ClippedCount), strconv.Itoa(s.A2ClippedCount),
		strconv.Itoa(s.A1EndPositionCount), strconv.Itoa(s.A2EndPositionCount),
		strconv.Itoa(s.A1MismapCount), strconv.Itoa(s.A2MismapCount),
		strconv.Itoa(s.A1UnmappedMateCount), strconv.Itoa(s.A2UnmappedMateCount),
	}
}

func meanConcordance(cs []float64) float64 {
	if len(cs) == 0 {
		return 0
	}
	var sum float64
	for _, c := range cs {
		sum += c
	}
	return sum / float64(len(cs))
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }

func formatFloatOrMissing(f float64, present bool) string {
	if !present {
		return tsvMissing
	}
	return formatFloat(f)
}

func stringOrMissing(s string) string {
	if s == "" {
		return tsvMissing
	}
	return s
}

// rowWriter writes tab-separated rows, latching the first write error so
// callers check once at the end.
type rowWriter struct {
	w   io.Writer
	err error
}

func newRowWriter(w io.Writer) *rowWriter { return &rowWriter{w: w} }

func (rw *rowWriter) row(cols []string) error {
	if rw.err != nil {
		return rw.err
	}
	_, rw.err = fmt.Fprintln(rw.w, strings.Join(cols, "\t"))
	return rw.err
}
