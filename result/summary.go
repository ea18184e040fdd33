package result

import (
	"fmt"
	"io"
	"sort"
)

// DamagingImpacts is the set of snpEff impact categories the summary
// treats as "damaging" (HIGH and MODERATE, in snpEff's own four-tier
// HIGH/MODERATE/LOW/MODIFIER scale; LOW and MODIFIER are not damaging).
var DamagingImpacts = map[string]bool{"HIGH": true, "MODERATE": true}

// WriteSummary renders the `<output>.summary.txt` file: tab-delimited
// key<TAB>count lines over the final filtered (SuperNovo == true) result
// set. "<gene>_AnyImpact" counts every superNovo call in that gene;
// "<gene>" (no suffix) counts only the damaging-impact subset, the same
// all-vs-damaging split "supernovo" vs "supernovo_damaging" makes at the
// top level.
func WriteSummary(w io.Writer, results []DeNovoResult) error {
	counts := map[string]int{}
	for _, r := range results {
		if !r.SuperNovo {
			continue
		}
		counts["supernovo"]++
		damaging := DamagingImpacts[r.SnpeffImpact]
		if damaging {
			counts["supernovo_damaging"]++
			if !r.DnIsRef {
				counts["supernovo_damaging_nonref"]++
			}
		}
		if r.SnpeffGene != "" {
			counts[r.SnpeffGene+"_AnyImpact"]++
			if damaging {
				counts[r.SnpeffGene]++
			}
		}
		if r.SnpeffImpact != "" {
			counts[r.SnpeffImpact]++
		}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", k, counts[k]); err != nil {
			return err
		}
	}
	return nil
}
