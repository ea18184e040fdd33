package result

import (
	"sort"

	"github.com/grailbio/supernovo/genome"
)

func sortResults(results []DeNovoResult, dict *genome.Dictionary) {
	sort.Slice(results, func(i, j int) bool {
		return dict.Less(results[i].Position, results[j].Position)
	})
}
