// Package candidate streams candidate positions out of the input VCF/gVCF,
// filtering by genotype shape and parental support, and deduplicating
// across genome-bin boundaries.
package candidate

import (
	"github.com/biogo/hts/sam"
)

// BinSize is the width, in reference bases, of a genome bin: the unit of
// parallelism for candidate evaluation.
const BinSize = 100_000

// Bin is a half-open [Start, End) reference interval on one contig, 0-based.
type Bin struct {
	Contig     string
	Start, End int
}

// Bins enumerates every BinSize-wide bin over every contig in header, in
// header order. The final bin on a contig is truncated to the contig length.
func Bins(header *sam.Header) []Bin {
	var bins []Bin
	for _, ref := range header.Refs() {
		length := ref.Len()
		for start := 0; start < length; start += BinSize {
			end := start + BinSize
			if end > length {
				end = length
			}
			bins = append(bins, Bin{Contig: ref.Name(), Start: start, End: end})
		}
	}
	return bins
}

// Contains reports whether the 1-based position pos on b.Contig falls in b.
func (b Bin) Contains(contig string, pos int) bool {
	return contig == b.Contig && pos-1 >= b.Start && pos-1 < b.End
}
