package haplotype

import (
	"sort"

	"github.com/grailbio/supernovo/classify"
	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/pileup"
	"github.com/grailbio/supernovo/pileupcache"
	"github.com/pkg/errors"
)

// Result is the neighborhood summary for one candidate: counts of nearby
// variant shapes plus the concordance scores of its biallelic neighbors.
type Result struct {
	OtherVariants    int
	OtherTriallelics int
	OtherBiallelics  int
	AdjacentDeNovos  int
	OtherDeNovos     int
	Concordances     []float64
}

// ParentCache is an alias for *pileupcache.Cache, the pileup cache of an
// optional parent; nil in solo mode.
type ParentCache = *pileupcache.Cache

// Evaluator runs the neighborhood scan. It holds no per-candidate state,
// so one Evaluator may be shared across candidate-evaluation goroutines;
// each Cache is itself concurrency-safe, so one Evaluator plus one set of
// shared per-BAM Caches is the normal configuration.
type Evaluator struct {
	classifier *classify.Classifier
	child      *pileupcache.Cache
	parent1    ParentCache // nil in solo mode
	parent2    ParentCache
}

// New builds an Evaluator. parent1/parent2 are nil in solo mode.
func New(classifier *classify.Classifier, child, parent1, parent2 *pileupcache.Cache) *Evaluator {
	return &Evaluator{classifier: classifier, child: child, parent1: parent1, parent2: parent2}
}

// Evaluate scans HaplotypeSearchDistance bases either side of pos,
// classifying every biallelic child neighbor and scoring its concordance
// with the candidate's haplotypes. childPileup is the candidate's own
// pileup, which the caller has on hand from the classification step.
func (e *Evaluator) Evaluate(pos genome.Position, childPileup *pileup.Pileup) (Result, error) {
	d := e.classifier.Config.HaplotypeSearchDistance
	start := genome.Position{Contig: pos.Contig, Pos: max1(pos.Pos-d, 1)}
	stop := genome.Position{Contig: pos.Contig, Pos: pos.Pos + d}

	childRange, err := e.child.GetRange(start, stop)
	if err != nil {
		return Result{}, errors.Wrapf(err, "haplotype: child range pileups around %v", pos)
	}

	// Parental ranges are fetched lazily, only if a neighbor's shape
	// actually requires a de-novo test; most windows never need them.
	var parent1Range, parent2Range map[genome.Position]*pileup.Pileup
	fetchParent1 := func() (map[genome.Position]*pileup.Pileup, error) {
		if parent1Range == nil && e.parent1 != nil {
			var ferr error
			parent1Range, ferr = e.parent1.GetRange(start, stop)
			if ferr != nil {
				return nil, errors.Wrapf(ferr, "haplotype: parent1 range pileups around %v", pos)
			}
		}
		return parent1Range, nil
	}
	fetchParent2 := func() (map[genome.Position]*pileup.Pileup, error) {
		if parent2Range == nil && e.parent2 != nil {
			var ferr error
			parent2Range, ferr = e.parent2.GetRange(start, stop)
			if ferr != nil {
				return nil, errors.Wrapf(ferr, "haplotype: parent2 range pileups around %v", pos)
			}
		}
		return parent2Range, nil
	}

	var result Result
	var otherDeNovoPositions []int

	// Iterate positions in increasing order for deterministic results and a
	// simple adjacency scan in step 3.
	var qs []int
	for q := range childRange {
		if q.Pos == pos.Pos {
			continue
		}
		qs = append(qs, q.Pos)
	}
	sort.Ints(qs)

	for _, qpos := range qs {
		q := genome.Position{Contig: pos.Contig, Pos: qpos}
		qPileup := childRange[q]
		qDepth := qPileup.Depth()
		if !qDepth.HasA1 || !qDepth.HasA2 {
			continue
		}

		looksVariant := e.classifier.LooksVariant(qDepth)
		if looksVariant {
			result.OtherVariants++
			if e.classifier.MoreThanTwoViable(qPileup) {
				result.OtherTriallelics++
			} else {
				result.OtherBiallelics++
				if c, ok := Concordance(childPileup, qPileup); ok {
					result.Concordances = append(result.Concordances, c)
				}
			}
		}

		isNeighborDeNovo, err := e.looksLikeNeighborDeNovo(childPileup, qPileup, fetchParent1, fetchParent2, q)
		if err != nil {
			return Result{}, err
		}
		if isNeighborDeNovo {
			otherDeNovoPositions = append(otherDeNovoPositions, qpos)
		}
	}

	result.AdjacentDeNovos, result.OtherDeNovos = splitAdjacent(pos.Pos, otherDeNovoPositions)
	return result, nil
}

// looksLikeNeighborDeNovo decides whether the neighbor pileup q is itself
// an apparent de novo supporting the candidate: its allelic depths must
// clear either the frac-paired or the frac-independent floor, its
// concordance with the candidate must clear the minimum, and it must look
// de novo against the parents at its own position.
func (e *Evaluator) looksLikeNeighborDeNovo(
	base, q *pileup.Pileup,
	fetchParent1, fetchParent2 func() (map[genome.Position]*pileup.Pileup, error),
	pos genome.Position,
) (bool, error) {
	qDepth := q.Depth()
	cfg := e.classifier.Config

	fracPass := qDepth.WeightedMinorAlleleFraction() >= cfg.MinAllelicFrac
	bothAbove := func(floor float64) bool {
		return float64(qDepth.AllelicRawDepth(qDepth.A1)) >= floor && float64(qDepth.AllelicRawDepth(qDepth.A2)) >= floor
	}
	depthShapeOK := (fracPass && bothAbove(cfg.MinOtherDNAllelicDepth)) || bothAbove(cfg.MinOtherDNAllelicDepthIndependent)
	if !depthShapeOK {
		return false, nil
	}

	concordance, ok := Concordance(base, q)
	if !ok || concordance < cfg.MinHaplotypeConcordance {
		return false, nil
	}

	var p1Pileup, p2Pileup *pileup.Pileup
	if p1Range, err := fetchParent1(); err != nil {
		return false, err
	} else if p1Range != nil {
		p1Pileup = p1Range[pos]
	}
	if p2Range, err := fetchParent2(); err != nil {
		return false, err
	} else if p2Range != nil {
		p2Pileup = p2Range[pos]
	}

	return e.classifier.LooksDenovo(q, p1Pileup, p2Pileup), nil
}

// splitAdjacent partitions the de novo neighbor positions (sorted
// ascending, all distinct from p) into the run extending contiguously from
// p-1 leftward and p+1 rightward (stopping at the first gap in either
// direction) and the remainder.
func splitAdjacent(p int, positions []int) (adjacent, other int) {
	set := make(map[int]bool, len(positions))
	for _, q := range positions {
		set[q] = true
	}
	adjacentSet := make(map[int]bool)
	for q := p - 1; set[q]; q-- {
		adjacentSet[q] = true
	}
	for q := p + 1; set[q]; q++ {
		adjacentSet[q] = true
	}
	return len(adjacentSet), len(positions) - len(adjacentSet)
}

func max1(a, b int) int {
	if a > b {
		return a
	}
	return b
}
