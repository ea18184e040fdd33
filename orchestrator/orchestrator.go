package orchestrator

import (
	"context"
	"runtime"
	"time"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/supernovo/allele"
	"github.com/grailbio/supernovo/candidate"
	"github.com/grailbio/supernovo/classify"
	"github.com/grailbio/supernovo/encoding/bamprovider"
	"github.com/grailbio/supernovo/genome"
	"github.com/grailbio/supernovo/haplotype"
	"github.com/grailbio/supernovo/pileup"
	"github.com/grailbio/supernovo/pileupcache"
	"github.com/grailbio/supernovo/result"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/vcf"
)

// Run executes the pipeline end to end: load, parse, evaluate,
// checkpoint, annotate, write.
func Run(ctx context.Context, cfg Config) error {
	childProvider := bamprovider.NewProvider(cfg.ChildBamPath)
	defer closeProvider(cfg.ChildBamPath, childProvider)

	var parent1Provider, parent2Provider bamprovider.Provider
	if !cfg.Solo {
		parent1Provider = bamprovider.NewProvider(cfg.Parent1BamPath)
		defer closeProvider(cfg.Parent1BamPath, parent1Provider)
		parent2Provider = bamprovider.NewProvider(cfg.Parent2BamPath)
		defer closeProvider(cfg.Parent2BamPath, parent2Provider)
	}

	header, err := childProvider.GetHeader()
	if err != nil {
		return errors.Wrap(err, "orchestrator: reading child BAM header")
	}
	dict := genome.NewDictionary(header)

	searchDist := cfg.Classify.HaplotypeSearchDistance
	childCache := pileupcache.New(childProvider, dict, searchDist)
	var parent1Cache, parent2Cache *pileupcache.Cache
	if !cfg.Solo {
		parent1Cache = pileupcache.New(parent1Provider, dict, searchDist)
		parent2Cache = pileupcache.New(parent2Provider, dict, searchDist)
	}

	classifier := classify.New(cfg.Classify)
	evaluator := haplotype.New(classifier, childCache, parent1Cache, parent2Cache)

	// Step 1: seed `results` from a prior complete snapshot, falling back
	// to the chunked checkpoint. A load failure restarts from empty state
	// rather than aborting.
	rs, err := loadPrior(ctx, cfg.OutputStem)
	if err != nil {
		return err
	}

	// Step 2: parse candidates. gonomics' vcf reader has no
	// tabix/region-query API in this module's dependency surface, so the
	// VCF itself is decoded in one sequential pass; bin-parallelism is
	// applied to evaluation instead (candidate.Bins below), which is where
	// the actual BAM I/O -- the expensive part -- happens.
	records, vcfHeader := vcf.GoReadToChan(cfg.VCFPath)
	parser, err := candidate.NewParser(vcfHeader, cfg.candidateConfig())
	if err != nil {
		return errors.Wrap(err, "orchestrator: building candidate parser")
	}
	candidates := parser.ParseAll(records)
	log.Printf("orchestrator: %d candidates survived VCF filtering", len(candidates))

	// Step 3: evict stale results keys.
	keep := make(map[genome.Position]bool, len(candidates))
	for _, cc := range candidates {
		keep[cc.Position] = true
	}
	rs.evictNotIn(keep)

	var toEvaluate []candidate.CandidateContext
	for _, cc := range candidates {
		if !rs.has(cc.Position) {
			toEvaluate = append(toEvaluate, cc)
		}
	}
	log.Printf("orchestrator: %d candidates already resolved, %d to evaluate", len(candidates)-len(toEvaluate), len(toEvaluate))

	// Step 5: start the checkpointer before evaluation so a long run is
	// resumable even if it's interrupted partway through.
	stopCheckpointer := startCheckpointer(ctx, cfg, rs)

	// Step 4: evaluate, bin-sharded across a bounded worker pool.
	evalErr := evaluateAll(header, cfg, classifier, evaluator, childCache, parent1Cache, parent2Cache, toEvaluate, rs)
	stopCheckpointer()
	if evalErr != nil {
		return evalErr
	}

	// Step 6: sort, annotate, write final outputs.
	final := rs.snapshot()
	result.ByPosition(final, dict)

	annotated, err := cfg.annotator().Annotate(ctx, final, cfg.GenomeBuild)
	if err != nil {
		return errors.Wrap(err, "orchestrator: annotation")
	}

	if err := result.Save(ctx, result.SnapshotPath(cfg.OutputStem), annotated); err != nil {
		return errors.Wrap(err, "orchestrator: writing final snapshot")
	}
	return writeTabularOutputs(ctx, cfg, annotated)
}

func loadPrior(ctx context.Context, outputStem string) (*resultSet, error) {
	existing, err := result.Load(ctx, result.SnapshotPath(outputStem))
	if err != nil {
		log.Error.Printf("orchestrator: loading prior snapshot: %v (ignoring, restarting from empty state)", err)
		return newResultSet(), nil
	}
	if existing != nil {
		log.Printf("orchestrator: resumed %d results from prior snapshot", len(existing))
		return newResultSetFrom(existing), nil
	}
	existing, err = result.Load(ctx, result.CheckpointPath(outputStem))
	if err != nil {
		log.Error.Printf("orchestrator: loading checkpoint: %v (ignoring, restarting from empty state)", err)
		return newResultSet(), nil
	}
	if existing != nil {
		log.Printf("orchestrator: resumed %d results from checkpoint", len(existing))
	}
	return newResultSetFrom(existing), nil
}

// startCheckpointer launches the periodic checkpoint task and returns a
// function that stops it; safe to call more than once.
func startCheckpointer(ctx context.Context, cfg Config, rs *resultSet) func() {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(cfg.checkpointInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				checkpointOnce(ctx, cfg, rs)
			case <-done:
				return
			}
		}
	}()
	stopOnce := false
	return func() {
		if stopOnce {
			return
		}
		stopOnce = true
		close(done)
		<-stopped
	}
}

func checkpointOnce(ctx context.Context, cfg Config, rs *resultSet) {
	path := result.CheckpointPath(cfg.OutputStem)
	if err := result.Save(ctx, path, rs.snapshot()); err != nil {
		// A failed checkpoint is not fatal; the next attempt may succeed.
		log.Error.Printf("orchestrator: writing checkpoint %s: %v", path, err)
	}
}

// evaluateAll partitions toEvaluate by 100kb genome bin (candidate.Bins),
// then shards the non-empty bins across a bounded worker pool. Binning
// keeps each worker's pileup-cache accesses clustered in one genomic
// region, so neighboring candidates share window scans.
func evaluateAll(
	header *sam.Header,
	cfg Config,
	classifier *classify.Classifier,
	evaluator *haplotype.Evaluator,
	childCache, parent1Cache, parent2Cache *pileupcache.Cache,
	toEvaluate []candidate.CandidateContext,
	rs *resultSet,
) error {
	if len(toEvaluate) == 0 {
		return nil
	}
	bins := candidate.Bins(header)
	byBin := make([][]candidate.CandidateContext, len(bins))
	for _, cc := range toEvaluate {
		idx := -1
		for i, b := range bins {
			if b.Contains(cc.Contig, cc.Pos) {
				idx = i
				break
			}
		}
		if idx < 0 {
			// Bins spans every reference sequence of the BAM header end to
			// end, so this candidate sits on a contig (or past a contig
			// length) the BAM doesn't know -- a decoy-only VCF contig, or a
			// VCF/BAM build mismatch. No pileup can exist for it.
			log.Error.Printf("%s:%d: candidate outside every genome bin of the child BAM, skipping", cc.Contig, cc.Pos)
			continue
		}
		byBin[idx] = append(byBin[idx], cc)
	}

	var nonEmpty []int
	for i, cands := range byBin {
		if len(cands) > 0 {
			nonEmpty = append(nonEmpty, i)
		}
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(nonEmpty) {
		parallelism = len(nonEmpty)
	}
	if parallelism == 0 {
		return nil
	}

	return traverse.Each(parallelism, func(jobIdx int) error {
		lo := (jobIdx * len(nonEmpty)) / parallelism
		hi := ((jobIdx + 1) * len(nonEmpty)) / parallelism
		for _, binIdx := range nonEmpty[lo:hi] {
			for _, cc := range byBin[binIdx] {
				if err := evaluateOne(cfg, classifier, evaluator, childCache, parent1Cache, parent2Cache, cc, rs); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// evaluateOne processes a single candidate: it builds the candidate's
// ref/alt-labeled pileups, applies the de-novo predicate, and -- only if
// that holds -- runs the haplotype evaluation and writes a result.
func evaluateOne(
	cfg Config,
	classifier *classify.Classifier,
	evaluator *haplotype.Evaluator,
	childCache, parent1Cache, parent2Cache *pileupcache.Cache,
	cc candidate.CandidateContext,
	rs *resultSet,
) error {
	queried := []allele.Allele{allele.NewSNP(cc.Ref), allele.NewSNP(cc.Alt)}

	childPileup, err := childCache.BuildQueried(cc.Position, queried)
	if err != nil {
		return errors.Wrapf(err, "evaluating %v", cc.Position)
	}

	var p1Pileup, p2Pileup *pileup.Pileup
	if cc.HasParents {
		if p1Pileup, err = parent1Cache.BuildQueried(cc.Position, queried); err != nil {
			return errors.Wrapf(err, "evaluating %v (parent1)", cc.Position)
		}
		if p2Pileup, err = parent2Cache.BuildQueried(cc.Position, queried); err != nil {
			return errors.Wrapf(err, "evaluating %v (parent2)", cc.Position)
		}
	}

	if !classifier.LooksDenovo(childPileup, p1Pileup, p2Pileup) {
		log.Debug.Printf("%v: does not look de novo, skipping", cc.Position)
		return nil
	}

	hapResult, err := evaluator.Evaluate(cc.Position, childPileup)
	if err != nil {
		return errors.Wrapf(err, "haplotype evaluation of %v", cc.Position)
	}

	d := childPileup.Depth()
	samples := []result.Sample{toSample(cfg.ChildID, childPileup, d.A1, d.A2)}
	if cc.HasParents {
		samples = append(samples,
			toSample(cfg.Parent1ID, p1Pileup, d.A1, d.A2),
			toSample(cfg.Parent2ID, p2Pileup, d.A1, d.A2),
		)
	}

	rs.put(result.DeNovoResult{
		ReferencePosition: cc.ReferencePosition,
		Haplotype:         hapResult,
		Samples:           samples,
		SuperNovo:         looksLikeSuperNovo(cfg.Classify, hapResult, p1Pileup, p2Pileup),
	})
	return nil
}

// looksLikeSuperNovo decides the final superNovo bit for a site that
// already passed the de-novo predicate: the mean of any computed neighbor
// concordances must clear MinHaplotypeConcordance, and in trio mode each
// parent must carry at least MinParentalDepth of weighted coverage (a
// thinly covered parent can't rule out inheritance). A candidate with no
// biallelic neighbors in its search window has nothing to disqualify it on
// the concordance axis and passes it vacuously -- which is also why a
// solo-mode call with no neighborhood signal is a weak call: nothing
// corroborates it beyond its own pileup.
func looksLikeSuperNovo(cfg classify.Config, h haplotype.Result, p1, p2 *pileup.Pileup) bool {
	if p1 != nil && p1.TotalWeightedDepth() < cfg.MinParentalDepth {
		return false
	}
	if p2 != nil && p2.TotalWeightedDepth() < cfg.MinParentalDepth {
		return false
	}
	if len(h.Concordances) == 0 {
		return true
	}
	var sum float64
	for _, c := range h.Concordances {
		sum += c
	}
	mean := sum / float64(len(h.Concordances))
	return mean >= cfg.MinHaplotypeConcordance
}

func closeProvider(path string, p bamprovider.Provider) {
	if p == nil {
		return
	}
	if err := p.Close(); err != nil {
		log.Error.Printf("orchestrator: closing %s: %v", path, err)
	}
}

// writeTabularOutputs renders the TSV and summary files.
func writeTabularOutputs(ctx context.Context, cfg Config, results []result.DeNovoResult) error {
	sampleNames := []string{cfg.ChildID}
	if !cfg.Solo {
		sampleNames = append(sampleNames, cfg.Parent1ID, cfg.Parent2ID)
	}

	out, err := file.Create(ctx, cfg.OutputStem)
	if err != nil {
		return errors.Wrapf(err, "orchestrator: creating %s", cfg.OutputStem)
	}
	if err := result.WriteTSV(out.Writer(ctx), results, sampleNames); err != nil {
		_ = out.Close(ctx)
		return errors.Wrapf(err, "orchestrator: writing %s", cfg.OutputStem)
	}
	if err := out.Close(ctx); err != nil {
		return errors.Wrapf(err, "orchestrator: closing %s", cfg.OutputStem)
	}

	summaryPath := cfg.OutputStem + ".summary.txt"
	sumOut, err := file.Create(ctx, summaryPath)
	if err != nil {
		return errors.Wrapf(err, "orchestrator: creating %s", summaryPath)
	}
	if err := result.WriteSummary(sumOut.Writer(ctx), results); err != nil {
		_ = sumOut.Close(ctx)
		return errors.Wrapf(err, "orchestrator: writing %s", summaryPath)
	}
	return errors.Wrapf(sumOut.Close(ctx), "orchestrator: closing %s", summaryPath)
}
