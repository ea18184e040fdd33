package main

/*
supernovo identifies putative de novo single-nucleotide mutations in a
child sample, cross-checked against two parents (trio mode) or evaluated
in isolation (-solo).
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/supernovo/annotate"
	"github.com/grailbio/supernovo/classify"
	"github.com/grailbio/supernovo/orchestrator"
)

var (
	vcfPath  = flag.String("vcf", "", "Candidate VCF/gVCF path, indexed (required)")
	childBam = flag.String("childBam", "", "Child BAM/CRAM path, indexed (required)")
	childID  = flag.String("childID", "", "Child sample ID, matching a VCF sample column (required)")

	parent1Bam = flag.String("parent1Bam", "", "Parent1 BAM/CRAM path, indexed (trio mode)")
	parent1ID  = flag.String("parent1ID", "", "Parent1 sample ID (trio mode)")
	parent2Bam = flag.String("parent2Bam", "", "Parent2 BAM/CRAM path, indexed (trio mode)")
	parent2ID  = flag.String("parent2ID", "", "Parent2 sample ID (trio mode)")
	solo       = flag.Bool("solo", false, "Run without parents; mutually exclusive with -parent1Bam/-parent2Bam")

	output = flag.String("output", "", "Output path stem (required)")
	genome = flag.String("genome", "", "Genome build tag, passed through to the annotator")

	snpEff      = flag.String("snpEff", "", "Path to a SnpEff jar/config; accepted, but results are not annotated (the no-op annotator is always used)")
	annovarDir  = flag.String("annovarDir", "", "Path to an ANNOVAR installation; accepted, but results are not annotated (the no-op annotator is always used)")
	parallelism = flag.Int("parallelism", 0, "Maximum number of simultaneous candidate-evaluation jobs; 0 = runtime.NumCPU()")

	minDepth                          = flag.Float64("minDepth", classify.DefaultConfig().MinDepth, "Minimum weighted biallelic depth")
	minAllelicDepth                   = flag.Int("minAllelicDepth", classify.DefaultConfig().MinAllelicDepth, "Minimum raw per-allele depth for A1 and A2")
	minAllelicFrac                    = flag.Float64("minAllelicFrac", classify.DefaultConfig().MinAllelicFrac, "Minimum weighted minor-allele fraction")
	maxMiscallFrac                    = flag.Float64("maxMiscallFrac", classify.DefaultConfig().MaxMiscallFrac, "Parental allelic fraction ceiling for \"miscall\"")
	maxMiscallWeight                  = flag.Float64("maxMiscallWeight", classify.DefaultConfig().MaxMiscallWeight, "Parental weighted depth ceiling for \"miscall\"")
	vcfMaxParentAD                    = flag.Int("vcfMaxParentAD", classify.DefaultConfig().VCFMaxParentAD, "Parental AD ceiling (from VCF) for a candidate to survive")
	minParentalDepth                  = flag.Float64("minParentalDepth", classify.DefaultConfig().MinParentalDepth, "Minimum parental weighted depth for a supernovo call")
	minOtherDNAllelicDepth            = flag.Float64("minOtherDNAllelicDepth", classify.DefaultConfig().MinOtherDNAllelicDepth, "Per-allele raw depth floor (paired with frac) for a neighbor de novo")
	minOtherDNAllelicDepthIndependent = flag.Float64("minOtherDNAllelicDepthIndependent", classify.DefaultConfig().MinOtherDNAllelicDepthIndependent, "Per-allele raw depth floor (frac-independent) for a neighbor de novo")
	minHaplotypeConcordance           = flag.Float64("minHaplotypeConcordance", classify.DefaultConfig().MinHaplotypeConcordance, "Minimum concordance to count a neighbor as de novo")
	haplotypeSearchDistance           = flag.Int("haplotypeSearchDistance", classify.DefaultConfig().HaplotypeSearchDistance, "+/- window around a candidate for the neighbor scan")

	checkpointInterval = flag.Duration("checkpointInterval", orchestrator.DefaultCheckpointInterval, "How often the checkpointer rewrites the chunked snapshot")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -vcf=... -childBam=... -childID=... {-parent1Bam=... -parent1ID=... -parent2Bam=... -parent2ID=... | -solo} -output=...\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if err := validateFlags(); err != nil {
		log.Fatalf("%v", err)
	}

	cfg := orchestrator.Config{
		VCFPath: *vcfPath,

		ChildBamPath: *childBam,
		ChildID:      *childID,

		Parent1BamPath: *parent1Bam,
		Parent1ID:      *parent1ID,
		Parent2BamPath: *parent2Bam,
		Parent2ID:      *parent2ID,
		Solo:           *solo,

		OutputStem:  *output,
		GenomeBuild: *genome,

		Classify: classify.Config{
			MinDepth:                          *minDepth,
			MinAllelicDepth:                   *minAllelicDepth,
			MinAllelicFrac:                    *minAllelicFrac,
			MaxMiscallFrac:                    *maxMiscallFrac,
			MaxMiscallWeight:                  *maxMiscallWeight,
			VCFMaxParentAD:                    *vcfMaxParentAD,
			MinParentalDepth:                  *minParentalDepth,
			MinOtherDNAllelicDepth:            *minOtherDNAllelicDepth,
			MinOtherDNAllelicDepthIndependent: *minOtherDNAllelicDepthIndependent,
			MinHaplotypeConcordance:           *minHaplotypeConcordance,
			HaplotypeSearchDistance:           *haplotypeSearchDistance,
		},

		Parallelism:        *parallelism,
		CheckpointInterval: *checkpointInterval,
		Annotator:          annotator(),
	}

	ctx := vcontext.Background()
	if err := orchestrator.Run(ctx, cfg); err != nil {
		log.Fatalf("supernovo: %v", err)
	}
	log.Debug.Printf("exiting")
}

// validateFlags enforces the CLI contract: -vcf/-childBam/-childID/-output
// are always required, and trio flags are XOR with -solo.
func validateFlags() error {
	flag.Parse()
	if *vcfPath == "" || *childBam == "" || *childID == "" || *output == "" {
		return fmt.Errorf("missing one of required flags -vcf, -childBam, -childID, -output")
	}
	trioFlagsSet := *parent1Bam != "" || *parent1ID != "" || *parent2Bam != "" || *parent2ID != ""
	if *solo && trioFlagsSet {
		return fmt.Errorf("-solo is mutually exclusive with -parent1Bam/-parent1ID/-parent2Bam/-parent2ID")
	}
	if !*solo {
		if *parent1Bam == "" || *parent1ID == "" || *parent2Bam == "" || *parent2ID == "" {
			return fmt.Errorf("trio mode requires -parent1Bam, -parent1ID, -parent2Bam, -parent2ID (or pass -solo)")
		}
	}
	return nil
}

// annotator resolves the -snpEff/-annovarDir flags into an Annotator.
// Until a real external-process implementation is wired in, any path given
// here still results in the no-op annotator.
func annotator() annotate.Annotator {
	if *snpEff == "" && *annovarDir == "" {
		return annotate.NoOp{}
	}
	log.Printf("supernovo: -snpEff/-annovarDir given, but invoking an external annotator is out of scope for this module; results will not be gene/impact annotated")
	return annotate.NoOp{}
}
