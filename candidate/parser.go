package candidate

import (
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/supernovo/genome"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/vcf"
)

// Config names the samples the parser must find in the VCF and the
// parental-AD ceiling used to reject candidates already supported in a
// parent.
type Config struct {
	ChildID   string
	Parent1ID string // empty in solo mode
	Parent2ID string // empty in solo mode

	VCFMaxParentAD int
}

// Solo reports whether this is a parent-less run.
func (c Config) Solo() bool { return c.Parent1ID == "" && c.Parent2ID == "" }

// Parser streams CandidateContext values out of a candidate VCF/gVCF.
type Parser struct {
	cfg Config

	childCol, parent1Col, parent2Col int // sample-column indices, -1 if absent
}

// sampleColumns parses the VCF header's "#CHROM" line to map sample IDs to
// their column index into each record's Samples slice (column 0 is the first
// sample column, i.e. index 9 of the raw tab-delimited line).
func sampleColumns(header vcf.Header) (map[string]int, error) {
	for _, line := range header.Text {
		if !strings.HasPrefix(line, "#CHROM") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= 9 {
			return nil, errors.Errorf("candidate: #CHROM header line has no sample columns: %q", line)
		}
		cols := make(map[string]int, len(fields)-9)
		for i, name := range fields[9:] {
			cols[name] = i
		}
		return cols, nil
	}
	return nil, errors.New("candidate: VCF header has no #CHROM line")
}

// NewParser builds a Parser against the VCF header, resolving cfg's sample
// IDs to column indices. Fails if the child (or, in trio mode, either
// parent) ID is not a sample column of the VCF.
func NewParser(header vcf.Header, cfg Config) (*Parser, error) {
	cols, err := sampleColumns(header)
	if err != nil {
		return nil, err
	}
	p := &Parser{cfg: cfg, parent1Col: -1, parent2Col: -1}
	var ok bool
	if p.childCol, ok = cols[cfg.ChildID]; !ok {
		return nil, errors.Errorf("candidate: child sample %q not found in VCF", cfg.ChildID)
	}
	if !cfg.Solo() {
		if p.parent1Col, ok = cols[cfg.Parent1ID]; !ok {
			return nil, errors.Errorf("candidate: parent1 sample %q not found in VCF", cfg.Parent1ID)
		}
		if p.parent2Col, ok = cols[cfg.Parent2ID]; !ok {
			return nil, errors.Errorf("candidate: parent2 sample %q not found in VCF", cfg.Parent2ID)
		}
	}
	return p, nil
}

// ParseAll streams every record in records (as yielded by
// gonomics/vcf.GoReadToChan), filters them, and returns the deduplicated
// set of surviving candidates. ParseAll is a single full pass; when more
// than one surviving record falls on the same position, only the first is
// kept.
func (p *Parser) ParseAll(records <-chan vcf.Vcf) []CandidateContext {
	seen := make(map[genome.Position]bool)
	var out []CandidateContext
	for rec := range records {
		ctx, ok := p.parseOne(rec)
		if !ok {
			continue
		}
		if seen[ctx.Position] {
			continue
		}
		seen[ctx.Position] = true
		out = append(out, ctx)
	}
	return out
}

func genotypeAt(rec vcf.Vcf, col int) (Genotype, bool) {
	if col < 0 || col >= len(rec.Samples) {
		return Genotype{}, false
	}
	alleles := rec.Samples[col].Alleles
	if len(alleles) == 0 {
		return Genotype{}, false
	}
	return Genotype{Alleles: alleles}, true
}

// adAt parses the AD (allelic depth) FORMAT field for the sample at col,
// returning the per-allele raw counts (ref first), or nil if AD isn't
// present in this record's FORMAT.
func adAt(rec vcf.Vcf, col int) []int {
	adIdx := -1
	for i, f := range rec.Format {
		if f == "AD" {
			adIdx = i
			break
		}
	}
	if adIdx < 0 || col < 0 || col >= len(rec.Samples) {
		return nil
	}
	fd := rec.Samples[col].FormatData
	if adIdx >= len(fd) || fd[adIdx] == "" || fd[adIdx] == "." {
		return nil
	}
	parts := strings.Split(fd[adIdx], ",")
	ad := make([]int, 0, len(parts))
	for _, s := range parts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		ad = append(ad, n)
	}
	return ad
}

// parseOne filters and converts a single VCF record: SNV-shaped alleles
// only, a single-non-ref child genotype, and (in trio mode) no parental
// support above the AD ceiling.
func (p *Parser) parseOne(rec vcf.Vcf) (CandidateContext, bool) {
	for _, alt := range rec.Alt {
		if len(alt) != 1 {
			log.Debug.Printf("%s:%d: non-SNV alt allele %q, skipping", rec.Chr, rec.Pos, alt)
			return CandidateContext{}, false
		}
	}
	if len(rec.Ref) != 1 {
		log.Debug.Printf("%s:%d: non-SNV ref allele %q, skipping", rec.Chr, rec.Pos, rec.Ref)
		return CandidateContext{}, false
	}

	childGT, ok := genotypeAt(rec, p.childCol)
	if !ok || !childGT.IsSingleNonRef() {
		log.Debug.Printf("%s:%d: child genotype is not a simple single-non-ref call, skipping", rec.Chr, rec.Pos)
		return CandidateContext{}, false
	}
	altIdx := childGT.AltIndex()
	if altIdx < 0 || altIdx >= len(rec.Alt) {
		log.Error.Printf("%s:%d: child GT alt index %d out of range of %d ALT alleles, skipping", rec.Chr, rec.Pos, altIdx, len(rec.Alt))
		return CandidateContext{}, false
	}
	alt := rec.Alt[altIdx]

	pos, err := genome.NewReferencePosition(rec.Chr, rec.Pos, rec.Ref, alt)
	if err != nil {
		log.Error.Printf("%s:%d: %v, skipping", rec.Chr, rec.Pos, err)
		return CandidateContext{}, false
	}

	ctx := CandidateContext{ReferencePosition: pos, ChildGenotype: childGT}
	if p.cfg.Solo() {
		return ctx, true
	}

	ctx.HasParents = true
	ctx.Parent1Genotype, _ = genotypeAt(rec, p.parent1Col)
	ctx.Parent2Genotype, _ = genotypeAt(rec, p.parent2Col)
	ctx.Parent1AD = adAt(rec, p.parent1Col)
	ctx.Parent2AD = adAt(rec, p.parent2Col)

	if p.seenInParentVCF(ctx.Parent1AD, altIdx+1) || p.seenInParentVCF(ctx.Parent2AD, altIdx+1) {
		log.Debug.Printf("%s:%d: alt allele seen in parent VCF AD above ceiling %d, skipping", rec.Chr, rec.Pos, p.cfg.VCFMaxParentAD)
		return CandidateContext{}, false
	}
	return ctx, true
}

// seenInParentVCF reports whether the putative alt allele's AD entry
// (1-based allele index, since index 0 is REF) exceeds VCFMaxParentAD.
func (p *Parser) seenInParentVCF(ad []int, altAlleleIdx int) bool {
	if altAlleleIdx < 0 || altAlleleIdx >= len(ad) {
		return false
	}
	return ad[altAlleleIdx] > p.cfg.VCFMaxParentAD
}
