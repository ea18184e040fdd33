// Package annotate defines the external annotation contract: given a
// result list and a genome build, produce snpEff-populated results
// (snpeffGene, snpeffImpact, dnIsRef). This package stubs the interface
// with a no-op default so the orchestrator has a real Annotator to call
// without depending on which external tool is wired up.
package annotate

import (
	"context"

	"github.com/grailbio/supernovo/result"
)

// Annotator is the orchestrator's external collaborator: it decorates a
// result list with gene/impact annotation and returns the (possibly
// reordered, never resized) annotated list.
type Annotator interface {
	Annotate(ctx context.Context, results []result.DeNovoResult, genomeBuild string) ([]result.DeNovoResult, error)
}

// NoOp is the default Annotator: it returns results unchanged. A real
// implementation invokes SnpEff/Annovar as an external process and fills
// in SnpeffGene/SnpeffImpact/DnIsRef per result.
type NoOp struct{}

// Annotate implements Annotator by returning results unmodified.
func (NoOp) Annotate(_ context.Context, results []result.DeNovoResult, _ string) ([]result.DeNovoResult, error) {
	return results, nil
}
