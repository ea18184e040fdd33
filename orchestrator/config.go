// Package orchestrator runs the resumable staged pipeline: load a prior
// snapshot, parse candidates, evaluate the ones that are new, checkpoint
// periodically, and emit the final outputs. It is the one package that
// wires every other SuperNovo package together; cmd/supernovo only builds
// a Config and calls Run.
package orchestrator

import (
	"time"

	"github.com/grailbio/supernovo/annotate"
	"github.com/grailbio/supernovo/candidate"
	"github.com/grailbio/supernovo/classify"
)

// DefaultCheckpointInterval is how often the background checkpointer
// rewrites the chunked snapshot.
const DefaultCheckpointInterval = 10 * time.Minute

// Config is every input cmd/supernovo's flag surface collects, passed
// through unchanged.
type Config struct {
	VCFPath string

	ChildBamPath string
	ChildID      string

	// Parent1BamPath/Parent1ID/Parent2BamPath/Parent2ID are empty in solo
	// mode; Solo must be set instead.
	Parent1BamPath, Parent1ID string
	Parent2BamPath, Parent2ID string
	Solo                      bool

	OutputStem  string
	GenomeBuild string

	Classify classify.Config

	// Parallelism bounds the candidate-evaluation worker pool; 0 means
	// runtime.NumCPU().
	Parallelism int

	CheckpointInterval time.Duration

	// Annotator decorates results with gene/impact annotation. Defaults to
	// annotate.NoOp when nil.
	Annotator annotate.Annotator
}

// candidateConfig projects Config down to what candidate.Parser needs.
func (c Config) candidateConfig() candidate.Config {
	return candidate.Config{
		ChildID:        c.ChildID,
		Parent1ID:      c.Parent1ID,
		Parent2ID:      c.Parent2ID,
		VCFMaxParentAD: c.Classify.VCFMaxParentAD,
	}
}

func (c Config) checkpointInterval() time.Duration {
	if c.CheckpointInterval > 0 {
		return c.CheckpointInterval
	}
	return DefaultCheckpointInterval
}

func (c Config) annotator() annotate.Annotator {
	if c.Annotator != nil {
		return c.Annotator
	}
	return annotate.NoOp{}
}
