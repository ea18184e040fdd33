package bam

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/supernovo/biopb"
	"github.com/grailbio/testutil/expect"
)

func shardTestRef(t *testing.T, name string, length int) *sam.Reference {
	t.Helper()
	ref, err := sam.NewReference(name, "", "", length, nil, nil)
	expect.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{})
	expect.NoError(t, err)
	expect.NoError(t, header.AddReference(ref))
	return ref
}

func TestShardPadding(t *testing.T) {
	ref := shardTestRef(t, "chr1", 1000)
	s := Shard{StartRef: ref, EndRef: ref, Start: 100, End: 200, Padding: 50}
	expect.EQ(t, s.PaddedStart(), 50)
	expect.EQ(t, s.PaddedEnd(), 250)

	// Padding clamps at the reference boundaries.
	s = Shard{StartRef: ref, EndRef: ref, Start: 10, End: 990, Padding: 50}
	expect.EQ(t, s.PaddedStart(), 0)
	expect.EQ(t, s.PaddedEnd(), 1000)

	// PadStart/PadEnd take an explicit padding in place of s.Padding.
	s = Shard{StartRef: ref, EndRef: ref, Start: 100, End: 200}
	expect.EQ(t, s.PadStart(10), 90)
	expect.EQ(t, s.PadEnd(10), 210)
}

func TestCoordGeneratorSeq(t *testing.T) {
	g := NewCoordGenerator()
	// Reads at the same position get consecutive Seq values; a later
	// position resets Seq to zero.
	expect.EQ(t, g.Generate(0, 100), biopb.Coord{RefId: 0, Pos: 100, Seq: 0})
	expect.EQ(t, g.Generate(0, 100), biopb.Coord{RefId: 0, Pos: 100, Seq: 1})
	expect.EQ(t, g.Generate(0, 100), biopb.Coord{RefId: 0, Pos: 100, Seq: 2})
	expect.EQ(t, g.Generate(0, 101), biopb.Coord{RefId: 0, Pos: 101, Seq: 0})
	expect.EQ(t, g.Generate(1, 0), biopb.Coord{RefId: 1, Pos: 0, Seq: 0})
}

func TestCoordGeneratorUnmapped(t *testing.T) {
	g := NewCoordGenerator()
	// Unmapped reads carry a meaningless position; the generator maps it to
	// zero rather than propagating -1.
	got := g.Generate(biopb.InfinityRefID, -1)
	expect.EQ(t, got.Pos, int32(0))
	expect.EQ(t, got.RefId, biopb.InfinityRefID)
}

func TestCoordFromSAMRecord(t *testing.T) {
	ref := shardTestRef(t, "chr1", 1000)
	rec, err := sam.NewRecord("r", ref, nil, 123, -1, 1, 60,
		sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 1)}, []byte{'A'}, []byte{30}, nil)
	expect.NoError(t, err)
	coord := CoordFromSAMRecord(rec, 0)
	expect.EQ(t, coord.RefId, int32(ref.ID()))
	expect.EQ(t, coord.Pos, int32(123))
}
