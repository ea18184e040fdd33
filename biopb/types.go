package biopb

// Coord identifies a position in a reference sequence set: a reference
// (contig) id, a 0-based position within that reference, and a sub-position
// "Seq" used to order multiple coordinates that share (RefId, Pos) -- for
// example, several ranges starting at the same base.
//
// SuperNovo has no need for wire (protobuf) serialization of Coord, so the
// struct is hand-written here; coord.go carries the ordering methods the
// BAM iterators rely on.
type Coord struct {
	RefId int32
	Pos   int32
	Seq   int32
}

// CoordRange is the half-open coordinate range [Start, Limit).
type CoordRange struct {
	Start Coord
	Limit Coord
}
