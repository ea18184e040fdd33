package bam

import "github.com/biogo/hts/sam"

// HasNoMappedMate returns true if record is unpaired or has an unmapped mate.
func HasNoMappedMate(record *sam.Record) bool {
	return (record.Flags&sam.Paired) == 0 || (record.Flags&sam.MateUnmapped) != 0
}

// IsPaired returns true if record is paired.
func IsPaired(record *sam.Record) bool { return record.Flags&sam.Paired != 0 }

// IsProperPair returns true if record is mapped in a proper pair.
func IsProperPair(record *sam.Record) bool { return record.Flags&sam.ProperPair != 0 }

// IsUnmapped returns true if record is unmapped.
func IsUnmapped(record *sam.Record) bool { return record.Flags&sam.Unmapped != 0 }

// IsMateUnmapped returns true if record's mate is unmapped.
func IsMateUnmapped(record *sam.Record) bool { return record.Flags&sam.MateUnmapped != 0 }

// IsReverse returns true if record is mapped to the reverse strand.
func IsReverse(record *sam.Record) bool { return record.Flags&sam.Reverse != 0 }

// IsMateReverse returns true if record's mate is mapped to the reverse strand.
func IsMateReverse(record *sam.Record) bool { return record.Flags&sam.MateReverse != 0 }

// IsRead1 returns true if record is the first read of a pair.
func IsRead1(record *sam.Record) bool { return record.Flags&sam.Read1 != 0 }

// IsRead2 returns true if record is the second read of a pair.
func IsRead2(record *sam.Record) bool { return record.Flags&sam.Read2 != 0 }

// IsSecondary returns true if record is a secondary alignment.
func IsSecondary(record *sam.Record) bool { return record.Flags&sam.Secondary != 0 }

// IsQCFail returns true if record fails platform/vendor quality checks.
func IsQCFail(record *sam.Record) bool { return record.Flags&sam.QCFail != 0 }

// IsDuplicate returns true if record is a PCR or optical duplicate.
func IsDuplicate(record *sam.Record) bool { return record.Flags&sam.Duplicate != 0 }

// IsSupplementary returns true if record is a supplementary alignment.
func IsSupplementary(record *sam.Record) bool { return record.Flags&sam.Supplementary != 0 }

// IsPrimary returns true if record is neither secondary nor supplementary.
func IsPrimary(record *sam.Record) bool {
	return record.Flags&(sam.Secondary|sam.Supplementary) == 0
}

// LeftClipDistance returns the total number of soft- and hard-clipped bases
// at the alignment's left (low-coordinate) end.
func LeftClipDistance(record *sam.Record) int {
	n := 0
	for _, co := range record.Cigar {
		t := co.Type()
		if t != sam.CigarSoftClipped && t != sam.CigarHardClipped {
			break
		}
		n += co.Len()
	}
	return n
}

// RightClipDistance returns the total number of soft- and hard-clipped bases
// at the alignment's right (high-coordinate) end.
func RightClipDistance(record *sam.Record) int {
	n := 0
	for i := len(record.Cigar) - 1; i >= 0; i-- {
		t := record.Cigar[i].Type()
		if t != sam.CigarSoftClipped && t != sam.CigarHardClipped {
			break
		}
		n += record.Cigar[i].Len()
	}
	return n
}

// FivePrimeClipDistance returns the clip distance at the read's 5' end: the
// left end for a forward-strand alignment, the right end for a
// reverse-strand one.
func FivePrimeClipDistance(record *sam.Record) int {
	if IsReverse(record) {
		return RightClipDistance(record)
	}
	return LeftClipDistance(record)
}

// refLen returns the number of reference bases record's alignment consumes.
func refLen(record *sam.Record) int {
	n := 0
	for _, co := range record.Cigar {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch, sam.CigarDeletion, sam.CigarSkipped:
			n += co.Len()
		}
	}
	return n
}

// UnclippedStart returns the 0-based reference position the read would start
// at had its leading clip not been trimmed. May be negative.
func UnclippedStart(record *sam.Record) int {
	return record.Pos - LeftClipDistance(record)
}

// UnclippedEnd returns the 0-based reference position of the last base the
// read would cover had its trailing clip not been trimmed.
func UnclippedEnd(record *sam.Record) int {
	return record.Pos + refLen(record) - 1 + RightClipDistance(record)
}

// UnclippedFivePrimePosition returns the unclipped reference position of the
// read's 5' end: UnclippedStart for a forward-strand alignment, UnclippedEnd
// for a reverse-strand one.
func UnclippedFivePrimePosition(record *sam.Record) int {
	if IsReverse(record) {
		return UnclippedEnd(record)
	}
	return UnclippedStart(record)
}

// BaseAtPos returns the base record reports at the 0-based reference
// position refPos. found is true whenever the alignment consumes refPos;
// within a deletion or skip the position is covered but carries no base
// call, so the base returned is 0 with found still true. Positions outside
// the aligned span, or covered only by a clip, return found == false.
func BaseAtPos(record *sam.Record, refPos int) (base byte, found bool) {
	pos := record.Pos
	readPos := 0
	var expanded []byte
	for _, co := range record.Cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			if refPos >= pos && refPos < pos+n {
				if expanded == nil {
					expanded = record.Seq.Expand()
				}
				return expanded[readPos+(refPos-pos)], true
			}
			pos += n
			readPos += n
		case sam.CigarDeletion, sam.CigarSkipped:
			if refPos >= pos && refPos < pos+n {
				return 0, true
			}
			pos += n
		case sam.CigarInsertion, sam.CigarSoftClipped:
			readPos += n
		}
	}
	return 0, false
}
