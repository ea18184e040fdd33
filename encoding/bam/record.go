// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import (
	"unsafe"

	"github.com/biogo/hts/sam"
)

// Record extends sam.Record with a magic tag so the free pool can tell its
// own records apart from plain sam.Records handed in by mistake.
type Record struct {
	sam.Record

	// Magic is fixed to bam.Magic to detect when this object is bam.Record
	// as opposed to sam.Record. This check is fundamentally unsafe and
	// production code shouldn't rely on it.
	Magic uint64
}

// Magic is the value of Record.Magic.
const Magic = uint64(0x93c9838d4d9f4f71)

// CastUp casts bam.Record to biogo sam.Record.
func CastUp(rb *Record) *sam.Record {
	return (*sam.Record)(unsafe.Pointer(rb))
}

// GetFromFreePool and PutInFreePool, and the backing recordPool, are defined
// in pool.go.
