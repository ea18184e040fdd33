package bam

// Unsafe casting between sam.Record seq fields and []byte.

import (
	"reflect"
	"unsafe"

	"github.com/biogo/hts/sam"
)

// UnsafeDoubletsToBytes casts []sam.Doublet (the packed two-bases-per-byte
// BAM seq encoding) to []byte without copying. The caller must not let the
// result outlive the record backing src.
func UnsafeDoubletsToBytes(src []sam.Doublet) (d []byte) {
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&src))
	dh := (*reflect.SliceHeader)(unsafe.Pointer(&d))
	*dh = *sh
	return d
}

// UnsafeBytesToDoublets is the inverse of UnsafeDoubletsToBytes.
func UnsafeBytesToDoublets(src []byte) (d []sam.Doublet) {
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&src))
	dh := (*reflect.SliceHeader)(unsafe.Pointer(&d))
	*dh = *sh
	return d
}
