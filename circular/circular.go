// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package circular provides power-of-two sizing for sliding-window
// structures; the pileup cache uses it to bound its eviction capacity.
package circular

import "math/bits"

// NextExp2 returns the next power of 2 strictly greater than x.
func NextExp2(x int) int {
	log2 := 63 - bits.LeadingZeros64(uint64(x))
	return 2 << uint32(log2)
}
