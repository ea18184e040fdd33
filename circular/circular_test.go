// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package circular_test

import (
	"testing"

	"github.com/grailbio/supernovo/circular"
	"github.com/stretchr/testify/assert"
)

func TestNextExp2(t *testing.T) {
	assert.Equal(t, 2, circular.NextExp2(1))
	assert.Equal(t, 4, circular.NextExp2(2))
	assert.Equal(t, 4, circular.NextExp2(3))
	assert.Equal(t, 8, circular.NextExp2(4))
	assert.Equal(t, 512, circular.NextExp2(300))
	assert.Equal(t, 1024, circular.NextExp2(512))
}
