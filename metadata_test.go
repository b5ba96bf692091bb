// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMetadataBlockCounts verifies the ceiling division deriving the
// block count from the blob size.
func TestMetadataBlockCounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		dataBytes  uint64
		dataBlocks uint32
	}{
		{1, 1},
		{100, 1},
		{1023, 1},
		{1024, 1},
		{1025, 2},
		{2048, 2},
		{15 * 1024 * 1024, 15360},
	}

	for _, c := range cases {
		c := c
		t.Run("DataBytes_"+strconv.FormatUint(c.dataBytes, 10), func(t *testing.T) {
			t.Parallel()
			is := assert.New(t)

			metadata, err := NewMetadata(c.dataBytes)
			is.NoError(err, "NewMetadata(%d) should not return an error", c.dataBytes)
			is.Equal(c.dataBytes, metadata.DataBytes(), "DataBytes should round-trip")
			is.Equal(c.dataBlocks, metadata.DataBlocks(), "DataBlocks should be ceil(dataBytes/blockBytes)")
			is.Equal(uint32(DefaultBlockBytes), metadata.BlockBytes(), "BlockBytes should default")
		})
	}
}

// TestMetadataZeroBytes verifies that a zero-sized blob is rejected.
func TestMetadataZeroBytes(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := NewMetadata(0)
	is.Equal(ErrDataZeroBytes, err)
}

// TestMetadataTooBig verifies that a blob whose block count overflows
// a uint32 is rejected.
func TestMetadataTooBig(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := NewMetadata(math.MaxUint64)
	is.Equal(ErrDataTooBig, err)
}

// TestMetadataBlockCountBoundary verifies acceptance at the largest
// representable block count and rejection just past it.
func TestMetadataBlockCountBoundary(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	metadata, err := NewMetadataWithBlockBytes(math.MaxUint32, 1)
	is.NoError(err, "exactly MaxUint32 blocks should be accepted")
	is.Equal(uint32(math.MaxUint32), metadata.DataBlocks())

	_, err = NewMetadataWithBlockBytes(uint64(math.MaxUint32)+1, 1)
	is.Equal(ErrDataTooBig, err, "MaxUint32+1 blocks should be rejected")
}

// TestMetadataCustomBlockBytes verifies the explicit block width
// constructor.
func TestMetadataCustomBlockBytes(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	metadata, err := NewMetadataWithBlockBytes(10, 4)
	is.NoError(err)
	is.Equal(uint32(3), metadata.DataBlocks(), "10 bytes in 4-byte blocks should need 3 blocks")
	is.Equal(uint32(4), metadata.BlockBytes())
}

// TestMetadataZeroBlockBytes verifies that a zero block width is
// rejected.
func TestMetadataZeroBlockBytes(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := NewMetadataWithBlockBytes(10, 0)
	is.Equal(ErrInvalidBlockBytes, err)
}
