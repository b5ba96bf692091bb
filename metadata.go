// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import "math"

// Metadata describes the blob being transferred: its exact byte length
// and the block geometry derived from it. A Source and every Client
// decoding its stream must be constructed from equal Metadata values.
// It is immutable after construction.
type Metadata struct {
	dataBytes  uint64
	dataBlocks uint32
	blockBytes uint32
}

// NewMetadata returns Metadata for a blob of dataBytes bytes using
// the default block width.
func NewMetadata(dataBytes uint64) (Metadata, error) {
	return NewMetadataWithBlockBytes(dataBytes, DefaultBlockBytes)
}

// NewMetadataWithBlockBytes returns Metadata for a blob of dataBytes
// bytes split into blocks of blockBytes bytes each. The derived block
// count is ceil(dataBytes / blockBytes) and must fit in a uint32.
func NewMetadataWithBlockBytes(dataBytes uint64, blockBytes uint32) (Metadata, error) {
	if dataBytes == 0 {
		return Metadata{}, ErrDataZeroBytes
	}
	if blockBytes == 0 {
		return Metadata{}, ErrInvalidBlockBytes
	}

	dataBlocks := dataBytes / uint64(blockBytes)
	if dataBytes%uint64(blockBytes) != 0 {
		dataBlocks++
	}
	if dataBlocks > math.MaxUint32 {
		return Metadata{}, ErrDataTooBig
	}

	return Metadata{
		dataBytes:  dataBytes,
		dataBlocks: uint32(dataBlocks),
		blockBytes: blockBytes,
	}, nil
}

// DataBytes returns the blob size in bytes.
func (m Metadata) DataBytes() uint64 {
	return m.dataBytes
}

// DataBlocks returns the number of blocks the blob is split into.
func (m Metadata) DataBlocks() uint32 {
	return m.dataBlocks
}

// BlockBytes returns the block width in bytes.
func (m Metadata) BlockBytes() uint32 {
	return m.blockBytes
}
