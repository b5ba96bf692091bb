// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

// Source owns the partitioned source blocks and produces an unbounded
// stream of encoded packets. It is immutable after construction and
// not safe for concurrent use; callers serialize packet creation.
type Source struct {
	metadata     Metadata
	blocks       []Block
	distribution *Distribution
	config       *runtimeConfig
}

// NewSource constructs a Source for data, whose length must agree
// with the metadata. The data is split into metadata.DataBlocks()
// blocks of metadata.BlockBytes() bytes each, the last zero-padded.
func NewSource(metadata Metadata, data []byte, options ...Option) (*Source, error) {
	if metadata.DataBytes() == 0 {
		return nil, ErrDataZeroBytes
	}
	if metadata.DataBytes() != uint64(len(data)) {
		return nil, ErrInvalidMetadata
	}

	config, err := newRuntimeConfig(options)
	if err != nil {
		return nil, err
	}

	distribution, err := NewDistribution(config.density(), metadata.DataBlocks(), config.randReader)
	if err != nil {
		return nil, err
	}

	return &Source{
		metadata:     metadata,
		blocks:       partitionBlocks(data, metadata),
		distribution: distribution,
		config:       config,
	}, nil
}

// partitionBlocks splits data into fixed-width blocks, zero-padding
// the last one.
func partitionBlocks(data []byte, metadata Metadata) []Block {
	blockBytes := int(metadata.BlockBytes())
	blocks := make([]Block, 0, metadata.DataBlocks())
	for start := 0; start < len(data); start += blockBytes {
		end := min(start+blockBytes, len(data))
		blocks = append(blocks, blockFromChunk(data[start:end], metadata.BlockBytes()))
	}
	return blocks
}

// chooseBlocksToCombine draws a degree from the distribution, clamps
// it to the number of candidates, and selects that many distinct ids
// uniformly via a partial Fisher-Yates shuffle. It mutates ids and
// returns the selected prefix.
func chooseBlocksToCombine(distribution *Distribution, ids []uint32) []uint32 {
	degree := min(len(ids), int(distribution.SampleDegree()))

	for i := 0; i < degree; i++ {
		j := distribution.SampleUniform(i, len(ids))
		ids[i], ids[j] = ids[j], ids[i]
	}

	return ids[:degree]
}

// CreatePacket encodes one packet: a degree drawn from the Robust
// Soliton distribution, that many distinct source blocks chosen
// uniformly, and their XOR.
func (s *Source) CreatePacket() *Packet {
	ids := make([]uint32, s.metadata.DataBlocks())
	for i := range ids {
		ids[i] = uint32(i)
	}

	ids = chooseBlocksToCombine(s.distribution, ids)

	combined := NewBlock(s.metadata.BlockBytes())
	for _, id := range ids {
		combined.xorAssign(s.blocks[id])
	}

	return NewPacket(ids, combined)
}

// Metadata returns the metadata the Source was constructed with.
func (s *Source) Metadata() Metadata {
	return s.metadata
}

// Config returns the runtime configuration for the Source. It
// implements the Configuration interface.
func (s *Source) Config() Config {
	return s.config
}
