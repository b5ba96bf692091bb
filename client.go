// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

// Client is the receiving side: a belief-propagation (peeling)
// decoder over the packet stream. It holds the blocks decoded so far
// and a pool of stale packets, each known to combine at least two
// still-undecoded blocks. Once it holds any decoded blocks it can
// also act as a partial encoder, relaying packets in multi-receiver
// topologies without ever materializing the full blob.
//
// A Client is mutated only by ReceivePacket and is not safe for
// concurrent use.
type Client struct {
	metadata     Metadata
	blockCount   uint32
	distribution *Distribution
	config       *runtimeConfig

	decoded map[uint32]Block

	// stale is a set of packets keyed by their wire form, so duplicate
	// deliveries collapse to one entry.
	stale map[string]*Packet
}

// NewClient constructs a Client for the stream described by metadata.
// The Client's sampler is independent of the Source's; no PRNG state
// is shared across the channel.
func NewClient(metadata Metadata, options ...Option) (*Client, error) {
	if metadata.DataBytes() == 0 {
		return nil, ErrDataZeroBytes
	}

	config, err := newRuntimeConfig(options)
	if err != nil {
		return nil, err
	}

	distribution, err := NewDistribution(config.density(), metadata.DataBlocks(), config.randReader)
	if err != nil {
		return nil, err
	}

	return &Client{
		metadata:     metadata,
		blockCount:   metadata.DataBlocks(),
		distribution: distribution,
		config:       config,
		decoded:      make(map[uint32]Block),
		stale:        make(map[string]*Packet),
	}, nil
}

// ReceivePacket ingests one packet and peels as far as it can.
//
// The worklist starts with the incoming packet. Each packet popped is
// scanned once: with two or more undecoded ids it goes to the stale
// pool, with none it is redundant and dropped, and with exactly one
// the missing block is reconstructed by XORing out the known ones.
// Every reconstruction pulls the stale packets mentioning that block
// back onto the worklist, so one degree-one packet can cascade
// through the whole pool. Duplicate packets are absorbed silently.
func (c *Client) ReceivePacket(p *Packet) {
	fresh := []*Packet{p}

	for len(fresh) > 0 {
		packet := fresh[len(fresh)-1]
		fresh = fresh[:len(fresh)-1]

		known := make([]uint32, 0, packet.Degree())
		var remainder uint32
		haveRemainder := false
		multipleRemaining := false

		for _, id := range packet.blockIDs {
			if _, ok := c.decoded[id]; ok {
				known = append(known, id)
				continue
			}
			if !haveRemainder {
				remainder = id
				haveRemainder = true
				continue
			}
			multipleRemaining = true
			break
		}

		switch {
		case multipleRemaining:
			c.stale[packet.key()] = packet

		case !haveRemainder:
			// Every id already decoded; the packet is redundant.

		default:
			// A cascade triggered earlier in this call may have
			// resolved the remainder while the packet sat on the
			// worklist.
			if _, ok := c.decoded[remainder]; ok {
				continue
			}

			data := packet.combined.Clone()
			for _, id := range known {
				data.xorAssign(c.decoded[id])
			}
			c.decoded[remainder] = data

			for key, stale := range c.stale {
				if stale.contains(remainder) {
					delete(c.stale, key)
					fresh = append(fresh, stale)
				}
			}
		}
	}
}

// GetResult returns the reconstructed blob once every block has been
// decoded, truncated to the original byte length to strip the zero
// padding added during encoding. While decoding is incomplete it
// returns (nil, false).
func (c *Client) GetResult() ([]byte, bool) {
	if uint32(len(c.decoded)) < c.blockCount {
		return nil, false
	}

	result := make([]byte, 0, uint64(c.blockCount)*uint64(c.metadata.BlockBytes()))
	for i := uint32(0); i < c.blockCount; i++ {
		block, ok := c.decoded[i]
		if !ok {
			return nil, false
		}
		result = append(result, block...)
	}

	return result[:c.metadata.DataBytes()], true
}

// DecodingProgress returns the fraction of source blocks decoded so
// far. It never decreases across calls to ReceivePacket.
func (c *Client) DecodingProgress() float64 {
	return float64(len(c.decoded)) / float64(c.blockCount)
}

// TryCreatePacket encodes a packet from the blocks decoded so far,
// using the same degree draw and partial Fisher-Yates selection as
// the Source but over the decoded set only. It returns (nil, false)
// while no blocks have been decoded.
func (c *Client) TryCreatePacket() (*Packet, bool) {
	if len(c.decoded) == 0 {
		return nil, false
	}

	ids := make([]uint32, 0, len(c.decoded))
	for id := range c.decoded {
		ids = append(ids, id)
	}

	ids = chooseBlocksToCombine(c.distribution, ids)

	combined := NewBlock(c.metadata.BlockBytes())
	for _, id := range ids {
		combined.xorAssign(c.decoded[id])
	}

	return NewPacket(ids, combined), true
}

// Metadata returns the metadata the Client was constructed with.
func (c *Client) Metadata() Metadata {
	return c.metadata
}

// Config returns the runtime configuration for the Client. It
// implements the Configuration interface.
func (c *Client) Config() Config {
	return c.config
}
