// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import (
	"encoding/binary"
)

// Packet is one encoded symbol: the set of source block ids it was
// built from and the XOR of those blocks. The degree of a packet is
// the number of ids it carries; a packet never has degree zero and
// never repeats an id. Equality is structural over (ids, combined),
// so a Packet is usable as a set member.
//
// Wire format, big-endian throughout:
//
//	offset 0      4 bytes   n, the number of ids (uint32)
//	offset 4      4n bytes  the ids, each a uint32
//	offset 4+4n   rest      the combined block payload
//
// There is no framing length, magic number, or checksum; the codec
// consumes exactly 4+4n+B bytes and integrity is an external concern.
type Packet struct {
	blockIDs []uint32
	combined Block
}

// NewPacket returns a packet combining the given block ids. The ids
// must be distinct and non-empty; the combined block must equal the
// XOR of the source blocks they identify.
func NewPacket(blockIDs []uint32, combined Block) *Packet {
	return &Packet{
		blockIDs: blockIDs,
		combined: combined,
	}
}

// BlockIDs returns the ids of the source blocks combined into the
// packet. The slice is owned by the packet and must not be mutated.
func (p *Packet) BlockIDs() []uint32 {
	return p.blockIDs
}

// Combined returns the XOR of the source blocks the packet combines.
func (p *Packet) Combined() Block {
	return p.combined
}

// Degree returns the number of source blocks combined into the packet.
func (p *Packet) Degree() int {
	return len(p.blockIDs)
}

// Equal reports whether two packets are structurally equal: same ids
// in the same order and the same combined block.
func (p *Packet) Equal(other *Packet) bool {
	if p.Degree() != other.Degree() {
		return false
	}
	for i, id := range p.blockIDs {
		if other.blockIDs[i] != id {
			return false
		}
	}
	return p.combined.Equal(other.combined)
}

// contains reports whether the packet combines the given block id.
func (p *Packet) contains(id uint32) bool {
	for _, blockID := range p.blockIDs {
		if blockID == id {
			return true
		}
	}
	return false
}

// key returns the packet's wire form as a string, for use as a set
// key with structural-equality semantics.
func (p *Packet) key() string {
	b, _ := p.MarshalBinary()
	return string(b)
}

// MarshalBinary serializes the packet to its wire format. It
// implements the encoding.BinaryMarshaler interface.
func (p *Packet) MarshalBinary() ([]byte, error) {
	out := make([]byte, 4+4*len(p.blockIDs)+len(p.combined))
	binary.BigEndian.PutUint32(out, uint32(len(p.blockIDs)))
	for i, id := range p.blockIDs {
		binary.BigEndian.PutUint32(out[4+4*i:], id)
	}
	copy(out[4+4*len(p.blockIDs):], p.combined)
	return out, nil
}

// UnmarshalBinary deserializes a packet from its wire format. The
// payload width is whatever remains after the ids, so the caller must
// provide a correctly sized slice. It implements the
// encoding.BinaryUnmarshaler interface.
func (p *Packet) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return ErrPacketTruncated
	}

	n := binary.BigEndian.Uint32(data)
	if n == 0 {
		return ErrPacketEmpty
	}

	idsEnd := 4 + 4*int(n)
	if len(data) < idsEnd {
		return ErrPacketTruncated
	}

	payload := data[idsEnd:]
	if len(payload) == 0 {
		return ErrPacketTruncated
	}

	blockIDs := make([]uint32, n)
	for i := range blockIDs {
		blockIDs[i] = binary.BigEndian.Uint32(data[4+4*i:])
	}

	p.blockIDs = blockIDs
	p.combined = Block(payload).Clone()
	return nil
}
