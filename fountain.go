// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package fountain implements a rateless erasure code in the
// Luby-Transform (LT) family.
//
// A Source turns a fixed blob of bytes into an unbounded stream of
// small, self-describing packets. A Client collects packets — in any
// order, over any lossy channel — and reconstructs the original blob
// once slightly more than the minimum number have arrived. The packet
// degree is drawn from the Robust Soliton distribution, which is what
// makes the Client's peeling decoder terminate quickly with high
// probability.
//
// The package speaks only in in-memory blobs and packets serializable
// to and from byte strings. Transport, persistence, and integrity
// checking are the caller's concern.
package fountain

import (
	"errors"
	"io"

	prng "github.com/sixafter/prng-chacha"
)

var (
	ErrDataZeroBytes             = errors.New("data size is zero bytes")
	ErrDataTooBig                = errors.New("derived block count exceeds the uint32 range")
	ErrInvalidMetadata           = errors.New("data length disagrees with metadata")
	ErrRandomInitialization      = errors.New("failed to initialize random source")
	ErrPacketTruncated           = errors.New("packet bytes truncated")
	ErrPacketEmpty               = errors.New("packet carries no block ids")
	ErrInvalidBlockBytes         = errors.New("block size must be positive")
	ErrInvalidFailureProbability = errors.New("failure probability must be in (0, 1)")
	ErrInvalidHintConstant       = errors.New("hint constant must be positive")
	ErrInvalidRippleSize         = errors.New("expected ripple size must not be negative")
	ErrNilRandReader             = errors.New("nil random reader")
)

const (
	// DefaultBlockBytes is the fixed block width used when none is
	// specified. Sender and receiver must agree on it.
	DefaultBlockBytes = 1024

	// DefaultFailureProbability is the Robust Soliton failure tolerance
	// delta: the upper bound on the probability that the decoder fails
	// to converge after the expected number of packets.
	DefaultFailureProbability = 0.1

	// DefaultHintConstant scales the heuristic expected ripple size
	// R = c * ln(K/delta) * sqrt(K).
	DefaultHintConstant = 0.3
)

// Encoder produces encoded packets on demand.
type Encoder interface {
	// CreatePacket returns a freshly encoded packet. The stream is
	// unbounded; every call yields a new, independently drawn packet.
	CreatePacket() *Packet
}

// PartialEncoder produces packets when it can, which may not be always.
type PartialEncoder interface {
	// TryCreatePacket returns a packet combined from whatever source
	// blocks the encoder currently holds, or (nil, false) if it holds
	// none yet.
	TryCreatePacket() (*Packet, bool)
}

// Decoder consumes packets and reconstructs the original data.
type Decoder interface {
	// ReceivePacket ingests one packet. Duplicate and redundant
	// packets are absorbed silently.
	ReceivePacket(p *Packet)

	// DecodingProgress reports the fraction of source blocks decoded
	// so far, in [0, 1]. It never decreases.
	DecodingProgress() float64

	// GetResult returns the reconstructed blob once every source block
	// has been decoded, or (nil, false) while decoding is incomplete.
	GetResult() ([]byte, bool)
}

// Option defines a function type for configuring a Source or Client.
type Option func(*ConfigOptions)

// WithFailureProbability sets the Robust Soliton failure tolerance
// delta. It must be in (0, 1).
func WithFailureProbability(delta float64) Option {
	return func(c *ConfigOptions) {
		c.FailureProbability = delta
	}
}

// WithHintConstant sets the scaling constant for the heuristic
// expected ripple size.
func WithHintConstant(hint float64) Option {
	return func(c *ConfigOptions) {
		c.HintConstant = hint
	}
}

// WithExpectedRippleSize sets an explicit expected ripple size R,
// bypassing the heuristic. Zero selects the heuristic.
func WithExpectedRippleSize(size float64) Option {
	return func(c *ConfigOptions) {
		c.ExpectedRippleSize = size
	}
}

// WithRandReader sets a custom entropy source used to seed the degree
// sampler.
func WithRandReader(reader io.Reader) Option {
	return func(c *ConfigOptions) {
		c.RandReader = reader
	}
}

// ConfigOptions holds the configurable options for a Source or Client.
// It is used with the Function Options pattern.
type ConfigOptions struct {
	// RandReader is the entropy source used to seed the sampler's
	// PRNG. By default it uses prng.Reader, a ChaCha20-based
	// cryptographically secure source.
	RandReader io.Reader

	// FailureProbability is the Robust Soliton delta parameter.
	FailureProbability float64

	// HintConstant scales the heuristic expected ripple size.
	HintConstant float64

	// ExpectedRippleSize, when positive, is used as the expected
	// ripple size R directly instead of the heuristic.
	ExpectedRippleSize float64
}

// Config holds the runtime configuration shared by a Source and the
// Clients decoding its stream. It is immutable after initialization.
type Config interface {
	// RandReader returns the entropy source used to seed the sampler.
	RandReader() io.Reader

	// FailureProbability returns the Robust Soliton delta parameter.
	FailureProbability() float64

	// HintConstant returns the heuristic ripple scaling constant.
	HintConstant() float64

	// ExpectedRippleSize returns the explicit expected ripple size, or
	// zero when the heuristic is in effect.
	ExpectedRippleSize() float64
}

// Configuration defines the interface for retrieving a component's
// configuration.
type Configuration interface {
	// Config returns the runtime configuration of the component.
	Config() Config
}

// runtimeConfig holds the runtime configuration for a Source or
// Client. It is immutable after initialization.
type runtimeConfig struct {
	randReader         io.Reader
	failureProbability float64
	hintConstant       float64
	expectedRippleSize float64
}

// newRuntimeConfig applies the provided options over the defaults and
// validates the result.
func newRuntimeConfig(options []Option) (*runtimeConfig, error) {
	configOpts := &ConfigOptions{
		RandReader:         prng.Reader,
		FailureProbability: DefaultFailureProbability,
		HintConstant:       DefaultHintConstant,
	}

	for _, opt := range options {
		opt(configOpts)
	}

	if configOpts.RandReader == nil {
		return nil, ErrNilRandReader
	}
	if configOpts.FailureProbability <= 0 || configOpts.FailureProbability >= 1 {
		return nil, ErrInvalidFailureProbability
	}
	if configOpts.HintConstant <= 0 {
		return nil, ErrInvalidHintConstant
	}
	if configOpts.ExpectedRippleSize < 0 {
		return nil, ErrInvalidRippleSize
	}

	return &runtimeConfig{
		randReader:         configOpts.RandReader,
		failureProbability: configOpts.FailureProbability,
		hintConstant:       configOpts.HintConstant,
		expectedRippleSize: configOpts.ExpectedRippleSize,
	}, nil
}

// density returns the degree density the configuration describes.
func (r *runtimeConfig) density() Density {
	if r.expectedRippleSize > 0 {
		return NewRobustSoliton(r.failureProbability, r.expectedRippleSize)
	}
	return NewRobustSolitonHeuristic(r.failureProbability, r.hintConstant)
}

// RandReader is the entropy source used to seed the sampler.
func (r runtimeConfig) RandReader() io.Reader {
	return r.randReader
}

// FailureProbability is the Robust Soliton delta parameter.
func (r runtimeConfig) FailureProbability() float64 {
	return r.failureProbability
}

// HintConstant is the heuristic ripple scaling constant.
func (r runtimeConfig) HintConstant() float64 {
	return r.hintConstant
}

// ExpectedRippleSize is the explicit expected ripple size, or zero
// when the heuristic is in effect.
func (r runtimeConfig) ExpectedRippleSize() float64 {
	return r.expectedRippleSize
}
