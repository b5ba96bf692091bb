// Copyright (c) 2024-2025 Six After, Inc.
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import (
	"fmt"
	"testing"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Float | constraints.Integer
}

func mean[T Number](data []T) float64 {
	var sum float64
	for _, v := range data {
		sum += float64(v)
	}
	return sum / float64(len(data))
}

// benchmarkSource builds a Source over blocks random blocks of
// blockBytes bytes each.
func benchmarkSource(b *testing.B, blocks, blockBytes int) *Source {
	b.Helper()

	data := randomBytes(b, blocks*blockBytes)
	metadata, err := NewMetadataWithBlockBytes(uint64(len(data)), uint32(blockBytes))
	if err != nil {
		b.Fatalf("NewMetadataWithBlockBytes failed: %v", err)
	}

	source, err := NewSource(metadata, data)
	if err != nil {
		b.Fatalf("NewSource failed: %v", err)
	}
	return source
}

// BenchmarkSourceCreatePacket measures packet encoding across block
// counts, reporting the mean packet degree alongside timings.
func BenchmarkSourceCreatePacket(b *testing.B) {
	for _, blocks := range []int{16, 256, 4096} {
		b.Run(fmt.Sprintf("Blocks_%d", blocks), func(b *testing.B) {
			source := benchmarkSource(b, blocks, DefaultBlockBytes)
			degrees := make([]int, 0, b.N)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				degrees = append(degrees, source.CreatePacket().Degree())
			}
			b.StopTimer()

			b.ReportMetric(mean(degrees), "degree/packet")
		})
	}
}

// BenchmarkClientReceivePacket measures one full decode of a stream
// per iteration, reporting the mean number of packets each decode
// consumed.
func BenchmarkClientReceivePacket(b *testing.B) {
	for _, blocks := range []int{64, 1024} {
		b.Run(fmt.Sprintf("Blocks_%d", blocks), func(b *testing.B) {
			source := benchmarkSource(b, blocks, DefaultBlockBytes)

			b.ResetTimer()
			packets := 0
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				client, err := NewClient(source.Metadata())
				if err != nil {
					b.Fatalf("NewClient failed: %v", err)
				}
				b.StartTimer()

				for client.DecodingProgress() < 1.0 {
					client.ReceivePacket(source.CreatePacket())
					packets++
				}
			}
			b.StopTimer()

			b.ReportMetric(float64(packets)/float64(b.N), "packets/decode")
		})
	}
}

// BenchmarkPacketMarshal measures wire encoding of a mid-degree
// packet.
func BenchmarkPacketMarshal(b *testing.B) {
	packet := NewPacket([]uint32{1, 2, 3, 4, 5, 6, 7, 8}, Block(randomBytes(b, DefaultBlockBytes)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := packet.MarshalBinary(); err != nil {
			b.Fatalf("MarshalBinary failed: %v", err)
		}
	}
}

// BenchmarkPacketUnmarshal measures wire decoding of a mid-degree
// packet.
func BenchmarkPacketUnmarshal(b *testing.B) {
	wire, err := NewPacket([]uint32{1, 2, 3, 4, 5, 6, 7, 8}, Block(randomBytes(b, DefaultBlockBytes))).MarshalBinary()
	if err != nil {
		b.Fatalf("MarshalBinary failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var packet Packet
		if err := packet.UnmarshalBinary(wire); err != nil {
			b.Fatalf("UnmarshalBinary failed: %v", err)
		}
	}
}

// BenchmarkDistributionSampleDegree measures a single degree draw.
func BenchmarkDistributionSampleDegree(b *testing.B) {
	density := NewRobustSolitonHeuristic(DefaultFailureProbability, DefaultHintConstant)
	distribution, err := NewDistribution(density, 15360, &constReader{value: 1})
	if err != nil {
		b.Fatalf("NewDistribution failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = distribution.SampleDegree()
	}
}
