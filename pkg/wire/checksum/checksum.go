// Package checksum provides the integrity calculators consumed by the
// checksum protocol layer. Every calculator is a pure, stateless function
// over a byte range; the layer truncates the result to its field width
// before writing or comparing.
package checksum

import (
    "fmt"
    "hash/crc32"
    "hash/crc64"
    "strings"

    "github.com/cespare/xxhash/v2"
)

// Calculator computes an integrity value over a byte range. Implementations
// must be deterministic and must not retain the slice.
type Calculator func(p []byte) uint64

// Sum is the modular byte sum. Truncated to one byte it is the classic
// "sum mod 256" trailer.
func Sum(p []byte) uint64 {
    var s uint64
    for _, b := range p {
        s += uint64(b)
    }
    return s
}

// XOR folds all bytes with exclusive-or.
func XOR(p []byte) uint64 {
    var s uint64
    for _, b := range p {
        s ^= uint64(b)
    }
    return s
}

// CRC32 is the IEEE polynomial CRC-32.
func CRC32(p []byte) uint64 { return uint64(crc32.ChecksumIEEE(p)) }

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C is the Castagnoli polynomial CRC-32.
func CRC32C(p []byte) uint64 { return uint64(crc32.Checksum(p, castagnoli)) }

var ecma = crc64.MakeTable(crc64.ECMA)

// CRC64 is the ECMA polynomial CRC-64.
func CRC64(p []byte) uint64 { return crc64.Checksum(p, ecma) }

// XXHash64 is the 64-bit xxHash digest.
func XXHash64(p []byte) uint64 { return xxhash.Sum64(p) }

// ByName resolves a calculator from its configuration name.
func ByName(name string) (Calculator, error) {
    switch strings.ToLower(strings.TrimSpace(name)) {
    case "", "sum":
        return Sum, nil
    case "xor":
        return XOR, nil
    case "crc32", "crc32-ieee":
        return CRC32, nil
    case "crc32c", "crc32-castagnoli":
        return CRC32C, nil
    case "crc64", "crc64-ecma":
        return CRC64, nil
    case "xxhash", "xxhash64":
        return XXHash64, nil
    default:
        return nil, fmt.Errorf("unknown checksum algorithm: %q", name)
    }
}
