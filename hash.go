package exthash

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

// HashMaxBits is the number of low-order hash bits a table can ever use to
// address its directory. Global depth never exceeds it.
const HashMaxBits = 12

// HashFunc maps a key to its low sigBits bits. Implementations must be
// deterministic and must clear every bit above min(sigBits, HashMaxBits).
type HashFunc func(key []byte, sigBits uint) uint32

const (
	prime1 uint32 = 0x9E3779B1
	prime2 uint32 = 0x85EBCA77
	prime3 uint32 = 0xC2B2AE3D
	prime4 uint32 = 0x27D4EB2F
	prime5 uint32 = 0x165667B1
)

func lowMask(sigBits uint) uint32 {
	if sigBits > HashMaxBits {
		sigBits = HashMaxBits
	}
	return 1<<sigBits - 1
}

// DefaultHash is the hash installed on tables that were not given one.
// Keys are consumed four bytes at a time through a multiply-rotate-xor round,
// then the state is avalanched so the low bits depend on every input bit.
func DefaultHash(key []byte, sigBits uint) uint32 {
	h := prime5 + uint32(len(key))
	i := 0
	for ; i+4 <= len(key); i += 4 {
		k := binary.LittleEndian.Uint32(key[i:])
		k *= prime3
		k = bits.RotateLeft32(k, 17)
		k *= prime4
		h ^= k
		h = bits.RotateLeft32(h, 17)*prime1 + prime4
	}
	for ; i < len(key); i++ {
		h += uint32(key[i]) * prime5
		h = bits.RotateLeft32(h, 11) * prime1
	}
	h ^= h >> 15
	h *= prime2
	h ^= h >> 13
	h *= prime3
	h ^= h >> 16
	return h & lowMask(sigBits)
}

// XXHash addresses keys by the low bits of their 64-bit xxHash digest.
func XXHash(key []byte, sigBits uint) uint32 {
	return uint32(xxhash.Sum64(key)) & lowMask(sigBits)
}

const (
	offset32 = 2166136261
	prime32  = 16777619
)

// FNVHash computes a 32-bit FNV-1a hash of the key.
func FNVHash(key []byte, sigBits uint) uint32 {
	hash := uint32(offset32)
	for _, b := range key {
		hash ^= uint32(b)
		hash *= prime32
	}
	return hash & lowMask(sigBits)
}

// HashByName resolves the names accepted in configuration files.
func HashByName(name string) (HashFunc, error) {
	switch name {
	case "", "default":
		return DefaultHash, nil
	case "xxhash":
		return XXHash, nil
	case "fnv":
		return FNVHash, nil
	}
	return nil, errors.Wrapf(ErrUnknownHash, "%q", name)
}
