// internal/cryptorand/cryptorand.go
//
// A math/rand-compatible Source backed by crypto/rand. The engine seeds its
// presentation shuffle from this so shuffle order is unpredictable without
// the engine carrying any seed state of its own.

package cryptorand

import (
	crand "crypto/rand"
	"math/rand"
)

// NewSource returns a rand.Source that reads crypto/rand for every value.
func NewSource() rand.Source { return source{} }

type source struct{}

func (source) Int63() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		panic(err)
	}
	return int64(buf[0]) |
		int64(buf[1])<<8 |
		int64(buf[2])<<16 |
		int64(buf[3])<<24 |
		int64(buf[4])<<32 |
		int64(buf[5])<<40 |
		int64(buf[6])<<48 |
		int64(buf[7]&0x7f)<<56
}

func (source) Seed(int64) {}
