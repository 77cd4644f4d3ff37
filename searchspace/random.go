package searchspace

import (
	"crypto/rand"
	"fmt"

	"github.com/holiman/uint256"
)

// RandomProvider draws every interval at a uniform random 256-bit start.
// Completions are ignored: with a 2^256 space there is no point tracking
// what a random walk has covered.
type RandomProvider struct {
	interval uint64
}

// NewRandomProvider returns a provider allocating intervals of
// intervalSize keys at random starts.
func NewRandomProvider(intervalSize uint64) *RandomProvider {
	return &RandomProvider{interval: intervalSize}
}

// Next returns [r, r+interval) for a fresh random r.
func (p *RandomProvider) Next() Interval {
	var start uint256.Int
	randomScalar(&start)
	iv := NewInterval(&start, p.interval)
	log.Debugf("Created next search space %s", iv)
	return iv
}

// Done is a no-op for the random provider.
func (p *RandomProvider) Done(iv Interval) {}

// randomScalar sets z to a uniform random 256-bit value. The system RNG
// failing is not a condition the scanner can continue from.
func randomScalar(z *uint256.Int) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("searchspace: random scalar: %v", err))
	}
	z.SetBytes32(buf[:])
}
