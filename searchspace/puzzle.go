package searchspace

import (
	"fmt"

	"github.com/holiman/uint256"
)

// PuzzleProvider draws random intervals inside the key range of a puzzle
// transaction: puzzle N has its key in [2^(N-1), 2^N). Like the random
// provider it does not track completions.
type PuzzleProvider struct {
	lower    uint256.Int // 2^(N-1), also the width of the range
	interval uint64
}

// NewPuzzleProvider returns a provider for puzzle number n (1..256).
func NewPuzzleProvider(n uint, intervalSize uint64) (*PuzzleProvider, error) {
	if n < 1 || n > 256 {
		return nil, fmt.Errorf("searchspace: puzzle number %d out of range 1..256", n)
	}
	p := &PuzzleProvider{interval: intervalSize}
	one := uint256.NewInt(1)
	p.lower.Lsh(one, n-1)
	return p, nil
}

// Next returns [r, r+interval) for a random r in [2^(N-1), 2^N).
func (p *PuzzleProvider) Next() Interval {
	var r uint256.Int
	randomScalar(&r)
	r.Mod(&r, &p.lower)
	r.Add(&r, &p.lower)
	iv := NewInterval(&r, p.interval)
	log.Debugf("Created next search space %s", iv)
	return iv
}

// Done is a no-op for the puzzle provider.
func (p *PuzzleProvider) Done(iv Interval) {}
