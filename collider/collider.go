/*
Package collider implements the scan engine at the core of btc-collider.

The engine walks a half-open interval of private keys. For each key k it
derives P = k·G once and then covers six related keys at constant cost:
−P is a serialization tweak and the GLV endomorphism images λ·P and λ²·P
are a single base-field multiply each. Every point is hashed in both its
compressed and uncompressed encoding and checked against the target
address set, so one scalar multiplication tests twelve addresses.
*/
package collider

import (
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/holiman/uint256"

	"github.com/Asylian21/btc-collider/addrfile"
	"github.com/Asylian21/btc-collider/searchspace"
)

// Context carries the inputs of one scan run: the interval to walk and a
// shared read-only view of the target addresses.
type Context struct {
	SearchSpace searchspace.Interval
	Addresses   addrfile.AddressSet
}

// Hit records a single collision: the scanned key, the strategy whose
// derived point matched, and whether the compressed or the uncompressed
// encoding hashed into the address set.
type Hit struct {
	Key        uint256.Int
	Strategy   Strategy
	Compressed bool
}

// Result is returned by Run. The search space is handed back unchanged so
// the caller can match the completion to its allocation.
type Result struct {
	SearchSpace searchspace.Interval
	Hits        []Hit
}

// Run scans every key of the context's interval and returns the hits in
// deterministic order: ascending by key, strategies in declaration order,
// compressed before uncompressed within a strategy.
func Run(ctx Context) Result {
	h := newHasher()
	var hits []Hit
	var points [numStrategies]*btcec.PublicKey

	var key uint256.Int
	key.Set(&ctx.SearchSpace.Start)
	end := &ctx.SearchSpace.End

	start := time.Now()
	for key.Lt(end) {
		if key.IsZero() {
			// k = 0 has no curve point; the interval may legitimately
			// start there after a random draw.
			key.AddUint64(&key, 1)
			continue
		}

		kb := key.Bytes32()
		points[Original] = mulG(&kb)
		points[OriginalNegated] = negate(points[Original])
		points[Lambda] = endomorphism(points[Original])
		points[LambdaNegated] = negate(points[Lambda])
		points[LambdaSquare] = endomorphism(points[Lambda])
		points[LambdaSquareNegated] = negate(points[LambdaSquare])

		for s, p := range points {
			compressed, uncompressed := h.hashPublicKey(p)
			if ctx.Addresses.Contains(compressed) {
				hits = append(hits, newHit(&key, Strategy(s), true))
			}
			if ctx.Addresses.Contains(uncompressed) {
				hits = append(hits, newHit(&key, Strategy(s), false))
			}
		}

		key.AddUint64(&key, 1)
	}

	// +1 keeps the rate finite on sub-second intervals.
	secs := uint64(time.Since(start).Seconds()) + 1
	log.Infof("%d collisions for %s at %d keys/sec", len(hits),
		ctx.SearchSpace, ctx.SearchSpace.Width()/secs)

	return Result{SearchSpace: ctx.SearchSpace, Hits: hits}
}

func newHit(key *uint256.Int, s Strategy, compressed bool) Hit {
	hit := Hit{Strategy: s, Compressed: compressed}
	hit.Key.Set(key)
	log.Infof("Found collision: strategy=%s compressed=%v key=%s wif=%s",
		s, compressed, hit.Key.Hex(), PrivateKeyToWIF(&hit.Key, compressed))
	return hit
}
