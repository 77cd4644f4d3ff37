package collider

import (
	"hash"

	"github.com/btcsuite/btcd/btcec/v2"
	sha256 "github.com/minio/sha256-simd"
	"golang.org/x/crypto/ripemd160"

	"github.com/Asylian21/btc-collider/addrfile"
)

// hasher computes the two HASH160 digests of a public key. The RIPEMD160
// state is reused across calls; SHA256 uses the SIMD implementation.
// HASH160 runs twelve times per scanned key, which makes it the second
// hottest spot of the scan loop after the scalar multiplication.
type hasher struct {
	ripemd hash.Hash
}

func newHasher() *hasher {
	return &hasher{ripemd: ripemd160.New()}
}

// hashPublicKey returns the HASH160 of the compressed and the
// uncompressed serialization, in that order. The order is load-bearing:
// the scan engine derives the compressed flag of a hit from which of the
// two matched.
func (h *hasher) hashPublicKey(p *btcec.PublicKey) (compressed, uncompressed addrfile.Hash160) {
	compressed = h.hash160(p.SerializeCompressed())
	uncompressed = h.hash160(p.SerializeUncompressed())
	return compressed, uncompressed
}

func (h *hasher) hash160(serialized []byte) (out addrfile.Hash160) {
	sha := sha256.Sum256(serialized)
	h.ripemd.Reset()
	h.ripemd.Write(sha[:])
	h.ripemd.Sum(out[:0])
	return out
}
