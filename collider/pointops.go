package collider

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// beta is a primitive cube root of unity modulo the secp256k1 field
// prime. Multiplying the x-coordinate of a point by beta yields the
// lambda-multiple of the point without a scalar multiplication:
// λ·(x, y) = (β·x mod p, y).
var beta secp.FieldVal

func init() {
	b, err := hex.DecodeString(
		"7ae96a2b657c07106e64479eac3434e99cf0497512f58995c1396c28719501ee")
	if err != nil {
		panic(err)
	}
	beta.SetByteSlice(b)
}

// mulG returns k·G for a 32-byte big-endian scalar k. The caller
// guarantees 0 < k < n.
func mulG(k *[32]byte) *btcec.PublicKey {
	_, pub := btcec.PrivKeyFromBytes(k[:])
	return pub
}

// negate returns −P. Negating a point flips the parity of y and nothing
// else, so only the parity tag of the compressed encoding changes.
func negate(p *btcec.PublicKey) *btcec.PublicKey {
	buf := p.SerializeCompressed()
	buf[0] ^= 0x01 // 0x02 <-> 0x03
	neg, err := btcec.ParsePubKey(buf)
	if err != nil {
		panic(fmt.Sprintf("collider: negate rejected point %x: %v", buf, err))
	}
	return neg
}

// endomorphism returns λ·P, computed in the base field as
// (β·x mod p, y). The compressed encoding keeps its parity tag because y
// is unchanged; only the 32 x-coordinate bytes are replaced.
func endomorphism(p *btcec.PublicKey) *btcec.PublicKey {
	buf := p.SerializeCompressed()

	var x secp.FieldVal
	x.SetByteSlice(buf[1:33])
	x.Mul(&beta)
	x.Normalize()

	var xb [32]byte
	x.PutBytes(&xb)
	copy(buf[1:33], xb[:])

	lambdaP, err := btcec.ParsePubKey(buf)
	if err != nil {
		panic(fmt.Sprintf("collider: endomorphism rejected point %x: %v", buf, err))
	}
	return lambdaP
}
