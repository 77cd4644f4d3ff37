package collider

import (
	"encoding/hex"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldPrime is the secp256k1 base field prime p = 2^256 - 2^32 - 977.
const fieldPrime = "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"

func scalarBytes(t *testing.T, hexKey string) [32]byte {
	t.Helper()
	k, err := uint256.FromHex(hexKey)
	require.NoError(t, err)
	return k.Bytes32()
}

func TestMulGKnownPoints(t *testing.T) {
	// k = 1 yields the generator itself.
	one := scalarBytes(t, "0x1")
	g := mulG(&one)
	assert.Equal(t,
		"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		hex.EncodeToString(g.SerializeCompressed()))

	k := scalarBytes(t, "0xf7051f27b09112d4")
	p := mulG(&k)
	assert.Equal(t,
		"03100611c54dfef604163b8358f7b7fac13ce478e02cb224ae16d45526b25d9d4d",
		hex.EncodeToString(p.SerializeCompressed()))
}

func TestNegateFlipsParityOnly(t *testing.T) {
	k := scalarBytes(t, "0xf7051f27b09112d4")
	p := mulG(&k)
	neg := negate(p)

	assert.Equal(t,
		"02100611c54dfef604163b8358f7b7fac13ce478e02cb224ae16d45526b25d9d4d",
		hex.EncodeToString(neg.SerializeCompressed()))

	// Negation is an involution.
	back := negate(neg)
	assert.Equal(t, p.SerializeCompressed(), back.SerializeCompressed())
}

func TestEndomorphismKnownPoint(t *testing.T) {
	k := scalarBytes(t, "0xf7051f27b09112d4")
	p := mulG(&k)
	lambdaP := endomorphism(p)

	comp := lambdaP.SerializeCompressed()
	assert.Equal(t, byte(0x03), comp[0], "y is unchanged, so the parity tag is too")
	assert.Equal(t,
		"792bfa55bf659967951b21060c05c250cd261ec3ea02704815bfb1c5ccc800fd",
		hex.EncodeToString(comp[1:]))
}

// TestEndomorphismXIsBetaMultiple checks x(λ·P) == β·x(P) mod p with an
// independent 256-bit implementation.
func TestEndomorphismXIsBetaMultiple(t *testing.T) {
	p := uint256.MustFromHex(fieldPrime)
	betaInt := uint256.MustFromHex(
		"0x7ae96a2b657c07106e64479eac3434e99cf0497512f58995c1396c28719501ee")

	for _, hexKey := range []string{
		"0x1", "0x2", "0x3", "0x4c", "0xdeadbeef",
		"0xf7051f27b09112d4", "0x101d83275fb2bc7e0c",
	} {
		kb := scalarBytes(t, hexKey)
		point := mulG(&kb)
		lambdaP := endomorphism(point)

		x := new(uint256.Int).SetBytes(point.SerializeCompressed()[1:])
		want := new(uint256.Int).MulMod(x, betaInt, p)

		got := new(uint256.Int).SetBytes(lambdaP.SerializeCompressed()[1:])
		assert.True(t, want.Eq(got), "key %s: x(λP) != β·x(P) mod p", hexKey)
	}
}

// TestEndomorphismHasOrderThree checks λ³·P == P: applying the
// endomorphism three times walks the full cycle.
func TestEndomorphismHasOrderThree(t *testing.T) {
	k := scalarBytes(t, "0xf7051f27b09112d4")
	p := mulG(&k)

	cycled := endomorphism(endomorphism(endomorphism(p)))
	assert.Equal(t, p.SerializeCompressed(), cycled.SerializeCompressed())
}

func TestSixDerivedPointsAreDistinct(t *testing.T) {
	k := scalarBytes(t, "0xf7051f27b09112d4")
	p0 := mulG(&k)

	points := [][]byte{
		p0.SerializeCompressed(),
		negate(p0).SerializeCompressed(),
		endomorphism(p0).SerializeCompressed(),
		negate(endomorphism(p0)).SerializeCompressed(),
		endomorphism(endomorphism(p0)).SerializeCompressed(),
		negate(endomorphism(endomorphism(p0))).SerializeCompressed(),
	}
	seen := make(map[string]struct{})
	for _, b := range points {
		seen[hex.EncodeToString(b)] = struct{}{}
	}
	assert.Len(t, seen, 6)
}
