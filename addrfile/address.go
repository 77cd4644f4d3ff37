package addrfile

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/btcsuite/btcutil/bech32"
)

// AddressType discriminates the bitcoin address encodings the loader
// understands.
type AddressType int

const (
	// P2PK is a legacy base58 address starting with "1", paying to a
	// public key or public-key hash.
	P2PK AddressType = iota
	// P2SH is a script-hash address starting with "3".
	P2SH
	// P2WPKH is a segwit address with a 20-byte witness program.
	P2WPKH
	// P2WSH is a segwit address with a 32-byte witness program.
	P2WSH
	// MISC is anything else, including addresses that fail to decode.
	MISC
)

// GetAddressType classifies an address by prefix. "bc1" addresses that do
// not decode as bech32 (bech32m, truncated lines) classify as MISC rather
// than erroring; the loader only skips them.
func GetAddressType(address string) AddressType {
	switch {
	case strings.HasPrefix(address, "1"):
		return P2PK
	case strings.HasPrefix(address, "3"):
		return P2SH
	case strings.HasPrefix(address, "bc1"):
		program, err := witnessProgram(address)
		if err != nil {
			return MISC
		}
		switch len(program) {
		case 20:
			return P2WPKH
		case 32:
			return P2WSH
		}
	}
	return MISC
}

// P2PKHash160 extracts the HASH160 from a base58 address: one version
// byte, twenty hash bytes, four checksum bytes.
func P2PKHash160(address string) (Hash160, error) {
	var h Hash160
	decoded := base58.Decode(address)
	if len(decoded) != 25 {
		return h, fmt.Errorf("cannot read p2pk address %s", address)
	}
	copy(h[:], decoded[1:21])
	return h, nil
}

// P2WPKHHash160 extracts the 20-byte witness program from a bech32
// address.
func P2WPKHHash160(address string) (Hash160, error) {
	var h Hash160
	program, err := witnessProgram(address)
	if err != nil {
		return h, fmt.Errorf("invalid bech32 address %s: %w", address, err)
	}
	if len(program) != 20 {
		return h, fmt.Errorf("address %s has a %d-byte witness program, want 20",
			address, len(program))
	}
	copy(h[:], program)
	return h, nil
}

// witnessProgram decodes a bech32 address and returns the witness program
// with the leading version word stripped and the payload regrouped from
// 5-bit to 8-bit.
func witnessProgram(address string) ([]byte, error) {
	_, data, err := bech32.Decode(address)
	if err != nil {
		return nil, err
	}
	if len(data) < 1 {
		return nil, fmt.Errorf("missing witness version")
	}
	return bech32.ConvertBits(data[1:], 5, 8, false)
}
