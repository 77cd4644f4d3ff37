package collider

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/holiman/uint256"
)

// wifVersion is the mainnet private-key version byte.
const wifVersion = 0x80

// PrivateKeyToWIF encodes a private key in Wallet Import Format:
// base58check over the 32 key bytes, version 0x80, with a trailing 0x01
// when the key stands for a compressed public key.
func PrivateKeyToWIF(key *uint256.Int, compressed bool) string {
	kb := key.Bytes32()
	payload := kb[:]
	if compressed {
		payload = append(payload, 0x01)
	}
	return base58.CheckEncode(payload, wifVersion)
}

// WIFToPrivateKey decodes a WIF string into the private key and its
// compression flag.
func WIFToPrivateKey(wif string) (*uint256.Int, bool, error) {
	payload, version, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, false, fmt.Errorf("collider: decode wif: %w", err)
	}
	if version != wifVersion {
		return nil, false, fmt.Errorf("collider: wif version %#02x, want %#02x",
			version, wifVersion)
	}
	switch len(payload) {
	case 32:
		return new(uint256.Int).SetBytes(payload), false, nil
	case 33:
		if payload[32] != 0x01 {
			return nil, false, fmt.Errorf("collider: wif compression suffix %#02x",
				payload[32])
		}
		return new(uint256.Int).SetBytes(payload[:32]), true, nil
	}
	return nil, false, fmt.Errorf("collider: wif payload is %d bytes", len(payload))
}
