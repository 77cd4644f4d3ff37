package addrfile

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashFromHex(t *testing.T, s string) Hash160 {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, b, 20)
	var h Hash160
	copy(h[:], b)
	return h
}

func writeGzip(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "addresses.txt.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestReadAddressesFile(t *testing.T) {
	path := writeGzip(t,
		"1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm",                             // P2PKH, key 1 uncompressed
		"3N5i3Vs9UMyjYbBCFNQqU3ybSuDepX7oT3",                             // P2SH, skipped
		"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",                     // P2WPKH
		"bc1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3qccfmv3", // P2WSH, skipped
		"",
		"not-an-address",
	)

	set, err := ReadAddressesFile(path)
	require.NoError(t, err)

	assert.Len(t, set, 2)
	assert.True(t, set.Contains(
		hashFromHex(t, "91b24bf9f5288532960ac687abb035127b1d28a5")),
		"hash160 of the uncompressed key-1 public key")
	assert.True(t, set.Contains(
		hashFromHex(t, "751e76e8199196d454941c45d1b3a323f1433bd6")),
		"witness program of the P2WPKH address")
}

func TestReadAddressesFileMissing(t *testing.T) {
	_, err := ReadAddressesFile(filepath.Join(t.TempDir(), "nope.txt.gz"))
	assert.Error(t, err)
}

func TestReadAddressesFileNotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm\n"), 0644))

	_, err := ReadAddressesFile(path)
	assert.Error(t, err)
}

func TestReadAddressesFileMalformedP2PK(t *testing.T) {
	path := writeGzip(t, "1short")

	_, err := ReadAddressesFile(path)
	assert.Error(t, err)
}

func TestGetAddressType(t *testing.T) {
	cases := []struct {
		address string
		want    AddressType
	}{
		{"1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm", P2PK},
		{"3N5i3Vs9UMyjYbBCFNQqU3ybSuDepX7oT3", P2SH},
		{"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", P2WPKH},
		{"bc1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3qccfmv3", P2WSH},
		// bech32m uses a different checksum constant and fails to decode
		// as bech32; it is skipped, not an error.
		{"bc1pm9jzmujvdqjj6y28hptk859zs3yyv78hlz84pm", MISC},
		{"xyz", MISC},
		{"", MISC},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GetAddressType(tc.address), "%q", tc.address)
	}
}

func TestP2PKHash160(t *testing.T) {
	h, err := P2PKHash160("1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm")
	require.NoError(t, err)
	assert.Equal(t, hashFromHex(t, "91b24bf9f5288532960ac687abb035127b1d28a5"), h)

	h, err = P2PKHash160("1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH")
	require.NoError(t, err)
	assert.Equal(t, hashFromHex(t, "751e76e8199196d454941c45d1b3a323f1433bd6"), h)

	_, err = P2PKHash160("1short")
	assert.Error(t, err)
}

func TestP2WPKHHash160(t *testing.T) {
	h, err := P2WPKHHash160("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4")
	require.NoError(t, err)
	assert.Equal(t, hashFromHex(t, "751e76e8199196d454941c45d1b3a323f1433bd6"), h)

	_, err = P2WPKHHash160("bc1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3qccfmv3")
	assert.Error(t, err, "32-byte witness programs are not public-key hashes")
}

func TestAddressSet(t *testing.T) {
	set := make(AddressSet)
	h := hashFromHex(t, "751e76e8199196d454941c45d1b3a323f1433bd6")

	assert.False(t, set.Contains(h))
	set.Add(h)
	assert.True(t, set.Contains(h))
	set.Add(h)
	assert.Len(t, set, 1)
}
