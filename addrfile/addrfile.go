/*
Package addrfile loads the target address database into an in-memory set
of 160-bit hashes.

The database is a gzip-compressed text file with one bitcoin address per
line. Each address is classified by its prefix; P2PKH and P2WPKH
addresses carry a HASH160 of a public key and are inserted, everything
else (P2SH, P2WSH, unrecognized) is skipped because it can never match a
scanned key.
*/
package addrfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Hash160 is RIPEMD160(SHA256(x)), the 20-byte digest bitcoin addresses
// are built from.
type Hash160 [20]byte

// AddressSet is a set of target HASH160s. It is built once at startup and
// read-only afterwards, so concurrent lookups from scan workers need no
// locking.
type AddressSet map[Hash160]struct{}

// Add inserts h into the set.
func (s AddressSet) Add(h Hash160) {
	s[h] = struct{}{}
}

// Contains reports whether h is in the set.
func (s AddressSet) Contains(h Hash160) bool {
	_, ok := s[h]
	return ok
}

// ReadAddressesFile reads a gzip-compressed address file and returns the
// set of target hashes. Unreadable files and undecodable P2PKH lines are
// errors; addresses of unsupported types are counted and skipped.
func ReadAddressesFile(path string) (AddressSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("addrfile: open %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("addrfile: gunzip %s: %w", path, err)
	}
	defer gz.Close()

	set := make(AddressSet)
	skipped := 0
	start := time.Now()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch GetAddressType(line) {
		case P2PK:
			h, err := P2PKHash160(line)
			if err != nil {
				return nil, fmt.Errorf("addrfile: %s: %w", path, err)
			}
			set.Add(h)
		case P2WPKH:
			h, err := P2WPKHHash160(line)
			if err != nil {
				return nil, fmt.Errorf("addrfile: %s: %w", path, err)
			}
			set.Add(h)
		default:
			// P2SH and P2WSH hash scripts, not public keys; MISC is
			// anything we do not recognize.
			skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("addrfile: read %s: %w", path, err)
	}

	log.Infof("Read %d bitcoin-addresses from %s in %.2fs", len(set), path,
		time.Since(start).Seconds())
	log.Debugf("Skipped %d addresses of unsupported types", skipped)
	return set, nil
}
