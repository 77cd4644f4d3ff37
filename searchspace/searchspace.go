/*
Package searchspace hands out intervals of the bitcoin private-key space
to scan workers and tracks which intervals have been completed.

An Interval is a half-open range [Start, End) of 256-bit keys. Providers
allocate fresh intervals and accept completion notices; the file-backed
provider additionally keeps its outstanding allocations from overlapping,
merges completed intervals into a minimal set of
maximal disjoint ranges and persists that set, so work survives restarts.
*/
package searchspace

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Interval is a half-open range [Start, End) of private-key candidates.
// A well-formed interval always has Start < End.
type Interval struct {
	Start uint256.Int // inclusive
	End   uint256.Int // exclusive
}

// NewInterval builds the interval [start, start+size). If the end would
// exceed 256 bits it is clamped to the largest representable key, keeping
// the interval well-formed near the top of the space. An interval that
// would still be empty (size 0, or start at the largest key) is a
// programming error and panics.
func NewInterval(start *uint256.Int, size uint64) Interval {
	var iv Interval
	iv.Start.Set(start)
	if _, overflow := iv.End.AddOverflow(start, uint256.NewInt(size)); overflow {
		iv.End.SetAllOne()
	}
	if !iv.Start.Lt(&iv.End) {
		panic(fmt.Sprintf("searchspace: interval %s has start >= end", iv))
	}
	return iv
}

// ParseInterval parses the textual form "<start_hex>-<end_hex>". Both the
// compact form used in the persistence file and the zero-padded display
// form are accepted.
func ParseInterval(s string) (Interval, error) {
	var iv Interval
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return iv, fmt.Errorf("searchspace: malformed interval %q", s)
	}
	if err := parseHexScalar(&iv.Start, parts[0]); err != nil {
		return iv, fmt.Errorf("searchspace: malformed interval %q: %v", s, err)
	}
	if err := parseHexScalar(&iv.End, parts[1]); err != nil {
		return iv, fmt.Errorf("searchspace: malformed interval %q: %v", s, err)
	}
	if !iv.Start.Lt(&iv.End) {
		return iv, fmt.Errorf("searchspace: interval %q has start >= end", s)
	}
	return iv, nil
}

// parseHexScalar decodes an unpadded or padded hex string of at most 64
// digits into z.
func parseHexScalar(z *uint256.Int, s string) error {
	if s == "" {
		return fmt.Errorf("empty endpoint")
	}
	if len(s) > 64 {
		return fmt.Errorf("endpoint %q longer than 256 bits", s)
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("endpoint %q: %v", s, err)
	}
	z.SetBytes(b)
	return nil
}

// String returns the compact form "<start_hex>-<end_hex>" with no padding.
// This is the form written to the persistence file.
func (iv Interval) String() string {
	return hexScalar(&iv.Start) + "-" + hexScalar(&iv.End)
}

// Padded returns the canonical display form with both endpoints
// zero-padded to 64 hex digits.
func (iv Interval) Padded() string {
	s := iv.Start.Bytes32()
	e := iv.End.Bytes32()
	return fmt.Sprintf("%x-%x", s, e)
}

func hexScalar(z *uint256.Int) string {
	return strings.TrimPrefix(z.Hex(), "0x")
}

// Eq reports whether both endpoints are equal.
func (iv Interval) Eq(other Interval) bool {
	return iv.Start.Eq(&other.Start) && iv.End.Eq(&other.End)
}

// Less orders intervals lexicographically by (Start, End).
func (iv Interval) Less(other Interval) bool {
	switch iv.Start.Cmp(&other.Start) {
	case -1:
		return true
	case 1:
		return false
	}
	return iv.End.Lt(&other.End)
}

// CanMerge reports whether the union of the two intervals is itself a
// single interval, i.e. they overlap or touch.
func (iv Interval) CanMerge(other Interval) bool {
	lo := &iv.Start
	if other.Start.Gt(lo) {
		lo = &other.Start
	}
	hi := &iv.End
	if other.End.Lt(hi) {
		hi = &other.End
	}
	// max(starts) <= min(ends)
	return !lo.Gt(hi)
}

// Merge returns [min(starts), max(ends)). Callers must check CanMerge
// first; merging separated intervals would cover keys never scanned.
func (iv Interval) Merge(other Interval) Interval {
	var merged Interval
	merged.Start.Set(&iv.Start)
	if other.Start.Lt(&merged.Start) {
		merged.Start.Set(&other.Start)
	}
	merged.End.Set(&iv.End)
	if other.End.Gt(&merged.End) {
		merged.End.Set(&other.End)
	}
	return merged
}

// Width returns the number of keys in the interval, saturating at the
// maximum uint64. Intervals wider than 2^64 keys never occur in practice.
func (iv Interval) Width() uint64 {
	var w uint256.Int
	w.Sub(&iv.End, &iv.Start)
	if !w.IsUint64() {
		return ^uint64(0)
	}
	return w.Uint64()
}

// Provider hands out fresh search intervals and accepts completion
// notices. Implementations must be safe for concurrent use: all scan
// workers share a single provider.
type Provider interface {
	// Next returns a fresh interval. FileProvider never returns one that
	// overlaps an interval it returned earlier and has not yet seen
	// completed; the random-start providers do not check for overlap.
	Next() Interval

	// Done records that every key in the interval has been scanned. The
	// interval must be one previously returned by Next.
	Done(iv Interval)
}
