package searchspace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/btree"
	"github.com/holiman/uint256"
)

// btreeDegree is the branching factor of the interval trees. The done set
// stays small because completed intervals are coalesced on every insert.
const btreeDegree = 8

// FileProvider allocates intervals from the frontier of already-completed
// work and persists the completed set to a text file, one interval per
// line in compact form. On restart the file is read back so allocation
// resumes from the completed frontier. New intervals are not checked
// against completed runs past the first, so keys in those runs can be
// scanned again.
//
// Two ordered sets are maintained: done holds completed intervals as a
// maximal disjoint set (no two elements overlap or touch), pending holds
// intervals handed out but not yet acknowledged. A single mutex covers
// Next, Done and the persistence write; the critical section is
// milliseconds against the seconds of CPU a worker spends per interval.
type FileProvider struct {
	mu       sync.Mutex
	done     *btree.BTreeG[Interval]
	pending  *btree.BTreeG[Interval]
	interval uint64
	path     string
}

func intervalLess(a, b Interval) bool { return a.Less(b) }

// NewFileProvider reads the persisted search space from path, if it
// exists, and returns a provider allocating intervals of intervalSize
// keys. A missing file is not an error; a malformed line is, because
// silently dropping it would mis-state which keys were already scanned.
func NewFileProvider(path string, intervalSize uint64) (*FileProvider, error) {
	if intervalSize == 0 {
		return nil, fmt.Errorf("searchspace: interval size must be positive")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("searchspace: create %s: %w", dir, err)
		}
	}

	p := &FileProvider{
		done:     btree.NewG(btreeDegree, intervalLess),
		pending:  btree.NewG(btreeDegree, intervalLess),
		interval: intervalSize,
		path:     path,
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Infof("No existing search space file found.")
			return p, nil
		}
		return nil, fmt.Errorf("searchspace: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		iv, err := ParseInterval(line)
		if err != nil {
			return nil, fmt.Errorf("searchspace: %s:%d: %w", path, lineNo, err)
		}
		p.add(iv)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("searchspace: read %s: %w", path, err)
	}
	log.Infof("Read %d completed intervals from %s", p.done.Len(), path)
	return p, nil
}

// Next allocates a fresh interval. The start is chosen to guarantee
// forward progress and minimize fragmentation: past the newest pending
// interval if any, else past the first completed run, else at a uniform
// random 256-bit key.
func (p *FileProvider) Next() Interval {
	p.mu.Lock()
	defer p.mu.Unlock()

	var start uint256.Int
	if last, ok := p.pending.Max(); ok {
		start.Set(&last.End)
	} else if first, ok := p.done.Min(); ok {
		start.Set(&first.End)
	} else {
		randomScalar(&start)
	}

	iv := NewInterval(&start, p.interval)
	p.pending.ReplaceOrInsert(iv)
	log.Debugf("Created next search space %s", iv)
	return iv
}

// Done removes the interval from the pending set, folds it into the
// completed set and rewrites the persistence file. A completion for an
// interval that was never handed out is a programming error and panics.
func (p *FileProvider) Done(iv Interval) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.pending.Delete(iv); !ok {
		panic(fmt.Sprintf("searchspace: completed interval %s is not pending", iv))
	}
	p.add(iv)
	p.persist()
}

// add inserts iv into the done set, coalescing with the immediate
// predecessor and successor so the set stays maximal-disjoint.
func (p *FileProvider) add(iv Interval) {
	var pred Interval
	hasPred := false
	p.done.DescendLessOrEqual(iv, func(item Interval) bool {
		if item.Eq(iv) {
			return true
		}
		pred, hasPred = item, true
		return false
	})
	if hasPred && pred.CanMerge(iv) {
		p.done.Delete(pred)
		iv = iv.Merge(pred)
	}

	// A wide interval can swallow several successors, so keep merging
	// until the next one is separated.
	for {
		var succ Interval
		hasSucc := false
		p.done.AscendGreaterOrEqual(iv, func(item Interval) bool {
			if item.Eq(iv) {
				return true
			}
			succ, hasSucc = item, true
			return false
		})
		if !hasSucc || !succ.CanMerge(iv) {
			break
		}
		p.done.Delete(succ)
		iv = iv.Merge(succ)
	}

	p.done.ReplaceOrInsert(iv)
}

// persist rewrites the search space file in full: truncate, then one
// interval per line in ascending order. The done set is kept small by
// coalescing, so the rewrite stays cheap even after millions of
// completions. A failed write would leave the file corrupt, which there
// is no way to recover from, so it panics.
func (p *FileProvider) persist() {
	f, err := os.Create(p.path)
	if err != nil {
		panic(fmt.Sprintf("searchspace: rewrite %s: %v", p.path, err))
	}
	w := bufio.NewWriter(f)
	p.done.Ascend(func(iv Interval) bool {
		fmt.Fprintf(w, "%s\n", iv)
		return true
	})
	if err := w.Flush(); err != nil {
		f.Close()
		panic(fmt.Sprintf("searchspace: write %s: %v", p.path, err))
	}
	if err := f.Close(); err != nil {
		panic(fmt.Sprintf("searchspace: close %s: %v", p.path, err))
	}
}

// DoneIntervals returns a snapshot of the completed set in ascending
// order.
func (p *FileProvider) DoneIntervals() []Interval {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Interval, 0, p.done.Len())
	p.done.Ascend(func(iv Interval) bool {
		out = append(out, iv)
		return true
	})
	return out
}
