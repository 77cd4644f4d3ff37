package collider

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Asylian21/btc-collider/addrfile"
	"github.com/Asylian21/btc-collider/searchspace"
)

// statsInterval is how often the throughput reporter logs.
const statsInterval = 10 * time.Second

// Pool runs the scan loop on a fixed number of worker goroutines sharing
// one search-space provider and one address set.
//
// Workers poll the stop flag only between intervals; once stopped, each
// worker finishes the interval it is on, reports it done and returns.
// Workers do not recover panics: a provider or curve-library invariant
// violation takes the process down rather than silently under-reporting
// discoveries.
type Pool struct {
	workers   int
	provider  searchspace.Provider
	addresses addrfile.AddressSet

	stop      atomic.Bool
	keys      atomic.Uint64 // total keys scanned, for the stats reporter
	wg        sync.WaitGroup
	statsDone chan struct{}
}

// NewPool returns an unstarted pool of the given size.
func NewPool(workers int, provider searchspace.Provider, addresses addrfile.AddressSet) *Pool {
	return &Pool{
		workers:   workers,
		provider:  provider,
		addresses: addresses,
		statsDone: make(chan struct{}),
	}
}

// Start launches the workers and the throughput reporter.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	go p.statsReporter()
}

// Stop requests shutdown. Workers observe the flag after their current
// interval; call Wait to join them.
func (p *Pool) Stop() {
	p.stop.Store(true)
}

// Wait blocks until every worker has returned, then stops the reporter.
func (p *Pool) Wait() {
	p.wg.Wait()
	close(p.statsDone)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for !p.stop.Load() {
		space := p.provider.Next()
		result := Run(Context{SearchSpace: space, Addresses: p.addresses})
		p.provider.Done(result.SearchSpace)
		p.keys.Add(result.SearchSpace.Width())

		for _, hit := range result.Hits {
			log.Infof("Collision found. Key %s (%s) in %s",
				hit.Key.Hex(), PrivateKeyToWIF(&hit.Key, hit.Compressed),
				result.SearchSpace.Padded())
		}
	}
	log.Debugf("Worker %d done", id)
}

// statsReporter periodically logs the overall and the instantaneous scan
// rate across all workers.
func (p *Pool) statsReporter() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	start := time.Now()
	lastTotal := uint64(0)
	lastTime := start

	for {
		select {
		case <-p.statsDone:
			return
		case now := <-ticker.C:
			total := p.keys.Load()
			overall := float64(total) / now.Sub(start).Seconds()
			instant := float64(total-lastTotal) / now.Sub(lastTime).Seconds()
			log.Infof("Scanned %d keys | overall %.0f keys/sec | current %.0f keys/sec",
				total, overall, instant)
			lastTotal = total
			lastTime = now
		}
	}
}
