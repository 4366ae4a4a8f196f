package crawl

import "sync"

// entry is a frontier element: a normalized URL plus its discovery depth.
type entry struct {
	url   string
	depth int
}

// frontier is the FIFO work queue for one crawl: not-yet-visited URLs, the
// dedup set of every URL ever enqueued, and a pending count covering both
// queued and in-flight entries. All state is owned by a single crawl and
// shared only with its workers, guarded by one mutex.
type frontier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []entry
	seen     map[string]struct{}
	enqueued int
	pending  int
	maxPages int
	stopped  bool
}

func newFrontier(maxPages int) *frontier {
	f := &frontier{
		seen:     make(map[string]struct{}),
		maxPages: maxPages,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Enqueue adds a normalized URL at the given depth. It refuses duplicates,
// anything past the page budget, and all input once the frontier has been
// stopped. Returns whether the URL was accepted.
func (f *frontier) Enqueue(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped || f.enqueued >= f.maxPages {
		return false
	}
	if _, dup := f.seen[url]; dup {
		return false
	}

	f.seen[url] = struct{}{}
	f.enqueued++
	f.pending++
	f.queue = append(f.queue, entry{url: url, depth: depth})
	f.cond.Signal()
	return true
}

// Next blocks until an entry is available or the frontier has drained.
// The second return is false when no more work will ever arrive; the
// caller must pair every successful Next with a Done.
func (f *frontier) Next() (entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) == 0 && f.pending > 0 && !f.stopped {
		f.cond.Wait()
	}
	if f.stopped || len(f.queue) == 0 {
		return entry{}, false
	}

	e := f.queue[0]
	f.queue = f.queue[1:]
	return e, true
}

// Done marks one dequeued entry as fully processed. When the last pending
// entry completes, all blocked workers are released.
func (f *frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending--
	if f.pending <= 0 {
		f.cond.Broadcast()
	}
}

// MarkSeen records a URL in the dedup set without queueing it (used for
// redirect targets resolved during a fetch). Returns false if the URL was
// already known.
func (f *frontier) MarkSeen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, dup := f.seen[url]; dup {
		return false
	}
	f.seen[url] = struct{}{}
	return true
}

// Stop discards queued entries and refuses new ones. In-flight entries
// finish normally; their Done calls still balance the pending count.
func (f *frontier) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}
	f.stopped = true
	f.pending -= len(f.queue)
	f.queue = nil
	f.cond.Broadcast()
}
