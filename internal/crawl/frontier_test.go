package crawl

import (
	"sync"
	"testing"
	"time"
)

func TestFrontierDedup(t *testing.T) {
	fr := newFrontier(10)

	if !fr.Enqueue("https://example.com", 0) {
		t.Fatal("first enqueue must be accepted")
	}
	if fr.Enqueue("https://example.com", 1) {
		t.Fatal("duplicate URL must be refused")
	}

	e, ok := fr.Next()
	if !ok || e.url != "https://example.com" || e.depth != 0 {
		t.Fatalf("unexpected entry: %+v ok=%v", e, ok)
	}
	fr.Done()

	if _, ok := fr.Next(); ok {
		t.Fatal("drained frontier must report no more work")
	}
}

func TestFrontierPageBudget(t *testing.T) {
	fr := newFrontier(2)

	if !fr.Enqueue("https://example.com/a", 0) {
		t.Fatal("enqueue under budget must be accepted")
	}
	if !fr.Enqueue("https://example.com/b", 1) {
		t.Fatal("enqueue at budget must be accepted")
	}
	if fr.Enqueue("https://example.com/c", 1) {
		t.Fatal("enqueue past budget must be refused")
	}
}

func TestFrontierMarkSeen(t *testing.T) {
	fr := newFrontier(10)

	if !fr.MarkSeen("https://example.com/final") {
		t.Fatal("first MarkSeen must succeed")
	}
	if fr.MarkSeen("https://example.com/final") {
		t.Fatal("second MarkSeen must report already known")
	}
	if fr.Enqueue("https://example.com/final", 1) {
		t.Fatal("a marked URL must not be enqueueable")
	}
}

func TestFrontierStopReleasesWaiters(t *testing.T) {
	fr := newFrontier(10)
	fr.Enqueue("https://example.com", 0)

	// One worker holds the only entry; a second blocks in Next.
	if _, ok := fr.Next(); !ok {
		t.Fatal("expected an entry")
	}

	done := make(chan struct{})
	go func() {
		_, ok := fr.Next()
		if ok {
			t.Error("stopped frontier must not hand out entries")
		}
		close(done)
	}()

	fr.Stop()
	fr.Done()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not released after Stop")
	}
}

func TestFrontierConcurrentWorkersDrain(t *testing.T) {
	fr := newFrontier(100)
	fr.Enqueue("https://example.com/0", 0)

	var mu sync.Mutex
	processed := make(map[string]struct{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				e, ok := fr.Next()
				if !ok {
					return
				}
				mu.Lock()
				processed[e.url] = struct{}{}
				n := len(processed)
				mu.Unlock()
				// Each of the first 10 entries fans out two children.
				if n <= 10 {
					fr.Enqueue(e.url+"a", e.depth+1)
					fr.Enqueue(e.url+"b", e.depth+1)
				}
				fr.Done()
			}
		}()
	}

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not drain the frontier")
	}

	if len(processed) == 0 {
		t.Fatal("expected processed entries")
	}
}
