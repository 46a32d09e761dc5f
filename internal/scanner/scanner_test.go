package scanner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/prober"
	"github.com/marksweep/marksweep/internal/scanner"
)

// fakeProber maps URLs to canned outcomes.
type fakeProber struct {
	mu        sync.Mutex
	responses map[string]*prober.Response
	errs      map[string]error
	delay     time.Duration
	calls     []string
}

func (f *fakeProber) Probe(ctx context.Context, rawURL string, timeout time.Duration) (*prober.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rawURL)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, prober.ErrCancelled
		}
	}
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	if resp, ok := f.responses[rawURL]; ok {
		return resp, nil
	}
	return &prober.Response{OK: true, Status: 200, Method: "HEAD"}, nil
}

func (f *fakeProber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func snapshot(urls ...string) []document.FlatBookmark {
	flat := make([]document.FlatBookmark, len(urls))
	for i, u := range urls {
		flat[i] = document.FlatBookmark{ID: string(rune('a' + i)), Title: u, URL: u}
	}
	return flat
}

// runScan starts a scan, collects every flush, and waits for the terminal
// one.
func runScan(t *testing.T, p scanner.Prober, snap []document.FlatBookmark, opts scanner.Options) []scanner.Progress {
	t.Helper()
	orch := scanner.New(p)

	var mu sync.Mutex
	var flushes []scanner.Progress
	orch.Start(snap, opts, func(p scanner.Progress) {
		mu.Lock()
		flushes = append(flushes, p)
		mu.Unlock()
	})
	orch.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(flushes) == 0 {
		t.Fatal("expected at least the final flush")
	}
	return append([]scanner.Progress{}, flushes...)
}

// Scenario: statuses 200, 404 and a thrown timeout yield exactly one ok,
// one broken, one error, scanned == 3.
func TestScan_Classification(t *testing.T) {
	p := &fakeProber{
		responses: map[string]*prober.Response{
			"https://ok.example.com":     {OK: true, Status: 200, Method: "HEAD"},
			"https://broken.example.com": {OK: true, Status: 404, Method: "HEAD"},
		},
		errs: map[string]error{
			"https://slow.example.com": errors.New("Timeout"),
		},
	}

	flushes := runScan(t, p, snapshot(
		"https://ok.example.com",
		"https://broken.example.com",
		"https://slow.example.com",
	), scanner.Options{})

	final := flushes[len(flushes)-1]
	if final.State != scanner.StateDone {
		t.Fatalf("state: got %s, want done", final.State)
	}
	if final.Scanned != 3 || final.OK != 1 || final.Broken != 1 || final.Errored != 1 {
		t.Errorf("counters: %+v", final)
	}

	// Results are completion-ordered; key on bookmark id.
	byID := make(map[string]scanner.Result)
	for _, r := range final.Results {
		byID[r.BookmarkID] = r
	}
	if byID["a"].Status != scanner.StatusOK || byID["a"].HTTPStatus != 200 {
		t.Errorf("ok result: %+v", byID["a"])
	}
	if byID["b"].Status != scanner.StatusBroken || byID["b"].HTTPStatus != 404 {
		t.Errorf("broken result: %+v", byID["b"])
	}
	if byID["c"].Status != scanner.StatusError || byID["c"].Error != "Timeout" {
		t.Errorf("error result: %+v", byID["c"])
	}
}

// ok + broken + error == scanned <= total must hold at every flush.
func TestScan_CounterInvariant(t *testing.T) {
	urls := make([]string, 40)
	for i := range urls {
		urls[i] = "https://ok.example.com"
	}
	p := &fakeProber{delay: 20 * time.Millisecond}

	flushes := runScan(t, p, snapshot(urls...), scanner.Options{})
	for _, f := range flushes {
		if f.OK+f.Broken+f.Errored != f.Scanned {
			t.Errorf("flush %+v: counters do not sum to scanned", f)
		}
		if f.Scanned > f.Total {
			t.Errorf("flush %+v: scanned exceeds total", f)
		}
		if len(f.Results) != f.Scanned {
			t.Errorf("flush %+v: %d results for %d scanned", f, len(f.Results), f.Scanned)
		}
	}
	final := flushes[len(flushes)-1]
	if final.Scanned != 40 {
		t.Errorf("final scanned: got %d, want 40", final.Scanned)
	}
}

// While the scan runs the observer sees at most one flush per interval, no
// matter how fast results complete.
func TestScan_FlushesAreCoalesced(t *testing.T) {
	urls := make([]string, 96)
	for i := range urls {
		urls[i] = "https://ok.example.com"
	}
	p := &fakeProber{delay: 50 * time.Millisecond}

	orch := scanner.New(p)
	var mu sync.Mutex
	var running []time.Time
	orch.Start(snapshot(urls...), scanner.Options{}, func(pr scanner.Progress) {
		if pr.State != scanner.StateRunning {
			return
		}
		mu.Lock()
		running = append(running, time.Now())
		mu.Unlock()
	})
	orch.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(running) < 2 {
		t.Fatalf("expected several running flushes, got %d", len(running))
	}
	// Allow a little scheduling slack under the interval.
	minGap := scanner.FlushInterval - 20*time.Millisecond
	for i := 1; i < len(running); i++ {
		if gap := running[i].Sub(running[i-1]); gap < minGap {
			t.Errorf("flushes %d and %d only %v apart, want at least %v", i-1, i, gap, scanner.FlushInterval)
		}
	}
}

func TestScan_EmptyURLShortCircuits(t *testing.T) {
	p := &fakeProber{}
	flushes := runScan(t, p, []document.FlatBookmark{
		{ID: "a", Title: "No URL", URL: ""},
	}, scanner.Options{})

	final := flushes[len(flushes)-1]
	if final.Errored != 1 || final.Scanned != 1 {
		t.Errorf("counters: %+v", final)
	}
	if final.Results[0].Error != "Missing URL" {
		t.Errorf("error text: got %q", final.Results[0].Error)
	}
	if p.callCount() != 0 {
		t.Error("prober must not be called for an empty URL")
	}
}

func TestScan_SkipDomains(t *testing.T) {
	p := &fakeProber{}
	flushes := runScan(t, p, snapshot("https://private.example.com/repo"),
		scanner.Options{SkipDomains: []string{"private.example.com"}})

	final := flushes[len(flushes)-1]
	if final.Errored != 1 {
		t.Errorf("counters: %+v", final)
	}
	if p.callCount() != 0 {
		t.Error("prober must not be called for a skipped domain")
	}
}

func TestScan_Cancellation(t *testing.T) {
	urls := make([]string, 64)
	for i := range urls {
		urls[i] = "https://slow.example.com"
	}
	p := &fakeProber{delay: 50 * time.Millisecond}

	orch := scanner.New(p)
	var mu sync.Mutex
	var final scanner.Progress
	orch.Start(snapshot(urls...), scanner.Options{}, func(pr scanner.Progress) {
		mu.Lock()
		final = pr
		mu.Unlock()
	})

	time.Sleep(80 * time.Millisecond)
	orch.Stop()
	orch.Stop() // idempotent
	orch.Wait()

	mu.Lock()
	defer mu.Unlock()
	if final.State != scanner.StateStopped {
		t.Fatalf("state: got %s, want stopped", final.State)
	}
	if final.Scanned >= 64 {
		t.Error("cancellation should have cut the scan short")
	}
	if final.OK+final.Broken+final.Errored != final.Scanned {
		t.Errorf("counters do not sum after cancellation: %+v", final)
	}
}

func TestScan_StopWhenIdle(t *testing.T) {
	orch := scanner.New(&fakeProber{})
	orch.Stop() // no scan running: must not panic or block
	orch.Wait()
}

// A nil prober response means the prober observed cancellation: the worker
// stops without counting the item.
func TestScan_NilResponseStopsWorker(t *testing.T) {
	p := &fakeProber{
		responses: map[string]*prober.Response{
			"https://gone.example.com": nil,
		},
	}
	flushes := runScan(t, p, snapshot("https://gone.example.com"), scanner.Options{})

	final := flushes[len(flushes)-1]
	if final.Scanned != 0 {
		t.Errorf("nil response must not be counted, scanned = %d", final.Scanned)
	}
}

// Starting a new scan cancels and fully drains the previous one, so an old
// run's counters never bleed into the new run's flushes.
func TestScan_RestartDrainsPrevious(t *testing.T) {
	p := &fakeProber{delay: 30 * time.Millisecond}
	orch := scanner.New(p)

	firstID := orch.Start(snapshot("https://one.example.com", "https://two.example.com"),
		scanner.Options{}, func(scanner.Progress) {})

	var mu sync.Mutex
	var flushes []scanner.Progress
	secondID := orch.Start(snapshot("https://three.example.com"), scanner.Options{}, func(pr scanner.Progress) {
		mu.Lock()
		flushes = append(flushes, pr)
		mu.Unlock()
	})
	orch.Wait()

	if firstID == secondID {
		t.Fatal("each run must have its own id")
	}

	mu.Lock()
	defer mu.Unlock()
	final := flushes[len(flushes)-1]
	if final.RunID != secondID {
		t.Errorf("flush from wrong run: %s", final.RunID)
	}
	if final.Total != 1 || final.Scanned != 1 {
		t.Errorf("second run sees stale state: %+v", final)
	}
	if final.State != scanner.StateDone {
		t.Errorf("state: got %s, want done", final.State)
	}
}

func TestClampTimeout(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"zero defaults", 0, scanner.DefaultTimeout},
		{"negative defaults", -time.Second, scanner.DefaultTimeout},
		{"below minimum clamps up", time.Second, scanner.MinTimeout},
		{"above maximum clamps down", time.Minute, scanner.MaxTimeout},
		{"in range passes through", 5 * time.Second, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scanner.ClampTimeout(tt.in); got != tt.want {
				t.Errorf("ClampTimeout(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
