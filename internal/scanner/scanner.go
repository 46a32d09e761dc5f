// Package scanner runs bounded-concurrency liveness scans over a bookmark
// snapshot.
package scanner

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/prober"
)

// Concurrency is the number of in-flight checks a scan keeps open.
const Concurrency = 8

// Timeout bounds for a single probe. Out-of-range or unset values fall
// back to DefaultTimeout.
const (
	MinTimeout     = 1500 * time.Millisecond
	MaxTimeout     = 20 * time.Second
	DefaultTimeout = 8 * time.Second
)

// FlushInterval coalesces progress updates: observers see at most one
// flush per interval while the scan runs, plus one final flush.
const FlushInterval = 200 * time.Millisecond

// Status classifies one scanned bookmark.
type Status string

const (
	StatusOK     Status = "ok"
	StatusBroken Status = "broken"
	StatusError  Status = "error"
)

// State is a scan's lifecycle phase.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"    // cursor exhausted, not cancelled
	StateStopped State = "stopped" // cancellation observed
	StateError   State = "error"   // unexpected failure outside per-item handling
)

// Result is the outcome for one bookmark. Results accumulate in completion
// order, which is not the snapshot order; consumers key on BookmarkID.
type Result struct {
	BookmarkID string
	URL        string
	Status     Status
	HTTPStatus int // 0 when no response was obtained
	Error      string
	Duration   time.Duration
}

// Progress is a consistent snapshot of a running or finished scan.
// ok + broken + errored == scanned <= total holds at every flush.
type Progress struct {
	RunID   string
	State   State
	Total   int
	Scanned int
	OK      int
	Broken  int
	Errored int
	Results []Result
}

// Prober is the external liveness-check collaborator.
type Prober interface {
	Probe(ctx context.Context, rawURL string, timeout time.Duration) (*prober.Response, error)
}

// Options configures one scan run.
type Options struct {
	Timeout     time.Duration
	SkipDomains []string // hosts recorded as errors without probing
}

// ClampTimeout normalizes a requested probe timeout into the allowed range,
// substituting the default for unset or invalid values.
func ClampTimeout(t time.Duration) time.Duration {
	if t <= 0 {
		return DefaultTimeout
	}
	if t < MinTimeout {
		return MinTimeout
	}
	if t > MaxTimeout {
		return MaxTimeout
	}
	return t
}

// Observer receives coalesced progress flushes. Called from the scan's
// flush goroutine; implementations must not block for long.
type Observer func(Progress)

// run is the mutable state of one scan invocation. Each Start creates a
// fresh run, so an old scan's counters can never bleed into a new one.
type run struct {
	id       string
	snapshot []document.FlatBookmark
	timeout  time.Duration
	skip     map[string]bool

	cursor atomic.Int64
	cancel context.CancelFunc

	mu      sync.Mutex
	scanned int
	ok      int
	broken  int
	errored int
	results []Result
	state   State
	dirty   bool

	done chan struct{}
}

// Orchestrator runs at most one scan at a time. Starting a new scan first
// cancels and fully drains the previous one, including its flush timer.
type Orchestrator struct {
	prober Prober

	mu      sync.Mutex
	current *run
}

// New creates an orchestrator around the given prober.
func New(p Prober) *Orchestrator {
	return &Orchestrator{prober: p}
}

// Start begins scanning the snapshot and returns the run id. The observer
// receives throttled progress while the scan runs and exactly one final
// flush in a terminal state. Edits to the tree after Start do not retarget
// the scan; the snapshot is immutable.
func (o *Orchestrator) Start(snapshot []document.FlatBookmark, opts Options, observe Observer) string {
	o.Stop()
	o.Wait()

	skip := make(map[string]bool, len(opts.SkipDomains))
	for _, d := range opts.SkipDomains {
		skip[strings.ToLower(d)] = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		id:       uuid.New().String(),
		snapshot: snapshot,
		timeout:  ClampTimeout(opts.Timeout),
		skip:     skip,
		cancel:   cancel,
		state:    StateRunning,
		done:     make(chan struct{}),
	}

	o.mu.Lock()
	o.current = r
	o.mu.Unlock()

	go o.scan(ctx, r, observe)
	return r.id
}

// Stop requests cancellation of the active scan. Idempotent; a no-op when
// nothing is running.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	r := o.current
	o.mu.Unlock()
	if r != nil {
		r.cancel()
	}
}

// Wait blocks until the active scan (if any) has fully finished, including
// its final flush.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	r := o.current
	o.mu.Unlock()
	if r != nil {
		<-r.done
	}
}

func (o *Orchestrator) scan(ctx context.Context, r *run, observe Observer) {
	defer close(r.done)

	workers := Concurrency
	if n := len(r.snapshot); n < workers {
		workers = n
	}

	// Flush loop: coalesces bursts of results into at most one observer
	// call per interval.
	flushDone := make(chan struct{})
	flushStop := make(chan struct{})
	go func() {
		defer close(flushDone)
		ticker := time.NewTicker(FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if p, dirty := r.snapshotProgress(false); dirty {
					observe(p)
				}
			case <-flushStop:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.worker(ctx, r)
		}()
	}
	wg.Wait()

	close(flushStop)
	<-flushDone

	r.mu.Lock()
	if r.state == StateRunning {
		if ctx.Err() != nil {
			r.state = StateStopped
		} else {
			r.state = StateDone
		}
	}
	r.mu.Unlock()

	// Mandatory final flush, regardless of how the scan ended.
	p, _ := r.snapshotProgress(true)
	observe(p)
}

// worker claims snapshot items off the shared cursor until it is exhausted
// or cancellation is observed.
func (o *Orchestrator) worker(ctx context.Context, r *run) {
	defer func() {
		if rec := recover(); rec != nil {
			// A failure outside per-item handling poisons the whole scan.
			r.mu.Lock()
			r.state = StateError
			r.mu.Unlock()
			r.cancel()
		}
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		i := int(r.cursor.Add(1)) - 1
		if i >= len(r.snapshot) {
			return
		}
		fb := r.snapshot[i]

		res, stop := o.check(ctx, r, fb)
		if stop {
			return
		}
		r.record(res)
	}
}

// check probes one bookmark. The bool result means "worker must stop
// without counting this item" and is set only for cancellation.
func (o *Orchestrator) check(ctx context.Context, r *run, fb document.FlatBookmark) (Result, bool) {
	res := Result{BookmarkID: fb.ID, URL: fb.URL}

	if fb.URL == "" {
		res.Status = StatusError
		res.Error = "Missing URL"
		return res, false
	}
	if host := hostOf(fb.URL); host != "" && r.skip[host] {
		res.Status = StatusError
		res.Error = fmt.Sprintf("Skipped domain %s", host)
		return res, false
	}

	resp, err := o.prober.Probe(ctx, fb.URL, r.timeout)
	if err != nil {
		if err == prober.ErrCancelled || ctx.Err() != nil {
			return Result{}, true
		}
		res.Status = StatusError
		res.Error = err.Error()
		return res, false
	}
	if resp == nil {
		// The prober surfacing cancellation as an absent result also
		// stops the worker.
		return Result{}, true
	}

	res.Duration = resp.Duration
	switch {
	case !resp.OK:
		res.Status = StatusError
		res.Error = resp.Err
		if res.Error == "" {
			res.Error = "Check failed"
		}
	case resp.Status >= 400:
		res.Status = StatusBroken
		res.HTTPStatus = resp.Status
	default:
		res.Status = StatusOK
		res.HTTPStatus = resp.Status
	}
	return res, false
}

// record appends a result and bumps exactly one counter.
func (r *run) record(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch res.Status {
	case StatusOK:
		r.ok++
	case StatusBroken:
		r.broken++
	default:
		r.errored++
	}
	r.scanned++
	r.results = append(r.results, res)
	r.dirty = true
}

// snapshotProgress copies the run's counters and results under the lock.
// When force is false the copy only happens if there is something new to
// report, and the dirty flag is consumed.
func (r *run) snapshotProgress(force bool) (Progress, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !force && !r.dirty {
		return Progress{}, false
	}
	r.dirty = false
	return Progress{
		RunID:   r.id,
		State:   r.state,
		Total:   len(r.snapshot),
		Scanned: r.scanned,
		OK:      r.ok,
		Broken:  r.broken,
		Errored: r.errored,
		Results: append([]Result{}, r.results...),
	}, true
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
