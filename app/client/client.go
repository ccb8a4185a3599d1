package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/akardan/newsbrief/app/news"
)

type State string

const (
	StateIdle               State = "idle"
	StateAttemptingLive     State = "attempting_live"
	StateFellBackToSnapshot State = "fell_back_to_snapshot"
	StateOfflineBypassed    State = "offline_bypassed"
	StateReady              State = "ready"
	StateFailed             State = "failed"
)

// LiveError covers timeout and transport failures against the live
// retrieval endpoint. The initial load falls back silently on it; manual
// refresh surfaces it.
type LiveError struct {
	Timeout bool
	Err     error
}

func (e *LiveError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("live fetch timed out: %v", e.Err)
	}
	return fmt.Sprintf("live fetch failed: %v", e.Err)
}

func (e *LiveError) Unwrap() error {
	return e.Err
}

// Result is what the pipeline hands to the presentation layer.
type Result struct {
	Items         []news.Item
	FromSnapshot  bool
	LastTriggerAt *time.Time
}

type Options struct {
	// Endpoint is the read-only retrieval URL, e.g. https://host/news.
	Endpoint string
	// Timeout bounds every live attempt. Zero means 25 seconds.
	Timeout time.Duration
	// Offline bypasses the live attempt entirely.
	Offline bool
	// HTTPClient defaults to a plain client; the timeout above still
	// applies through the request context.
	HTTPClient *http.Client
	// OnRefreshTick, when set, receives the elapsed time once per second
	// while a manual refresh is in flight.
	OnRefreshTick func(elapsed time.Duration)
}

var tickInterval = time.Second

type liveResponse struct {
	Success       bool        `json:"success"`
	Count         int         `json:"count"`
	Items         []news.Item `json:"items"`
	LastTriggerAt *time.Time  `json:"lastTriggerAt"`
}

// Pipeline implements the tiered retrieval strategy: live endpoint under a
// timeout, bundled snapshot on failure, explicit offline bypass. The
// consuming application owns one Pipeline per screenful of news.
type Pipeline struct {
	opts      Options
	snapshots *SnapshotCache

	mu    sync.Mutex
	state State
}

func NewPipeline(snapshots *SnapshotCache, opts Options) *Pipeline {
	if opts.Timeout == 0 {
		opts.Timeout = 25 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Pipeline{
		opts:      opts,
		snapshots: snapshots,
		state:     StateIdle,
	}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Load performs the initial retrieval. Live failures degrade silently to
// the snapshot; Failed is reached only when no snapshot exists either.
func (p *Pipeline) Load(ctx context.Context) (*Result, error) {
	if p.opts.Offline {
		p.setState(StateOfflineBypassed)
		return p.loadSnapshot(nil)
	}

	p.setState(StateAttemptingLive)

	result, err := p.fetchLive(ctx)
	if err == nil {
		p.setState(StateReady)
		return result, nil
	}

	slog.Debug("Live fetch failed, falling back to snapshot", "error", err)
	p.setState(StateFellBackToSnapshot)
	return p.loadSnapshot(err)
}

// Refresh re-attempts the live endpoint on demand. Unlike Load it never
// falls back: a failure is returned to the caller to surface to the user.
func (p *Pipeline) Refresh(ctx context.Context) (*Result, error) {
	previous := p.State()
	p.setState(StateAttemptingLive)

	done := make(chan struct{})
	if p.opts.OnRefreshTick != nil {
		go p.tick(done)
	}

	result, err := p.fetchLive(ctx)
	if p.opts.OnRefreshTick != nil {
		close(done)
	}

	if err != nil {
		p.setState(previous)
		return nil, err
	}

	p.setState(StateReady)
	return result, nil
}

func (p *Pipeline) loadSnapshot(liveErr error) (*Result, error) {
	snap, err := p.snapshots.Load()
	if err != nil {
		p.setState(StateFailed)
		if liveErr != nil {
			return nil, errors.Join(liveErr, err)
		}
		return nil, err
	}

	p.setState(StateReady)
	return &Result{
		Items:         snap.Items,
		FromSnapshot:  true,
		LastTriggerAt: &snap.GeneratedAt,
	}, nil
}

func (p *Pipeline) fetchLive(ctx context.Context) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.opts.Endpoint, nil)
	if err != nil {
		return nil, &LiveError{Err: err}
	}

	resp, err := p.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, &LiveError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LiveError{Err: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LiveError{Timeout: isTimeout(err), Err: err}
	}

	var live liveResponse
	if err := json.Unmarshal(data, &live); err != nil {
		return nil, &LiveError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if !live.Success {
		return nil, &LiveError{Err: fmt.Errorf("endpoint reported failure")}
	}

	return &Result{
		Items:         live.Items,
		LastTriggerAt: live.LastTriggerAt,
	}, nil
}

func (p *Pipeline) tick(done <-chan struct{}) {
	started := time.Now()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.opts.OnRefreshTick(time.Since(started))
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
