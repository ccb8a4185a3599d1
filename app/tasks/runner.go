package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/akardan/newsbrief/app/news"
	"github.com/akardan/newsbrief/app/sources"
	"github.com/akardan/newsbrief/app/store"
)

// ErrRunInProgress is returned when another acquisition run holds the
// store lock. Triggers report it to the caller instead of racing the
// load-merge-save sequence.
var ErrRunInProgress = errors.New("acquisition run already in progress")

// summaryFetchLimit bounds article-page fetches per source for summary
// enrichment, keeping run time and upstream load predictable.
const summaryFetchLimit = 5

type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

type RunResult struct {
	Count     int
	Timestamp time.Time
}

// Source pairs an adapter with its per-source acquisition options.
type Source struct {
	Adapter        sources.Adapter
	ExtractSummary bool
}

type Options struct {
	UserAgent     string
	FetchDelay    time.Duration
	SourceTimeout time.Duration
	CollectionTTL time.Duration
	ItemTTL       time.Duration
	MetadataTTL   time.Duration
	LockTTL       time.Duration
}

// Runner executes one acquisition cycle: fetch every source sequentially
// with a politeness delay, normalize, tag, merge against the persisted
// collection and commit the result. All state crosses through the store;
// the runner keeps none between invocations.
type Runner struct {
	store      store.Store
	sources    []Source
	normalizer *news.Normalizer
	tagger     *news.Tagger
	summarizer *news.Summarizer
	httpClient *http.Client
	opts       Options
}

func NewRunner(st store.Store, srcs []Source, tagger *news.Tagger, httpClient *http.Client, opts Options) *Runner {
	if opts.LockTTL == 0 {
		opts.LockTTL = 10 * time.Minute
	}
	return &Runner{
		store:      st,
		sources:    srcs,
		normalizer: news.NewNormalizer(),
		tagger:     tagger,
		summarizer: news.NewSummarizer(),
		httpClient: httpClient,
		opts:       opts,
	}
}

// Run executes a single acquisition cycle. Partial source failures are a
// success case; only store unavailability fails the run. Previously
// committed data is never touched before the new merge is computed.
func (r *Runner) Run(ctx context.Context, trigger Trigger) (*RunResult, error) {
	runID := uuid.NewString()[:8]
	triggeredAt := time.Now().UTC()

	ok, err := r.store.AcquireRunLock(ctx, r.opts.LockTTL)
	if err != nil {
		runsTotal.WithLabelValues(string(trigger), "error").Inc()
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		runsTotal.WithLabelValues(string(trigger), "skipped").Inc()
		return nil, ErrRunInProgress
	}
	defer func() {
		if err := r.store.ReleaseRunLock(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Failed to release run lock", "run_id", runID, "error", err)
		}
	}()

	slog.Info("Acquisition run started", "run_id", runID, "trigger", string(trigger), "sources", len(r.sources))

	batch := r.acquire(ctx, runID)

	existing, err := r.store.LoadCollection(ctx)
	if err != nil {
		runsTotal.WithLabelValues(string(trigger), "error").Inc()
		return nil, fmt.Errorf("failed to load existing collection: %w", err)
	}

	merged := news.Merge(existing, batch)

	if err := r.store.SaveCollection(ctx, merged, r.opts.CollectionTTL); err != nil {
		runsTotal.WithLabelValues(string(trigger), "error").Inc()
		return nil, fmt.Errorf("failed to save merged collection: %w", err)
	}

	// The collection is committed; item and metadata writes are best
	// effort from here on.
	for _, item := range merged {
		if err := r.store.SaveItem(ctx, item, r.opts.ItemTTL); err != nil {
			slog.Warn("Failed to save item record", "run_id", runID, "item", item.ID, "error", err)
			break
		}
	}

	completedAt := time.Now().UTC()
	meta := news.RunMetadata{
		LastFetchAt:         completedAt,
		LastTriggerAt:       triggeredAt,
		TotalItems:          len(merged),
		ContributingSources: contributingSources(merged),
	}
	if err := r.store.SaveMetadata(ctx, meta, r.opts.MetadataTTL); err != nil {
		slog.Warn("Failed to save run metadata", "run_id", runID, "error", err)
	}

	runsTotal.WithLabelValues(string(trigger), "success").Inc()
	runDuration.Observe(completedAt.Sub(triggeredAt).Seconds())
	collectionSize.Set(float64(len(merged)))

	slog.Info("Acquisition run completed",
		"run_id", runID,
		"trigger", string(trigger),
		"fetched", len(batch),
		"merged", len(merged),
		"duration", completedAt.Sub(triggeredAt).String())

	return &RunResult{Count: len(merged), Timestamp: completedAt}, nil
}

// acquire walks the sources sequentially with the mandatory inter-source
// delay. A failing source contributes zero items and never aborts its
// siblings.
func (r *Runner) acquire(ctx context.Context, runID string) []news.Item {
	var batch []news.Item

	for i, src := range r.sources {
		if i > 0 {
			if !r.pause(ctx) {
				slog.Warn("Acquisition cancelled between sources", "run_id", runID)
				return batch
			}
		}

		items := r.acquireSource(ctx, runID, src)
		batch = append(batch, items...)
	}

	return batch
}

func (r *Runner) acquireSource(ctx context.Context, runID string, src Source) []news.Item {
	label := src.Adapter.Label()

	fetchCtx, cancel := context.WithTimeout(ctx, r.opts.SourceTimeout)
	defer cancel()

	raws, err := src.Adapter.Fetch(fetchCtx)
	if err != nil {
		sourceErrorsTotal.WithLabelValues(label).Inc()
		slog.Warn("Source fetch failed, contributing zero items", "run_id", runID, "source", label, "error", err)
		return nil
	}

	enriched := 0
	items := make([]news.Item, 0, len(raws))
	for _, raw := range raws {
		item, err := r.normalizer.Run(raw, src.Adapter.BaseURL())
		if err != nil {
			slog.Debug("Skipping unnormalizable entry", "run_id", runID, "source", label, "error", err)
			continue
		}

		if src.ExtractSummary && item.Summary == "" && enriched < summaryFetchLimit {
			if summary := r.fetchSummary(ctx, item.URL); summary != "" {
				item.Summary = summary
			}
			enriched++
		}

		item.Tags = r.tagger.Run(item.Title + " " + item.Summary)
		items = append(items, item)
	}

	itemsFetchedTotal.WithLabelValues(label).Add(float64(len(items)))
	slog.Debug("Source acquired", "run_id", runID, "source", label, "items", len(items))
	return items
}

// fetchSummary retrieves the article page and extracts a plain-text
// summary. The inter-request delay applies here too; these are extra
// requests against the same origin.
func (r *Runner) fetchSummary(ctx context.Context, pageURL string) string {
	if !r.pause(ctx) {
		return ""
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.opts.SourceTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", r.opts.UserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	data := make([]byte, 0, 64*1024)
	buf := make([]byte, 32*1024)
	for len(data) < 1<<20 {
		n, err := resp.Body.Read(buf)
		data = append(data, buf[:n]...)
		if err != nil {
			break
		}
	}

	summary, err := r.summarizer.Run(data, pageURL)
	if err != nil {
		slog.Debug("Summary extraction failed", "url", pageURL, "error", err)
		return ""
	}
	return summary
}

func (r *Runner) pause(ctx context.Context) bool {
	if r.opts.FetchDelay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(r.opts.FetchDelay):
		return true
	}
}

func contributingSources(items []news.Item) []string {
	seen := make(map[string]bool)
	for _, item := range items {
		seen[item.Source] = true
	}

	out := make([]string, 0, len(seen))
	for source := range seen {
		out = append(out, source)
	}
	sort.Strings(out)
	return out
}
