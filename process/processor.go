package process

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ewintr.nl/ytdash/fetch"
	"ewintr.nl/ytdash/model"
	"ewintr.nl/ytdash/storage"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var ErrSyncInProgress = errors.New("sync already in progress")

// Report describes one sync cycle.
type Report struct {
	RunID    uuid.UUID
	Started  time.Time
	Took     time.Duration
	Decision fetch.Decision
	Fetched  int
	Stats    Stats
	Rows     int
	Warnings []*fetch.Warning
}

// Pipeline runs sync cycles: select a strategy, fetch, reconcile and save.
// Cycles never overlap.
type Pipeline struct {
	mu       sync.Mutex
	repo     storage.VideoRepository
	selector *fetch.Selector
	fetcher  *fetch.Fetcher
	channels model.ChannelSet
	logger   *slog.Logger
}

func NewPipeline(repo storage.VideoRepository, selector *fetch.Selector, fetcher *fetch.Fetcher, channels model.ChannelSet, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		repo:     repo,
		selector: selector,
		fetcher:  fetcher,
		channels: channels,
		logger:   logger,
	}
}

// Run syncs once and then again on every tick until ctx is done. A zero
// interval means a single sync.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) {
	p.logger.Info("started sync pipeline", slog.Duration("interval", interval))
	p.runOnce(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopped sync pipeline")
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Pipeline) runOnce(ctx context.Context) {
	if _, err := p.Sync(ctx); err != nil {
		p.logger.Error("sync failed", slog.String("error", err.Error()))
	}
}

// Sync runs a single cycle. Request failures end up as warnings in the
// report; only a cache that cannot be read back or written is an error.
func (p *Pipeline) Sync(ctx context.Context) (*Report, error) {
	if !p.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer p.mu.Unlock()

	report := &Report{
		RunID:   uuid.New(),
		Started: time.Now(),
	}
	logger := p.logger.With(slog.String("runid", report.RunID.String()))
	defer func() {
		report.Took = time.Since(report.Started)
	}()

	report.Decision = p.selector.Select(ctx)
	if !report.Decision.FetchNeeded {
		logger.Info("skipping fetch", slog.String("reason", report.Decision.Reason))
		return report, nil
	}

	listings := p.fetcher.Listings(ctx, p.channels.IDs(), report.Decision.Strategy)
	report.Warnings = append(report.Warnings, listings.Warnings...)
	report.Fetched = len(listings.Listings)
	if report.Fetched == 0 {
		logger.Info("no videos fetched", slog.Int("warnings", len(report.Warnings)))
		return report, nil
	}

	ids := make([]model.YoutubeVideoID, 0, len(listings.Listings))
	for _, l := range listings.Listings {
		ids = append(ids, l.VideoID)
	}
	details := p.fetcher.Details(ctx, ids)
	report.Warnings = append(report.Warnings, details.Warnings...)

	existing, err := p.repo.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("could not load cache: %w", err)
	}
	merged, stats := Reconcile(existing, Build(listings.Listings, details.Details))
	if err := p.repo.Save(ctx, merged); err != nil {
		return report, fmt.Errorf("could not save cache: %w", err)
	}
	report.Stats = stats
	report.Rows = len(merged.Videos)

	logger.Info("sync finished",
		slog.Int("fetched", report.Fetched),
		slog.Int("inserted", stats.Inserted),
		slog.Int("updated", stats.Updated),
		slog.Int("rows", report.Rows),
		slog.Int("warnings", len(report.Warnings)),
	)

	return report, nil
}
