package fetch

import (
	"context"

	"ewintr.nl/ytdash/model"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

const (
	// upstream hard limits, per page and per id lookup
	maxPageSize      = 50
	detailsBatchSize = 50

	DefaultMaxPages = 3
)

type Result struct {
	Listings []Listing
	Warnings []*Warning
}

type DetailsResult struct {
	Details  map[model.YoutubeVideoID]Details
	Warnings []*Warning
}

type Fetcher struct {
	channelReader  ChannelReader
	detailsFetcher DetailsFetcher
	maxPages       int
	limiter        *rate.Limiter
	logger         *slog.Logger
}

// NewFetcher creates a fetcher. A nil limiter means requests are not paced.
func NewFetcher(channelReader ChannelReader, detailsFetcher DetailsFetcher, maxPages int, limiter *rate.Limiter, logger *slog.Logger) *Fetcher {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return &Fetcher{
		channelReader:  channelReader,
		detailsFetcher: detailsFetcher,
		maxPages:       maxPages,
		limiter:        limiter,
		logger:         logger,
	}
}

// Listings pages through the recent uploads of every channel according to
// the strategy. A failure on one channel is recorded as a warning and the
// next channel is tried.
func (f *Fetcher) Listings(ctx context.Context, channelIDs []model.YoutubeChannelID, strategy Strategy) Result {
	res := Result{Listings: []Listing{}}
	if !strategy.FetchNeeded {
		f.logger.Info("skipping fetch, cache is up to date")
		return res
	}

	total := strategy.MaxResultsPerChannel
	if total <= 0 {
		total = maxPageSize * f.maxPages
	}
	pageSize := min(maxPageSize, total)

	f.logger.Info("fetching videos", slog.Time("from", strategy.From), slog.Int("maxresults", total), slog.Int("channels", len(channelIDs)))
	for _, channelID := range channelIDs {
		listings, warning := f.channel(ctx, channelID, strategy, pageSize, total)
		res.Listings = append(res.Listings, listings...)
		if warning != nil {
			res.Warnings = append(res.Warnings, warning)
		}
	}

	return res
}

func (f *Fetcher) channel(ctx context.Context, channelID model.YoutubeChannelID, strategy Strategy, pageSize, total int) ([]Listing, *Warning) {
	listings := []Listing{}
	token := ""
	for page := 0; len(listings) < total && page < f.maxPages && (page == 0 || token != ""); page++ {
		f.logger.Info("fetching video page", slog.String("channelid", string(channelID)), slog.Int("page", page+1), slog.String("pagetoken", token))
		if err := f.limiter.Wait(ctx); err != nil {
			return listings, newWarning(string(channelID), page+1, err)
		}
		result, err := f.channelReader.Search(ctx, channelID, SearchOptions{
			PublishedAfter: strategy.From,
			PageSize:       pageSize,
			PageToken:      token,
		})
		if err != nil {
			w := newWarning(string(channelID), page+1, err)
			f.logger.Error("failed to fetch video page", slog.String("channelid", string(channelID)), slog.Int("page", page+1), slog.String("kind", string(w.Kind)), slog.String("error", err.Error()))
			return listings, w
		}
		if len(result.Listings) == 0 {
			f.logger.Info("no videos on page", slog.String("channelid", string(channelID)), slog.Int("page", page+1))
			break
		}

		listings = append(listings, result.Listings...)
		token = result.NextPageToken
		f.logger.Info("fetched video page", slog.String("channelid", string(channelID)), slog.Int("page", page+1), slog.Int("count", len(result.Listings)), slog.Int("total", len(listings)))
	}

	return listings, nil
}

// Details looks up statistics in batches of at most fifty ids. A failed
// batch is recorded and the remaining batches still run.
func (f *Fetcher) Details(ctx context.Context, ids []model.YoutubeVideoID) DetailsResult {
	res := DetailsResult{Details: map[model.YoutubeVideoID]Details{}}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return res
	}

	for start, batch := 0, 1; start < len(ids); start, batch = start+detailsBatchSize, batch+1 {
		end := min(start+detailsBatchSize, len(ids))
		if err := f.limiter.Wait(ctx); err != nil {
			res.Warnings = append(res.Warnings, newWarning("", batch, err))
			return res
		}
		details, err := f.detailsFetcher.FetchDetails(ctx, ids[start:end])
		if err != nil {
			w := newWarning("", batch, err)
			f.logger.Error("failed to fetch video details", slog.Int("batch", batch), slog.String("kind", string(w.Kind)), slog.String("error", err.Error()))
			res.Warnings = append(res.Warnings, w)
			continue
		}
		for id, d := range details {
			res.Details[id] = d
		}
		f.logger.Info("fetched video details", slog.Int("batch", batch), slog.Int("count", len(details)))
	}

	return res
}

func uniqueIDs(ids []model.YoutubeVideoID) []model.YoutubeVideoID {
	seen := make(map[model.YoutubeVideoID]bool, len(ids))
	unique := make([]model.YoutubeVideoID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	return unique
}
