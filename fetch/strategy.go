package fetch

import (
	"context"
	"fmt"
	"time"

	"ewintr.nl/ytdash/model"
	"ewintr.nl/ytdash/storage"
	"golang.org/x/exp/slog"
)

// Strategy tells the fetcher whether to call the API and how far back to
// look. A zero From or MaxResultsPerChannel means none.
type Strategy struct {
	FetchNeeded          bool
	From                 time.Time
	MaxResultsPerChannel int
}

// Tier maps a staleness bound (inclusive, in days) to the window that is
// fetched again and the per channel result cap.
type Tier struct {
	MaxAgeDays int
	WindowDays int
	MaxResults int
}

// Policy holds the staleness tiers. The windows overlap the staleness
// bounds on purpose so videos missed by an earlier partial fetch come back.
type Policy struct {
	FreshDays int
	Tiers     []Tier
	Bootstrap Tier
}

func DefaultPolicy() Policy {
	return Policy{
		FreshDays: 1,
		Tiers: []Tier{
			{MaxAgeDays: 7, WindowDays: 14, MaxResults: 10},
			{MaxAgeDays: 30, WindowDays: 45, MaxResults: 25},
		},
		Bootstrap: Tier{WindowDays: 365, MaxResults: 250},
	}
}

const (
	ReasonNoCache        = "no cached videos"
	ReasonMissingColumns = "cache lacks published_at or channel_id"
	ReasonNoValidDates   = "no parseable published_at"
	ReasonLoadFailed     = "could not read cache"
	ReasonFresh          = "cache is current"
	ReasonTier           = "cache is recent"
	ReasonStale          = "cache is stale"
)

// Decision is the outcome of a strategy selection, with the facts it was
// based on. Warning is set when selection hit an error and fell back to a
// bootstrap fetch.
type Decision struct {
	Strategy
	Reason  string
	Latest  time.Time
	AgeDays int
	Dropped int
	Warning error
}

type Selector struct {
	repo   storage.VideoRepository
	policy Policy
	now    func() time.Time
	logger *slog.Logger
}

func NewSelector(repo storage.VideoRepository, policy Policy, logger *slog.Logger) *Selector {
	return &Selector{
		repo:   repo,
		policy: policy,
		now:    time.Now,
		logger: logger,
	}
}

func (s *Selector) WithClock(now func() time.Time) *Selector {
	s.now = now
	return s
}

// Select reads the cache and decides what to fetch. It never fails: any
// problem degrades to the bootstrap strategy.
func (s *Selector) Select(ctx context.Context) Decision {
	table, err := s.repo.Load(ctx)
	if err != nil {
		d := s.bootstrap(ReasonLoadFailed)
		d.Warning = fmt.Errorf("could not load cache: %w", err)
		s.logger.Error("failed to load cache, falling back to full fetch", slog.String("error", err.Error()))
		return d
	}

	d := s.Evaluate(table)
	s.logger.Info("selected fetch strategy",
		slog.String("reason", d.Reason),
		slog.Bool("fetch", d.FetchNeeded),
		slog.Int("agedays", d.AgeDays),
		slog.Int("maxresults", d.MaxResultsPerChannel),
		slog.Int("dropped", d.Dropped),
	)

	return d
}

// Evaluate applies the policy to an already loaded table.
func (s *Selector) Evaluate(table *model.Table) Decision {
	if table.Empty() {
		return s.bootstrap(ReasonNoCache)
	}
	if !table.HasColumn(model.ColumnPublishedAt) || !table.HasColumn(model.ColumnChannelID) {
		return s.bootstrap(ReasonMissingColumns)
	}

	var (
		latest  time.Time
		dropped int
	)
	for _, v := range table.Videos {
		published, err := v.Published()
		if err != nil {
			dropped++
			continue
		}
		if published.After(latest) {
			latest = published
		}
	}
	if latest.IsZero() {
		d := s.bootstrap(ReasonNoValidDates)
		d.Dropped = dropped
		return d
	}

	now := s.now().UTC()
	age := ageDays(now.Sub(latest))
	d := Decision{
		Reason:  ReasonStale,
		Latest:  latest,
		AgeDays: age,
		Dropped: dropped,
	}
	if age <= s.policy.FreshDays {
		d.Reason = ReasonFresh
		return d
	}

	tier := s.policy.Bootstrap
	for _, t := range s.policy.Tiers {
		if age <= t.MaxAgeDays {
			tier = t
			d.Reason = ReasonTier
			break
		}
	}
	d.Strategy = tier.strategy(now)

	return d
}

func (s *Selector) bootstrap(reason string) Decision {
	return Decision{
		Strategy: s.policy.Bootstrap.strategy(s.now().UTC()),
		Reason:   reason,
	}
}

func (t Tier) strategy(now time.Time) Strategy {
	return Strategy{
		FetchNeeded:          true,
		From:                 now.AddDate(0, 0, -t.WindowDays).Truncate(time.Second),
		MaxResultsPerChannel: t.MaxResults,
	}
}

// ageDays counts whole days, rounding down like a calendar difference would,
// so anything in the future is negative.
func ageDays(d time.Duration) int {
	day := 24 * time.Hour
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}

	return days
}
