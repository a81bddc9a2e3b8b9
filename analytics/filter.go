package analytics

import (
	"time"

	"ewintr.nl/ytdash/model"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// MinRegularSeconds is the shortest duration kept when shorts are excluded.
const MinRegularSeconds = 61

// Row is a cached video with its publication time parsed.
type Row struct {
	Video     *model.Video
	Published time.Time
}

// Views returns the view count, treating an unknown count as zero.
func (r Row) Views() int64 {
	if r.Video.Views == nil {
		return 0
	}
	return *r.Video.Views
}

func (r Row) HasViews() bool {
	return r.Video.Views != nil
}

// Filter narrows the table down. Zero values mean no restriction. From and To
// are compared by calendar date and are inclusive.
type Filter struct {
	Channels      []string
	From          time.Time
	To            time.Time
	ExcludeShorts bool
}

// View is the filtered table. Dropped counts rows whose publication time
// could not be parsed.
type View struct {
	Rows    []Row
	Dropped int
}

func Apply(table *model.Table, f Filter) View {
	view := View{Rows: []Row{}}
	if table.Empty() {
		return view
	}

	var channels map[string]bool
	if len(f.Channels) > 0 {
		channels = make(map[string]bool, len(f.Channels))
		for _, c := range f.Channels {
			channels[c] = true
		}
	}
	from, to := dateOf(f.From), dateOf(f.To)

	for _, v := range table.Videos {
		published, err := v.Published()
		if err != nil {
			view.Dropped++
			continue
		}
		if channels != nil && !channels[v.ChannelTitle] {
			continue
		}
		day := dateOf(published)
		if !from.IsZero() && day.Before(from) {
			continue
		}
		if !to.IsZero() && day.After(to) {
			continue
		}
		if f.ExcludeShorts && (v.DurationSeconds == nil || *v.DurationSeconds < MinRegularSeconds) {
			continue
		}
		view.Rows = append(view.Rows, Row{Video: v, Published: published})
	}

	return view
}

// Channels lists the distinct channel titles in the rows, sorted.
func Channels(rows []Row) []string {
	seen := map[string]bool{}
	for _, r := range rows {
		seen[r.Video.ChannelTitle] = true
	}
	titles := maps.Keys(seen)
	slices.Sort(titles)

	return titles
}

func dateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
