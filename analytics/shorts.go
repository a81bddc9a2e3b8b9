package analytics

import (
	"math"
)

// DefaultShortsThreshold is the duration in seconds below which a video
// counts as a short.
const DefaultShortsThreshold = 60

// Segment aggregates one side of the shorts split.
type Segment struct {
	Videos      int                `json:"videos"`
	Share       float64            `json:"share"`
	TotalViews  int64              `json:"total_views"`
	AvgViews    float64            `json:"avg_views"`
	MedianViews float64            `json:"median_views"`
	Channels    []ChannelStat      `json:"channels"`
	Summaries   map[string]Summary `json:"summaries"`
	Weekly      []WeekPoint        `json:"weekly"`
	Top         []Row              `json:"-"`
}

// Comparison sets one metric of shorts against regular videos. Diff is the
// relative difference in percent and nil when the regular value is zero.
type Comparison struct {
	Metric  string   `json:"metric"`
	Shorts  float64  `json:"shorts"`
	Regular float64  `json:"regular"`
	Diff    *float64 `json:"diff_percent"`
}

type ShortsImpact struct {
	Threshold  int64        `json:"threshold"`
	Shorts     Segment      `json:"shorts"`
	Regular    Segment      `json:"regular"`
	Comparison []Comparison `json:"comparison"`
}

// SplitShorts separates rows shorter than threshold seconds from the rest.
// Rows with an unknown duration are in neither.
func SplitShorts(rows []Row, threshold int64) (shorts, regular []Row) {
	shorts, regular = []Row{}, []Row{}
	for _, r := range rows {
		d := r.Video.DurationSeconds
		switch {
		case d == nil:
		case *d < threshold:
			shorts = append(shorts, r)
		default:
			regular = append(regular, r)
		}
	}

	return shorts, regular
}

// Impact compares the performance of shorts with regular videos. Comparison
// stays empty unless both sides have videos.
func Impact(rows []Row, threshold int64) ShortsImpact {
	shorts, regular := SplitShorts(rows, threshold)
	total := len(shorts) + len(regular)
	impact := ShortsImpact{
		Threshold:  threshold,
		Shorts:     segment(shorts, total),
		Regular:    segment(regular, total),
		Comparison: []Comparison{},
	}
	if len(shorts) == 0 || len(regular) == 0 {
		return impact
	}

	s, r := impact.Shorts, impact.Regular
	impact.Comparison = []Comparison{
		compare("average views", s.AvgViews, r.AvgViews),
		compare("median views", s.MedianViews, r.MedianViews),
		compare("total views", float64(s.TotalViews), float64(r.TotalViews)),
		compare("video count", float64(s.Videos), float64(r.Videos)),
	}

	return impact
}

func segment(rows []Row, total int) Segment {
	seg := Segment{
		Videos:     len(rows),
		TotalViews: totalViews(rows),
		Channels:   ChannelStats(rows),
		Summaries:  map[string]Summary{},
		Weekly:     Weekly(rows),
		Top:        TopVideos(rows, 10),
	}
	if total > 0 {
		seg.Share = float64(len(rows)) / float64(total) * 100
	}
	overall := Describe(rows)
	seg.AvgViews = overall.Mean
	seg.MedianViews = overall.P50

	perChannel := map[string][]Row{}
	for _, r := range rows {
		perChannel[r.Video.ChannelTitle] = append(perChannel[r.Video.ChannelTitle], r)
	}
	for title, cr := range perChannel {
		seg.Summaries[title] = Describe(cr)
	}

	return seg
}

func compare(metric string, shorts, regular float64) Comparison {
	c := Comparison{Metric: metric, Shorts: shorts, Regular: regular}
	if regular > 0 {
		diff := math.Round((shorts/regular-1)*1000) / 10
		c.Diff = &diff
	}

	return c
}
