package analytics

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

type ChannelStat struct {
	ChannelTitle string `json:"channel_title"`
	Videos       int    `json:"videos"`
	TotalViews   int64  `json:"total_views"`
	AvgViews     int64  `json:"avg_views"`
}

// Summary describes a distribution of view counts. Std is the sample
// standard deviation and zero for fewer than two values.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	P25   float64 `json:"p25"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
	Max   float64 `json:"max"`
}

// ChannelStats aggregates the rows per channel, highest total views first.
// Rows without a view count add to the video count only.
func ChannelStats(rows []Row) []ChannelStat {
	byChannel := map[string]*ChannelStat{}
	known := map[string]int{}
	for _, r := range rows {
		title := r.Video.ChannelTitle
		cs, ok := byChannel[title]
		if !ok {
			cs = &ChannelStat{ChannelTitle: title}
			byChannel[title] = cs
		}
		cs.Videos++
		if r.HasViews() {
			cs.TotalViews += r.Views()
			known[title]++
		}
	}

	stats := make([]ChannelStat, 0, len(byChannel))
	for title, cs := range byChannel {
		if n := known[title]; n > 0 {
			cs.AvgViews = int64(math.Round(float64(cs.TotalViews) / float64(n)))
		}
		stats = append(stats, *cs)
	}
	slices.SortFunc(stats, func(a, b ChannelStat) int {
		if a.TotalViews != b.TotalViews {
			if a.TotalViews > b.TotalViews {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ChannelTitle, b.ChannelTitle)
	})

	return stats
}

// TopVideos returns the n most viewed rows. Ties keep their table order.
func TopVideos(rows []Row, n int) []Row {
	top := byViews(rows)
	if n >= 0 && len(top) > n {
		top = top[:n]
	}

	return top
}

// Describe summarizes the known view counts of the rows.
func Describe(rows []Row) Summary {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		if r.HasViews() {
			values = append(values, float64(r.Views()))
		}
	}
	if len(values) == 0 {
		return Summary{}
	}
	slices.Sort(values)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var std float64
	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			sq += (v - mean) * (v - mean)
		}
		std = math.Sqrt(sq / float64(len(values)-1))
	}

	return Summary{
		Count: len(values),
		Mean:  mean,
		Std:   std,
		Min:   values[0],
		P25:   quantile(values, 0.25),
		P50:   quantile(values, 0.5),
		P75:   quantile(values, 0.75),
		Max:   values[len(values)-1],
	}
}

// quantile interpolates linearly between the closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}

	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func byViews(rows []Row) []Row {
	sorted := append([]Row{}, rows...)
	slices.SortStableFunc(sorted, func(a, b Row) int {
		switch {
		case a.Views() > b.Views():
			return -1
		case a.Views() < b.Views():
			return 1
		}
		return 0
	})

	return sorted
}

func totalViews(rows []Row) int64 {
	var total int64
	for _, r := range rows {
		total += r.Views()
	}

	return total
}
