package analytics

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type WeekPoint struct {
	YearWeek     string `json:"year_week"`
	ChannelTitle string `json:"channel_title"`
	Videos       int    `json:"videos"`
	AvgViews     int64  `json:"avg_views"`
}

// YearWeek labels the ISO week of the row, e.g. "2024-W07".
func YearWeek(r Row) string {
	year, week := r.Published.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// Weekly averages views per channel and ISO week. Every channel gets a point
// for every week present in the rows, with zero where it published nothing.
// Points are ordered by channel, then week.
func Weekly(rows []Row) []WeekPoint {
	type cell struct {
		videos int
		known  int
		views  int64
	}
	cells := map[string]map[string]*cell{}
	weekSet := map[string]bool{}
	for _, r := range rows {
		title, week := r.Video.ChannelTitle, YearWeek(r)
		weekSet[week] = true
		if cells[title] == nil {
			cells[title] = map[string]*cell{}
		}
		c, ok := cells[title][week]
		if !ok {
			c = &cell{}
			cells[title][week] = c
		}
		c.videos++
		if r.HasViews() {
			c.known++
			c.views += r.Views()
		}
	}

	weeks := maps.Keys(weekSet)
	slices.Sort(weeks)

	points := make([]WeekPoint, 0, len(cells)*len(weeks))
	for _, title := range Channels(rows) {
		for _, week := range weeks {
			p := WeekPoint{YearWeek: week, ChannelTitle: title}
			if c, ok := cells[title][week]; ok {
				p.Videos = c.videos
				if c.known > 0 {
					p.AvgViews = int64(math.Round(float64(c.views) / float64(c.known)))
				}
			}
			points = append(points, p)
		}
	}

	return points
}

// WeekVideos returns the rows published in the given ISO week, most viewed
// first.
func WeekVideos(rows []Row, yearWeek string) ([]Row, error) {
	var year, week int
	if _, err := fmt.Sscanf(strings.TrimSpace(yearWeek), "%d-W%d", &year, &week); err != nil {
		return nil, fmt.Errorf("invalid week %q, expected YYYY-Www: %w", yearWeek, err)
	}
	if week < 1 || week > 53 {
		return nil, fmt.Errorf("invalid week %q: week out of range", yearWeek)
	}

	matched := []Row{}
	for _, r := range rows {
		y, w := r.Published.ISOWeek()
		if y == year && w == week {
			matched = append(matched, r)
		}
	}

	return byViews(matched), nil
}
