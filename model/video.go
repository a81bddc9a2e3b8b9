package model

import (
	"fmt"
	"time"

	"ewintr.nl/ytdash/normalize"
)

type YoutubeVideoID string

type YoutubeChannelID string

// Video is one row of the cached table. PublishedAt holds the canonical
// "2006-01-02 15:04:05+00:00" form, or whatever was stored if it never
// normalized.
type Video struct {
	VideoID         YoutubeVideoID
	ChannelID       YoutubeChannelID
	ChannelTitle    string
	Title           string
	Description     string
	PublishedAt     string
	ThumbnailURL    string
	DurationRaw     string
	DurationSeconds *int64
	Views           *int64
	Likes           *int64
}

// Published parses PublishedAt into UTC.
func (v *Video) Published() (time.Time, error) {
	t, err := normalize.ParseTime(v.PublishedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("video %s: %w", v.VideoID, err)
	}

	return t, nil
}

func (v *Video) Clone() *Video {
	c := *v
	c.DurationSeconds = cloneInt(v.DurationSeconds)
	c.Views = cloneInt(v.Views)
	c.Likes = cloneInt(v.Likes)

	return &c
}

func Int(i int64) *int64 {
	return &i
}

func cloneInt(i *int64) *int64 {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
