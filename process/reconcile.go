package process

import (
	"ewintr.nl/ytdash/fetch"
	"ewintr.nl/ytdash/model"
	"ewintr.nl/ytdash/normalize"
)

type Stats struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

// Build joins listings with their details into normalized records.
func Build(listings []fetch.Listing, details map[model.YoutubeVideoID]fetch.Details) []*model.Video {
	videos := make([]*model.Video, 0, len(listings))
	for _, l := range listings {
		v := &model.Video{
			VideoID:      l.VideoID,
			ChannelID:    l.ChannelID,
			ChannelTitle: l.ChannelTitle,
			Title:        l.Title,
			Description:  l.Description,
			PublishedAt:  normalize.Timestamp(l.PublishedAt),
			ThumbnailURL: l.ThumbnailURL,
		}
		if d, ok := details[l.VideoID]; ok {
			v.Views = d.Views
			v.Likes = d.Likes
			v.DurationRaw = d.DurationRaw
		}
		setDuration(v)
		videos = append(videos, v)
	}

	return videos
}

// Reconcile merges incoming records into the existing table. Unknown ids are
// appended in incoming order, known ids only get their view and like counts
// refreshed. Neither argument is modified.
func Reconcile(existing *model.Table, incoming []*model.Video) (*model.Table, Stats) {
	stats := Stats{}
	if len(incoming) == 0 {
		if existing == nil {
			return model.NewTable(), stats
		}
		return existing, stats
	}

	merged := existing.Clone()
	merged.Columns = append([]string{}, model.Columns...)
	for _, v := range merged.Videos {
		if v.DurationSeconds == nil && v.DurationRaw != "" {
			setDuration(v)
		}
	}

	idx := merged.Index()
	for _, in := range incoming {
		i, ok := idx[in.VideoID]
		if !ok {
			v := in.Clone()
			setDuration(v)
			merged.Videos = append(merged.Videos, v)
			idx[v.VideoID] = len(merged.Videos) - 1
			stats.Inserted++
			continue
		}

		row := merged.Videos[i]
		changed := false
		if in.Views != nil && !sameCount(row.Views, in.Views) {
			row.Views = model.Int(*in.Views)
			changed = true
		}
		if in.Likes != nil && !sameCount(row.Likes, in.Likes) {
			row.Likes = model.Int(*in.Likes)
			changed = true
		}
		if changed {
			stats.Updated++
		} else {
			stats.Unchanged++
		}
	}

	return merged, stats
}

func setDuration(v *model.Video) {
	if secs, ok := normalize.Duration(v.DurationRaw); ok {
		v.DurationSeconds = model.Int(secs)
		return
	}
	v.DurationSeconds = nil
}

func sameCount(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
