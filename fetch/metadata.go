package fetch

import (
	"context"
	"time"

	"ewintr.nl/ytdash/model"
)

// Listing is what the search endpoint knows about a video.
type Listing struct {
	VideoID      model.YoutubeVideoID
	ChannelID    model.YoutubeChannelID
	Title        string
	ChannelTitle string
	PublishedAt  string
	Description  string
	ThumbnailURL string
}

// Details holds the statistics of a video. Counts are nil when the API sent
// no statistics at all, DurationRaw is empty when it sent no duration.
type Details struct {
	Views       *int64
	Likes       *int64
	DurationRaw string
}

type SearchOptions struct {
	PublishedAfter time.Time
	PageSize       int
	PageToken      string
}

type SearchPage struct {
	Listings      []Listing
	NextPageToken string
}

type ChannelReader interface {
	Search(ctx context.Context, channelID model.YoutubeChannelID, opts SearchOptions) (SearchPage, error)
}

type DetailsFetcher interface {
	FetchDetails(ctx context.Context, ids []model.YoutubeVideoID) (map[model.YoutubeVideoID]Details, error)
}
