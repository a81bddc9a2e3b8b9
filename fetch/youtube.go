package fetch

import (
	"context"
	"strings"

	"ewintr.nl/ytdash/model"
	"ewintr.nl/ytdash/normalize"
	"google.golang.org/api/youtube/v3"
)

type Youtube struct {
	Client *youtube.Service
}

func NewYoutube(client *youtube.Service) *Youtube {
	return &Youtube{Client: client}
}

func (y *Youtube) Search(ctx context.Context, channelID model.YoutubeChannelID, opts SearchOptions) (SearchPage, error) {
	call := y.Client.Search.
		List([]string{"snippet"}).
		ChannelId(string(channelID)).
		Order("date").
		Type("video").
		MaxResults(int64(opts.PageSize))

	if !opts.PublishedAfter.IsZero() {
		call.PublishedAfter(normalize.FormatAPITime(opts.PublishedAfter))
	}
	if opts.PageToken != "" {
		call.PageToken(opts.PageToken)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return SearchPage{}, err
	}

	page := SearchPage{
		Listings:      make([]Listing, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if item.Id == nil || item.Snippet == nil || item.Id.VideoId == "" {
			continue
		}
		page.Listings = append(page.Listings, Listing{
			VideoID:      model.YoutubeVideoID(item.Id.VideoId),
			ChannelID:    channelID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Description:  item.Snippet.Description,
			ThumbnailURL: thumbnailURL(item.Snippet.Thumbnails),
		})
	}

	return page, nil
}

func (y *Youtube) FetchDetails(ctx context.Context, ytIDs []model.YoutubeVideoID) (map[model.YoutubeVideoID]Details, error) {
	strIDs := make([]string, len(ytIDs))
	for i, id := range ytIDs {
		strIDs[i] = string(id)
	}
	call := y.Client.Videos.
		List([]string{"statistics", "contentDetails"}).
		Id(strings.Join(strIDs, ","))

	response, err := call.Context(ctx).Do()
	if err != nil {
		return map[model.YoutubeVideoID]Details{}, err
	}

	details := make(map[model.YoutubeVideoID]Details, len(response.Items))
	for _, item := range response.Items {
		d := Details{}
		if item.Statistics != nil {
			d.Views = model.Int(int64(item.Statistics.ViewCount))
			d.Likes = model.Int(int64(item.Statistics.LikeCount))
		}
		if item.ContentDetails != nil {
			d.DurationRaw = item.ContentDetails.Duration
		}

		details[model.YoutubeVideoID(item.Id)] = d
	}

	return details, nil
}

func thumbnailURL(thumbs *youtube.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	if thumbs.High != nil && thumbs.High.Url != "" {
		return thumbs.High.Url
	}
	if thumbs.Default != nil {
		return thumbs.Default.Url
	}

	return ""
}
