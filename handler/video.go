package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ewintr.nl/ytdash/analytics"
	"ewintr.nl/ytdash/model"
	"ewintr.nl/ytdash/storage"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

type respVideo struct {
	VideoID         string    `json:"video_id"`
	ChannelID       string    `json:"channel_id"`
	ChannelTitle    string    `json:"channel_title"`
	Title           string    `json:"video_title"`
	PublishedAt     time.Time `json:"published_at"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	DurationSeconds *int64    `json:"duration_seconds"`
	Views           *int64    `json:"views"`
	Likes           *int64    `json:"likes"`
	Color           string    `json:"color"`
}

func toRespVideos(rows []analytics.Row, channels model.ChannelSet) []respVideo {
	resp := make([]respVideo, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, respVideo{
			VideoID:         string(r.Video.VideoID),
			ChannelID:       string(r.Video.ChannelID),
			ChannelTitle:    r.Video.ChannelTitle,
			Title:           r.Video.Title,
			PublishedAt:     r.Published,
			ThumbnailURL:    r.Video.ThumbnailURL,
			DurationSeconds: r.Video.DurationSeconds,
			Views:           r.Video.Views,
			Likes:           r.Video.Likes,
			Color:           channels.Color(r.Video.ChannelTitle),
		})
	}

	return resp
}

type VideoAPI struct {
	videoRepo storage.VideoRepository
	channels  model.ChannelSet
	logger    *slog.Logger
}

func NewVideoAPI(videoRepo storage.VideoRepository, channels model.ChannelSet, logger *slog.Logger) *VideoAPI {
	return &VideoAPI{
		videoRepo: videoRepo,
		channels:  channels,
		logger:    logger,
	}
}

func (v *VideoAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodGet && videoID == "":
		v.List(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the video api", r.Method, videoID))
	}
}

// List returns the filtered videos, newest first, or the videos of a single
// ISO week, most viewed first, when week is given.
func (v *VideoAPI) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid filter", err)
		return
	}
	table, err := v.videoRepo.Load(r.Context())
	if err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not load videos", err)
		return
	}
	view := analytics.Apply(table, filter)

	rows := view.Rows
	if week := r.URL.Query().Get("week"); week != "" {
		if rows, err = analytics.WeekVideos(rows, week); err != nil {
			Error(w, http.StatusBadRequest, "invalid week", err)
			return
		}
	} else {
		rows = append([]analytics.Row{}, rows...)
		slices.SortStableFunc(rows, func(a, b analytics.Row) int {
			return b.Published.Compare(a.Published)
		})
	}

	JSON(w, http.StatusOK, struct {
		Videos  []respVideo `json:"videos"`
		Dropped int         `json:"dropped"`
	}{
		Videos:  toRespVideos(rows, v.channels),
		Dropped: view.Dropped,
	})
}

func (v *VideoAPI) returnErr(_ context.Context, w http.ResponseWriter, status int, message string, err error, details ...any) {
	v.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}
