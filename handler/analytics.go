package handler

import (
	"fmt"
	"net/http"

	"ewintr.nl/ytdash/analytics"
	"ewintr.nl/ytdash/model"
	"ewintr.nl/ytdash/storage"
	"golang.org/x/exp/slog"
)

const defaultTop = 10

// AnalyticsAPI serves the dashboard aggregates. Every endpoint accepts the
// filter parameters of the video api.
type AnalyticsAPI struct {
	videoRepo storage.VideoRepository
	channels  model.ChannelSet
	logger    *slog.Logger
}

func NewAnalyticsAPI(videoRepo storage.VideoRepository, channels model.ChannelSet, logger *slog.Logger) *AnalyticsAPI {
	return &AnalyticsAPI{
		videoRepo: videoRepo,
		channels:  channels,
		logger:    logger,
	}
}

type respChannel struct {
	analytics.ChannelStat
	Color string `json:"color"`
}

type respWeek struct {
	analytics.WeekPoint
	Color string `json:"color"`
}

func (a *AnalyticsAPI) Channels(w http.ResponseWriter, r *http.Request) {
	view, ok := a.view(w, r)
	if !ok {
		return
	}

	JSON(w, http.StatusOK, struct {
		Channels []respChannel `json:"channels"`
	}{
		Channels: a.respChannels(analytics.ChannelStats(view.Rows)),
	})
}

func (a *AnalyticsAPI) Weekly(w http.ResponseWriter, r *http.Request) {
	view, ok := a.view(w, r)
	if !ok {
		return
	}

	JSON(w, http.StatusOK, struct {
		Points []respWeek `json:"points"`
	}{
		Points: a.respWeeks(analytics.Weekly(view.Rows)),
	})
}

func (a *AnalyticsAPI) Shorts(w http.ResponseWriter, r *http.Request) {
	threshold, err := parsePositive(r.URL.Query(), "threshold", analytics.DefaultShortsThreshold)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid threshold", err)
		return
	}
	view, ok := a.view(w, r)
	if !ok {
		return
	}
	impact := analytics.Impact(view.Rows, int64(threshold))

	type respSegment struct {
		analytics.Segment
		Channels []respChannel `json:"channels"`
		Weekly   []respWeek    `json:"weekly"`
		Top      []respVideo   `json:"top"`
	}
	segment := func(s analytics.Segment) respSegment {
		return respSegment{
			Segment:  s,
			Channels: a.respChannels(s.Channels),
			Weekly:   a.respWeeks(s.Weekly),
			Top:      toRespVideos(s.Top, a.channels),
		}
	}

	JSON(w, http.StatusOK, struct {
		Threshold  int64                  `json:"threshold"`
		Shorts     respSegment            `json:"shorts"`
		Regular    respSegment            `json:"regular"`
		Comparison []analytics.Comparison `json:"comparison"`
	}{
		Threshold:  impact.Threshold,
		Shorts:     segment(impact.Shorts),
		Regular:    segment(impact.Regular),
		Comparison: impact.Comparison,
	})
}

func (a *AnalyticsAPI) Top(w http.ResponseWriter, r *http.Request) {
	n, err := parsePositive(r.URL.Query(), "n", defaultTop)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid n", err)
		return
	}
	view, ok := a.view(w, r)
	if !ok {
		return
	}

	JSON(w, http.StatusOK, struct {
		Videos []respVideo `json:"videos"`
	}{
		Videos: toRespVideos(analytics.TopVideos(view.Rows, n), a.channels),
	})
}

// view loads and filters the table, writing the error response itself when
// that fails.
func (a *AnalyticsAPI) view(w http.ResponseWriter, r *http.Request) (analytics.View, bool) {
	if r.Method != http.MethodGet {
		Error(w, http.StatusMethodNotAllowed, "method not allowed", fmt.Errorf("method %s is not supported", r.Method))
		return analytics.View{}, false
	}
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid filter", err)
		return analytics.View{}, false
	}
	table, err := a.videoRepo.Load(r.Context())
	if err != nil {
		a.logger.Error("could not load videos", slog.String("err", err.Error()))
		Error(w, http.StatusInternalServerError, "could not load videos", err)
		return analytics.View{}, false
	}

	return analytics.Apply(table, filter), true
}

func (a *AnalyticsAPI) respChannels(stats []analytics.ChannelStat) []respChannel {
	resp := make([]respChannel, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, respChannel{ChannelStat: s, Color: a.channels.Color(s.ChannelTitle)})
	}

	return resp
}

func (a *AnalyticsAPI) respWeeks(points []analytics.WeekPoint) []respWeek {
	resp := make([]respWeek, 0, len(points))
	for _, p := range points {
		resp = append(resp, respWeek{WeekPoint: p, Color: a.channels.Color(p.ChannelTitle)})
	}

	return resp
}
