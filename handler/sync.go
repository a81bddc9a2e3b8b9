package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ewintr.nl/ytdash/process"
	"golang.org/x/exp/slog"
)

type Syncer interface {
	Sync(ctx context.Context) (*process.Report, error)
}

type respReport struct {
	RunID                string        `json:"run_id"`
	Started              time.Time     `json:"started"`
	Took                 string        `json:"took"`
	Reason               string        `json:"reason"`
	FetchNeeded          bool          `json:"fetch_needed"`
	From                 *time.Time    `json:"from,omitempty"`
	MaxResultsPerChannel int           `json:"max_results_per_channel"`
	Fetched              int           `json:"fetched"`
	Stats                process.Stats `json:"stats"`
	Rows                 int           `json:"rows"`
	Warnings             []string      `json:"warnings"`
}

func toRespReport(report *process.Report) respReport {
	resp := respReport{
		RunID:                report.RunID.String(),
		Started:              report.Started,
		Took:                 report.Took.String(),
		Reason:               report.Decision.Reason,
		FetchNeeded:          report.Decision.FetchNeeded,
		MaxResultsPerChannel: report.Decision.MaxResultsPerChannel,
		Fetched:              report.Fetched,
		Stats:                report.Stats,
		Rows:                 report.Rows,
		Warnings:             []string{},
	}
	if report.Decision.FetchNeeded {
		from := report.Decision.From
		resp.From = &from
	}
	if report.Decision.Warning != nil {
		resp.Warnings = append(resp.Warnings, report.Decision.Warning.Error())
	}
	for _, w := range report.Warnings {
		resp.Warnings = append(resp.Warnings, w.Error())
	}

	return resp
}

// SyncAPI lets a client trigger a sync cycle and wait for its report.
type SyncAPI struct {
	syncer Syncer
	logger *slog.Logger
}

func NewSyncAPI(syncer Syncer, logger *slog.Logger) *SyncAPI {
	return &SyncAPI{
		syncer: syncer,
		logger: logger,
	}
}

func (s *SyncAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sub, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodPost && sub == "":
		s.Run(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the sync api", r.Method, sub))
	}
}

func (s *SyncAPI) Run(w http.ResponseWriter, r *http.Request) {
	// a client hanging up should not abort a cycle halfway
	report, err := s.syncer.Sync(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, process.ErrSyncInProgress):
		Error(w, http.StatusConflict, "sync already running", err)
		return
	case err != nil:
		s.logger.Error("sync failed", slog.String("err", err.Error()))
		if report != nil {
			Error(w, http.StatusInternalServerError, "sync failed", err, toRespReport(report))
			return
		}
		Error(w, http.StatusInternalServerError, "sync failed", err)
		return
	}

	JSON(w, http.StatusOK, toRespReport(report))
}
