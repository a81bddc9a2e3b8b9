package fetch

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

type WarningKind string

const (
	WarningTransport WarningKind = "transport"
	WarningAPI       WarningKind = "api"
)

// Warning records a failed request. It stops the affected channel (or
// details batch) but never the sync as a whole.
type Warning struct {
	Kind      WarningKind
	ChannelID string
	Page      int
	Err       error
}

func newWarning(channelID string, page int, err error) *Warning {
	kind := WarningTransport
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		kind = WarningAPI
	}

	return &Warning{
		Kind:      kind,
		ChannelID: channelID,
		Page:      page,
		Err:       err,
	}
}

func (w *Warning) Error() string {
	if w.ChannelID == "" {
		return fmt.Sprintf("%s error for details batch %d: %v", w.Kind, w.Page, w.Err)
	}

	return fmt.Sprintf("%s error for channel %s (page %d): %v", w.Kind, w.ChannelID, w.Page, w.Err)
}

func (w *Warning) Unwrap() error { return w.Err }
