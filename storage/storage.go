package storage

import (
	"context"

	"ewintr.nl/ytdash/model"
)

// VideoRepository persists the cached video table. Load reads the whole
// table into memory; a store that holds nothing yet returns an empty table
// and no error.
type VideoRepository interface {
	Load(ctx context.Context) (*model.Table, error)
	Save(ctx context.Context, table *model.Table) error
}
