package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"ewintr.nl/ytdash/model"
)

// legacy header names written by earlier versions of the cache
var columnAliases = map[string]string{
	"duration": model.ColumnDurationRaw,
}

type CSVStore struct {
	path string
	mu   sync.RWMutex
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) Load(_ context.Context) (*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open cache: %w", err)
	}
	defer f.Close()

	return readTable(f)
}

func (s *CSVStore) Save(_ context.Context, table *model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".videos-*.csv")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeTable(tmp, table); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace cache: %w", err)
	}

	return nil
}

func readTable(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &model.Table{Videos: []*model.Video{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	table := &model.Table{Videos: []*model.Video{}}
	pos := map[string]int{}
	for i, name := range header {
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		if _, dup := pos[name]; dup {
			continue
		}
		pos[name] = i
		table.Columns = append(table.Columns, name)
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read row: %w", err)
		}
		field := func(name string) string {
			i, ok := pos[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		table.Videos = append(table.Videos, &model.Video{
			VideoID:         model.YoutubeVideoID(field(model.ColumnVideoID)),
			ChannelID:       model.YoutubeChannelID(field(model.ColumnChannelID)),
			ChannelTitle:    field(model.ColumnChannelTitle),
			Title:           field(model.ColumnTitle),
			Description:     field(model.ColumnDescription),
			PublishedAt:     field(model.ColumnPublishedAt),
			ThumbnailURL:    field(model.ColumnThumbnailURL),
			DurationRaw:     field(model.ColumnDurationRaw),
			DurationSeconds: parseCount(field(model.ColumnDurationSeconds)),
			Views:           parseCount(field(model.ColumnViews)),
			Likes:           parseCount(field(model.ColumnLikes)),
		})
	}

	return table, nil
}

func writeTable(w io.Writer, table *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	if table != nil {
		for _, v := range table.Videos {
			rec := []string{
				string(v.VideoID),
				string(v.ChannelID),
				v.ChannelTitle,
				v.Title,
				v.Description,
				v.PublishedAt,
				v.ThumbnailURL,
				v.DurationRaw,
				formatCount(v.DurationSeconds),
				formatCount(v.Views),
				formatCount(v.Likes),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("could not write row %s: %w", v.VideoID, err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("could not flush cache: %w", err)
	}

	return nil
}

// parseCount accepts integers and the float rendering ("1500.0") that
// dataframe tools write for nullable integer columns.
func parseCount(s string) *int64 {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	i := int64(f)

	return &i
}

func formatCount(i *int64) string {
	if i == nil {
		return ""
	}

	return strconv.FormatInt(*i, 10)
}
