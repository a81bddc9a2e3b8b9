package model

const (
	ColumnVideoID         = "video_id"
	ColumnChannelID       = "channel_id"
	ColumnChannelTitle    = "channel_title"
	ColumnTitle           = "video_title"
	ColumnDescription     = "description"
	ColumnPublishedAt     = "published_at"
	ColumnThumbnailURL    = "thumbnail_url"
	ColumnDurationRaw     = "duration_raw"
	ColumnDurationSeconds = "duration_seconds"
	ColumnViews           = "views"
	ColumnLikes           = "likes"
)

// Columns is the header of a fully populated table, in storage order.
var Columns = []string{
	ColumnVideoID,
	ColumnChannelID,
	ColumnChannelTitle,
	ColumnTitle,
	ColumnDescription,
	ColumnPublishedAt,
	ColumnThumbnailURL,
	ColumnDurationRaw,
	ColumnDurationSeconds,
	ColumnViews,
	ColumnLikes,
}

// Table is the persisted cache held in memory. Columns lists the fields the
// backing store actually had, which can be fewer than Columns for old files.
type Table struct {
	Columns []string
	Videos  []*Video
}

func NewTable() *Table {
	return &Table{
		Columns: append([]string{}, Columns...),
		Videos:  []*Video{},
	}
}

func (t *Table) Empty() bool {
	return t == nil || len(t.Videos) == 0
}

func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}

	return false
}

// Index maps each video id to its row position.
func (t *Table) Index() map[YoutubeVideoID]int {
	if t == nil {
		return map[YoutubeVideoID]int{}
	}
	idx := make(map[YoutubeVideoID]int, len(t.Videos))
	for i, v := range t.Videos {
		idx[v.VideoID] = i
	}

	return idx
}

// Clone deep copies the table so callers can change rows freely.
func (t *Table) Clone() *Table {
	if t == nil {
		return NewTable()
	}
	c := &Table{
		Columns: append([]string{}, t.Columns...),
		Videos:  make([]*Video, 0, len(t.Videos)),
	}
	for _, v := range t.Videos {
		c.Videos = append(c.Videos, v.Clone())
	}

	return c
}
