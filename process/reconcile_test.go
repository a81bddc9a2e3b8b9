package process

import (
	"fmt"
	"reflect"
	"testing"

	"ewintr.nl/ytdash/fetch"
	"ewintr.nl/ytdash/model"
)

func cachedTable(n int) *model.Table {
	table := model.NewTable()
	for i := 0; i < n; i++ {
		table.Videos = append(table.Videos, &model.Video{
			VideoID:         model.YoutubeVideoID(fmt.Sprintf("old%d", i)),
			ChannelID:       "UC1",
			ChannelTitle:    "Channel One",
			Title:           fmt.Sprintf("Old %d", i),
			PublishedAt:     "2024-04-15 09:04:24+00:00",
			ThumbnailURL:    "https://i.ytimg.com/old.jpg",
			DurationRaw:     "PT10M",
			DurationSeconds: model.Int(600),
			Views:           model.Int(100),
			Likes:           model.Int(10),
		})
	}
	return table
}

func TestBuild(t *testing.T) {
	listings := []fetch.Listing{
		{VideoID: "v1", ChannelID: "UC1", Title: "One", ChannelTitle: "Channel One", PublishedAt: "2024-04-15T09:04:24Z", ThumbnailURL: "thumb"},
		{VideoID: "v2", ChannelID: "UC1", Title: "Two", PublishedAt: "2024-04-16T10:00:00Z"},
	}
	details := map[model.YoutubeVideoID]fetch.Details{
		"v1": {Views: model.Int(1500), Likes: model.Int(30), DurationRaw: "PT1M5S"},
	}

	act := Build(listings, details)
	if len(act) != 2 {
		t.Fatalf("exp 2 videos, got %d", len(act))
	}
	v1 := act[0]
	if v1.PublishedAt != "2024-04-15 09:04:24+00:00" {
		t.Errorf("exp canonical timestamp, got %q", v1.PublishedAt)
	}
	if v1.DurationSeconds == nil || *v1.DurationSeconds != 65 {
		t.Errorf("exp 65 seconds, got %v", v1.DurationSeconds)
	}
	if *v1.Views != 1500 || *v1.Likes != 30 || v1.ThumbnailURL != "thumb" {
		t.Errorf("unexpected record %+v", v1)
	}
	v2 := act[1]
	if v2.Views != nil || v2.Likes != nil || v2.DurationSeconds != nil {
		t.Errorf("exp unknown stats without details, got %+v", v2)
	}
}

func TestReconcileEmptyIncoming(t *testing.T) {
	existing := cachedTable(2)

	act, stats := Reconcile(existing, nil)
	if act != existing {
		t.Error("expected existing table to be returned as is")
	}
	if stats != (Stats{}) {
		t.Errorf("expected no changes, got %+v", stats)
	}

	act, _ = Reconcile(nil, nil)
	if act == nil || !act.Empty() {
		t.Errorf("expected empty table, got %+v", act)
	}
}

func TestReconcileInsert(t *testing.T) {
	existing := cachedTable(3)
	incoming := []*model.Video{
		{VideoID: "new0", ChannelID: "UC2", PublishedAt: "2024-05-01 00:00:00+00:00", DurationRaw: "PT30S", Views: model.Int(5)},
		{VideoID: "new1", ChannelID: "UC2", PublishedAt: "2024-05-02 00:00:00+00:00"},
	}

	act, stats := Reconcile(existing, incoming)
	if len(act.Videos) != 5 {
		t.Fatalf("exp 5 rows, got %d", len(act.Videos))
	}
	for i, exp := range []model.YoutubeVideoID{"old0", "old1", "old2", "new0", "new1"} {
		if act.Videos[i].VideoID != exp {
			t.Errorf("row %d: exp %s, got %s", i, exp, act.Videos[i].VideoID)
		}
	}
	if stats.Inserted != 2 || stats.Updated != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if d := act.Videos[3].DurationSeconds; d == nil || *d != 30 {
		t.Errorf("exp derived duration 30, got %v", d)
	}
	if len(existing.Videos) != 3 {
		t.Errorf("existing table was modified")
	}
}

func TestReconcileUpdate(t *testing.T) {
	existing := cachedTable(1)
	incoming := []*model.Video{{
		VideoID:      "old0",
		ChannelID:    "UC9",
		Title:        "Renamed",
		PublishedAt:  "2030-01-01 00:00:00+00:00",
		ThumbnailURL: "https://i.ytimg.com/new.jpg",
		DurationRaw:  "PT1S",
		Views:        model.Int(150),
	}}

	act, stats := Reconcile(existing, incoming)
	if len(act.Videos) != 1 {
		t.Fatalf("exp 1 row, got %d", len(act.Videos))
	}
	exp := existing.Videos[0].Clone()
	exp.Views = model.Int(150)
	if !reflect.DeepEqual(act.Videos[0], exp) {
		t.Errorf("exp %+v, got %+v", exp, act.Videos[0])
	}
	if stats.Updated != 1 {
		t.Errorf("exp 1 update, got %+v", stats)
	}
	if *existing.Videos[0].Views != 100 {
		t.Errorf("existing row was modified")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	existing := cachedTable(2)
	incoming := []*model.Video{
		{VideoID: "old1", Views: model.Int(250), Likes: model.Int(12)},
		{VideoID: "new0", ChannelID: "UC2", PublishedAt: "2024-05-01 00:00:00+00:00", DurationRaw: "PT2M", Views: model.Int(7), Likes: model.Int(1)},
	}

	once, _ := Reconcile(existing, incoming)
	twice, stats := Reconcile(once, incoming)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second pass changed the table")
	}
	if stats.Inserted != 0 || stats.Updated != 0 || stats.Unchanged != 2 {
		t.Errorf("unexpected stats on second pass %+v", stats)
	}
}

func TestReconcileDuplicateIncoming(t *testing.T) {
	incoming := []*model.Video{
		{VideoID: "v1", Views: model.Int(1)},
		{VideoID: "v1", Views: model.Int(2)},
	}

	act, stats := Reconcile(nil, incoming)
	if len(act.Videos) != 1 {
		t.Fatalf("exp 1 row, got %d", len(act.Videos))
	}
	if *act.Videos[0].Views != 2 {
		t.Errorf("exp latest count 2, got %d", *act.Videos[0].Views)
	}
	if stats.Inserted != 1 || stats.Updated != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestReconcileBackfillsDuration(t *testing.T) {
	existing := cachedTable(1)
	existing.Videos[0].DurationSeconds = nil

	act, _ := Reconcile(existing, []*model.Video{{VideoID: "other", DurationRaw: "PT1M"}})
	if d := act.Videos[0].DurationSeconds; d == nil || *d != 600 {
		t.Errorf("exp backfilled duration 600, got %v", d)
	}
}
