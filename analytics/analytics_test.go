package analytics

import (
	"math"
	"testing"
	"time"

	"ewintr.nl/ytdash/model"
)

func video(id, channel, published string, duration, views int64) *model.Video {
	return &model.Video{
		VideoID:         model.YoutubeVideoID(id),
		ChannelTitle:    channel,
		PublishedAt:     published,
		DurationSeconds: model.Int(duration),
		Views:           model.Int(views),
	}
}

func testTable() *model.Table {
	table := model.NewTable()
	table.Videos = []*model.Video{
		video("a1", "Alpha", "2024-01-01 10:00:00+00:00", 600, 1000),
		video("a2", "Alpha", "2024-01-03 10:00:00+00:00", 30, 5000),
		video("a3", "Alpha", "2024-01-10 10:00:00+00:00", 61, 2000),
		video("b1", "Beta", "2024-01-02 10:00:00+00:00", 45, 300),
		video("b2", "Beta", "2023-12-31 23:00:00+00:00", 900, 700),
		{VideoID: "bad", ChannelTitle: "Beta", PublishedAt: "yesterday"},
	}

	return table
}

func ids(rows []Row) []string {
	res := make([]string, 0, len(rows))
	for _, r := range rows {
		res = append(res, string(r.Video.VideoID))
	}
	return res
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	for _, tc := range []struct {
		name   string
		filter Filter
		exp    []string
	}{
		{
			name: "no filter",
			exp:  []string{"a1", "a2", "a3", "b1", "b2"},
		},
		{
			name:   "channel",
			filter: Filter{Channels: []string{"Beta"}},
			exp:    []string{"b1", "b2"},
		},
		{
			name: "inclusive date range",
			filter: Filter{
				From: time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC),
				To:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			},
			exp: []string{"a1", "a2", "b1"},
		},
		{
			name:   "exclude shorts",
			filter: Filter{ExcludeShorts: true},
			exp:    []string{"a1", "a3", "b2"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			view := Apply(testTable(), tc.filter)
			if act := ids(view.Rows); !equalIDs(tc.exp, act) {
				t.Errorf("exp %v, got %v", tc.exp, act)
			}
			if view.Dropped != 1 {
				t.Errorf("exp 1 dropped row, got %d", view.Dropped)
			}
		})
	}

	if view := Apply(nil, Filter{}); len(view.Rows) != 0 {
		t.Errorf("exp no rows for nil table")
	}
}

func TestChannelStats(t *testing.T) {
	rows := Apply(testTable(), Filter{}).Rows
	rows = append(rows, Row{Video: &model.Video{VideoID: "b3", ChannelTitle: "Beta"}})

	act := ChannelStats(rows)
	exp := []ChannelStat{
		{ChannelTitle: "Alpha", Videos: 3, TotalViews: 8000, AvgViews: 2667},
		{ChannelTitle: "Beta", Videos: 3, TotalViews: 1000, AvgViews: 500},
	}
	if len(act) != len(exp) {
		t.Fatalf("exp %d stats, got %d", len(exp), len(act))
	}
	for i := range exp {
		if act[i] != exp[i] {
			t.Errorf("exp %+v, got %+v", exp[i], act[i])
		}
	}
}

func TestTopVideos(t *testing.T) {
	rows := Apply(testTable(), Filter{}).Rows

	if act := ids(TopVideos(rows, 3)); !equalIDs([]string{"a2", "a3", "a1"}, act) {
		t.Errorf("unexpected top videos %v", act)
	}
	if act := TopVideos(rows, 10); len(act) != 5 {
		t.Errorf("exp all 5 rows, got %d", len(act))
	}
}

func TestDescribe(t *testing.T) {
	rows := []Row{}
	for _, v := range []int64{10, 20, 30, 40} {
		rows = append(rows, Row{Video: &model.Video{Views: model.Int(v)}})
	}
	rows = append(rows, Row{Video: &model.Video{}})

	act := Describe(rows)
	if act.Count != 4 || act.Mean != 25 || act.Min != 10 || act.Max != 40 {
		t.Errorf("unexpected summary %+v", act)
	}
	if act.P25 != 17.5 || act.P50 != 25 || act.P75 != 32.5 {
		t.Errorf("unexpected quartiles %+v", act)
	}
	if math.Abs(act.Std-12.9099) > 0.001 {
		t.Errorf("exp std 12.91, got %f", act.Std)
	}

	if single := Describe(rows[:1]); single.Std != 0 || single.P75 != 10 {
		t.Errorf("unexpected single value summary %+v", single)
	}
	if empty := Describe(nil); empty != (Summary{}) {
		t.Errorf("exp zero summary, got %+v", empty)
	}
}

func TestWeekly(t *testing.T) {
	rows := Apply(testTable(), Filter{}).Rows

	act := Weekly(rows)
	exp := []WeekPoint{
		{YearWeek: "2023-W52", ChannelTitle: "Alpha"},
		{YearWeek: "2024-W01", ChannelTitle: "Alpha", Videos: 2, AvgViews: 3000},
		{YearWeek: "2024-W02", ChannelTitle: "Alpha", Videos: 1, AvgViews: 2000},
		{YearWeek: "2023-W52", ChannelTitle: "Beta", Videos: 1, AvgViews: 700},
		{YearWeek: "2024-W01", ChannelTitle: "Beta", Videos: 1, AvgViews: 300},
		{YearWeek: "2024-W02", ChannelTitle: "Beta"},
	}
	if len(act) != len(exp) {
		t.Fatalf("exp %d points, got %d: %v", len(exp), len(act), act)
	}
	for i := range exp {
		if act[i] != exp[i] {
			t.Errorf("point %d: exp %+v, got %+v", i, exp[i], act[i])
		}
	}
}

func TestWeekVideos(t *testing.T) {
	rows := Apply(testTable(), Filter{}).Rows

	act, err := WeekVideos(rows, "2024-W01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs([]string{"a2", "a1", "b1"}, ids(act)) {
		t.Errorf("unexpected week videos %v", ids(act))
	}

	for _, week := range []string{"2024-01", "week one", "2024-W60"} {
		if _, err := WeekVideos(rows, week); err == nil {
			t.Errorf("exp error for %q", week)
		}
	}
}

func TestSplitShorts(t *testing.T) {
	rows := Apply(testTable(), Filter{}).Rows
	rows = append(rows, Row{Video: &model.Video{VideoID: "unknown"}})

	shorts, regular := SplitShorts(rows, DefaultShortsThreshold)
	if !equalIDs([]string{"a2", "b1"}, ids(shorts)) {
		t.Errorf("unexpected shorts %v", ids(shorts))
	}
	if !equalIDs([]string{"a1", "a3", "b2"}, ids(regular)) {
		t.Errorf("unexpected regular videos %v", ids(regular))
	}

	rows = []Row{{Video: video("edge", "Alpha", "2024-01-01 00:00:00+00:00", 60, 1)}}
	if shorts, _ := SplitShorts(rows, DefaultShortsThreshold); len(shorts) != 0 {
		t.Errorf("a video of exactly the threshold is not a short")
	}
}

func TestImpact(t *testing.T) {
	rows := Apply(testTable(), Filter{}).Rows

	act := Impact(rows, DefaultShortsThreshold)
	if act.Shorts.Videos != 2 || act.Regular.Videos != 3 {
		t.Fatalf("unexpected split %d/%d", act.Shorts.Videos, act.Regular.Videos)
	}
	if act.Shorts.Share != 40 || act.Shorts.TotalViews != 5300 || act.Shorts.AvgViews != 2650 {
		t.Errorf("unexpected shorts segment %+v", act.Shorts)
	}
	if act.Regular.MedianViews != 1000 {
		t.Errorf("exp regular median 1000, got %f", act.Regular.MedianViews)
	}
	if _, ok := act.Shorts.Summaries["Beta"]; !ok {
		t.Errorf("exp summary for Beta")
	}
	if len(act.Comparison) != 4 {
		t.Fatalf("exp 4 comparisons, got %d", len(act.Comparison))
	}
	// 2650 against 1233.33 average views
	avg := act.Comparison[0]
	if avg.Diff == nil || *avg.Diff != 114.9 {
		t.Errorf("unexpected average comparison %+v", avg)
	}

	onlyShorts, _ := SplitShorts(rows, DefaultShortsThreshold)
	if act := Impact(onlyShorts, DefaultShortsThreshold); len(act.Comparison) != 0 {
		t.Errorf("exp no comparison without regular videos")
	}
}
