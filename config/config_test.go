package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ewintr.nl/ytdash/model"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "")
		t.Setenv("API", "")

		cfg, err := Load([]string{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Storage != StorageCSV || cfg.CachePath != "data/videos.csv" {
			t.Errorf("unexpected storage settings %q %q", cfg.Storage, cfg.CachePath)
		}
		if cfg.MaxPages != 3 || cfg.Interval != 0 || cfg.Once {
			t.Errorf("unexpected sync settings %+v", cfg)
		}
		if cfg.APIKey() != "" {
			t.Errorf("exp no api key, got %q", cfg.APIKey())
		}
	})

	t.Run("flags", func(t *testing.T) {
		cfg, err := Load([]string{
			"--storage", "postgres",
			"--postgres-host", "db",
			"--interval", "15m",
			"--max-pages", "5",
			"--rps", "2.5",
			"--port", "9090",
			"--once",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Storage != StoragePostgres || cfg.PostgresInfo().Host != "db" {
			t.Errorf("unexpected postgres settings %+v", cfg.PostgresInfo())
		}
		if cfg.Interval != 15*time.Minute || cfg.MaxPages != 5 || cfg.RequestsPerSecond != 2.5 || cfg.Port != 9090 || !cfg.Once {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("api key from environment", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "")
		t.Setenv("API", "old-key")

		cfg, err := Load([]string{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.APIKey() != "old-key" {
			t.Errorf("exp legacy key, got %q", cfg.APIKey())
		}

		t.Setenv("YOUTUBE_API_KEY", "new-key")
		cfg, err = Load([]string{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.APIKey() != "new-key" {
			t.Errorf("exp current key, got %q", cfg.APIKey())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, args := range [][]string{
			{"--storage", "sqlite"},
			{"--max-pages", "0"},
			{"--rps", "-1"},
			{"--cache-path", ""},
		} {
			if _, err := Load(args); err == nil {
				t.Errorf("exp error for %v", args)
			}
		}
	})
}

func TestLoadChannels(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("default set", func(t *testing.T) {
		set, err := LoadChannels("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(set) != 6 {
			t.Fatalf("exp 6 channels, got %d", len(set))
		}
		if set.Color("Linus Tech Tips") != "#000080" {
			t.Errorf("unexpected color %q", set.Color("Linus Tech Tips"))
		}
	})

	t.Run("file", func(t *testing.T) {
		path := write("channels.yaml", `
channels:
  - id: UC1
    name: One
    color: "#ff0000"
  - id: UC2
    name: Two
`)
		set, err := LoadChannels(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		exp := model.ChannelSet{
			{ID: "UC1", Name: "One", Color: "#ff0000"},
			{ID: "UC2", Name: "Two", Color: model.DefaultChannelColor},
		}
		if len(set) != len(exp) {
			t.Fatalf("exp %d channels, got %d", len(exp), len(set))
		}
		for i := range exp {
			if set[i] != exp[i] {
				t.Errorf("exp %+v, got %+v", exp[i], set[i])
			}
		}
	})

	for _, tc := range []struct {
		name    string
		content string
	}{
		{name: "empty", content: "channels: []\n"},
		{name: "missing id", content: "channels:\n  - name: One\n"},
		{name: "duplicate", content: "channels:\n  - id: UC1\n  - id: UC1\n"},
		{name: "malformed", content: "channels: [\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadChannels(write(tc.name+".yaml", tc.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadChannels(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error")
		}
	})
}
