package config

import (
	"errors"
	"fmt"
	"time"

	"ewintr.nl/ytdash/storage"
	"github.com/jessevdk/go-flags"
)

const (
	StorageCSV      = "csv"
	StoragePostgres = "postgres"
)

type AppConfig struct {
	// YouTube access
	YoutubeAPIKey string `long:"youtube-api-key" env:"YOUTUBE_API_KEY" description:"YouTube Data API key"`
	LegacyAPIKey  string `long:"api" env:"API" hidden:"true" description:"YouTube Data API key, old name"`

	// Cache
	Storage          string `long:"storage" env:"STORAGE" default:"csv" choice:"csv" choice:"postgres" description:"Where the video table is kept"`
	CachePath        string `long:"cache-path" env:"CACHE_PATH" default:"data/videos.csv" description:"CSV file holding the video table"`
	PostgresHost     string `long:"postgres-host" env:"POSTGRES_HOST" default:"localhost" description:"Postgres host"`
	PostgresPort     string `long:"postgres-port" env:"POSTGRES_PORT" default:"5432" description:"Postgres port"`
	PostgresUser     string `long:"postgres-user" env:"POSTGRES_USER" default:"ytdash" description:"Postgres user"`
	PostgresPassword string `long:"postgres-password" env:"POSTGRES_PASSWORD" default:"ytdash" description:"Postgres password"`
	PostgresDB       string `long:"postgres-db" env:"POSTGRES_DB" default:"ytdash" description:"Postgres database"`

	// Sync
	ChannelsFile      string        `long:"channels" env:"CHANNELS_FILE" description:"YAML file with the tracked channels, built-in set when empty"`
	Interval          time.Duration `long:"interval" env:"SYNC_INTERVAL" default:"0s" description:"Time between syncs, 0 syncs only at startup"`
	MaxPages          int           `long:"max-pages" env:"MAX_PAGES" default:"3" description:"Maximum search pages per channel"`
	RequestsPerSecond float64       `long:"rps" env:"REQUESTS_PER_SECOND" default:"0" description:"YouTube request rate limit, 0 for none"`
	Once              bool          `long:"once" description:"Run a single sync and exit"`

	// HTTP
	Port  int  `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses command line arguments and the environment. It returns nil
// without an error when only help was requested.
func Load(args []string) (*AppConfig, error) {
	var cfg AppConfig

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// APIKey prefers the current variable over the old one.
func (c *AppConfig) APIKey() string {
	if c.YoutubeAPIKey != "" {
		return c.YoutubeAPIKey
	}
	return c.LegacyAPIKey
}

func (c *AppConfig) PostgresInfo() storage.PostgresInfo {
	return storage.PostgresInfo{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		Database: c.PostgresDB,
	}
}

func (c *AppConfig) validate() error {
	if c.MaxPages < 1 {
		return fmt.Errorf("max pages must be at least 1, got %d", c.MaxPages)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must be non-negative")
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must be non-negative")
	}
	if c.Storage == StorageCSV && c.CachePath == "" {
		return fmt.Errorf("cache path is required for csv storage")
	}

	return nil
}
