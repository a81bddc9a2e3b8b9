package storage

import (
	"context"
	"database/sql"
	"fmt"

	"ewintr.nl/ytdash/model"
	_ "github.com/lib/pq"
)

type PostgresInfo struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

func (pi PostgresInfo) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", pi.Host, pi.Port, pi.User, pi.Password, pi.Database)
}

type Postgres struct {
	db *sql.DB
}

func NewPostgres(pgInfo PostgresInfo) (*Postgres, error) {
	db, err := sql.Open("postgres", pgInfo.DSN())
	if err != nil {
		return &Postgres{}, err
	}
	p := &Postgres{db: db}
	if err := p.migrate(pgMigration); err != nil {
		return &Postgres{}, err
	}

	return p, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Load(ctx context.Context) (*model.Table, error) {
	rows, err := p.db.QueryContext(ctx, `
SELECT video_id, channel_id, channel_title, video_title, description,
published_at, thumbnail_url, duration_raw, duration_seconds, views, likes
FROM video
ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("could not query videos: %w", err)
	}
	defer rows.Close()

	table := model.NewTable()
	for rows.Next() {
		var (
			v                      model.Video
			duration, views, likes sql.NullInt64
		)
		if err := rows.Scan(&v.VideoID, &v.ChannelID, &v.ChannelTitle, &v.Title, &v.Description,
			&v.PublishedAt, &v.ThumbnailURL, &v.DurationRaw, &duration, &views, &likes); err != nil {
			return nil, fmt.Errorf("could not scan video: %w", err)
		}
		v.DurationSeconds = fromNull(duration)
		v.Views = fromNull(views)
		v.Likes = fromNull(likes)
		table.Videos = append(table.Videos, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return table, nil
}

func (p *Postgres) Save(ctx context.Context, table *model.Table) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO video
(video_id, position, channel_id, channel_title, video_title, description,
published_at, thumbnail_url, duration_raw, duration_seconds, views, likes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (video_id)
DO UPDATE SET
position = EXCLUDED.position,
channel_id = EXCLUDED.channel_id,
channel_title = EXCLUDED.channel_title,
video_title = EXCLUDED.video_title,
description = EXCLUDED.description,
published_at = EXCLUDED.published_at,
thumbnail_url = EXCLUDED.thumbnail_url,
duration_raw = EXCLUDED.duration_raw,
duration_seconds = EXCLUDED.duration_seconds,
views = EXCLUDED.views,
likes = EXCLUDED.likes`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, v := range table.Videos {
		if _, err := stmt.ExecContext(ctx, v.VideoID, i, v.ChannelID, v.ChannelTitle, v.Title, v.Description,
			v.PublishedAt, v.ThumbnailURL, v.DurationRaw, toNull(v.DurationSeconds), toNull(v.Views), toNull(v.Likes)); err != nil {
			return fmt.Errorf("could not save video %s: %w", v.VideoID, err)
		}
	}

	return tx.Commit()
}

func fromNull(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

func toNull(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func (p *Postgres) migrate(wanted []string) error {
	query := `CREATE TABLE IF NOT EXISTS migration
("id" SERIAL PRIMARY KEY, "query" TEXT)`
	_, err := p.db.Exec(query)
	if err != nil {
		return err
	}

	// find existing
	rows, err := p.db.Query(`SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return err
	}

	existing := []string{}
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			return err
		}
		existing = append(existing, query)
	}
	rows.Close()

	// compare
	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}

	// execute missing
	for _, query := range missing {
		if _, err := p.db.Exec(query); err != nil {
			return err
		}

		// register
		if _, err := p.db.Exec(`
INSERT INTO migration
(query) VALUES ($1)
`, query); err != nil {
			return err
		}
	}

	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	needed := []string{}
	if len(wanted) < len(existing) {
		return []string{}, fmt.Errorf("not enough migrations")
	}

	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want == existing[i]:
			// do nothing
		case want != existing[i]:
			return []string{}, fmt.Errorf("incompatible migration: %v", want)
		}
	}

	return needed, nil
}
