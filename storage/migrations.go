package storage

var pgMigration = []string{
	`CREATE TABLE video (
video_id VARCHAR(255) PRIMARY KEY,
position INTEGER NOT NULL,
channel_id VARCHAR(255) NOT NULL,
channel_title VARCHAR(255) NOT NULL DEFAULT '',
video_title TEXT NOT NULL DEFAULT '',
description TEXT NOT NULL DEFAULT '',
published_at VARCHAR(255) NOT NULL DEFAULT '',
thumbnail_url TEXT NOT NULL DEFAULT '',
duration_raw VARCHAR(255) NOT NULL DEFAULT '',
duration_seconds BIGINT,
views BIGINT,
likes BIGINT
)`,
	`CREATE INDEX video_position_idx ON video (position)`,
	`CREATE INDEX video_channel_idx ON video (channel_id)`,
}
