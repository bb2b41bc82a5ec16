package storage

var pgMigration = []string{
	`CREATE TABLE export_run (
id uuid PRIMARY KEY,
started_at TIMESTAMPTZ NOT NULL,
channel_count INTEGER NOT NULL,
video_count INTEGER NOT NULL
)`,
	`CREATE TABLE channel_summary (
run_id uuid NOT NULL REFERENCES export_run(id) ON DELETE CASCADE,
channel_id VARCHAR(255) NOT NULL,
channel_name VARCHAR(255) NOT NULL,
subscribers BIGINT NOT NULL,
views BIGINT NOT NULL,
total_videos BIGINT NOT NULL,
playlist_id VARCHAR(255) NOT NULL,
PRIMARY KEY (run_id, channel_id)
)`,
	`CREATE TABLE video (
run_id uuid NOT NULL REFERENCES export_run(id) ON DELETE CASCADE,
position INTEGER NOT NULL,
video_id VARCHAR(255) NOT NULL,
channel_title TEXT,
title TEXT,
description TEXT,
tags TEXT[],
published_at VARCHAR(255),
view_count BIGINT,
like_count BIGINT,
favourite_count BIGINT,
comment_count BIGINT,
duration VARCHAR(255),
definition VARCHAR(255),
caption VARCHAR(255),
PRIMARY KEY (run_id, position)
)`,
	`CREATE INDEX video_video_id_idx ON video (video_id)`,
}
