package storage

import (
	"context"
	"database/sql"
	"fmt"

	"ewintr.nl/ytstats/model"
	"github.com/lib/pq"
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
		db.Close()
		return &Postgres{}, err
	}

	return p, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// SaveRun stores the run, its channels and its videos in one transaction.
func (p *Postgres) SaveRun(ctx context.Context, run *model.Run) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO export_run
(id, started_at, channel_count, video_count) VALUES ($1, $2, $3, $4)
`, run.ID, run.StartedAt, len(run.Channels), len(run.Videos)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	chStmt, err := tx.PrepareContext(ctx, `
INSERT INTO channel_summary
(run_id, channel_id, channel_name, subscribers, views, total_videos, playlist_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`)
	if err != nil {
		return err
	}
	defer chStmt.Close()
	for _, ch := range run.Channels {
		if _, err := chStmt.ExecContext(ctx, channelArgs(run, ch)...); err != nil {
			return fmt.Errorf("insert channel %s: %w", ch.ChannelID, err)
		}
	}

	vidStmt, err := tx.PrepareContext(ctx, `
INSERT INTO video
(run_id, position, video_id, channel_title, title, description, tags, published_at,
view_count, like_count, favourite_count, comment_count, duration, definition, caption)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`)
	if err != nil {
		return err
	}
	defer vidStmt.Close()
	for i, video := range run.Videos {
		if _, err := vidStmt.ExecContext(ctx, videoArgs(run, i, video)...); err != nil {
			return fmt.Errorf("insert video %s: %w", video.VideoID, err)
		}
	}

	return tx.Commit()
}

func channelArgs(run *model.Run, ch model.ChannelSummary) []any {
	return []any{run.ID, string(ch.ChannelID), ch.ChannelName, int64(ch.Subscribers), int64(ch.Views), int64(ch.TotalVideos), string(ch.PlaylistID)}
}

func videoArgs(run *model.Run, position int, v model.VideoRecord) []any {
	var tags any
	if v.Tags != nil {
		tags = pq.Array(v.Tags)
	}
	return []any{
		run.ID, position, string(v.VideoID),
		v.ChannelTitle, v.Title, v.Description, tags, v.PublishedAt,
		v.ViewCount, v.LikeCount, v.FavouriteCount, v.CommentCount,
		v.Duration, v.Definition, v.Caption,
	}
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
			rows.Close()
			return err
		}
		existing = append(existing, query)
	}
	rows.Close()

	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}

	for _, query := range missing {
		if _, err := p.db.Exec(query); err != nil {
			return fmt.Errorf("migrate: %w", err)
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
