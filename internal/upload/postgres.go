package upload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amishk599/jobfeed/internal/model"
)

// Ensure PostgresUploader implements model.Uploader.
var _ model.Uploader = (*PostgresUploader)(nil)

// execer is the subset of *pgxpool.Pool the uploader needs.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresUploader writes postings straight into a Postgres table, one
// INSERT per posting. Rows whose url already exists are counted as duplicates.
type PostgresUploader struct {
	db     execer
	pool   *pgxpool.Pool // nil when constructed around a bare execer
	table  string
	now    func() time.Time
	logger *slog.Logger
}

// NewPostgresUploader connects to dsn and makes sure table exists.
func NewPostgresUploader(ctx context.Context, dsn, table string, logger *slog.Logger) (*PostgresUploader, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	u := newPostgresUploader(pool, table, logger)
	u.pool = pool
	if err := u.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return u, nil
}

func newPostgresUploader(db execer, table string, logger *slog.Logger) *PostgresUploader {
	return &PostgresUploader{
		db:     db,
		table:  pgx.Identifier{table}.Sanitize(),
		now:    time.Now,
		logger: logger,
	}
}

func (u *PostgresUploader) ensureTable(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS ` + u.table + ` (
		id          BIGSERIAL PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		company     VARCHAR(255),
		location    VARCHAR(255),
		url         TEXT NOT NULL UNIQUE,
		source      TEXT,
		date_posted TEXT,
		description VARCHAR(1000),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := u.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating %s table: %w", u.table, err)
	}
	return nil
}

// Upload inserts each posting independently.
func (u *PostgresUploader) Upload(ctx context.Context, postings []model.JobPosting) (model.UploadResult, error) {
	res := result{Target: "postgres"}
	insert := `INSERT INTO ` + u.table + `
		(title, company, location, url, source, date_posted, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO NOTHING`

	u.logger.Info("uploading postings", "count", len(postings), "table", u.table)

	for _, p := range postings {
		if err := ctx.Err(); err != nil {
			return model.UploadResult(res), fmt.Errorf("upload cancelled: %w", err)
		}
		pl := BuildPayload(p, u.now())
		tag, err := u.db.Exec(ctx, insert,
			pl.Title, pl.Company, pl.Location, pl.URL, pl.Source, pl.DatePosted, pl.Description)
		if err != nil {
			u.logger.Warn("upload failed", "url", p.URL, "error", err)
			res.Failed++
			continue
		}
		if tag.RowsAffected() == 0 {
			res.add(OutcomeDuplicate)
		} else {
			res.add(OutcomeSucceeded)
		}
	}

	u.logger.Info("upload complete",
		"succeeded", res.Succeeded,
		"duplicates", res.Duplicates,
		"failed", res.Failed,
	)
	return model.UploadResult(res), nil
}

// Close releases the connection pool.
func (u *PostgresUploader) Close() {
	if u.pool != nil {
		u.pool.Close()
	}
}
