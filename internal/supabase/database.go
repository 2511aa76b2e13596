package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/models"
)

const projectColumns = `id, slug, title, summary, content, tags, cover_url, is_hidden, created_at, updated_at`

// DatabaseClient stores projects directly in the Supabase Postgres database.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var tags pq.StringArray
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Summary, &p.Content,
		&tags, &p.CoverURL, &p.IsHidden, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tags != nil {
		p.Tags = []string(tags)
	}
	return &p, nil
}

func (d *DatabaseClient) Insert(ctx context.Context, rec models.ProjectRecord) (*models.Project, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO projects (slug, title, summary, content, tags, cover_url, is_hidden)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+projectColumns,
		rec.Slug, rec.Title, rec.Summary, rec.Content, pq.Array(rec.Tags), rec.CoverURL, rec.IsHidden,
	)
	project, err := scanProject(row)
	if err != nil {
		return nil, errs.E(errs.Store, "database.Insert", "", err)
	}
	return project, nil
}

func (d *DatabaseClient) Update(ctx context.Context, id uuid.UUID, rec models.ProjectRecord) (*models.Project, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE projects
		SET slug = $1, title = $2, summary = $3, content = $4, tags = $5, cover_url = $6, is_hidden = $7
		WHERE id = $8
		RETURNING `+projectColumns,
		rec.Slug, rec.Title, rec.Summary, rec.Content, pq.Array(rec.Tags), rec.CoverURL, rec.IsHidden, id,
	)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFound("database.Update", "project")
	}
	if err != nil {
		return nil, errs.E(errs.Store, "database.Update", "", err)
	}
	return project, nil
}

func (d *DatabaseClient) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*models.Project, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE projects
		SET is_hidden = $1
		WHERE id = $2
		RETURNING `+projectColumns,
		hidden, id,
	)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFound("database.SetHidden", "project")
	}
	if err != nil {
		return nil, errs.E(errs.Store, "database.SetHidden", "", err)
	}
	return project, nil
}

func (d *DatabaseClient) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return errs.E(errs.Store, "database.Delete", "", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.E(errs.Store, "database.Delete", "", err)
	}
	if n == 0 {
		return errs.NewNotFound("database.Delete", "project")
	}
	return nil
}

func (d *DatabaseClient) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.E(errs.Store, "database.Get", "", err)
	}
	return project, nil
}

func (d *DatabaseClient) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE slug = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, slug)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.E(errs.Store, "database.GetBySlug", "", err)
	}
	return project, nil
}

func (d *DatabaseClient) List(ctx context.Context, opts models.ListOptions) ([]models.Project, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE $1 OR NOT is_hidden
		ORDER BY created_at DESC
	`, opts.IncludeHidden)
	if err != nil {
		return nil, errs.E(errs.Store, "database.List", "", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, errs.E(errs.Store, "database.List", "failed to scan project", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.E(errs.Store, "database.List", "", err)
	}

	return projects, nil
}

func (d *DatabaseClient) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, errs.E(errs.Store, "database.Count", "", err)
	}
	return count, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
