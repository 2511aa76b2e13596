package supabase

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	postgrest "github.com/supabase-community/postgrest-go"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/models"
)

const projectsTable = "projects"

// RestRepository stores projects through PostgREST. A client is built for
// every call so each request runs with its caller's token and RLS applies.
type RestRepository struct {
	restURL        string
	publishableKey string
	serviceRoleKey string
}

func NewRestRepository(supabaseURL, publishableKey, serviceRoleKey string) *RestRepository {
	return &RestRepository{
		restURL:        strings.TrimRight(supabaseURL, "/") + "/rest/v1",
		publishableKey: publishableKey,
		serviceRoleKey: serviceRoleKey,
	}
}

func (r *RestRepository) client(ctx context.Context) *postgrest.Client {
	bearer := r.publishableKey
	if token, ok := auth.TokenFromContext(ctx); ok {
		bearer = token
	} else if r.serviceRoleKey != "" {
		bearer = r.serviceRoleKey
	}

	apiKey := r.publishableKey
	if apiKey == "" {
		apiKey = r.serviceRoleKey
	}

	return postgrest.NewClient(r.restURL, "public", map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + bearer,
	})
}

func (r *RestRepository) from(ctx context.Context) *postgrest.QueryBuilder {
	return r.client(ctx).From(projectsTable)
}

func (r *RestRepository) Insert(ctx context.Context, rec models.ProjectRecord) (*models.Project, error) {
	var rows []models.Project
	if _, err := r.from(ctx).Insert(rec, false, "", "representation", "").ExecuteTo(&rows); err != nil {
		return nil, errs.E(errs.Store, "supabase.Insert", "", err)
	}
	if len(rows) == 0 {
		return nil, errs.E(errs.Store, "supabase.Insert", "insert returned no row", nil)
	}
	return &rows[0], nil
}

func (r *RestRepository) Update(ctx context.Context, id uuid.UUID, rec models.ProjectRecord) (*models.Project, error) {
	var rows []models.Project
	_, err := r.from(ctx).
		Update(rec, "representation", "").
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errs.E(errs.Store, "supabase.Update", "", err)
	}
	if len(rows) == 0 {
		return nil, errs.NewNotFound("supabase.Update", "project")
	}
	return &rows[0], nil
}

func (r *RestRepository) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*models.Project, error) {
	var rows []models.Project
	_, err := r.from(ctx).
		Update(map[string]bool{"is_hidden": hidden}, "representation", "").
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errs.E(errs.Store, "supabase.SetHidden", "", err)
	}
	if len(rows) == 0 {
		return nil, errs.NewNotFound("supabase.SetHidden", "project")
	}
	return &rows[0], nil
}

func (r *RestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var rows []models.Project
	_, err := r.from(ctx).
		Delete("representation", "").
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return errs.E(errs.Store, "supabase.Delete", "", err)
	}
	if len(rows) == 0 {
		return errs.NewNotFound("supabase.Delete", "project")
	}
	return nil
}

func (r *RestRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var rows []models.Project
	_, err := r.from(ctx).
		Select("*", "", false).
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errs.E(errs.Store, "supabase.Get", "", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// GetBySlug returns the newest project with slug; slugs are not unique.
func (r *RestRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var rows []models.Project
	_, err := r.from(ctx).
		Select("*", "", false).
		Eq("slug", slug).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, errs.E(errs.Store, "supabase.GetBySlug", "", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *RestRepository) List(ctx context.Context, opts models.ListOptions) ([]models.Project, error) {
	query := r.from(ctx).Select("*", "", false)
	if !opts.IncludeHidden {
		query = query.Eq("is_hidden", strconv.FormatBool(false))
	}

	rows := []models.Project{}
	_, err := query.
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errs.E(errs.Store, "supabase.List", "", err)
	}
	return rows, nil
}

func (r *RestRepository) Count(ctx context.Context) (int64, error) {
	_, count, err := r.from(ctx).Select("id", "exact", true).Execute()
	if err != nil {
		return 0, errs.E(errs.Store, "supabase.Count", "", err)
	}
	return int64(count), nil
}
