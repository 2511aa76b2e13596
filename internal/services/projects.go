package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/images"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/revalidate"
	"portfolio-backend/internal/slug"
)

// ProjectRepository is the relational store of projects. Get and GetBySlug
// return (nil, nil) when nothing matches; Update, SetHidden and Delete return
// an errs.NotFound error instead.
type ProjectRepository interface {
	Insert(ctx context.Context, rec models.ProjectRecord) (*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, rec models.ProjectRecord) (*models.Project, error)
	SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context, opts models.ListOptions) ([]models.Project, error)
	Count(ctx context.Context) (int64, error)
}

type ImageStore interface {
	Upload(ctx context.Context, file *images.File, projectSlug string) (string, error)
	Delete(ctx context.Context, url string) error
}

type Guard interface {
	CurrentUser(ctx context.Context) (*auth.User, error)
}

type Notifier interface {
	Invalidate(ctx context.Context, paths ...string)
}

// UpdateImage describes what to do with the cover on update. File replaces
// the cover, Remove clears it, otherwise CurrentURL is kept.
type UpdateImage struct {
	File       *images.File
	Remove     bool
	CurrentURL string
}

// Result is a completed mutation. Warnings report image operations that
// failed without aborting it.
type Result struct {
	Project  *models.Project
	Warnings []string
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

type ProjectService struct {
	repo     ProjectRepository
	images   ImageStore
	guard    Guard
	notifier Notifier
	logger   zerolog.Logger
}

func NewProjectService(repo ProjectRepository, images ImageStore, guard Guard, notifier Notifier, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		repo:     repo,
		images:   images,
		guard:    guard,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *ProjectService) requireUser(ctx context.Context, op string) (*auth.User, error) {
	user, err := s.guard.CurrentUser(ctx)
	if err != nil {
		return nil, errs.E(errs.Unauthorized, op, "Unauthorized", err)
	}
	if user == nil {
		return nil, errs.NewUnauthorized(op)
	}
	return user, nil
}

func normalize(op string, input models.ProjectInput) (models.ProjectRecord, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.ProjectRecord{}, errs.NewValidation(op, "title is required")
	}

	return models.ProjectRecord{
		Slug:     slug.Make(title),
		Title:    title,
		Summary:  models.NullableString(input.Summary),
		Content:  models.NullableString(input.Content),
		Tags:     models.ParseTags(input.Tags),
		IsHidden: input.IsHidden,
	}, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return models.NullableString(s)
}

// upload stores file for projectSlug. A failed upload leaves the project
// without a cover and is reported as a warning.
func (s *ProjectService) upload(ctx context.Context, res *Result, file *images.File, projectSlug string) *string {
	url, err := s.images.Upload(ctx, file, projectSlug)
	if err != nil {
		s.logger.Warn().Err(err).Str("slug", projectSlug).Msg("cover upload failed, continuing without cover")
		res.warn("image upload failed: %v", err)
		return nil
	}
	return &url
}

func (s *ProjectService) deleteImage(ctx context.Context, res *Result, url string) {
	if err := s.images.Delete(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("cover delete failed, object may be orphaned")
		res.warn("image delete failed: %v", err)
	}
}

func (s *ProjectService) Create(ctx context.Context, input models.ProjectInput, image *images.File) (*Result, error) {
	const op = "services.Create"

	user, err := s.requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	rec, err := normalize(op, input)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if !image.Empty() {
		if err := images.Validate(image.Meta()); err != nil {
			return nil, err
		}
		rec.CoverURL = s.upload(ctx, res, image, rec.Slug)
	}

	project, err := s.repo.Insert(ctx, rec)
	if err != nil {
		if rec.CoverURL != nil {
			s.logger.Warn().Str("url", *rec.CoverURL).Msg("project insert failed, uploaded cover is orphaned")
		}
		return nil, errs.E(errs.Store, op, "failed to create project", err)
	}

	s.logger.Info().
		Str("project_id", project.ID.String()).
		Str("slug", project.Slug).
		Str("user_id", user.ID).
		Msg("project created")

	s.notifier.Invalidate(ctx, revalidate.PathHome, revalidate.PathAdmin)
	res.Project = project
	return res, nil
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, input models.ProjectInput, image UpdateImage) (*Result, error) {
	const op = "services.Update"

	user, err := s.requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	rec, err := normalize(op, input)
	if err != nil {
		return nil, err
	}
	replace := !image.File.Empty()
	if replace {
		if err := images.Validate(image.File.Meta()); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	rec.CoverURL = optional(image.CurrentURL)
	currentDeleted := false

	if image.Remove {
		if image.CurrentURL != "" {
			s.deleteImage(ctx, res, image.CurrentURL)
			currentDeleted = true
		}
		rec.CoverURL = nil
	}

	if replace {
		if image.CurrentURL != "" && !currentDeleted {
			s.deleteImage(ctx, res, image.CurrentURL)
		}
		rec.CoverURL = s.upload(ctx, res, image.File, rec.Slug)
	}

	project, err := s.repo.Update(ctx, id, rec)
	if err != nil {
		if replace && rec.CoverURL != nil {
			s.logger.Warn().Str("url", *rec.CoverURL).Msg("project update failed, uploaded cover is orphaned")
		}
		if errs.Is(err, errs.NotFound) {
			return nil, err
		}
		return nil, errs.E(errs.Store, op, "failed to update project", err)
	}

	s.logger.Info().
		Str("project_id", project.ID.String()).
		Str("slug", project.Slug).
		Str("user_id", user.ID).
		Msg("project updated")

	s.notifier.Invalidate(ctx, revalidate.PathHome, revalidate.PathAdmin, revalidate.ProjectPath(project.Slug))
	res.Project = project
	return res, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) (*Result, error) {
	const op = "services.Delete"

	user, err := s.requireUser(ctx, op)
	if err != nil {
		return nil, err
	}

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errs.E(errs.Store, op, "failed to delete project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound(op, "project")
	}

	res := &Result{Project: project}
	if project.CoverURL != nil && *project.CoverURL != "" {
		s.deleteImage(ctx, res, *project.CoverURL)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errs.Is(err, errs.NotFound) {
			return nil, err
		}
		return nil, errs.E(errs.Store, op, "failed to delete project", err)
	}

	s.logger.Info().
		Str("project_id", id.String()).
		Str("user_id", user.ID).
		Msg("project deleted")

	s.notifier.Invalidate(ctx, revalidate.PathHome, revalidate.PathAdmin)
	return res, nil
}

// ToggleVisibility stores the opposite of currentIsHidden as submitted by the
// caller, without reading the row first.
func (s *ProjectService) ToggleVisibility(ctx context.Context, id uuid.UUID, currentIsHidden bool) (*Result, error) {
	const op = "services.ToggleVisibility"

	if _, err := s.requireUser(ctx, op); err != nil {
		return nil, err
	}

	project, err := s.repo.SetHidden(ctx, id, !currentIsHidden)
	if err != nil {
		if errs.Is(err, errs.NotFound) {
			return nil, err
		}
		return nil, errs.E(errs.Store, op, "failed to update visibility", err)
	}

	s.notifier.Invalidate(ctx, revalidate.PathHome, revalidate.PathAdmin)
	return &Result{Project: project}, nil
}

// ListPublic returns visible projects, newest first.
func (s *ProjectService) ListPublic(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, models.ListOptions{})
}

// ListAll includes hidden projects.
func (s *ProjectService) ListAll(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, models.ListOptions{IncludeHidden: true})
}

func (s *ProjectService) list(ctx context.Context, opts models.ListOptions) ([]models.Project, error) {
	projects, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, errs.E(errs.Store, "services.List", "failed to list projects", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errs.E(errs.Store, "services.Get", "failed to get project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("services.Get", "project")
	}
	return project, nil
}

// GetPublic returns a visible project by slug; hidden projects are not found.
func (s *ProjectService) GetPublic(ctx context.Context, projectSlug string) (*models.Project, error) {
	project, err := s.repo.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, errs.E(errs.Store, "services.GetPublic", "failed to get project", err)
	}
	if project == nil || project.IsHidden {
		return nil, errs.NewNotFound("services.GetPublic", "project")
	}
	return project, nil
}
