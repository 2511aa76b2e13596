package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/images"
	"portfolio-backend/internal/models"
)

const bucketBase = "https://abc.supabase.co/storage/v1/object/public/project-images/"

// calls is the ordered log shared by the fakes.
type calls []string

func (c *calls) add(format string, args ...any) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

type fakeRepo struct {
	log       *calls
	rows      map[uuid.UUID]*models.Project
	inserted  []models.ProjectRecord
	updated   []models.ProjectRecord
	insertErr error
	updateErr error
	hiddenErr error
	deleteErr error
	listErr   error
}

func newFakeRepo(log *calls) *fakeRepo {
	return &fakeRepo{log: log, rows: map[uuid.UUID]*models.Project{}}
}

func (r *fakeRepo) seed(p models.Project) *models.Project {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.rows[p.ID] = &p
	return &p
}

func (r *fakeRepo) apply(p *models.Project, rec models.ProjectRecord) {
	p.Slug = rec.Slug
	p.Title = rec.Title
	p.Summary = rec.Summary
	p.Content = rec.Content
	p.Tags = rec.Tags
	p.CoverURL = rec.CoverURL
	p.IsHidden = rec.IsHidden
	p.UpdatedAt = time.Now()
}

func (r *fakeRepo) Insert(ctx context.Context, rec models.ProjectRecord) (*models.Project, error) {
	r.log.add("repo.Insert")
	r.inserted = append(r.inserted, rec)
	if r.insertErr != nil {
		return nil, errs.E(errs.Store, "fake.Insert", "", r.insertErr)
	}
	p := &models.Project{ID: uuid.New(), CreatedAt: time.Now()}
	r.apply(p, rec)
	r.rows[p.ID] = p
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) Update(ctx context.Context, id uuid.UUID, rec models.ProjectRecord) (*models.Project, error) {
	r.log.add("repo.Update")
	r.updated = append(r.updated, rec)
	if r.updateErr != nil {
		return nil, errs.E(errs.Store, "fake.Update", "", r.updateErr)
	}
	p, ok := r.rows[id]
	if !ok {
		return nil, errs.NewNotFound("fake.Update", "project")
	}
	r.apply(p, rec)
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*models.Project, error) {
	r.log.add("repo.SetHidden(%t)", hidden)
	if r.hiddenErr != nil {
		return nil, errs.E(errs.Store, "fake.SetHidden", "", r.hiddenErr)
	}
	p, ok := r.rows[id]
	if !ok {
		return nil, errs.NewNotFound("fake.SetHidden", "project")
	}
	p.IsHidden = hidden
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.log.add("repo.Delete")
	if r.deleteErr != nil {
		return errs.E(errs.Store, "fake.Delete", "", r.deleteErr)
	}
	if _, ok := r.rows[id]; !ok {
		return errs.NewNotFound("fake.Delete", "project")
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	r.log.add("repo.Get")
	p, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	for _, p := range r.rows {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) List(ctx context.Context, opts models.ListOptions) ([]models.Project, error) {
	if r.listErr != nil {
		return nil, errs.E(errs.Store, "fake.List", "", r.listErr)
	}
	out := []models.Project{}
	for _, p := range r.rows {
		if opts.IncludeHidden || !p.IsHidden {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

type fakeImages struct {
	log       *calls
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeImages) Upload(ctx context.Context, file *images.File, projectSlug string) (string, error) {
	f.log.add("images.Upload")
	if f.uploadErr != nil {
		return "", errs.E(errs.Upload, "fake.Upload", "failed to upload image", f.uploadErr)
	}
	key := fmt.Sprintf("projects/%s-1700000000000.%s", projectSlug, images.Extension(file.Name, file.ContentType))
	f.uploaded = append(f.uploaded, key)
	return bucketBase + key, nil
}

func (f *fakeImages) Delete(ctx context.Context, url string) error {
	f.log.add("images.Delete")
	f.deleted = append(f.deleted, strings.TrimPrefix(url, bucketBase))
	if f.deleteErr != nil {
		return errs.E(errs.Delete, "fake.Delete", "failed to delete image", f.deleteErr)
	}
	return nil
}

type fakeGuard struct {
	user *auth.User
	err  error
}

func (g fakeGuard) CurrentUser(ctx context.Context) (*auth.User, error) {
	return g.user, g.err
}

type fakeNotifier struct {
	log   *calls
	paths [][]string
}

func (n *fakeNotifier) Invalidate(ctx context.Context, paths ...string) {
	n.log.add("notify")
	n.paths = append(n.paths, paths)
}

type fakeBucket struct {
	name      string
	exists    bool
	files     []string
	listErr   error
	uploadErr error
	uploads   []string
	removed   []string
}

func (b *fakeBucket) Bucket() string { return b.name }

func (b *fakeBucket) BucketExists() (bool, error) { return b.exists, nil }

func (b *fakeBucket) ListFiles(prefix string, limit int) ([]string, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.files, nil
}

func (b *fakeBucket) Upload(key string, data io.Reader, opts images.UploadOptions) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	b.uploads = append(b.uploads, key)
	return nil
}

func (b *fakeBucket) Remove(keys []string) error {
	b.removed = append(b.removed, keys...)
	return nil
}

type failingCounter struct{}

func (failingCounter) Count(ctx context.Context) (int64, error) {
	return 0, errors.New(`relation "projects" does not exist`)
}
