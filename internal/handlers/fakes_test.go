package handlers_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/images"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

type fakeProjects struct {
	projects []models.Project

	lastInput  models.ProjectInput
	lastImage  *images.File
	lastUpdate services.UpdateImage
	lastHidden *bool
	warnings   []string
	err        error
}

func (f *fakeProjects) find(id uuid.UUID) (*models.Project, error) {
	for i := range f.projects {
		if f.projects[i].ID == id {
			return &f.projects[i], nil
		}
	}
	return nil, errs.NewNotFound("projects.Get", "project")
}

func (f *fakeProjects) Create(ctx context.Context, input models.ProjectInput, image *images.File) (*services.Result, error) {
	f.lastInput = input
	f.lastImage = image
	if f.err != nil {
		return nil, f.err
	}
	return &services.Result{Project: &models.Project{ID: uuid.New(), Title: input.Title}, Warnings: f.warnings}, nil
}

func (f *fakeProjects) Update(ctx context.Context, id uuid.UUID, input models.ProjectInput, image services.UpdateImage) (*services.Result, error) {
	f.lastInput = input
	f.lastUpdate = image
	if f.err != nil {
		return nil, f.err
	}
	p, err := f.find(id)
	if err != nil {
		return nil, err
	}
	return &services.Result{Project: p, Warnings: f.warnings}, nil
}

func (f *fakeProjects) Delete(ctx context.Context, id uuid.UUID) (*services.Result, error) {
	p, err := f.find(id)
	if err != nil {
		return nil, err
	}
	return &services.Result{Project: p, Warnings: f.warnings}, nil
}

func (f *fakeProjects) ToggleVisibility(ctx context.Context, id uuid.UUID, currentIsHidden bool) (*services.Result, error) {
	f.lastHidden = &currentIsHidden
	p, err := f.find(id)
	if err != nil {
		return nil, err
	}
	p.IsHidden = !currentIsHidden
	return &services.Result{Project: p}, nil
}

func (f *fakeProjects) ListPublic(ctx context.Context) ([]models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Project
	for _, p := range f.projects {
		if !p.IsHidden {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjects) ListAll(ctx context.Context) ([]models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.projects, nil
}

func (f *fakeProjects) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return f.find(id)
}

func (f *fakeProjects) GetPublic(ctx context.Context, slug string) (*models.Project, error) {
	for i := range f.projects {
		if f.projects[i].Slug == slug && !f.projects[i].IsHidden {
			return &f.projects[i], nil
		}
	}
	return nil, errs.NewNotFound("projects.GetPublic", "project")
}

type fakeAuth struct {
	session     *auth.Session
	signInErr   error
	signUpErr   error
	signedOut   []string
	signUpEmail string
	callbackURL string
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeAuth) SignOut(ctx context.Context, token string) error {
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password, callbackURL string) error {
	f.signUpEmail = email
	f.callbackURL = callbackURL
	return f.signUpErr
}

type fakeNotifier struct {
	paths []string
}

func (n *fakeNotifier) Invalidate(ctx context.Context, paths ...string) {
	n.paths = append(n.paths, paths...)
}

type stubVerifier map[string]*auth.User

func (s stubVerifier) Verify(ctx context.Context, token string) (*auth.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}
