package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/models"
)

const (
	adminToken = "admin-token"
	siteURL    = "https://portfolio.example.com"
)

type testServer struct {
	router   *gin.Engine
	projects *fakeProjects
	auth     *fakeAuth
	notifier *fakeNotifier
	diag     *fakeDiagnostics
}

type fakeDiagnostics struct {
	probed bool
}

func (d *fakeDiagnostics) Run(ctx context.Context, probe bool) *models.DiagnosticsResponse {
	d.probed = probe
	return &models.DiagnosticsResponse{
		Environment: map[string]bool{"SUPABASE_URL": true},
		Store:       models.CheckResult{OK: true, Count: 3},
	}
}

func newTestServer(maxUploadBytes int64) *testServer {
	gin.SetMode(gin.TestMode)

	s := &testServer{
		projects: &fakeProjects{},
		auth:     &fakeAuth{},
		notifier: &fakeNotifier{},
		diag:     &fakeDiagnostics{},
	}

	verifier := stubVerifier{adminToken: {ID: "user-1", Email: "owner@example.com"}}
	s.router = gin.New()
	s.router.Use(middleware.Authenticate(verifier, zerolog.Nop()))
	handlers.Register(s.router, handlers.Routes{
		Projects:    handlers.NewProjectsHandler(s.projects, maxUploadBytes, zerolog.Nop()),
		Auth:        handlers.NewAuthHandler(s.auth, s.notifier, siteURL, true, zerolog.Nop()),
		Diagnostics: s.diag,
	})
	return s
}

func asAdmin(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+adminToken)
	return req
}

type formFile struct {
	field       string
	name        string
	contentType string
	data        []byte
}

// multipartBody encodes fields and an optional file the way a browser would.
func multipartBody(t *testing.T, fields map[string]string, file *formFile) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.name+`"`)
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

var _ handlers.ProjectService = (*fakeProjects)(nil)
var _ handlers.AuthService = (*fakeAuth)(nil)
var _ auth.Verifier = stubVerifier(nil)
