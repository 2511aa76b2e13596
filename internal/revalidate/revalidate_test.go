package revalidate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portfolio-backend/internal/revalidate"
)

func TestWebhookNotifier_PostsPaths(t *testing.T) {
	var got struct {
		Paths []string `json:"paths"`
	}
	var secret string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret = r.Header.Get(revalidate.SecretHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := revalidate.NewWebhookNotifier(srv.URL, "s3cret", zerolog.Nop())
	n.Invalidate(context.Background(), revalidate.PathHome, revalidate.PathAdmin, revalidate.ProjectPath("hello-world"))

	assert.Equal(t, []string{"/", "/admin", "/project/hello-world"}, got.Paths)
	assert.Equal(t, "s3cret", secret)
}

func TestWebhookNotifier_FailureIsLoggedOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad secret"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	n := revalidate.NewWebhookNotifier(srv.URL, "wrong", zerolog.New(&buf))
	n.Invalidate(context.Background(), revalidate.PathHome)

	assert.Contains(t, buf.String(), "view invalidation failed")
	assert.Contains(t, buf.String(), "401")
}

func TestWebhookNotifier_CanceledRequestStillNotifies(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	revalidate.NewWebhookNotifier(srv.URL, "", zerolog.Nop()).Invalidate(ctx, revalidate.PathAdmin)
	assert.True(t, called)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	revalidate.NewLogNotifier(zerolog.New(&buf)).Invalidate(context.Background(), "/", "/admin")

	assert.Contains(t, buf.String(), `"paths":["/","/admin"]`)
}
