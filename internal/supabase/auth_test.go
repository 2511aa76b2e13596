package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/supabase"
)

const userID = "6f1c2a3b-4d5e-4f60-8a9b-0c1d2e3f4a5b"

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "correct-horse" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
				return
			}
			w.Write([]byte(`{"access_token":"access-1","refresh_token":"refresh-1","token_type":"bearer","expires_in":3600,
				"user":{"id":"` + userID + `","email":"owner@example.com"}}`))
		case "/user":
			if r.Header.Get("Authorization") != "Bearer access-1" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"msg":"invalid JWT"}`))
				return
			}
			w.Write([]byte(`{"id":"` + userID + `","email":"owner@example.com"}`))
		case "/logout":
			w.WriteHeader(http.StatusNoContent)
		case "/signup":
			if r.URL.Query().Get("redirect_to") != "" && r.URL.Query().Get("redirect_to") != "https://site.example/auth/callback" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"id":"` + userID + `","email":"new@example.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAuthClient(t *testing.T) *supabase.AuthClient {
	srv := newAuthServer(t)
	client := gotrue.New("test", "anon-key").WithCustomGoTrueURL(srv.URL)
	return supabase.NewAuthClient(client, srv.URL, "anon-key", zerolog.Nop())
}

func TestAuthClient_SignIn(t *testing.T) {
	client := newAuthClient(t)

	session, err := client.SignIn(context.Background(), "owner@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)
	assert.Equal(t, 3600, session.ExpiresIn)
	assert.Equal(t, userID, session.User.ID)
}

func TestAuthClient_SignInWrongPassword(t *testing.T) {
	client := newAuthClient(t)

	_, err := client.SignIn(context.Background(), "owner@example.com", "nope")
	assert.ErrorIs(t, err, supabase.ErrInvalidCredentials)

	_, err = client.SignIn(context.Background(), "", "")
	assert.ErrorIs(t, err, supabase.ErrInvalidCredentials)
}

func TestAuthClient_Verify(t *testing.T) {
	client := newAuthClient(t)

	user, err := client.Verify(context.Background(), "access-1")
	require.NoError(t, err)
	assert.Equal(t, &auth.User{ID: userID, Email: "owner@example.com"}, user)

	_, err = client.Verify(context.Background(), "forged")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthClient_SignOutAndSignUp(t *testing.T) {
	client := newAuthClient(t)

	assert.NoError(t, client.SignOut(context.Background(), "access-1"))
	assert.NoError(t, client.SignOut(context.Background(), ""))
	assert.NoError(t, client.SignUp(context.Background(), "new@example.com", "long-password", ""))
	assert.NoError(t, client.SignUp(context.Background(), "new@example.com", "long-password", "https://site.example/auth/callback"))
	assert.Error(t, client.SignUp(context.Background(), "new@example.com", "long-password", "https://evil.example/"))
}
