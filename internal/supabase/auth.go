package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"portfolio-backend/internal/auth"
)

var ErrInvalidCredentials = errors.New("invalid login credentials")

// AuthClient talks to Supabase Auth. It also satisfies auth.Verifier by
// asking the Auth server who a token belongs to.
type AuthClient struct {
	client     gotrue.Client
	authURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewAuthClient wraps client. authURL is the GoTrue base URL
// (<SUPABASE_URL>/auth/v1), used for requests gotrue-go cannot express.
func NewAuthClient(client gotrue.Client, authURL, apiKey string, logger zerolog.Logger) *AuthClient {
	httpClient := cleanhttp.DefaultClient()
	httpClient.Timeout = 30 * time.Second

	return &AuthClient{
		client:     client,
		authURL:    authURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	resp, err := a.client.SignInWithEmailPassword(email, password)
	if err != nil {
		a.logger.Warn().Err(err).Str("email", email).Msg("sign in failed")
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return &auth.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		User:         toUser(resp.User),
	}, nil
}

// SignUp registers a new account. Supabase sends the confirmation email,
// whose link leads to callbackURL when one is given.
func (a *AuthClient) SignUp(ctx context.Context, email, password, callbackURL string) error {
	req := types.SignupRequest{Email: email, Password: password}
	if callbackURL == "" {
		if _, err := a.client.Signup(req); err != nil {
			return fmt.Errorf("failed to sign up: %w", err)
		}
		return nil
	}
	if err := a.signupWithRedirect(ctx, req, callbackURL); err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}
	return nil
}

// signupWithRedirect posts to /signup with redirect_to, which
// types.SignupRequest has no field for.
func (a *AuthClient) signupWithRedirect(ctx context.Context, body types.SignupRequest, callbackURL string) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := a.authURL + "/signup?redirect_to=" + url.QueryEscape(callbackURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("response status code %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

func (a *AuthClient) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.client.WithToken(token).Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

func (a *AuthClient) Verify(ctx context.Context, token string) (*auth.User, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}

	resp, err := a.client.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	user := toUser(resp.User)
	return &user, nil
}

func toUser(u types.User) auth.User {
	return auth.User{ID: u.ID.String(), Email: u.Email}
}
