package supabase

import (
	"github.com/rs/zerolog"
	"github.com/supabase-community/supabase-go"
	"portfolio-backend/internal/config"
)

// Client bundles the Supabase services the portfolio uses.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config

	Auth    *AuthClient
	Storage *StorageClient
	Rest    *RestRepository
}

func NewClient(cfg *config.Config, logger zerolog.Logger) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	storageClient, err := NewStorageClient(cfg.SupabaseURL, cfg.StorageKey(), cfg.SupabaseStorageBucket)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,

		Auth: NewAuthClient(client.Auth, cfg.SupabaseURL+"/auth/v1", cfg.SupabasePublishableKey,
			logger.With().Str("component", "supabase_auth").Logger()),
		Storage: storageClient,
		Rest:    NewRestRepository(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseServiceRoleKey),
	}, nil
}
