// @title           Portfolio Backend API
// @version         1.0.0
// @description     Backend API for a personal portfolio: public project listing, an authenticated admin for creating, editing, hiding and deleting projects with cover images stored in Supabase Storage. Browser forms post to /login, /logout and /signup at the site root and are answered with redirects; /health is also served at the root.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"portfolio-backend/docs"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/images"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/revalidate"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/supabase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Setup(cfg.Environment, cfg.LogLevel)
	logger := logging.Component("server")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	supabaseClient, err := supabase.NewClient(cfg, logging.Component("supabase"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Supabase client")
	}

	// Projects go through PostgREST unless a direct connection is configured.
	var repo services.ProjectRepository = supabaseClient.Rest
	if cfg.DatabaseURL != "" {
		dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer dbClient.Close()

		migrator := database.NewMigrator(dbClient.DB(), logging.Component("migrator"))
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		repo = dbClient
		logger.Info().Msg("using direct database connection for projects")
	}

	// Local verification needs the project's JWT secret; without it every
	// token is checked against GoTrue.
	var verifier auth.Verifier = supabaseClient.Auth
	if cfg.SupabaseJWTSecret != "" {
		verifier = auth.NewJWTVerifier(cfg.SupabaseJWTSecret)
	}

	var notifier services.Notifier
	if cfg.RevalidateURL != "" {
		notifier = revalidate.NewWebhookNotifier(cfg.RevalidateURL, cfg.RevalidateSecret, logging.Component("revalidate"))
	} else {
		notifier = revalidate.NewLogNotifier(logging.Component("revalidate"))
	}

	imageStore := images.NewStore(supabaseClient.Storage, logging.Component("images"))
	projectService := services.NewProjectService(repo, imageStore, auth.ContextGuard{}, notifier, logging.Component("projects"))
	diagnosticsService := services.NewDiagnosticsService(cfg, repo, supabaseClient.Storage, logging.Component("diagnostics"))

	// Setup router
	router := gin.New()
	router.Use(middleware.Chain(logging.Component("http"), verifier)...)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.Register(router, handlers.Routes{
		Projects:    handlers.NewProjectsHandler(projectService, cfg.MaxUploadBytes, logging.Component("projects_handler")),
		Auth:        handlers.NewAuthHandler(supabaseClient.Auth, notifier, cfg.SiteURL, cfg.IsProduction(), logging.Component("auth_handler")),
		Diagnostics: diagnosticsService,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
}
