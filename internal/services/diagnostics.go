package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/images"
	"portfolio-backend/internal/models"
)

const diagnosticsFileLimit = 100

// BucketInspector is the subset of the storage client diagnostics needs.
type BucketInspector interface {
	Bucket() string
	BucketExists() (bool, error)
	ListFiles(prefix string, limit int) ([]string, error)
	Upload(key string, data io.Reader, opts images.UploadOptions) error
	Remove(keys []string) error
}

type ProjectCounter interface {
	Count(ctx context.Context) (int64, error)
}

// DiagnosticsService checks configuration and connectivity to the database
// and the image bucket.
type DiagnosticsService struct {
	cfg     *config.Config
	counter ProjectCounter
	bucket  BucketInspector
	logger  zerolog.Logger
	now     func() time.Time
}

func NewDiagnosticsService(cfg *config.Config, counter ProjectCounter, bucket BucketInspector, logger zerolog.Logger) *DiagnosticsService {
	return &DiagnosticsService{
		cfg:     cfg,
		counter: counter,
		bucket:  bucket,
		logger:  logger,
		now:     time.Now,
	}
}

// Run performs every check. With probe set it also writes and removes a
// small object under test/.
func (d *DiagnosticsService) Run(ctx context.Context, probe bool) *models.DiagnosticsResponse {
	resp := &models.DiagnosticsResponse{
		Environment: map[string]bool{
			"SUPABASE_URL":              d.cfg.SupabaseURL != "",
			"SUPABASE_PUBLISHABLE_KEY":  d.cfg.SupabasePublishableKey != "",
			"SUPABASE_SERVICE_ROLE_KEY": d.cfg.SupabaseServiceRoleKey != "",
			"SUPABASE_JWT_SECRET":       d.cfg.SupabaseJWTSecret != "",
			"DATABASE_URL":              d.cfg.DatabaseURL != "",
			"REVALIDATE_URL":            d.cfg.RevalidateURL != "",
		},
	}

	if count, err := d.counter.Count(ctx); err != nil {
		resp.Store = failed("projects table is not reachable", err)
	} else {
		resp.Store = models.CheckResult{OK: true, Count: count}
	}

	if exists, err := d.bucket.BucketExists(); err != nil {
		resp.Bucket = failed("could not list buckets", err)
	} else if !exists {
		resp.Bucket = models.CheckResult{
			Error:  fmt.Sprintf("bucket %q not found", d.bucket.Bucket()),
			Detail: "create a public bucket with this name in Supabase Storage",
		}
	} else {
		resp.Bucket = models.CheckResult{OK: true, Items: []string{d.bucket.Bucket()}}
	}

	if files, err := d.bucket.ListFiles("projects/", diagnosticsFileLimit); err != nil {
		resp.Files = failed("could not list project images", err)
	} else {
		resp.Files = models.CheckResult{OK: true, Count: int64(len(files)), Items: files}
	}

	if probe {
		result := d.probe()
		resp.UploadProbe = &result
	}

	d.logger.Debug().
		Bool("store_ok", resp.Store.OK).
		Bool("bucket_ok", resp.Bucket.OK).
		Bool("files_ok", resp.Files.OK).
		Msg("diagnostics run")
	return resp
}

func (d *DiagnosticsService) probe() models.CheckResult {
	key := fmt.Sprintf("test/%d.txt", d.now().UnixMilli())

	err := d.bucket.Upload(key, strings.NewReader("diagnostics probe"), images.UploadOptions{
		ContentType:  "text/plain",
		CacheControl: "0",
	})
	if err != nil {
		return failed("upload probe failed", err)
	}
	if err := d.bucket.Remove([]string{key}); err != nil {
		return failed("probe object uploaded but not removed: "+key, err)
	}
	return models.CheckResult{OK: true, Items: []string{key}}
}

func failed(message string, err error) models.CheckResult {
	return models.CheckResult{Error: message, Detail: err.Error()}
}
