package bootstrap

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"transcriptome/app/internal/config"
	"transcriptome/app/internal/data/database"
	"transcriptome/app/internal/data/migrations"
	"transcriptome/app/internal/data/transcripts"
	"transcriptome/app/internal/domain/asset"
	"transcriptome/app/internal/domain/transcript"
	"transcriptome/app/internal/infrastructure/storage/filesystem"
	"transcriptome/app/internal/infrastructure/storage/s3"
	presentationhttp "transcriptome/app/internal/presentation/http"
	"transcriptome/app/internal/presentation/http/templates"
)

const uploadsURLPrefix = "/uploads/"

type Dependencies struct {
	Config    config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

// Data is the storage half of the application, shared by the HTTP server and the CLI commands.
type Data struct {
	TranscriptService transcript.Service
	Database          *gorm.DB
	Cleanup           func() error
}

type Result struct {
	TranscriptService transcript.Service
	AssetService      *asset.Service
	HTTPServer        *presentationhttp.Server
	Database          *gorm.DB
	Cleanup           func() error
}

// BuildData opens the database and wires the transcript repository and service.
func BuildData(ctx context.Context, deps Dependencies) (Data, error) {
	db, err := database.Open(database.Options{
		URL:  deps.Config.DatabaseURL,
		Path: deps.Config.DBPath,
		Log:  deps.Logger,
	})
	if err != nil {
		return Data{}, eris.Wrap(err, "opening database")
	}

	closeOnError := func(wrapper error) (Data, error) {
		if closeErr := database.Close(db); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Data{}, wrapper
	}

	if deps.Config.DBAutoMigrate {
		if err := migrations.MigrateTranscripts(ctx, db, deps.Logger); err != nil {
			return closeOnError(eris.Wrap(err, "running transcripts migrations"))
		}
	}

	repo, err := transcripts.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating transcripts repository"))
	}

	service, err := transcript.NewService(repo)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating transcript service"))
	}

	return Data{
		TranscriptService: service,
		Database:          db,
		Cleanup: func() error {
			return database.Close(db)
		},
	}, nil
}

// Build composes the application layers and returns the constructed components.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	data, err := BuildData(ctx, deps)
	if err != nil {
		return Result{}, err
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := data.Cleanup(); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	cfg := deps.Config

	store, uploadDir, err := newAssetStore(ctx, cfg)
	if err != nil {
		return closeOnError(err)
	}

	assetService, err := asset.NewService(store, cfg.AdminToken)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating asset service"))
	}

	httpServer, err := presentationhttp.NewServer(presentationhttp.Options{
		TranscriptService: data.TranscriptService,
		AssetService:      assetService,
		Database:          data.Database,
		Logger:            deps.Logger,
		SentryHub:         deps.SentryHub,
		RateLimiter: presentationhttp.RateLimiterSettings{
			Burst:             cfg.RateLimit.Burst,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			ClientTTL:         cfg.RateLimit.ClientTTL,
		},
		Credits: templates.Credits{
			CreatorName:     cfg.Credits.CreatorName,
			SupervisorName:  cfg.Credits.SupervisorName,
			Institute:       cfg.Credits.Institute,
			CreatorPhoto:    cfg.Credits.CreatorPhoto,
			SupervisorPhoto: cfg.Credits.SupervisorPhoto,
		},
		SecretKey:      cfg.SecretKey,
		UploadDir:      uploadDir,
		UploadMaxBytes: cfg.UploadMaxBytes,
		CreditsDir:     cfg.CreditsDir,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		httpServer.Close()
		return data.Cleanup()
	}

	return Result{
		TranscriptService: data.TranscriptService,
		AssetService:      assetService,
		HTTPServer:        httpServer,
		Database:          data.Database,
		Cleanup:           cleanup,
	}, nil
}

// newAssetStore selects the team photo backend. The returned directory is non-empty only for the
// filesystem driver, whose files the HTTP server serves itself.
func newAssetStore(ctx context.Context, cfg config.Config) (asset.Store, string, error) {
	switch cfg.Assets.Driver {
	case config.AssetDriverS3:
		store, err := s3.New(ctx, s3.Config{
			Region:    cfg.Assets.S3Region,
			Bucket:    cfg.Assets.S3Bucket,
			Endpoint:  cfg.Assets.S3Endpoint,
			Prefix:    cfg.Assets.S3Prefix,
			PathStyle: cfg.Assets.S3PathStyle,
		})
		if err != nil {
			return nil, "", eris.Wrap(err, "creating s3 asset store")
		}
		return store, "", nil
	default:
		store, err := filesystem.New(cfg.UploadDir, uploadsURLPrefix)
		if err != nil {
			return nil, "", eris.Wrap(err, "creating filesystem asset store")
		}
		return store, store.Root(), nil
	}
}
