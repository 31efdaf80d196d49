package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"transcriptome/app/internal/domain/asset"
	"transcriptome/app/internal/domain/transcript"
	"transcriptome/app/internal/presentation/http/templates"
)

// AssetService manages the team photo shown in the page footer.
type AssetService interface {
	TeamPhoto(ctx context.Context) (*asset.Photo, error)
	ReplaceTeamPhoto(ctx context.Context, upload asset.Upload) (*asset.Photo, error)
}

// Options configures the HTTP server wiring.
type Options struct {
	TranscriptService transcript.Service
	AssetService      AssetService
	Database          *gorm.DB
	Logger            *logrus.Logger
	SentryHub         *sentry.Hub
	RateLimiter       RateLimiterSettings
	Credits           templates.Credits
	SecretKey         string
	// UploadDir is served under /uploads/ when the team photo lives on the local filesystem.
	UploadDir      string
	UploadMaxBytes int64
	// CreditsDir is served under /credits/ and holds the creator and supervisor photos.
	CreditsDir string
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api            huma.API
	mux            *stdhttp.ServeMux
	transcripts    transcript.Service
	assets         AssetService
	db             *gorm.DB
	logger         *logrus.Logger
	sentry         *sentry.Hub
	rateLimiter    *RateLimiter
	metrics        *metrics
	flash          flashCodec
	credits        templates.Credits
	uploadDir      string
	uploadMaxBytes int64
	creditsDir     string
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.TranscriptService == nil {
		return nil, eris.New("transcript service is required")
	}
	if opts.AssetService == nil {
		return nil, eris.New("asset service is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}
	if opts.SecretKey == "" {
		return nil, eris.New("secret key is required")
	}
	if opts.UploadMaxBytes <= 0 {
		return nil, eris.New("upload size limit must be greater than zero")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Sugarcane Transcriptome", "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:            api,
		mux:            mux,
		transcripts:    opts.TranscriptService,
		assets:         opts.AssetService,
		db:             opts.Database,
		logger:         opts.Logger,
		sentry:         opts.SentryHub,
		metrics:        newMetrics(),
		flash:          newFlashCodec(opts.SecretKey),
		credits:        opts.Credits,
		uploadDir:      opts.UploadDir,
		uploadMaxBytes: opts.UploadMaxBytes,
		creditsDir:     opts.CreditsDir,
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.metricsMiddleware(),
		s.loggingMiddleware(),
		s.unmatchedPathMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /favicon.ico", faviconHandler)
	s.mux.HandleFunc("HEAD /favicon.ico", faviconHandler)

	s.registerStaticRoute()
	s.registerUploadsRoute()
	s.registerCreditsRoute()
	s.registerMetricsRoute()

	s.registerDashboardRoute()
	s.registerSearchRoutes()
	s.registerTranscriptRoute()
	s.registerDownloadRoute()
	s.registerAboutRoute()
	s.registerUploadRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
