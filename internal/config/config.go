package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the transcriptome server.
type Config struct {
	DatabaseURL    string
	DBPath         string
	DBAutoMigrate  bool
	ServerPort     int
	LogLevel       string
	SentryDSN      string
	Environment    string
	ShutdownGrace  time.Duration
	AdminToken     string
	SecretKey      string
	UploadDir      string
	UploadMaxBytes int64
	CreditsDir     string
	Assets         AssetConfig
	RateLimit      RateLimitConfig
	Credits        Credits
}

// AssetConfig selects where the team photo is stored.
type AssetConfig struct {
	Driver      string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3Prefix    string
	S3PathStyle bool
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Credits are the people and institute shown in the footer of every page.
type Credits struct {
	CreatorName     string `json:"creator_name"`
	SupervisorName  string `json:"supervisor_name"`
	Institute       string `json:"institute"`
	CreatorPhoto    string `json:"creator_photo"`
	SupervisorPhoto string `json:"supervisor_photo"`
}

const (
	AssetDriverFilesystem = "fs"
	AssetDriverS3         = "s3"
)

const (
	defaultDBPath         = "./data/transcriptome.db"
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultShutdownGrace  = 10 * time.Second
	defaultAdminToken     = "change-this-admin-token"
	defaultSecretKey      = "change-this-secret-for-flash-messages"
	defaultUploadDir      = "./static/uploads"
	defaultCreditsDir     = "./static/credits"
	defaultUploadMaxBytes = 10 << 20
	defaultRateLimitRPS   = 20
	defaultRateLimitBurst = 40
	defaultClientTTL      = 5 * time.Minute
)

// DefaultCredits mirrors the footer shipped with the first deployment of the dashboard.
var DefaultCredits = Credits{
	CreatorName:    "Subash Palanimuthu, Bioinformatician",
	SupervisorName: "Dr. Prathima P.T, Principal Scientist",
	Institute:      "Department of Biotechnology, ICAR-Sugarcane Breeding Institute, Coimbatore",
}

// CreditsURLPrefix is where the files in CreditsDir are served.
const CreditsURLPrefix = "/credits/"

var creditPhotoExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Environment:   getEnv("ENV", defaultEnvironment),
		ShutdownGrace: defaultShutdownGrace,
		AdminToken:    getEnv("ADMIN_TOKEN", defaultAdminToken),
		SecretKey:     getEnv("SECRET_KEY", defaultSecretKey),
		UploadDir:     getEnv("UPLOAD_DIR", defaultUploadDir),
		CreditsDir:    getEnv("CREDITS_DIR", defaultCreditsDir),
		Assets: AssetConfig{
			Driver:      strings.ToLower(getEnv("ASSET_DRIVER", AssetDriverFilesystem)),
			S3Bucket:    os.Getenv("ASSET_S3_BUCKET"),
			S3Region:    os.Getenv("ASSET_S3_REGION"),
			S3Endpoint:  os.Getenv("ASSET_S3_ENDPOINT"),
			S3Prefix:    getEnv("ASSET_S3_PREFIX", "uploads/"),
			S3PathStyle: strings.EqualFold(os.Getenv("ASSET_S3_PATH_STYLE"), "true"),
		},
		RateLimit: RateLimitConfig{ClientTTL: defaultClientTTL},
		Credits:   DefaultCredits,
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	maxBytesValue := getEnv("UPLOAD_MAX_BYTES", strconv.Itoa(defaultUploadMaxBytes))
	maxBytes, err := strconv.ParseInt(maxBytesValue, 10, 64)
	if err != nil || maxBytes <= 0 {
		return nil, eris.Errorf("invalid UPLOAD_MAX_BYTES value: %s", maxBytesValue)
	}
	cfg.UploadMaxBytes = maxBytes

	rpsValue := getEnv("RATE_LIMIT_RPS", strconv.Itoa(defaultRateLimitRPS))
	rps, err := strconv.ParseFloat(rpsValue, 64)
	if err != nil || rps <= 0 {
		return nil, eris.Errorf("invalid RATE_LIMIT_RPS value: %s", rpsValue)
	}
	cfg.RateLimit.RequestsPerSecond = rps

	burstValue := getEnv("RATE_LIMIT_BURST", strconv.Itoa(defaultRateLimitBurst))
	burst, err := strconv.Atoi(burstValue)
	if err != nil || burst <= 0 {
		return nil, eris.Errorf("invalid RATE_LIMIT_BURST value: %s", burstValue)
	}
	cfg.RateLimit.Burst = burst

	if raw := os.Getenv("DB_AUTO_MIGRATE"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid DB_AUTO_MIGRATE value: %s", raw)
		}
		cfg.DBAutoMigrate = enabled
	}

	if creditsJSON := os.Getenv("SITE_CREDITS"); creditsJSON != "" {
		credits, err := parseCredits(creditsJSON)
		if err != nil {
			return nil, eris.Wrap(err, "parsing SITE_CREDITS")
		}
		cfg.Credits = credits
	}

	if cfg.Credits.CreatorPhoto == "" {
		cfg.Credits.CreatorPhoto = creditPhotoURL(cfg.CreditsDir, "creator")
	}
	if cfg.Credits.SupervisorPhoto == "" {
		cfg.Credits.SupervisorPhoto = creditPhotoURL(cfg.CreditsDir, "supervisor")
	}

	switch cfg.Assets.Driver {
	case AssetDriverFilesystem:
	case AssetDriverS3:
		if cfg.Assets.S3Bucket == "" {
			return nil, eris.New("ASSET_S3_BUCKET is required when ASSET_DRIVER=s3")
		}
	default:
		return nil, eris.Errorf("invalid ASSET_DRIVER value: %s", cfg.Assets.Driver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// creditPhotoURL returns the URL of base.<ext> in dir, or "" when no such image exists.
func creditPhotoURL(dir, base string) string {
	for _, ext := range creditPhotoExtensions {
		info, err := os.Stat(filepath.Join(dir, base+ext))
		if err == nil && info.Mode().IsRegular() {
			return CreditsURLPrefix + base + ext
		}
	}
	return ""
}

func parseCredits(raw string) (Credits, error) {
	// Fields missing from the JSON object keep their defaults.
	credits := DefaultCredits
	if err := json.Unmarshal([]byte(raw), &credits); err != nil {
		return Credits{}, eris.Wrap(err, "decoding JSON")
	}

	if strings.TrimSpace(credits.CreatorName) == "" {
		return Credits{}, eris.New("creator_name is empty")
	}

	return credits, nil
}
