package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL       = "http://localhost:8000"
	DefaultDBPath       = "shotpro.db"
	DefaultLogLevel     = "info"
	DefaultPollInterval = time.Second
	DefaultDevAddr      = ":8000"
	DefaultBucket       = "screenshots"
)

// MinIO addresses the optional object-storage download sink
type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether an endpoint was configured
func (m MinIO) Enabled() bool {
	return m.Endpoint != ""
}

// Config is the resolved client configuration
type Config struct {
	APIURL       string
	DBPath       string
	LogLevel     string
	HTTPTimeout  time.Duration // 0 leaves requests unbounded
	PollInterval time.Duration
	DownloadDir  string
	DevAddr      string
	MinIO        MinIO
}

// FromEnv loads .env if present and reads SHOTPRO_* variables
func FromEnv() (Config, error) {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
	return Load(os.Getenv)
}

// Load reads configuration through getenv, applying defaults for unset values
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIURL:       orDefault(getenv("SHOTPRO_API_URL"), DefaultAPIURL),
		DBPath:       orDefault(getenv("SHOTPRO_DB"), DefaultDBPath),
		LogLevel:     orDefault(getenv("SHOTPRO_LOG_LEVEL"), DefaultLogLevel),
		PollInterval: DefaultPollInterval,
		DownloadDir:  orDefault(getenv("SHOTPRO_DOWNLOAD_DIR"), "."),
		DevAddr:      orDefault(getenv("SHOTPRO_DEV_ADDR"), DefaultDevAddr),
		MinIO: MinIO{
			Endpoint:  getenv("SHOTPRO_MINIO_ENDPOINT"),
			AccessKey: getenv("SHOTPRO_MINIO_ACCESS_KEY"),
			SecretKey: getenv("SHOTPRO_MINIO_SECRET_KEY"),
			Bucket:    orDefault(getenv("SHOTPRO_MINIO_BUCKET"), DefaultBucket),
		},
	}

	var err error
	if v := getenv("SHOTPRO_HTTP_TIMEOUT"); v != "" {
		if cfg.HTTPTimeout, err = time.ParseDuration(v); err != nil || cfg.HTTPTimeout < 0 {
			return Config{}, fmt.Errorf("invalid SHOTPRO_HTTP_TIMEOUT %q", v)
		}
	}
	if v := getenv("SHOTPRO_POLL_INTERVAL"); v != "" {
		if cfg.PollInterval, err = time.ParseDuration(v); err != nil || cfg.PollInterval <= 0 {
			return Config{}, fmt.Errorf("invalid SHOTPRO_POLL_INTERVAL %q", v)
		}
	}
	if v := getenv("SHOTPRO_MINIO_SSL"); v != "" {
		if cfg.MinIO.UseSSL, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("invalid SHOTPRO_MINIO_SSL %q", v)
		}
	}
	if cfg.MinIO.Enabled() && (cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "") {
		return Config{}, fmt.Errorf("SHOTPRO_MINIO_ENDPOINT requires SHOTPRO_MINIO_ACCESS_KEY and SHOTPRO_MINIO_SECRET_KEY")
	}

	return cfg, nil
}

// RegisterFlags binds the global flags. Values already in cfg become the defaults,
// so flags override the environment.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "Screenshot backend base URL")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite state database")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
