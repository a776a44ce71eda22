package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/ballmap/blobstore"
	"github.com/hupe1980/ballmap/blobstore/minio"
	"github.com/hupe1980/ballmap/blobstore/s3"
	"github.com/hupe1980/ballmap/resource"
)

// Storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendMinIO = "minio"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Storage   StorageConfig  `yaml:"storage"`
	Resources ResourceConfig `yaml:"resources"`
	Cache     CacheConfig    `yaml:"cache"`
	Mapper    MapperConfig   `yaml:"mapper"`
	Log       LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `yaml:"cors_origins" validate:"dive,required"`
}

// StorageConfig selects the blob store holding embeddings and catalog files.
type StorageConfig struct {
	Backend string      `yaml:"backend" validate:"oneof=local s3 minio"`
	Local   LocalConfig `yaml:"local"`
	S3      S3Config    `yaml:"s3"`
	MinIO   MinIOConfig `yaml:"minio"`
}

// LocalConfig configures the filesystem backend.
type LocalConfig struct {
	Root string `yaml:"root"`
}

// S3Config configures the Amazon S3 backend.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// MinIOConfig configures the MinIO backend.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// ResourceConfig bounds memory, build concurrency and store throughput.
// Zero disables a limit.
type ResourceConfig struct {
	MemoryLimitBytes    int64 `yaml:"memory_limit_bytes" validate:"gte=0"`
	MaxConcurrentBuilds int64 `yaml:"max_concurrent_builds" validate:"gte=0"`
	IOLimitBytesPerSec  int64 `yaml:"io_limit_bytes_per_sec" validate:"gte=0"`
}

// CacheConfig sizes the decoded-data caches.
type CacheConfig struct {
	LayerBytes   int64  `yaml:"layer_bytes" validate:"gte=0"`
	CatalogBytes int64  `yaml:"catalog_bytes" validate:"gte=0"`
	Codec        string `yaml:"codec" validate:"oneof=json go-json"`
}

// MapperConfig tunes graph construction.
type MapperConfig struct {
	Workers    int `yaml:"workers" validate:"gte=0"`
	MaxOverlap int `yaml:"max_overlap" validate:"gte=1"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5001",
			RequestTimeout:  2 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		Storage: StorageConfig{
			Backend: BackendLocal,
			Local:   LocalConfig{Root: "data/gemmascope-res-65k"},
		},
		Resources: ResourceConfig{
			MaxConcurrentBuilds: 2,
		},
		Cache: CacheConfig{
			LayerBytes:   1 << 30,
			CatalogBytes: 256 << 20,
			Codec:        "go-json",
		},
		Mapper: MapperConfig{
			MaxOverlap: 3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with a custom environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateStorage, StorageConfig{})
	return v
}

func validateStorage(sl validator.StructLevel) {
	s := sl.Current().Interface().(StorageConfig)
	switch s.Backend {
	case BackendLocal:
		if s.Local.Root == "" {
			sl.ReportError(s.Local.Root, "Local.Root", "Root", "required_for_backend", s.Backend)
		}
	case BackendS3:
		if s.S3.Bucket == "" {
			sl.ReportError(s.S3.Bucket, "S3.Bucket", "Bucket", "required_for_backend", s.Backend)
		}
	case BackendMinIO:
		if s.MinIO.Endpoint == "" {
			sl.ReportError(s.MinIO.Endpoint, "MinIO.Endpoint", "Endpoint", "required_for_backend", s.Backend)
		}
		if s.MinIO.Bucket == "" {
			sl.ReportError(s.MinIO.Bucket, "MinIO.Bucket", "Bucket", "required_for_backend", s.Backend)
		}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ErrInvalid{Errors: verrs}
		}
		return err
	}
	return nil
}

// ResourceController returns the controller described by the resource limits.
func (c *Config) ResourceController() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:    c.Resources.MemoryLimitBytes,
		MaxConcurrentBuilds: c.Resources.MaxConcurrentBuilds,
		IOLimitBytesPerSec:  c.Resources.IOLimitBytesPerSec,
	})
}

// Open connects to the configured blob store.
func (s StorageConfig) Open(ctx context.Context) (blobstore.BlobStore, error) {
	switch s.Backend {
	case BackendLocal:
		return blobstore.NewLocalStore(s.Local.Root), nil
	case BackendS3:
		var opts []func(*s3.Options)
		if s.S3.Prefix != "" {
			opts = append(opts, s3.WithPrefix(s.S3.Prefix))
		}
		if s.S3.Region != "" {
			opts = append(opts, s3.WithRegion(s.S3.Region))
		}
		store, err := s3.New(ctx, s.S3.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMinIO:
		store, err := minio.New(minio.Config{
			Endpoint:  s.MinIO.Endpoint,
			AccessKey: s.MinIO.AccessKey,
			SecretKey: s.MinIO.SecretKey,
			UseSSL:    s.MinIO.UseSSL,
			Bucket:    s.MinIO.Bucket,
			Prefix:    s.MinIO.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("config: unknown storage backend %q", s.Backend)
	}
}
