package config

import (
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BALLMAP_"

type envBinding struct {
	key string
	set func(cfg *Config, v string) error
}

func str(dst func(*Config) *string) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		*dst(cfg) = v
		return nil
	}
}

func integer(dst func(*Config) *int64) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*dst(cfg) = n
		return nil
	}
}

func boolean(dst func(*Config) *bool) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(cfg) = b
		return nil
	}
}

func duration(dst func(*Config) *time.Duration) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst(cfg) = d
		return nil
	}
}

var envBindings = []envBinding{
	{"SERVER_ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"REQUEST_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.Server.RequestTimeout })},
	{"SHUTDOWN_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.Server.ShutdownTimeout })},
	{"CORS_ORIGINS", func(c *Config, v string) error {
		c.Server.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, o)
			}
		}
		return nil
	}},
	{"STORAGE_BACKEND", str(func(c *Config) *string { return &c.Storage.Backend })},
	{"STORAGE_ROOT", str(func(c *Config) *string { return &c.Storage.Local.Root })},
	{"S3_BUCKET", str(func(c *Config) *string { return &c.Storage.S3.Bucket })},
	{"S3_PREFIX", str(func(c *Config) *string { return &c.Storage.S3.Prefix })},
	{"S3_REGION", str(func(c *Config) *string { return &c.Storage.S3.Region })},
	{"MINIO_ENDPOINT", str(func(c *Config) *string { return &c.Storage.MinIO.Endpoint })},
	{"MINIO_ACCESS_KEY", str(func(c *Config) *string { return &c.Storage.MinIO.AccessKey })},
	{"MINIO_SECRET_KEY", str(func(c *Config) *string { return &c.Storage.MinIO.SecretKey })},
	{"MINIO_USE_SSL", boolean(func(c *Config) *bool { return &c.Storage.MinIO.UseSSL })},
	{"MINIO_BUCKET", str(func(c *Config) *string { return &c.Storage.MinIO.Bucket })},
	{"MINIO_PREFIX", str(func(c *Config) *string { return &c.Storage.MinIO.Prefix })},
	{"MEMORY_LIMIT_BYTES", integer(func(c *Config) *int64 { return &c.Resources.MemoryLimitBytes })},
	{"MAX_CONCURRENT_BUILDS", integer(func(c *Config) *int64 { return &c.Resources.MaxConcurrentBuilds })},
	{"IO_LIMIT_BYTES_PER_SEC", integer(func(c *Config) *int64 { return &c.Resources.IOLimitBytesPerSec })},
	{"LAYER_CACHE_BYTES", integer(func(c *Config) *int64 { return &c.Cache.LayerBytes })},
	{"CATALOG_CACHE_BYTES", integer(func(c *Config) *int64 { return &c.Cache.CatalogBytes })},
	{"CODEC", str(func(c *Config) *string { return &c.Cache.Codec })},
	{"WORKERS", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Mapper.Workers = n
		return nil
	}},
	{"MAX_OVERLAP", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Mapper.MaxOverlap = n
		return nil
	}},
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FORMAT", str(func(c *Config) *string { return &c.Log.Format })},
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		key := EnvPrefix + b.key
		v, ok := lookup(key)
		if !ok {
			continue
		}
		if err := b.set(cfg, v); err != nil {
			return &ErrEnv{Key: key, Value: v, Err: err}
		}
	}
	return nil
}
