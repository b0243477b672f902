package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()
	if cfg.Server.Port != "5000" {
		t.Errorf("expected default port 5000, got %s", cfg.Server.Port)
	}
	if cfg.JWT.Expiry != time.Hour {
		t.Errorf("expected 1h token expiry, got %v", cfg.JWT.Expiry)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("expected local storage backend, got %s", cfg.Storage.Backend)
	}
	if cfg.RabbitMQ.URI != "" {
		t.Errorf("expected event publishing disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_EXPIRY_MINUTES", "30")
	t.Setenv("READ_TIMEOUT", "3")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	if cfg.JWT.Expiry != 30*time.Minute {
		t.Errorf("expected 30m expiry, got %v", cfg.JWT.Expiry)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("expected 3s read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if len(cfg.Server.AllowOrigins) != 2 || cfg.Server.AllowOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins: %v", cfg.Server.AllowOrigins)
	}
	if !cfg.MinIO.UseSSL {
		t.Errorf("expected MINIO_USE_SSL to be true")
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("expected fallback redis db 0, got %d", cfg.Redis.DB)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"missing mongo uri", func(c *Config) { c.MongoDB.URI = "" }, true},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "s3" }, true},
		{"minio backend", func(c *Config) { c.Storage.Backend = "minio" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				JWT:     JWTConfig{Secret: "s"},
				MongoDB: MongoDBConfig{URI: "mongodb://localhost"},
				Storage: StorageConfig{Backend: "local"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
