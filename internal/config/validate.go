package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.IssueRatePerMinute < 0 {
		return fmt.Errorf("server.issue_rate_per_minute must not be negative")
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if err := c.Renderer.validate(); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	if err := c.Kafka.validate(); err != nil {
		return fmt.Errorf("kafka: %w", err)
	}

	if err := c.Issuance.validate(); err != nil {
		return fmt.Errorf("issuance: %w", err)
	}

	return nil
}

func (s *StorageConfig) validate() error {
	switch s.Backend {
	case "local":
		if s.LocalRoot == "" {
			return fmt.Errorf("local_root is required for the local backend")
		}
	case "gcs":
		if s.GCSBucket == "" {
			return fmt.Errorf("gcs_bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want local or gcs)", s.Backend)
	}
	return nil
}

func (r *RendererConfig) validate() error {
	switch r.Backend {
	case "text":
		if r.ManifestPath == "" {
			return fmt.Errorf("manifest_path is required for the text backend")
		}
	case "remote":
		if r.RemoteURL == "" {
			return fmt.Errorf("remote_url is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want text or remote)", r.Backend)
	}
	if r.Extension == "" {
		return fmt.Errorf("extension must not be empty")
	}
	return nil
}

func (k *KafkaConfig) validate() error {
	if !k.Enabled() {
		return nil
	}
	if k.Topic == "" {
		return fmt.Errorf("topic is required when brokers are set")
	}
	switch k.Acks {
	case "0", "1", "all":
	default:
		return fmt.Errorf("acks must be 0, 1 or all (got %q)", k.Acks)
	}
	return nil
}

func (i *IssuanceConfig) validate() error {
	loc, err := time.LoadLocation(i.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", i.Timezone, err)
	}
	i.Location = loc

	if i.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be > 0 (got %v)", i.LockTimeout)
	}
	if i.MaxPathAttempts < 1 {
		return fmt.Errorf("max_path_attempts must be >= 1 (got %d)", i.MaxPathAttempts)
	}
	return nil
}
