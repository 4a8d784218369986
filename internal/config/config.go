package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Renderer RendererConfig `yaml:"renderer"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Issuance IssuanceConfig `yaml:"issuance"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// IssueRatePerMinute caps issue requests per caller; 0 disables the limit.
	IssueRatePerMinute int `yaml:"issue_rate_per_minute" env:"SERVER_ISSUE_RATE_PER_MINUTE" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// StatementTimeout bounds every statement server-side; zero leaves the server default.
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"DATABASE_STATEMENT_TIMEOUT" env-default:"30s"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"   env:"DATABASE_CONNECT_TIMEOUT"   env-default:"5s"`
}

// AuthConfig holds bearer-token validation settings. Tokens are minted by the
// identity service; this service only validates them.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"land-dossiers"`
	// AccessTokenTTL bounds tokens minted by cmd/issue-token for operators and tests.
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// StorageConfig selects and configures the artifact store backend.
type StorageConfig struct {
	Backend   string `yaml:"backend"    env:"STORAGE_BACKEND"    env-default:"local"`
	LocalRoot string `yaml:"local_root" env:"STORAGE_LOCAL_ROOT" env-default:"./data/documents"`
	GCSBucket string `yaml:"gcs_bucket" env:"STORAGE_GCS_BUCKET"`
	GCSPrefix string `yaml:"gcs_prefix" env:"STORAGE_GCS_PREFIX"`
}

// RendererConfig selects and configures the template renderer.
type RendererConfig struct {
	Backend       string        `yaml:"backend"        env:"RENDERER_BACKEND"        env-default:"text"`
	ManifestPath  string        `yaml:"manifest_path"  env:"RENDERER_MANIFEST_PATH"  env-default:"./templates/manifest.yaml"`
	RemoteURL     string        `yaml:"remote_url"     env:"RENDERER_REMOTE_URL"`
	RemoteTimeout time.Duration `yaml:"remote_timeout" env:"RENDERER_REMOTE_TIMEOUT" env-default:"15s"`
	Extension     string        `yaml:"extension"      env:"RENDERER_EXTENSION"      env-default:"docx"`
	ContentType   string        `yaml:"content_type"   env:"RENDERER_CONTENT_TYPE"   env-default:"application/vnd.openxmlformats-officedocument.wordprocessingml.document"`
}

// KafkaConfig configures the activity-log publisher. Disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers         string        `yaml:"brokers"          env:"KAFKA_BROKERS"`
	Topic           string        `yaml:"topic"            env:"KAFKA_TOPIC"            env-default:"dossier.document-activity"`
	Acks            string        `yaml:"acks"             env:"KAFKA_ACKS"             env-default:"all"`
	DeliveryTimeout time.Duration `yaml:"delivery_timeout" env:"KAFKA_DELIVERY_TIMEOUT" env-default:"10s"`
}

// Enabled reports whether a Kafka publisher should be started.
func (c KafkaConfig) Enabled() bool { return c.Brokers != "" }

// IssuanceConfig holds document issuance parameters.
type IssuanceConfig struct {
	Timezone        string        `yaml:"timezone"          env:"ISSUANCE_TIMEZONE"          env-default:"UTC"`
	LockTimeout     time.Duration `yaml:"lock_timeout"      env:"ISSUANCE_LOCK_TIMEOUT"      env-default:"5s"`
	MaxPathAttempts int           `yaml:"max_path_attempts" env:"ISSUANCE_MAX_PATH_ATTEMPTS" env-default:"5"`

	// Location is resolved from Timezone during validation.
	Location *time.Location `yaml:"-" env:"-"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}
