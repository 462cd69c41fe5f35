// Package config provides the YAML + environment configuration for the
// analysis engine service.
package config

import "time"

// Default configuration values.
const (
	defaultServiceName     = "shopsleuth-engine"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8080
	defaultAdapterTimeout  = 10 * time.Second
	defaultFetchTimeout    = 15 * time.Second
	defaultFetchRPS        = 1.0
	defaultFetchBurst      = 2
	defaultDailyQuota      = 50
	defaultDBHost          = "localhost"
	defaultDBPort          = "5432"
	defaultDBUser          = "postgres"
	defaultDBName          = "shopsleuth"
	defaultDBSSLMode       = "disable"
	defaultRedisURL        = "localhost:6379"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultHistoryLimit    = 20
	defaultMaxHistoryLimit = 100
)

// Config holds all configuration for the engine service.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Search    SearchConfig    `yaml:"search"`
	Quota     QuotaConfig     `yaml:"quota"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Logging   LoggingConfig   `yaml:"logging"`
	Recommend RecommendConfig `yaml:"recommend"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"ENGINE_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"   yaml:"debug"`
}

// SearchConfig holds adapter fan-out and content-fetch settings.
type SearchConfig struct {
	AdapterTimeout time.Duration `env:"ENGINE_ADAPTER_TIMEOUT" yaml:"adapter_timeout"`
	FetchTimeout   time.Duration `env:"ENGINE_FETCH_TIMEOUT"   yaml:"fetch_timeout"`
	FetchRPS       float64       `env:"ENGINE_FETCH_RPS"       yaml:"fetch_rps"`
	FetchBurst     int           `env:"ENGINE_FETCH_BURST"     yaml:"fetch_burst"`
}

// QuotaConfig holds daily usage quota settings. A limit of -1 disables
// enforcement; UseRedis requires the Redis block to be configured.
type QuotaConfig struct {
	DailyLimit int  `env:"ENGINE_DAILY_QUOTA" yaml:"daily_limit"`
	UseRedis   bool `env:"ENGINE_QUOTA_REDIS" yaml:"use_redis"`
}

// DatabaseConfig holds analysis history database configuration. History is
// optional: with Enabled false the service runs without persistence.
type DatabaseConfig struct {
	Enabled  bool   `env:"ENGINE_HISTORY_ENABLED" yaml:"enabled"`
	Host     string `env:"POSTGRES_HOST"          yaml:"host"`
	Port     string `env:"POSTGRES_PORT"          yaml:"port"`
	User     string `env:"POSTGRES_USER"          yaml:"user"`
	Password string `env:"POSTGRES_PASSWORD"      yaml:"password"`
	Database string `env:"POSTGRES_DB"            yaml:"database"`
	SSLMode  string `env:"POSTGRES_SSLMODE"       yaml:"sslmode"`
}

// RedisConfig holds Redis configuration for the quota tracker.
type RedisConfig struct {
	URL      string `env:"REDIS_URL"      yaml:"url"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	Database int    `yaml:"database"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// RecommendConfig holds the best-value recommendation blend. Zero values
// fall back to the shipped defaults.
type RecommendConfig struct {
	ConfidenceWeight float64 `yaml:"confidence_weight"`
	TrustWeight      float64 `yaml:"trust_weight"`
	PriceRiskWeight  float64 `yaml:"price_risk_weight"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return load(path)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setSearchDefaults(&cfg.Search)
	setQuotaDefaults(&cfg.Quota)
	setDatabaseDefaults(&cfg.Database)
	setRedisDefaults(&cfg.Redis)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setSearchDefaults(s *SearchConfig) {
	if s.AdapterTimeout == 0 {
		s.AdapterTimeout = defaultAdapterTimeout
	}
	if s.FetchTimeout == 0 {
		s.FetchTimeout = defaultFetchTimeout
	}
	if s.FetchRPS == 0 {
		s.FetchRPS = defaultFetchRPS
	}
	if s.FetchBurst == 0 {
		s.FetchBurst = defaultFetchBurst
	}
}

func setQuotaDefaults(q *QuotaConfig) {
	if q.DailyLimit == 0 {
		q.DailyLimit = defaultDailyQuota
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == "" {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.URL == "" {
		r.URL = defaultRedisURL
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

// HistoryLimits returns the default and maximum page sizes for history
// listing endpoints.
func HistoryLimits() (defaultLimit, maxLimit int) {
	return defaultHistoryLimit, defaultMaxHistoryLimit
}
