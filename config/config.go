package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup. It is built once by
// Load and passed down; nothing below main reads the environment.
type Config struct {
	Port         string      `yaml:"port"`
	Env          string      `yaml:"env"`
	ClientOrigin string      `yaml:"client_origin"`
	Database     Database    `yaml:"database"`
	Auth         Auth        `yaml:"auth"`
	GitHub       GitHubOAuth `yaml:"github"`
	AI           AI          `yaml:"ai"`
	Redis        Redis       `yaml:"redis"`
}

type Database struct {
	Driver string `yaml:"driver"` // postgres | sqlite
	DSN    string `yaml:"dsn"`
}

type Auth struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	SessionSecret string        `yaml:"session_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	CookieName    string        `yaml:"cookie_name"`
}

type GitHubOAuth struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

// AI configures the generative text provider.
type AI struct {
	Provider   string `yaml:"provider"` // gemini | openai | disabled
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	MaxRetries int    `yaml:"max_retries"`
}

type Redis struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	LeaderboardTTL time.Duration `yaml:"leaderboard_ttl"`
}

// insecureSecret is the development default for signing keys. Production
// refuses to start with it.
const insecureSecret = "change_me"

// Default returns a configuration suitable for local development.
func Default() Config {
	return Config{
		Port:         "4000",
		Env:          "development",
		ClientOrigin: "http://localhost:3000",
		Database: Database{
			Driver: "sqlite",
			DSN:    "craftmyprep.db",
		},
		Auth: Auth{
			JWTSecret:     insecureSecret,
			SessionSecret: insecureSecret,
			TokenTTL:      7 * 24 * time.Hour,
			CookieName:    "cmp_token",
		},
		GitHub: GitHubOAuth{
			CallbackURL: "http://localhost:4000/auth/github/callback",
		},
		AI: AI{
			Provider:   "gemini",
			Model:      "gemini-2.0-flash",
			TimeoutMs:  20000,
			MaxRetries: 1,
		},
		Redis: Redis{
			LeaderboardTTL: time.Minute,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins). path may be
// empty; CMP_CONFIG is consulted then.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CMP_CONFIG")
	}
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Env, "ENV")
	setString(&cfg.ClientOrigin, "CLIENT_ORIGIN")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")
	if url := os.Getenv("DATABASE_URL"); os.Getenv("DB_DRIVER") == "" &&
		(strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")) {
		cfg.Database.Driver = "postgres"
	}
	// Discrete Postgres settings are used when no DATABASE_URL is given.
	if host := os.Getenv("DB_HOST"); host != "" && os.Getenv("DATABASE_URL") == "" {
		cfg.Database.Driver = "postgres"
		cfg.Database.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
			host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))
	}

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.SessionSecret, "SESSION_SECRET")
	setString(&cfg.Auth.CookieName, "COOKIE_NAME")

	setString(&cfg.GitHub.ClientID, "GITHUB_CLIENT_ID")
	setString(&cfg.GitHub.ClientSecret, "GITHUB_CLIENT_SECRET")
	setString(&cfg.GitHub.CallbackURL, "GITHUB_CALLBACK_URL")

	setString(&cfg.AI.Provider, "AI_PROVIDER")
	setString(&cfg.AI.BaseURL, "AI_BASE_URL")
	setString(&cfg.AI.Model, "AI_MODEL")
	switch strings.ToLower(cfg.AI.Provider) {
	case "gemini":
		setString(&cfg.AI.APIKey, "GEMINI_API_KEY")
	case "openai":
		setString(&cfg.AI.APIKey, "OPENAI_API_KEY")
	}
	setString(&cfg.AI.APIKey, "AI_API_KEY")
	setPositiveInt(&cfg.AI.TimeoutMs, "AI_TIMEOUT_MS")
	if v := os.Getenv("AI_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.AI.MaxRetries = n
		}
	}

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("LEADERBOARD_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Redis.LeaderboardTTL = d
		}
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch strings.ToLower(c.AI.Provider) {
	case "gemini", "openai", "disabled", "":
	default:
		return fmt.Errorf("unsupported ai provider %q", c.AI.Provider)
	}
	if c.IsProduction() {
		if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == insecureSecret {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.Auth.SessionSecret == "" || c.Auth.SessionSecret == insecureSecret {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
	}
	return nil
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// ClientOrigins splits the comma separated ClientOrigin list, trimming
// spaces and trailing slashes. The first entry is the primary origin.
func (c Config) ClientOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.ClientOrigin, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// AITimeout is the per-call timeout for the generative provider.
func (c Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutMs) * time.Millisecond
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func setPositiveInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
