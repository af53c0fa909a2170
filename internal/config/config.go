package config

import (
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
	"github.com/joho/godotenv"
)

type Config struct {
	// Discord OAuth
	DiscordClientID     string
	DiscordClientSecret string

	// Public URL the service is reachable at, used for the OAuth callback.
	BaseURL string

	// Sessions
	SessionSecret string
	SessionMaxAge time.Duration
	SessionGC     time.Duration
	CookieSecure  bool

	// Database
	DatabaseURL string

	// Moderation
	ModeratorIDs string

	// Redirect targets after the OAuth callback
	LoginSuccessPath string
	LoginFailurePath string

	// Server
	Port      string
	PublicDir string

	// Requests per minute per IP; zero disables the limiter.
	APIRateLimit  int
	AuthRateLimit int

	// Observability
	LogLevel     string
	LogRetention time.Duration
	SentryDSN    string
	AppEnv       string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DiscordClientID:     getEnv("DISCORD_CLIENT_ID", ""),
		DiscordClientSecret: getEnv("DISCORD_CLIENT_SECRET", ""),

		BaseURL: strings.TrimRight(getEnv("BASE_URL", ""), "/"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionMaxAge: parseDuration(getEnv("SESSION_MAX_AGE", "720h"), 720*time.Hour),
		SessionGC:     parseDuration(getEnv("SESSION_GC_INTERVAL", "10m"), 10*time.Minute),
		CookieSecure:  parseBool(getEnv("COOKIE_SECURE", "false")),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		ModeratorIDs: getEnv("MODERATOR_IDS", ""),

		LoginSuccessPath: getEnv("LOGIN_SUCCESS_PATH", "/dashboard.html"),
		LoginFailurePath: getEnv("LOGIN_FAILURE_PATH", "/?error=login_failed"),

		Port:      getEnv("PORT", "4000"),
		PublicDir: getEnv("PUBLIC_DIR", "public"),

		APIRateLimit:  parseInt(getEnv("API_RATE_LIMIT", "60"), 60),
		AuthRateLimit: parseInt(getEnv("AUTH_RATE_LIMIT", "10"), 10),

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 720*time.Hour),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		AppEnv:       getEnv("APP_ENV", "development"),
	}
}

// Validate reports every missing or malformed required setting. The server
// refuses to start when it returns an error.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DiscordClientID, validation.Required.Error("DISCORD_CLIENT_ID is required")),
		validation.Field(&c.DiscordClientSecret, validation.Required.Error("DISCORD_CLIENT_SECRET is required")),
		validation.Field(&c.BaseURL,
			validation.Required.Error("BASE_URL is required"),
			is.URL.Error("BASE_URL must be an absolute URL"),
		),
		validation.Field(&c.SessionSecret, validation.Required.Error("SESSION_SECRET is required")),
		validation.Field(&c.DatabaseURL, validation.Required.Error("DATABASE_URL is required")),
		validation.Field(&c.Port, validation.Required),
	)
}

// Moderators returns the configured moderator Discord ids.
func (c *Config) Moderators() []string {
	return parseCSV(c.ModeratorIDs)
}

func (c *Config) CallbackURL() string {
	return c.BaseURL + "/auth/discord/callback"
}

// Origin is the scheme and host of BaseURL, used as the only CORS origin.
func (c *Config) Origin() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return c.BaseURL
	}
	return u.Scheme + "://" + u.Host
}

// CookieKey derives the 32-byte base64 key used to encrypt cookies from the
// session secret.
func (c *Config) CookieKey() string {
	sum := sha256.Sum256([]byte(c.SessionSecret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
