package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/soapbox/pkg/cryptox"
	"github.com/aussiebroadwan/soapbox/pkg/jwtx"
	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret       string        // Required outside dev: HS256 signing secret (min 32 bytes)
	JWTIssuer       string        // Optional: issuer claim for tokens (default: soapbox)
	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./soapbox.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	AuditLogFile string // Optional: security event log, also copied to stdout (default: ./security.log)

	CookieSecure   bool     // Send token cookies with Secure (default: false in dev, true otherwise)
	CORSOrigins    []string // Comma separated allowed origins, "*" for any (default: none)
	MetricsEnabled bool     // Expose /metrics (default: true)
	TrustProxy     bool     // Take client IPs from X-Forwarded-For / X-Real-IP (default: false)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 3000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	// EphemeralSecret is set when no JWT_SECRET was configured in dev and a
	// random one was generated. Tokens do not survive a restart.
	EphemeralSecret bool
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       getEnvOrDefault("JWT_ISSUER", "soapbox"),
		AccessTokenTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "soapbox.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),
		AuditLogFile: getEnvOrDefault("AUDIT_LOG_FILE", "security.log"),

		CORSOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled: getEnvBoolOrDefault("METRICS_ENABLED", true),
		TrustProxy:     getEnvBoolOrDefault("TRUST_PROXY", false),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 3000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
	cfg.CookieSecure = getEnvBoolOrDefault("COOKIE_SECURE", !cfg.IsDev())

	if cfg.JWTSecret == "" && cfg.IsDev() {
		cfg.JWTSecret = cryptox.MustGenerateToken(cryptox.TokenSize256)
		cfg.EphemeralSecret = true
	}

	return cfg
}

func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "test"
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < jwtx.MinSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", jwtx.MinSecretLen))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.DatabaseFile == "" {
		errs = append(errs, errors.New("DATABASE_FILE is required"))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
