package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/loomchat/loom/pkg/jwtx"
)

type Config struct {
	Issuer    string // Issuer claim for access tokens (default: loom-auth)
	JWTSecret []byte // Required: HMAC-SHA256 signing secret, at least 32 bytes

	AccessTokenTTL       time.Duration // Access token lifetime (default: 15m)
	RefreshTokenTTL      time.Duration // Refresh token lifetime (default: 7d)
	ResetTokenTTL        time.Duration // Password reset token lifetime (default: 1h)
	VerificationTokenTTL time.Duration // Email verification token lifetime (default: 1d)

	TwoFactorIssuer string // Label shown in authenticator apps (default: Loom)

	DatabaseFile     string // Path to the SQLite database file (default: auth.db)
	UserServiceURL   string // Optional: external user directory; empty keeps accounts local
	CommonServiceURL string // Optional: email delivery service; empty logs instead of sending
	FrontendURL      string // Base URL for links embedded in outgoing mail

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token sweep interval (default: 1h)
}

// LoadConfig reads configuration from the environment. Bad values fail
// loudly here rather than surfacing mid-flight.
func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:           getEnvOrDefault("AUTH_ISSUER", "loom-auth"),
		TwoFactorIssuer:  getEnvOrDefault("AUTH_TWO_FACTOR_ISSUER", "Loom"),
		DatabaseFile:     getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		UserServiceURL:   os.Getenv("USER_SERVICE_URL"),
		CommonServiceURL: os.Getenv("COMMON_SERVICE_URL"),
		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	cfg.JWTSecret = []byte(secret)

	var err error
	if cfg.Port, err = getEnvIntOrDefault("PORT", 8080); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = getEnvTTLOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = getEnvTTLOrDefault("AUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.ResetTokenTTL, err = getEnvTTLOrDefault("AUTH_RESET_TOKEN_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.VerificationTokenTTL, err = getEnvTTLOrDefault("AUTH_VERIFICATION_TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownGracePeriod, err = getEnvTTLOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.HousekeepingInterval, err = getEnvTTLOrDefault("HOUSEKEEPING_INTERVAL", time.Hour); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return intValue, nil
}

func getEnvTTLOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	d, err := parseTTL(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// parseTTL parses "<integer><unit>" where unit is s, m, h or d. Stricter
// than time.ParseDuration on purpose: no fractions, no compound values,
// so a typo like "15" or "1h30m" is caught at startup.
func parseTTL(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if len(value) < 2 {
		return 0, fmt.Errorf("invalid ttl %q: want <integer><unit> with unit s, m, h or d", value)
	}

	unit := value[len(value)-1]
	n, err := strconv.ParseInt(value[:len(value)-1], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid ttl %q: want <integer><unit> with unit s, m, h or d", value)
	}

	switch unit {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid ttl %q: want <integer><unit> with unit s, m, h or d", value)
	}
}
