package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names understood by the assistant.
const (
	EnvGeminiAPIKey      = "GOOGLE_GEMINI_API_KEY"
	EnvGeminiModel       = "GEMINI_MODEL"
	EnvTelegramBotToken  = "TELEGRAM_BOT_TOKEN"
	EnvOAuthClientID     = "GOOGLE_OAUTH_CLIENT_ID"
	EnvOAuthClientSecret = "GOOGLE_OAUTH_CLIENT_SECRET"
	EnvCalendarID        = "GOOGLE_CALENDAR_ID"
	EnvTimezone          = "ALFRED_TIMEZONE"
	EnvPort              = "PORT"
	EnvMetricsAddr       = "METRICS_ADDR"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultCalendarID  = "primary"
	DefaultTimezone    = "America/Los_Angeles"
	DefaultPort        = 8080
)

// Load reads a .env file from the working directory if one exists.
// A missing file is not an error; real environment variables always win.
func Load() {
	_ = godotenv.Load()
}

// GeminiAPIKey returns the Gemini API key.
// The key is required for all model calls and has no default.
func GeminiAPIKey() (string, error) {
	key := os.Getenv(EnvGeminiAPIKey)
	if key == "" {
		return "", fmt.Errorf("%s not found in environment variables, please set it in your .env file", EnvGeminiAPIKey)
	}
	return key, nil
}

// GeminiModel returns the model name used for completions.
func GeminiModel() string {
	if model := os.Getenv(EnvGeminiModel); model != "" {
		return model
	}
	return DefaultGeminiModel
}

// TelegramBotToken returns the Telegram bot token.
// Absence is a fatal startup condition for the bot transport.
func TelegramBotToken() (string, error) {
	token := os.Getenv(EnvTelegramBotToken)
	if token == "" {
		return "", fmt.Errorf("%s not found in environment variables, please set it in your .env file", EnvTelegramBotToken)
	}
	return token, nil
}

// OAuthClient returns the Google OAuth client credentials used for both
// calendar credential scopes.
func OAuthClient() (id, secret string, err error) {
	id = os.Getenv(EnvOAuthClientID)
	secret = os.Getenv(EnvOAuthClientSecret)
	if id == "" || secret == "" {
		return "", "", fmt.Errorf("%s and %s must be set, download OAuth client credentials from the Google Cloud Console", EnvOAuthClientID, EnvOAuthClientSecret)
	}
	return id, secret, nil
}

// CalendarID returns the calendar the assistant writes to.
func CalendarID() string {
	if id := os.Getenv(EnvCalendarID); id != "" {
		return id
	}
	return DefaultCalendarID
}

// Timezone returns the location used for event timestamps.
// An unknown timezone name falls back to the default rather than failing,
// since every event write would otherwise be blocked by a typo.
func Timezone() *time.Location {
	name := os.Getenv(EnvTimezone)
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc, _ = time.LoadLocation(DefaultTimezone)
	}
	return loc
}

// TimezoneName returns the IANA name sent to the calendar provider.
func TimezoneName() string {
	return Timezone().String()
}

// Port returns the webhook listen port.
func Port() int {
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			return port
		}
	}
	return DefaultPort
}

// MetricsAddr returns the bind address for the metrics endpoint.
// Empty means metrics are disabled.
func MetricsAddr() string {
	return os.Getenv(EnvMetricsAddr)
}
