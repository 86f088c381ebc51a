package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Mailbox
	EmailAddress     string
	EmailAppPassword string
	IMAPAddr         string
	SMTPAddr         string

	// AI provider
	AIProvider    string // "gemini", "ollama" or "auto"
	GeminiAPIKey  string
	OllamaBaseURL string
	OllamaModel   string

	// Pipeline
	PollInterval        time.Duration
	ReminderTime        string // "HH:MM", interpreted in UTC
	ReminderHoursBefore int

	// Storage and API
	DatabasePath string
	Port         string

	// Parse failures collected during Load, reported by Validate.
	// Nothing downstream runs with a half-parsed config: any entry
	// here is fatal at startup.
	parseErrs []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	var parseErrs []string

	pollInterval := 60 * time.Second
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			parseErrs = append(parseErrs, fmt.Sprintf("POLL_INTERVAL must be a positive integer, got %q", v))
		} else {
			pollInterval = time.Duration(secs) * time.Second
		}
	}

	reminderHours := 24
	if v := os.Getenv("REMINDER_HOURS_BEFORE"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			parseErrs = append(parseErrs, fmt.Sprintf("REMINDER_HOURS_BEFORE must be a positive integer, got %q", v))
		} else {
			reminderHours = hours
		}
	}

	return &Config{
		EmailAddress:        getEnv("EMAIL_ADDRESS", ""),
		EmailAppPassword:    getEnv("EMAIL_APP_PASSWORD", ""),
		IMAPAddr:            getEnv("IMAP_ADDR", "imap.gmail.com:993"),
		SMTPAddr:            getEnv("SMTP_ADDR", "smtp.gmail.com:465"),
		AIProvider:          getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:         getEnv("OLLAMA_MODEL", "llama3"),
		PollInterval:        pollInterval,
		ReminderTime:        getEnv("REMINDER_TIME", "09:00"),
		ReminderHoursBefore: reminderHours,
		DatabasePath:        getEnv("DATABASE_PATH", "./data/unihelper.db"),
		Port:                getEnv("PORT", "8080"),
		parseErrs:           parseErrs,
	}
}

// Validate returns every configuration problem found. Any problem is
// fatal at startup; nothing here is checked again at runtime.
func (c *Config) Validate() []string {
	var errs []string
	errs = append(errs, c.parseErrs...)

	if c.EmailAddress == "" {
		errs = append(errs, "EMAIL_ADDRESS is not set")
	}
	if c.EmailAppPassword == "" {
		errs = append(errs, "EMAIL_APP_PASSWORD is not set")
	}

	switch c.AIProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, "GEMINI_API_KEY is not set (AI_PROVIDER is 'gemini')")
		}
	case "ollama", "auto":
	default:
		errs = append(errs, fmt.Sprintf("AI_PROVIDER must be 'gemini', 'ollama' or 'auto', got %q", c.AIProvider))
	}

	if _, _, err := c.ReminderClock(); err != nil {
		errs = append(errs, fmt.Sprintf("REMINDER_TIME must be HH:MM, got %q", c.ReminderTime))
	}

	return errs
}

// ReminderClock parses ReminderTime into an hour and minute of day.
func (c *Config) ReminderClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.ReminderTime)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
