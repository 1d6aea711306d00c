package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RunMode selects how the two page scans are scheduled
type RunMode string

const (
	RunModeSequential RunMode = "sequential"
	RunModeConcurrent RunMode = "concurrent"
)

// PersistMode selects the file granularity of the profile scan output
type PersistMode string

const (
	// PersistComposite writes account, location and profile as one document
	PersistComposite PersistMode = "composite"
	// PersistSplit writes contact, location and profile files separately
	PersistSplit PersistMode = "split"
)

// Credentials holds the account secrets used by the login flow.
// Empty values are used as-is.
type Credentials struct {
	Username     string
	Password     string
	SecretAnswer string
}

// Site holds the fixed set of marketplace URLs
type Site struct {
	LoginURL       string
	HomepageURL    string
	ContactInfoURL string
	ProfileURL     string
}

// Config represents the application configuration
type Config struct {
	Credentials Credentials
	Site        Site

	// Browser configuration
	Headless           bool
	BrowserProxy       string
	StandardTimeout    time.Duration
	PresenceTimeout    time.Duration
	NavigationInterval time.Duration

	// Run configuration
	RunMode         RunMode
	PersistMode     PersistMode
	RetryAttempts   int
	RetryDelay      time.Duration
	RetryMultiplier float64

	// Normalization
	SplitFullName bool
	CountryCodes  bool

	// Output
	DataDir      string
	DebugDir     string
	ErrorLogFile string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string
	SeenTTL      time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	// legacy credential names are only read from .env; USERNAME in the process
	// environment is usually the OS login
	legacy, _ := godotenv.Read()

	return Config{
		Credentials: Credentials{
			Username:     getCredential("UPWORK_USERNAME", "USERNAME", legacy),
			Password:     getCredential("UPWORK_PASSWORD", "PASSWORD", legacy),
			SecretAnswer: getCredential("UPWORK_SECRET_ANSWER", "SECRET_ANSWER", legacy),
		},
		Site: Site{
			LoginURL:       getEnv("LOGIN_URL", "https://www.upwork.com/ab/account-security/login"),
			HomepageURL:    getEnv("HOMEPAGE_URL", "https://www.upwork.com/nx/find-work/best-matches"),
			ContactInfoURL: getEnv("CONTACT_INFO_URL", "https://www.upwork.com/freelancers/settings/contactInfo"),
			ProfileURL:     getEnv("PROFILE_URL", "https://www.upwork.com/freelancers/~01b5ffe1df46c24d0e"),
		},
		Headless:             getEnvBool("BROWSER_HEADLESS", true),
		BrowserProxy:         getEnv("BROWSER_PROXY", ""),
		StandardTimeout:      getEnvDuration("STANDARD_TIMEOUT", 10*time.Second),
		PresenceTimeout:      getEnvDuration("PRESENCE_TIMEOUT", 3*time.Second),
		NavigationInterval:   getEnvDuration("NAVIGATION_INTERVAL", time.Second),
		RunMode:              RunMode(strings.ToLower(getEnv("RUN_MODE", string(RunModeSequential)))),
		PersistMode:          PersistMode(strings.ToLower(getEnv("PERSIST_MODE", string(PersistComposite)))),
		RetryAttempts:        getEnvInt("RETRY_ATTEMPTS", 3),
		RetryDelay:           getEnvDuration("RETRY_DELAY", 2*time.Second),
		RetryMultiplier:      getEnvFloat("RETRY_MULTIPLIER", 2),
		SplitFullName:        getEnvBool("SPLIT_FULL_NAME", true),
		CountryCodes:         getEnvBool("COUNTRY_CODES", true),
		DataDir:              getEnv("DATA_DIR", "data"),
		DebugDir:             getEnv("DEBUG_DIR", ""),
		ErrorLogFile:         getEnv("ERROR_LOG_FILE", "error.log"),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "upwork"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 500),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		SeenTTL:              getEnvDuration("SEEN_TTL", 30*24*time.Hour),
		Environment:          getEnv("UPWORK_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the run cannot work with
func (c Config) Validate() error {
	switch c.RunMode {
	case RunModeSequential, RunModeConcurrent:
	default:
		return fmt.Errorf("unknown RUN_MODE %q", c.RunMode)
	}

	switch c.PersistMode {
	case PersistComposite, PersistSplit:
	default:
		return fmt.Errorf("unknown PERSIST_MODE %q", c.PersistMode)
	}

	if c.StandardTimeout <= 0 || c.PresenceTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1, got %d", c.RetryAttempts)
	}
	if c.RetryMultiplier < 1 {
		return fmt.Errorf("RETRY_MULTIPLIER must be at least 1, got %v", c.RetryMultiplier)
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.RedisAddr != "" && c.RedisStreamCount < 1 {
		return fmt.Errorf("REDIS_STREAM_COUNT must be at least 1, got %d", c.RedisStreamCount)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getCredential returns the environment value of key, or the legacy key of
// the .env file when key is empty
func getCredential(key, legacyKey string, dotenv map[string]string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return dotenv[legacyKey]
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration accepts Go durations ("1m30s") or plain seconds ("90")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
