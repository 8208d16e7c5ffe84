package folio

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config contains the process-wide options of the folio compiler
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// ContentFormat selects the body-to-HTML converter (goldmark, commonmark)
	ContentFormat string
	// WarningPrefix is prepended to warnings written to the diagnostic sink
	WarningPrefix string
	// CacheMaxSize is the maximum number of parsed templates kept. 0 disables caching.
	CacheMaxSize int
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		ContentFormat: ContentFormatGoldmark,
		WarningPrefix: "folio",
		CacheMaxSize:  32,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// FOLIO_LOG_LEVEL
	if val := os.Getenv("FOLIO_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	// FOLIO_CONTENT_FORMAT
	if val := os.Getenv("FOLIO_CONTENT_FORMAT"); val != "" {
		config.ContentFormat = strings.ToLower(val)
	}

	// FOLIO_WARNING_PREFIX
	if val := os.Getenv("FOLIO_WARNING_PREFIX"); val != "" {
		config.WarningPrefix = val
	}

	// FOLIO_CACHE_MAX_SIZE
	if val := os.Getenv("FOLIO_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size >= 0 {
			config.CacheMaxSize = size
		}
	}

	return config
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.ContentFormat == "" {
		config.ContentFormat = defaults.ContentFormat
	}
	if config.WarningPrefix == "" {
		config.WarningPrefix = defaults.WarningPrefix
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, ok := logLevels[c.LogLevel]; !ok {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	switch c.ContentFormat {
	case ContentFormatGoldmark, ContentFormatCommonmark:
	default:
		return errors.New("invalid content format: " + c.ContentFormat)
	}

	if c.WarningPrefix == "" {
		return errors.New("warning prefix cannot be empty")
	}

	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration. Unset fields take their
// default values.
func SetGlobalConfig(config *Config) {
	config = NewConfigWithDefaults(config)

	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// outside the lock, the logger reads the config back
	UpdateLoggerFromConfig()
}
