package jsontoken

import (
	"log/slog"

	"github.com/cybergodev/jsontoken/internal"
)

// Default limits
const (
	DefaultMaxNestingDepth = 1000
	DefaultMaxNumberLength = 1000
	DefaultMaxStringLength = 20_000_000
	DefaultBufferSize      = 4096
	minBufferSize          = 64
)

// Config controls tokenizer limits and relaxations of the JSON grammar.
// A zero limit disables that limit.
type Config struct {
	MaxNestingDepth int // Maximum number of open arrays/objects
	MaxNumberLength int // Maximum characters in a numeric token
	MaxStringLength int // Maximum bytes in a decoded string token
	BufferSize      int // Read buffer size for io.Reader input

	AllowNonNumericNumbers bool // Accept NaN, Infinity, -Infinity, +Infinity
	AllowTrailingComma     bool // Accept [1,2,] and {"a":1,}
	InternFieldNames       bool // Canonicalize field names through a shared table

	// Logger receives debug records for tokenizer failures; nil disables logging.
	Logger *slog.Logger

	// Stats, when set, is updated with token and conversion counts. One
	// collector may be shared between parsers.
	Stats *StatsCollector
}

// StatsCollector aggregates token and conversion counts
type StatsCollector = internal.Collector

// Stats is a snapshot of a StatsCollector
type Stats = internal.Stats

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxNestingDepth:        DefaultMaxNestingDepth,
		MaxNumberLength:        DefaultMaxNumberLength,
		MaxStringLength:        DefaultMaxStringLength,
		BufferSize:             DefaultBufferSize,
		AllowNonNumericNumbers: false,
		AllowTrailingComma:     false,
		InternFieldNames:       true,
	}
}

// StrictConfig returns a configuration with tighter limits for untrusted input
func StrictConfig() *Config {
	cfg := DefaultConfig()
	cfg.MaxNestingDepth = 64
	cfg.MaxNumberLength = 100
	cfg.MaxStringLength = 1 << 20
	return cfg
}

// LenientConfig returns a configuration accepting common JSON extensions
func LenientConfig() *Config {
	cfg := DefaultConfig()
	cfg.AllowNonNumericNumbers = true
	cfg.AllowTrailingComma = true
	return cfg
}

// NewStatsCollector creates a collector suitable for Config.Stats
func NewStatsCollector() *StatsCollector {
	return internal.NewCollector()
}

// ValidateConfig validates configuration values and applies corrections
func ValidateConfig(config *Config) error {
	if config == nil {
		return newParseError("validate_config", Location{}, "config cannot be nil", ErrInvalidConfig)
	}

	if config.MaxNestingDepth < 0 {
		return newParseError("validate_config", Location{}, "MaxNestingDepth cannot be negative", ErrInvalidConfig)
	}
	if config.MaxNumberLength < 0 {
		return newParseError("validate_config", Location{}, "MaxNumberLength cannot be negative", ErrInvalidConfig)
	}
	if config.MaxStringLength < 0 {
		return newParseError("validate_config", Location{}, "MaxStringLength cannot be negative", ErrInvalidConfig)
	}

	// Apply defaults for invalid values
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	} else if config.BufferSize < minBufferSize {
		config.BufferSize = minBufferSize
	}

	return nil
}
