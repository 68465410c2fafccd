// Package config loads the research orchestrator's runtime configuration
// from environment variables, mirroring the env-override-with-default
// pattern of the source system's MultiAgentConfig/RAGConfig dataclasses
// (get_env_int/get_env_float/get_env_bool).
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ResearchConfig is the frozen, fully-resolved configuration for one process
// lifetime: load it once at startup and pass it down, the way the teacher's
// CLI builds its krait flags once in main and threads them through.
type ResearchConfig struct {
	// Models
	LLMModel         string
	CoordinatorModel string
	EmbeddingModel   string

	// Subagent fan-out and concurrency
	MaxSubagents     int
	ConcurrencyLimit int
	SubagentTimeout  time.Duration

	// Retry and circuit breaker
	MaxRetries              int
	RetryDelaySeconds        float64
	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration
	ExponentialBackoffMax   float64
	LinearBackoffMax        float64
	ImmediateRetryDelay     float64

	// Vector search
	SimilarityThreshold float64
	MaxCandidates       int

	// Shared memory cache
	ResponseCacheSize int
	ResponseCacheTTL  time.Duration

	// Storage
	CollectionName string
	ChromemPath    string

	// Observability
	DebugMode      bool
	VerboseLogging bool
	LogLevel       string

	// Credentials (never logged)
	OpenAIAPIKey string
}

// Load resolves ResearchConfig from the environment, falling back to the
// defaults below for anything unset or unparsable.
func Load() ResearchConfig {
	return ResearchConfig{
		LLMModel:         getEnvString("OPENAI_MODEL", "gpt-4o"),
		CoordinatorModel: getEnvString("COORDINATOR_MODEL", "gpt-4o"),
		EmbeddingModel:   getEnvString("EMBEDDING_MODEL", "text-embedding-3-small"),

		MaxSubagents:     getEnvInt("MAX_SUBAGENTS", 3),
		ConcurrencyLimit: getEnvInt("CONCURRENCY_LIMIT", 3),
		SubagentTimeout:  getEnvSeconds("SUBAGENT_TIMEOUT", 45),

		MaxRetries:              getEnvInt("MAX_RETRIES", 3),
		RetryDelaySeconds:       getEnvFloat("RETRY_DELAY", 1.0),
		CircuitBreakerThreshold: getEnvInt("CIRCUIT_BREAKER_THRESHOLD", 5),
		CircuitBreakerTimeout:   getEnvSeconds("CIRCUIT_BREAKER_TIMEOUT", 60),
		ExponentialBackoffMax:   getEnvFloat("EXPONENTIAL_BACKOFF_MAX", 60.0),
		LinearBackoffMax:        getEnvFloat("LINEAR_BACKOFF_MAX", 30.0),
		ImmediateRetryDelay:     getEnvFloat("IMMEDIATE_RETRY_DELAY", 0.0),

		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.7),
		MaxCandidates:       getEnvInt("MAX_CANDIDATES", 5),

		ResponseCacheSize: getEnvInt("RESPONSE_CACHE_SIZE", 256),
		ResponseCacheTTL:  getEnvSeconds("RESPONSE_CACHE_TTL", 3600),

		CollectionName: getEnvString("COLLECTION_NAME", "research_pages"),
		ChromemPath:    getEnvString("CHROMEM_PATH", defaultChromemPath()),

		DebugMode:      getEnvBool("DEBUG_MODE", false),
		VerboseLogging: getEnvBool("VERBOSE_LOGGING", false),
		LogLevel:       getEnvString("LOG_LEVEL", "info"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
	}
}

// Validate reports configuration problems worth surfacing at startup,
// mirroring RAGConfig.validate/MultiAgentConfig.validate's error/warning
// split: errors mean the system cannot run, warnings mean it can but
// shouldn't be trusted blindly.
func (c ResearchConfig) Validate() (errors, warnings []string) {
	if c.OpenAIAPIKey == "" {
		errors = append(errors, "OPENAI_API_KEY is not set")
	}
	if c.MaxSubagents < 1 || c.MaxSubagents > 10 {
		warnings = append(warnings, "MAX_SUBAGENTS outside the recommended range (1-10)")
	}
	if c.MaxCandidates < 1 || c.MaxCandidates > 20 {
		warnings = append(warnings, "MAX_CANDIDATES outside the recommended range (1-20)")
	}
	if c.SubagentTimeout < 30*time.Second {
		warnings = append(warnings, "SUBAGENT_TIMEOUT is unusually low")
	}
	return errors, warnings
}

func defaultChromemPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".research-orchestrator/chromem"
	}
	return home + "/.cache/research-orchestrator/chromem"
}

func getEnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvSeconds(key string, defSeconds float64) time.Duration {
	return time.Duration(getEnvFloat(key, defSeconds) * float64(time.Second))
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}
