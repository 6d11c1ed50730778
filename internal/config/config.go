package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// valid log formats, log levels and model providers
var (
	validLogFormats     = []string{"text", "json"}
	validLogLevels      = []string{"debug", "info", "warn", "error"}
	validModelProviders = []string{"openai", "claude", "gemini", "llama"}
)

// defaultModelAPIs holds the public endpoint of every supported provider
var defaultModelAPIs = map[string]string{
	"openai": "https://api.openai.com/v1",
	"claude": "https://api.anthropic.com/v1",
	"gemini": "https://generativelanguage.googleapis.com/v1beta/openai",
	"llama":  "http://localhost:11434/v1",
}

// fallbackKeyVars lists the well-known API key variables consulted when PRASSI_<P>_USER_KEY is unset
var fallbackKeyVars = map[string]string{
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
	"gemini": "GEMINI_API_KEY",
}

type Config struct {
	DigestLength           int
	GitHubToken            string
	GitHubUseGraphQL       bool
	GitLabBaseURL          string
	GitLabSkipSSLVerify    bool
	GitLabToken            string
	LogFormat              string
	LogLevel               string
	ModelAPI               string
	ModelID                string
	ModelMaxResponseTokens int
	ModelProvider          string
	ModelSkipSSLVerify     bool
	ModelTimeoutSeconds    int
	ModelUserKey           string
	ShrinkMaxAttempts      int
}

// Load creates a new Config instance from environment variables and validates it
func Load() (*Config, error) {

	// Parse Git platform configuration
	gitHubToken := os.Getenv("PRASSI_GITHUB_TOKEN")
	gitLabBaseURL := os.Getenv("PRASSI_GITLAB_BASE_URL")
	gitLabToken := os.Getenv("PRASSI_GITLAB_TOKEN")

	gitHubUseGraphQL, err := parseBoolEnvOrDefault("PRASSI_GITHUB_USE_GRAPHQL", false)
	if err != nil {
		return nil, err
	}
	gitLabSkipSSL, err := parseBoolEnvOrDefault("PRASSI_GITLAB_SKIP_SSL_VERIFY", false)
	if err != nil {
		return nil, err
	}

	// Parse logging configuration
	logFormat := os.Getenv("PRASSI_LOG_FORMAT")
	logLevel := os.Getenv("PRASSI_LOG_LEVEL")

	// Parse model configuration
	modelProvider := strings.ToLower(getEnvOrDefault("PRASSI_MODEL_PROVIDER", "openai"))

	modelSkipSSL, err := parseBoolEnvOrDefault("PRASSI_MODEL_SKIP_SSL_VERIFY", false)
	if err != nil {
		return nil, err
	}
	modelMaxResponseTokens, err := parseIntEnvOrDefault("PRASSI_MODEL_MAX_RESPONSE_TOKENS", 2000, 1, 1000000000)
	if err != nil {
		return nil, err
	}
	modelTimeoutSeconds, err := parseIntEnvOrDefault("PRASSI_MODEL_TIMEOUT_SECONDS", 120, 1, 1000000000)
	if err != nil {
		return nil, err
	}

	// Parse digest configuration
	digestLength, err := parseIntEnvOrDefault("PRASSI_DIGEST_LENGTH", 200, 10, 100000)
	if err != nil {
		return nil, err
	}
	shrinkMaxAttempts, err := parseIntEnvOrDefault("PRASSI_SHRINK_MAX_ATTEMPTS", 8, 1, 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DigestLength:           digestLength,
		GitHubToken:            gitHubToken,
		GitHubUseGraphQL:       gitHubUseGraphQL,
		GitLabBaseURL:          gitLabBaseURL,
		GitLabSkipSSLVerify:    gitLabSkipSSL,
		GitLabToken:            gitLabToken,
		LogFormat:              logFormat,
		LogLevel:               logLevel,
		ModelMaxResponseTokens: modelMaxResponseTokens,
		ModelSkipSSLVerify:     modelSkipSSL,
		ModelTimeoutSeconds:    modelTimeoutSeconds,
		ShrinkMaxAttempts:      shrinkMaxAttempts,
	}

	if err := cfg.SetProvider(modelProvider); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SetProvider switches the model provider and reloads the provider-scoped settings
// (PRASSI_<P>_MODEL_API, PRASSI_<P>_MODEL_ID and PRASSI_<P>_USER_KEY)
func (c *Config) SetProvider(provider string) error {
	provider = strings.ToLower(provider)
	if !slices.Contains(validModelProviders, provider) {
		return fmt.Errorf("PRASSI_MODEL_PROVIDER must be one of: %v; got: %s", validModelProviders, provider)
	}

	prefix := strings.ToUpper(provider)
	c.ModelProvider = provider
	c.ModelAPI = strings.TrimRight(getEnvOrDefault(fmt.Sprintf("PRASSI_%s_MODEL_API", prefix), defaultModelAPIs[provider]), "/")
	c.ModelID = os.Getenv(fmt.Sprintf("PRASSI_%s_MODEL_ID", prefix))
	c.ModelUserKey = os.Getenv(fmt.Sprintf("PRASSI_%s_USER_KEY", prefix))
	if c.ModelUserKey == "" {
		if fallback, ok := fallbackKeyVars[provider]; ok {
			c.ModelUserKey = os.Getenv(fallback)
		}
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// parseIntEnvOrDefault parses an integer environment variable with range validation or returns a default value if not set
func parseIntEnvOrDefault(key string, defaultVal, min, max int) (int, error) {
	str, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal, nil
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer, got: %s", key, str)
	}

	if val < min || val > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, val)
	}

	return val, nil
}

// parseBoolEnvOrDefault parses a boolean environment variable or returns a default value if not set
func parseBoolEnvOrDefault(key string, defaultVal bool) (bool, error) {
	str, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal, nil
	}

	val, err := strconv.ParseBool(str)
	if err != nil {
		return false, fmt.Errorf("%s must be a valid boolean, got: %s", key, str)
	}

	return val, nil
}

// validateConfig performs all validation on the loaded configuration
func validateConfig(cfg *Config) error {

	// Validate logging configuration
	if cfg.LogFormat != "" {
		if !slices.Contains(validLogFormats, strings.ToLower(cfg.LogFormat)) {
			return fmt.Errorf("PRASSI_LOG_FORMAT must be one of: %v; got: %s", validLogFormats, cfg.LogFormat)
		}
	}
	if cfg.LogLevel != "" {
		if !slices.Contains(validLogLevels, strings.ToLower(cfg.LogLevel)) {
			return fmt.Errorf("PRASSI_LOG_LEVEL must be one of: %v; got: %s", validLogLevels, cfg.LogLevel)
		}
	}

	// Validate model endpoint
	if !strings.HasPrefix(cfg.ModelAPI, "http://") && !strings.HasPrefix(cfg.ModelAPI, "https://") {
		return fmt.Errorf("PRASSI_%s_MODEL_API must be an http(s) URL, got: %s", strings.ToUpper(cfg.ModelProvider), cfg.ModelAPI)
	}

	// Validate GitLab configuration
	if cfg.GitLabBaseURL != "" && !strings.HasPrefix(cfg.GitLabBaseURL, "http://") && !strings.HasPrefix(cfg.GitLabBaseURL, "https://") {
		return fmt.Errorf("PRASSI_GITLAB_BASE_URL must be an http(s) URL, got: %s", cfg.GitLabBaseURL)
	}

	return nil
}
