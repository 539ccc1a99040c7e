package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the mentor configuration.
type Config struct {
	StorePath         string        `json:"storePath"`
	Provider          string        `json:"provider"`
	Model             string        `json:"model"`
	EmbeddingProvider string        `json:"embeddingProvider,omitempty"`
	EmbeddingModel    string        `json:"embeddingModel,omitempty"`
	OllamaEndpoint    string        `json:"ollamaEndpoint,omitempty"`
	ChunkSize         int           `json:"chunkSize"`
	ChunkOverlap      int           `json:"chunkOverlap"`
	Extensions        []string      `json:"extensions"`
	IgnoreDirs        []string      `json:"ignoreDirs"`
	Format            string        `json:"format"`
	LogLevel          string        `json:"logLevel"`
	Cache             CacheConfig   `json:"cache"`
	Privacy           PrivacyConfig `json:"privacy"`
}

// CacheConfig controls caching of generative responses. Enabled is a
// tri-state so a config file can switch caching off: nil means the default
// (on), an explicit false disables it.
type CacheConfig struct {
	Enabled    *bool  `json:"enabled,omitempty"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// IsEnabled resolves the tri-state to the effective setting.
func (c CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// PrivacyConfig controls redaction of diffs sent to generative backends.
// RedactSecrets follows the same tri-state convention as CacheConfig.Enabled.
type PrivacyConfig struct {
	RedactSecrets *bool `json:"redactSecrets,omitempty"`
}

// RedactEnabled resolves the tri-state to the effective setting.
func (p PrivacyConfig) RedactEnabled() bool {
	return p.RedactSecrets == nil || *p.RedactSecrets
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		StorePath:    "./.mentor",
		Provider:     "groq",
		Model:        "llama-3.3-70b-versatile",
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Extensions: []string{
			".py", ".js", ".java", ".cpp", ".c", ".h", ".cs", ".php", ".rb", ".go", ".rs", ".ts",
		},
		IgnoreDirs: []string{".git", "node_modules", "venv", "__pycache__", ".venv"},
		Format:     "text",
		LogLevel:   "info",
		Cache: CacheConfig{
			TTLSeconds: 86400,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for mentor.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mentor"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "mentor"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "mentor"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "mentor"), nil
	default:
		return filepath.Join(home, ".config", "mentor"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.StorePath != "" {
		dst.StorePath = src.StorePath
	}
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.EmbeddingProvider != "" {
		dst.EmbeddingProvider = src.EmbeddingProvider
	}
	if src.EmbeddingModel != "" {
		dst.EmbeddingModel = src.EmbeddingModel
	}
	if src.OllamaEndpoint != "" {
		dst.OllamaEndpoint = src.OllamaEndpoint
	}
	if src.ChunkSize > 0 {
		dst.ChunkSize = src.ChunkSize
	}
	if src.ChunkOverlap > 0 {
		dst.ChunkOverlap = src.ChunkOverlap
	}
	if len(src.Extensions) > 0 {
		dst.Extensions = src.Extensions
	}
	if len(src.IgnoreDirs) > 0 {
		dst.IgnoreDirs = src.IgnoreDirs
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Privacy.RedactSecrets != nil {
		dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("MENTOR_STORE"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("MENTOR_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("MENTOR_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("MENTOR_EMBEDDING_PROVIDER"); v != "" {
		cfg.EmbeddingProvider = v
	}
	if v := os.Getenv("MENTOR_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("MENTOR_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("MENTOR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MENTOR_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChunkSize = n
		}
	}
	if v := os.Getenv("MENTOR_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChunkOverlap = n
		}
	}
	if v := os.Getenv("MENTOR_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = &b
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["store"]; ok && v != "" {
		cfg.StorePath = v
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["embeddingProvider"]; ok && v != "" {
		cfg.EmbeddingProvider = v
	}
	if v, ok := overrides["embeddingModel"]; ok && v != "" {
		cfg.EmbeddingModel = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["logLevel"]; ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := overrides["extensions"]; ok && v != "" {
		cfg.Extensions = splitExtensions(v)
	}
	if v, ok := overrides["chunkSize"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChunkSize = n
		}
	}
	if v, ok := overrides["chunkOverlap"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChunkOverlap = n
		}
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "storePath":
		cfg.StorePath = value
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "embeddingProvider":
		cfg.EmbeddingProvider = value
	case "embeddingModel":
		cfg.EmbeddingModel = value
	case "ollamaEndpoint":
		cfg.OllamaEndpoint = value
	case "format":
		cfg.Format = value
	case "logLevel":
		cfg.LogLevel = value
	case "extensions":
		cfg.Extensions = splitExtensions(value)
	case "chunkSize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("chunkSize must be an integer: %w", err)
		}
		cfg.ChunkSize = n
	case "chunkOverlap":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("chunkOverlap must be an integer: %w", err)
		}
		cfg.ChunkOverlap = n
	case "cacheEnabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cacheEnabled must be a boolean: %w", err)
		}
		cfg.Cache.Enabled = &b
	case "redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = &b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// splitExtensions parses a comma-separated extension list, normalizing each
// entry to a leading dot and lower case.
func splitExtensions(s string) []string {
	parts := strings.Split(s, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		exts = append(exts, p)
	}
	return exts
}
