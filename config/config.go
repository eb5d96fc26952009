package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can use strings like
// "15m" or "2s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all configuration for the docqa tool.
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	Chunk      ChunkConfig      `yaml:"chunk"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieve   RetrieveConfig   `yaml:"retrieve"`
	Cache      CacheConfig      `yaml:"cache"`
}

// RepositoryConfig selects the document source.
type RepositoryConfig struct {
	Provider string   `yaml:"provider"` // "drive", "filesystem"
	Includes []string `yaml:"includes"` // filesystem only, glob patterns
	Excludes []string `yaml:"excludes"`
}

// ChunkConfig holds text splitting configuration.
type ChunkConfig struct {
	MaxLen  int `yaml:"max_len"`
	Overlap int `yaml:"overlap"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider   string   `yaml:"provider"`    // "gemini", "openai", "ollama", "mock"
	Model      string   `yaml:"model"`       // e.g., "text-embedding-004"
	APIKeyEnv  string   `yaml:"api_key_env"` // Environment variable for API key
	BaseURL    string   `yaml:"base_url"`    // ollama / openai-compatible endpoints
	Dimension  int      `yaml:"dimension"`
	BatchSize  int      `yaml:"batch_size"`
	BatchPause Duration `yaml:"batch_pause"` // delay between batches, 0 = none
}

// GenerationConfig holds answer generation configuration.
type GenerationConfig struct {
	Provider        string `yaml:"provider"` // "gemini", "openai", "ollama"
	Model           string `yaml:"model"`
	APIKeyEnv       string `yaml:"api_key_env"`
	BaseURL         string `yaml:"base_url"`
	MaxContextChars int    `yaml:"max_context_chars"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK     int     `yaml:"top_k"`
	MinScore float64 `yaml:"min_score"` // Filter results below this score (0 = disabled)
}

// CacheConfig holds document content cache configuration.
type CacheConfig struct {
	TTL  Duration `yaml:"ttl"`
	Path string   `yaml:"path"` // on-disk cache file; empty = in-memory only
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Repository: RepositoryConfig{
			Provider: "filesystem",
			Includes: []string{"**/*.txt", "**/*.md", "**/*.markdown"},
			Excludes: []string{"**/node_modules/**", "**/.git/**"},
		},
		Chunk: ChunkConfig{
			MaxLen:  1000,
			Overlap: 150,
		},
		Embedding: EmbeddingConfig{
			Provider:  "gemini",
			Model:     "text-embedding-004",
			APIKeyEnv: "GEMINI_API_KEY",
			Dimension: 768,
			BatchSize: 100,
		},
		Generation: GenerationConfig{
			Provider:        "gemini",
			Model:           "gemini-1.5-flash",
			APIKeyEnv:       "GEMINI_API_KEY",
			MaxContextChars: 12000,
		},
		Retrieve: RetrieveConfig{
			TopK: 4,
		},
		Cache: CacheConfig{
			TTL: Duration(15 * time.Minute),
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docqa.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docqa.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .docqa/config.yaml
	path = filepath.Join(dir, ".docqa", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for values that would break the
// pipeline at runtime.
func (c *Config) Validate() error {
	switch c.Repository.Provider {
	case "drive", "filesystem":
	default:
		return fmt.Errorf("unknown repository provider: %q", c.Repository.Provider)
	}
	switch c.Embedding.Provider {
	case "gemini", "openai", "ollama", "mock":
	default:
		return fmt.Errorf("unknown embedding provider: %q", c.Embedding.Provider)
	}
	switch c.Generation.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unknown generation provider: %q", c.Generation.Provider)
	}
	if c.Chunk.MaxLen <= 0 {
		return fmt.Errorf("chunk max_len must be positive, got %d", c.Chunk.MaxLen)
	}
	if c.Chunk.Overlap < 0 {
		return fmt.Errorf("chunk overlap must not be negative, got %d", c.Chunk.Overlap)
	}
	if c.Retrieve.TopK < 0 {
		return fmt.Errorf("retrieve top_k must not be negative, got %d", c.Retrieve.TopK)
	}
	return nil
}

// CachePath returns the path to the on-disk content cache.
func CachePath(dir string) string {
	return filepath.Join(dir, ".docqa", "cache.db")
}

// EnsureConfigDir ensures the .docqa directory exists.
func EnsureConfigDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".docqa"), 0755)
}
