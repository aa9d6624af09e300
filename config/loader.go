package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. MEDAGENT_LLM_PROVIDER
const EnvPrefix = "MEDAGENT"

// provider credentials read when no api key is configured
var (
	llmKeyEnv = map[string]string{
		"gemini":    "GEMINI_API_KEY",
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
	}
	searchKeyEnv = map[string]string{
		"tavily": "TAVILY_API_KEY",
	}
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.models", []string{"gemini-2.0-flash", "gemini-2.5-flash-preview-05-20"})
	v.SetDefault("llm.default_model", "")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("search.provider", "tavily")
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.base_url", "")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.engines", []string{})
	v.SetDefault("research.max_tool_rounds", 4)
	v.SetDefault("research.fetch_pages", true)
	v.SetDefault("image.target_width", 600)
	v.SetDefault("image.max_pixels", 24_000_000)
	v.SetDefault("image.temp_dir", "")
	v.SetDefault("output.language", "English")
	v.SetDefault("output.reveal_reasoning", false)
	v.SetDefault("request.timeout", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_size", 20<<20)
}

// Load reads the configuration once: .env files, then the optional yaml file at path,
// then MEDAGENT_* environment variables. Without path medagent.yaml is looked up in
// the working directory and ./configs.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("medagent")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyEnvCredentials(&cfg)
	if cfg.LLM.DefaultModel == "" && len(cfg.LLM.Models) > 0 {
		cfg.LLM.DefaultModel = cfg.LLM.Models[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFiles loads .env style files, missing files are skipped.
// Variables already set in the environment win.
func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

func applyEnvCredentials(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		if env, ok := llmKeyEnv[cfg.LLM.Provider]; ok {
			cfg.LLM.APIKey = os.Getenv(env)
		}
	}
	if cfg.Search.APIKey == "" {
		if env, ok := searchKeyEnv[cfg.Search.Provider]; ok {
			cfg.Search.APIKey = os.Getenv(env)
		}
	}
}

// Validate checks field constraints and that the default model is selectable
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !slices.Contains(c.LLM.Models, c.LLM.DefaultModel) {
		return fmt.Errorf("llm.default_model %q is not one of llm.models", c.LLM.DefaultModel)
	}
	if c.Search.Provider == "searxng" && c.Search.BaseURL == "" {
		return errors.New("search.base_url is required for searxng")
	}
	return nil
}

// Redacted returns a copy with secrets masked
func (c Config) Redacted() *Config {
	c.LLM.Models = slices.Clone(c.LLM.Models)
	c.Search.Engines = slices.Clone(c.Search.Engines)
	c.LLM.APIKey = redact(c.LLM.APIKey)
	c.Search.APIKey = redact(c.Search.APIKey)
	return &c
}

// YAML encodes the redacted configuration
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****"
}
