package config

import "time"

// Config is the application configuration
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Search   SearchConfig   `mapstructure:"search" yaml:"search"`
	Research ResearchConfig `mapstructure:"research" yaml:"research"`
	Image    ImageConfig    `mapstructure:"image" yaml:"image"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Request  RequestConfig  `mapstructure:"request" yaml:"request"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

type LLMConfig struct {
	Provider     string   `mapstructure:"provider" yaml:"provider" validate:"oneof=gemini openai anthropic"`
	APIKey       string   `mapstructure:"api_key" yaml:"api_key"`
	BaseURL      string   `mapstructure:"base_url" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Models       []string `mapstructure:"models" yaml:"models" validate:"min=1,dive,required"`
	DefaultModel string   `mapstructure:"default_model" yaml:"default_model"`
	Temperature  float32  `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens    int      `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gte=0"`
}

type SearchConfig struct {
	Provider   string `mapstructure:"provider" yaml:"provider" validate:"oneof=tavily searxng"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL    string `mapstructure:"base_url" yaml:"base_url,omitempty" validate:"omitempty,url"`
	MaxResults int    `mapstructure:"max_results" yaml:"max_results" validate:"gt=0,lte=20"`
	// Engines restricts searxng to these engines
	Engines []string `mapstructure:"engines" yaml:"engines,omitempty"`
}

type ResearchConfig struct {
	MaxToolRounds int  `mapstructure:"max_tool_rounds" yaml:"max_tool_rounds" validate:"gt=0"`
	FetchPages    bool `mapstructure:"fetch_pages" yaml:"fetch_pages"`
}

type ImageConfig struct {
	TargetWidth int    `mapstructure:"target_width" yaml:"target_width" validate:"gt=0"`
	MaxPixels   int    `mapstructure:"max_pixels" yaml:"max_pixels" validate:"gte=0"`
	TempDir     string `mapstructure:"temp_dir" yaml:"temp_dir,omitempty"`
}

type OutputConfig struct {
	Language        string `mapstructure:"language" yaml:"language" validate:"required"`
	RevealReasoning bool   `mapstructure:"reveal_reasoning" yaml:"reveal_reasoning"`
}

type RequestConfig struct {
	// Timeout bounds one pipeline invocation, zero means no limit
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required"`
	// MaxUploadSize in bytes
	MaxUploadSize int64 `mapstructure:"max_upload_size" yaml:"max_upload_size" validate:"gt=0"`
}
