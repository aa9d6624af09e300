package agents

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/bububa/medagent/components"
)

// Provider is the model provider behind a Client
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// Providers lists the supported providers
var Providers = []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic}

// ClientConfig describes how to reach a provider
type ClientConfig struct {
	Provider   Provider
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps one provider SDK client
type Client struct {
	provider  Provider
	openai    *openai.Client
	anthropic *anthropic.Client
	gemini    *genai.Client
}

// FromOpenAI returns a Client backed by an openai compatible client
func FromOpenAI(clt *openai.Client) *Client {
	return &Client{provider: ProviderOpenAI, openai: clt}
}

// FromAnthropic returns a Client backed by an anthropic client
func FromAnthropic(clt *anthropic.Client) *Client {
	return &Client{provider: ProviderAnthropic, anthropic: clt}
}

// FromGemini returns a Client backed by a gemini client
func FromGemini(clt *genai.Client) *Client {
	return &Client{provider: ProviderGemini, gemini: clt}
}

// NewClient builds a Client from config
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, cfg.Provider)
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		openaiCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			openaiCfg.BaseURL = cfg.BaseURL
		}
		if cfg.HTTPClient != nil {
			openaiCfg.HTTPClient = cfg.HTTPClient
		}
		return FromOpenAI(openai.NewClientWithConfig(openaiCfg)), nil
	case ProviderAnthropic:
		opts := make([]anthropic.ClientOption, 0, 2)
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, anthropic.WithHTTPClient(cfg.HTTPClient))
		}
		return FromAnthropic(anthropic.NewClient(cfg.APIKey, opts...)), nil
	case ProviderGemini:
		opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithEndpoint(cfg.BaseURL))
		}
		clt, err := genai.NewClient(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return FromGemini(clt), nil
	}
	return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
}

// Provider returns the provider of the client
func (c *Client) Provider() Provider {
	return c.provider
}

// Close releases the underlying connection if any
func (c *Client) Close() error {
	if c.gemini != nil {
		return c.gemini.Close()
	}
	return nil
}

// chat sends one request to the provider, usage is merged into llmResp
func (c *Client) chat(ctx context.Context, req *request, llmResp *components.LLMResponse) (*reply, error) {
	var (
		ret *reply
		err error
	)
	switch c.provider {
	case ProviderOpenAI:
		ret, err = c.chatOpenAI(ctx, req, llmResp)
	case ProviderAnthropic:
		ret, err = c.chatAnthropic(ctx, req, llmResp)
	case ProviderGemini:
		ret, err = c.chatGemini(ctx, req, llmResp)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", c.provider)
	}
	if err != nil {
		return nil, &RemoteServiceError{
			Provider:   c.provider,
			Model:      req.model,
			StatusCode: statusCode(err),
			Err:        err,
		}
	}
	return ret, nil
}

func statusCode(err error) int {
	var openaiAPIErr *openai.APIError
	if errors.As(err, &openaiAPIErr) {
		return openaiAPIErr.HTTPStatusCode
	}
	var openaiReqErr *openai.RequestError
	if errors.As(err, &openaiReqErr) {
		return openaiReqErr.HTTPStatusCode
	}
	var anthropicReqErr *anthropic.RequestError
	if errors.As(err, &anthropicReqErr) {
		return anthropicReqErr.StatusCode
	}
	return 0
}
