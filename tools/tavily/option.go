package tavily

import (
	"net/http"

	"github.com/bububa/medagent/tools"
)

type Option func(*Config)

func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.apiKey = key
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.baseURL = baseURL
	}
}

func WithMaxResults(n int) Option {
	return func(c *Config) {
		c.maxResults = n
	}
}

// WithSearchDepth basic or advanced
func WithSearchDepth(depth string) Option {
	return func(c *Config) {
		c.searchDepth = depth
	}
}

// WithIncludeDomains restricts results to the given domains
func WithIncludeDomains(domains ...string) Option {
	return func(c *Config) {
		c.includeDomains = domains
	}
}

func WithHttpClient(clt *http.Client) Option {
	return func(c *Config) {
		c.httpClient = clt
	}
}

// WithToolOptions applies generic tool options, e.g. title or hooks
func WithToolOptions(opts ...tools.Option) Option {
	return func(c *Config) {
		for _, opt := range opts {
			opt(&c.Config)
		}
	}
}
