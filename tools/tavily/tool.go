package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bububa/medagent/schema"
	"github.com/bububa/medagent/tools"
)

const DefaultBaseURL = "https://api.tavily.com"

type Topic = string

const (
	GeneralTopic Topic = "general"
	NewsTopic    Topic = "news"
)

// Input Schema for searching the web for articles, protocols and references using Tavily.
type Input struct {
	schema.Base
	// Query the search query
	Query string `json:"query" jsonschema:"title=query,description=The search query. Prefer precise medical terms." validate:"required"`
	// Topic category of the search
	Topic Topic `json:"topic,omitempty" jsonschema:"title=topic,enum=general,enum=news,default=general,description=Category of the search."`
}

func NewInput(query string) *Input {
	return &Input{
		Query: query,
		Topic: GeneralTopic,
	}
}

// SearchResultItem represents a single search result item
type SearchResultItem struct {
	// URL The URL of the search result
	URL string `json:"url"`
	// Title The title of the search result
	Title string `json:"title"`
	// Content The content snippet of the search result
	Content string `json:"content,omitempty"`
	// Score relevance score given by tavily
	Score float64 `json:"score,omitempty"`
	// PublishedDate only returned for the news topic
	PublishedDate string `json:"published_date,omitempty"`
}

// Output represents the output of the Tavily search tool.
type Output struct {
	schema.Base
	// Query the query which was run
	Query string `json:"query,omitempty"`
	// Answer short answer generated by tavily
	Answer string `json:"answer,omitempty"`
	// Results List of search result items
	Results []SearchResultItem `json:"results"`
}

type searchRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	Topic          string   `json:"topic,omitempty"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeAnswer  bool     `json:"include_answer"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

type errorResponse struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}

type Config struct {
	tools.Config
	apiKey         string
	baseURL        string
	maxResults     int
	searchDepth    string
	includeDomains []string
	httpClient     *http.Client
}

// Search is a tool performing web searches through the Tavily API
type Search struct {
	Config
}

var (
	_ tools.Tool[Input, Output] = (*Search)(nil)
	_ tools.Checker             = (*Search)(nil)
)

func New(opts ...Option) *Search {
	ret := new(Search)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("web_search")
	}
	if ret.Description() == "" {
		ret.SetDescription("Search the web for current medical articles, guidelines and protocols. Returns titles, URLs and content snippets.")
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.maxResults == 0 {
		ret.maxResults = 5
	}
	if ret.searchDepth == "" {
		ret.searchDepth = "basic"
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

// Ready returns tools.ErrUnavailable without an API key
func (t *Search) Ready() error {
	if t.apiKey == "" {
		return fmt.Errorf("%w: tavily api key is missing", tools.ErrUnavailable)
	}
	return nil
}

// Run runs the search synchronously
func (t *Search) Run(ctx context.Context, input *Input, output *Output) error {
	if err := t.Ready(); err != nil {
		return err
	}
	topic := input.Topic
	if topic == "" {
		topic = GeneralTopic
	}
	req := searchRequest{
		APIKey:         t.apiKey,
		Query:          input.Query,
		Topic:          topic,
		SearchDepth:    t.searchDepth,
		MaxResults:     t.maxResults,
		IncludeAnswer:  true,
		IncludeDomains: t.includeDomains,
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(req); err != nil {
		return err
	}
	searchURL := strings.TrimRight(t.baseURL, "/") + "/search"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, buf)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error querying tavily: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return statusError(httpResp)
	}
	if err := json.NewDecoder(httpResp.Body).Decode(output); err != nil {
		return err
	}
	results := output.Results[:0]
	for _, v := range output.Results {
		if v.URL == "" || v.Title == "" {
			continue
		}
		results = append(results, v)
		if len(results) >= t.maxResults {
			break
		}
	}
	output.Results = results
	if output.Query == "" {
		output.Query = input.Query
	}
	return nil
}

func statusError(resp *http.Response) error {
	bs, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var errResp errorResponse
	if json.Unmarshal(bs, &errResp) == nil && errResp.Detail.Error != "" {
		return fmt.Errorf("non-200 response from tavily: %d, %s", resp.StatusCode, errResp.Detail.Error)
	}
	return fmt.Errorf("non-200 response from tavily: %d", resp.StatusCode)
}
