package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bububa/medagent/schema"
	"github.com/bububa/medagent/tools"
)

type Category = string

const (
	EmptyCategory   Category = ""
	GeneralCategory Category = "general"
	NewsCategory    Category = "news"
	ScienceCategory Category = "science"
)

// Input Schema for input to a tool for searching for information, news, references, and other content using SearxNG.
// Returns a list of search results with a short description or content snippet and URLs for further exploration
type Input struct {
	schema.Base
	// Queries list of search queries.
	Queries []string `json:"queries" jsonschema:"title=queries,description=List of search queries." validate:"required,min=1"`
	// Category: Category of the search queries."
	Category Category `json:"category,omitempty" jsonschema:"title=category,enum=general,enum=news,enum=science,default=general,description=Category of the search queries."`
}

func NewInput(category Category, queries []string) *Input {
	return &Input{
		Queries:  queries,
		Category: category,
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
	// Query The query used to obtain this search result
	Query string `json:"query,omitempty"`
	// Category The category of the search result
	Category Category `json:"category,omitempty"`
	// Metadata additional metadata of the search result
	Metadata string `json:"metadata,omitempty"`
	// PublishedDate published date of the search result
	PublishedDate string `json:"publishedDate,omitempty"`
}

// SearchResponse represents the entire response from the local search engine
type SearchResponse struct {
	Query           string             `json:"query"`
	NumberOfResults int                `json:"number_of_results"`
	Results         []SearchResultItem `json:"results"`
}

// Output represents the output of the SearxNG search tool.
type Output struct {
	schema.Base
	// Results List of search result items
	Results []SearchResultItem `json:"results"`
	// Category The category of the search results
	Category Category `json:"category,omitempty"`
}

type Config struct {
	tools.Config
	language   string
	baseURL    string
	engines    []string
	maxResults int
	httpClient *http.Client
}

// Search queries a SearxNG instance, results of all queries are merged and deduplicated by url
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
		ret.SetDescription("Search the web for information, articles and references. Returns URLs with short content snippets.")
	}
	if ret.maxResults == 0 {
		ret.maxResults = 10
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

// Ready returns tools.ErrUnavailable without a base url
func (t *Search) Ready() error {
	if t.baseURL == "" {
		return fmt.Errorf("%w: searxng base url is missing", tools.ErrUnavailable)
	}
	return nil
}

// Run searches every query in turn and keeps at most maxResults items
func (t *Search) Run(ctx context.Context, input *Input, output *Output) error {
	if err := t.Ready(); err != nil {
		return err
	}
	seen := make(map[string]struct{})
	results := make([]SearchResultItem, 0, t.maxResults)
	for _, query := range input.Queries {
		items, err := t.fetchSearchResults(ctx, query, input.Category)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.URL == "" || item.Title == "" || item.Content == "" {
				continue
			}
			if _, ok := seen[item.URL]; ok {
				continue
			}
			seen[item.URL] = struct{}{}
			results = append(results, item)
		}
	}
	if len(results) > t.maxResults {
		results = results[:t.maxResults]
	}
	output.Results = results
	output.Category = input.Category
	return nil
}

// fetchSearchResults queries the local search engine and returns the parsed search response
func (t *Search) fetchSearchResults(ctx context.Context, query string, category Category) ([]SearchResultItem, error) {
	// Encode the query parameter
	values := url.Values{}
	values.Set("q", query)
	values.Set("safesearch", "0")
	values.Set("format", "json")
	if t.language != "" {
		values.Set("language", t.language)
	}
	if category != "" {
		values.Set("categories", category)
	}
	if len(t.engines) > 0 {
		values.Set("engines", strings.Join(t.engines, ","))
	}
	searchURL := fmt.Sprintf("%s/search?%s", strings.TrimRight(t.baseURL, "/"), values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying local search engine: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from search engine: %d", httpResp.StatusCode)
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&searchResponse); err != nil {
		return nil, err
	}
	for idx := range searchResponse.Results {
		searchResponse.Results[idx].Query = query
	}

	return searchResponse.Results, nil
}
