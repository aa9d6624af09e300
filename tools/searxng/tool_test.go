package searxng

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bububa/medagent/tools"
)

func startSearxngServer(t *testing.T, results *Output) *httptest.Server {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("expect json format, got %s", r.URL.Query().Get("format"))
		}
		json.NewEncoder(w).Encode(results)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/search", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchWithCategory(t *testing.T) {
	mockQuery := "test query with category"
	mockItem := SearchResultItem{
		URL:      "https://example.com/test-category",
		Title:    "Test Result with Category",
		Content:  "This is a test result content with category.",
		Category: NewsCategory,
	}
	srv := startSearxngServer(t, &Output{Results: []SearchResultItem{mockItem}})
	tool := New(WithBaseURL(srv.URL))
	result := new(Output)
	if err := tool.Run(context.Background(), NewInput(NewsCategory, []string{mockQuery}), result); err != nil {
		t.Fatalf("Error running Search: %v", err)
	}
	if len(result.Results) != 1 {
		t.Fatalf("Error number of results, expect 1, but got %d", len(result.Results))
	}
	item := result.Results[0]
	if item.Title != mockItem.Title {
		t.Errorf("Expect title %s, but got %s", mockItem.Title, item.Title)
	}
	if item.URL != mockItem.URL {
		t.Errorf("Expect url %s, but got %s", mockItem.URL, item.URL)
	}
	if item.Query != mockQuery {
		t.Errorf("Expect query %s, but got %s", mockQuery, item.Query)
	}
	if result.Category != NewsCategory {
		t.Errorf("Expect category %s, but got %s", NewsCategory, result.Category)
	}
}

func TestSearchMissingFields(t *testing.T) {
	mockQuery := "query with missing fields"
	srv := startSearxngServer(t, &Output{
		Results: []SearchResultItem{
			{Title: "Result Missing Content", URL: "https://example.com/1"},
			{Content: "Result Missing Title", URL: "https://example.com/2"},
			{Title: "Result Missing URL", Content: "Some content"},
			{Title: "Valid Result", Content: "Some content", URL: "https://example.com/5"},
			{Title: "Duplicated Result", Content: "Some content", URL: "https://example.com/5"},
		},
	})
	tool := New(WithBaseURL(srv.URL))
	result := new(Output)
	if err := tool.Run(context.Background(), NewInput(EmptyCategory, []string{mockQuery}), result); err != nil {
		t.Fatalf("Error running Search: %v", err)
	}
	if len(result.Results) != 1 {
		t.Fatalf("Error number of results, expect 1, but got %d", len(result.Results))
	}
	if title := result.Results[0].Title; title != "Valid Result" {
		t.Errorf("Expect title Valid Result, but got %s", title)
	}
}

func TestSearchWithMaxResults(t *testing.T) {
	mockQuery := "query with max results"
	srv := startSearxngServer(t, &Output{
		Results: []SearchResultItem{
			{Title: "Result with Metadata", URL: "https://example.com/metadata", Content: "Content with metadata", Metadata: "2021-01-01"},
			{Title: "Result with Published Date", Content: "Content with published date", URL: "https://example.com/published-data", PublishedDate: "2022-01-01"},
			{Title: "Result without dates", Content: "Content without dates", URL: "https://example.com/no-dates"},
		},
	})
	tool := New(WithBaseURL(srv.URL), WithMaxResults(2))
	result := new(Output)
	if err := tool.Run(context.Background(), NewInput(EmptyCategory, []string{mockQuery}), result); err != nil {
		t.Fatalf("Error running Search: %v", err)
	}
	if len(result.Results) != 2 {
		t.Errorf("Error number of results, expect 2, but got %d", len(result.Results))
	}
	if result.Results[0].Metadata != "2021-01-01" {
		t.Errorf("Expect metadata 2021-01-01, but got %s", result.Results[0].Metadata)
	}
}

func TestSearchWithNoResults(t *testing.T) {
	srv := startSearxngServer(t, &Output{Results: []SearchResultItem{}})
	tool := New(WithBaseURL(srv.URL), WithMaxResults(2))
	result := new(Output)
	if err := tool.Run(context.Background(), NewInput(EmptyCategory, []string{"nothing"}), result); err != nil {
		t.Fatalf("Error running Search: %v", err)
	}
	if len(result.Results) != 0 {
		t.Errorf("Error number of results, expect 0, but got %d", len(result.Results))
	}
}

func TestSearchWithoutBaseURL(t *testing.T) {
	tool := New()
	if err := tools.Ready(tool); err == nil {
		t.Fatal("expect unavailable error without base url")
	}
}

func TestSearchWithEngines(t *testing.T) {
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("engines")
		json.NewEncoder(w).Encode(&Output{})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tool := New(WithBaseURL(srv.URL+"/"), WithEngines("pubmed", "google scholar"))
	if err := tool.Run(context.Background(), NewInput(ScienceCategory, []string{"pneumothorax"}), new(Output)); err != nil {
		t.Fatalf("Error running Search: %v", err)
	}
	if got != "pubmed,google scholar" {
		t.Errorf("Expect engines pubmed,google scholar, but got %s", got)
	}
}
