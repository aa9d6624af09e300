package webscraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/medagent/tools"
)

const testPage = `<html>
<head>
  <title>Pneumonia overview</title>
  <meta name="author" content="Jane Roe">
  <meta name="description" content="Imaging signs of pneumonia">
  <meta property="og:site_name" content="Radiology Wiki">
  <script>var tracking = true;</script>
</head>
<body>
  <nav><a href="/home">Home</a></nav>
  <main>
    <h1>Consolidation</h1>
    <p>Lobar consolidation with <a href="/air-bronchogram">air bronchograms</a>.</p>
  </main>
  <footer>copyright</footer>
</body>
</html>`

func startPageServer(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebscraperRun(t *testing.T) {
	srv := startPageServer(t, http.StatusOK, testPage)
	tool := New()
	out := new(Output)
	require.NoError(t, tool.Run(context.Background(), NewInput(srv.URL+"/pneumonia", false), out))

	assert.Contains(t, out.Content, "# Consolidation")
	assert.Contains(t, out.Content, "air bronchograms")
	assert.NotContains(t, out.Content, "/air-bronchogram)")
	assert.NotContains(t, out.Content, "Home")
	assert.NotContains(t, out.Content, "tracking")
	assert.NotContains(t, out.Content, "copyright")
	assert.False(t, out.Truncated)

	require.NotNil(t, out.Metadata)
	assert.Equal(t, "Pneumonia overview", out.Metadata.Title)
	assert.Equal(t, "Jane Roe", out.Metadata.Author)
	assert.Equal(t, "Radiology Wiki", out.Metadata.SiteName)
	assert.Equal(t, strings.TrimPrefix(srv.URL, "http://"), out.Metadata.Domain)
}

func TestWebscraperKeepsLinks(t *testing.T) {
	srv := startPageServer(t, http.StatusOK, testPage)
	out := new(Output)
	require.NoError(t, New().Run(context.Background(), NewInput(srv.URL, true), out))
	assert.Contains(t, out.Content, "/air-bronchogram)")
}

func TestWebscraperTruncates(t *testing.T) {
	srv := startPageServer(t, http.StatusOK, testPage)
	out := new(Output)
	require.NoError(t, New(WithMaxOutputLength(10)).Run(context.Background(), NewInput(srv.URL, false), out))
	assert.True(t, out.Truncated)
	assert.Len(t, []rune(out.Content), 10)
}

func TestWebscraperErrors(t *testing.T) {
	srv := startPageServer(t, http.StatusNotFound, "missing")
	tool := New()
	assert.Error(t, tool.Run(context.Background(), NewInput(srv.URL, false), new(Output)))
	assert.Error(t, tool.Run(context.Background(), NewInput("ftp://example.com/file", false), new(Output)))
	assert.Error(t, tool.Run(context.Background(), NewInput("not a url", false), new(Output)))
}

func TestWebscraperFunction(t *testing.T) {
	srv := startPageServer(t, http.StatusOK, testPage)
	fn, err := tools.NewFunction[Input, Output](New())
	require.NoError(t, err)
	assert.Equal(t, "fetch_page", fn.Definition().Name)

	params, err := fn.Definition().Schema()
	require.NoError(t, err)
	assert.Contains(t, params.Required, "url")

	ret, err := fn.Call(context.Background(), `{"url":"`+srv.URL+`"}`)
	require.NoError(t, err)
	assert.Contains(t, ret, "Consolidation")

	_, err = fn.Call(context.Background(), `{}`)
	assert.Error(t, err)
}
