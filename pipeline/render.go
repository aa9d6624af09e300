package pipeline

import "gitlab.com/golang-commonmark/markdown"

// raw html coming from model output is escaped
var htmlRenderer = markdown.New(
	markdown.HTML(false),
	markdown.Linkify(true),
	markdown.Tables(true),
	markdown.Nofollow(true),
)

// RenderHTML renders a markdown document to HTML
func RenderHTML(doc string) string {
	return htmlRenderer.RenderToString([]byte(doc))
}
