package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/artgav/amnola-tpp-convertor/internal/doctree"
)

// Markdown renders the document as Markdown. Run formatting is expressed
// with inline HTML so underline and color survive; run text is escaped.
func Markdown(tree *doctree.DocTree) string {
	var sb strings.Builder
	for i, p := range tree.Paragraphs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if p.Text() == "" {
			sb.WriteString("&nbsp;")
			continue
		}
		for _, r := range p.Runs {
			sb.WriteString(markdownRun(r))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func markdownRun(r *doctree.Run) string {
	s := escapeMarkdown(r.Text)
	if r.Bold {
		s = "<strong>" + s + "</strong>"
	}
	if r.Italic {
		s = "<em>" + s + "</em>"
	}
	if r.Underline {
		s = "<u>" + s + "</u>"
	}
	var css []string
	if r.Color != "" {
		css = append(css, "color:#"+r.Color)
	}
	if r.Size > 0 && r.Size != BodySize {
		css = append(css, fmt.Sprintf("font-size:%dpt", r.Size))
	}
	if len(css) > 0 {
		s = `<span style="` + strings.Join(css, ";") + `">` + s + "</span>"
	}
	return s
}

const markdownPunct = "\\`*_{}[]()#+-.!|~"

// escapeMarkdown neutralises Markdown syntax and raw HTML in worksheet text.
func escapeMarkdown(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '<':
			sb.WriteString("&lt;")
		case r == '>':
			sb.WriteString("&gt;")
		case r == '&':
			sb.WriteString("&amp;")
		case r == '"':
			sb.WriteString("&quot;")
		case strings.ContainsRune(markdownPunct, r):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// HTML renders a standalone HTML preview of the document via goldmark.
func HTML(tree *doctree.DocTree) ([]byte, error) {
	md := goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(tree)), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	out.WriteString(html.EscapeString(tree.Title))
	fmt.Fprintf(&out, "</title>\n</head>\n<body style=\"text-align:center;font-family:%s;font-size:%dpt\">\n",
		html.EscapeString(tree.Font), tree.Size)
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}
