// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// blockElements start and end on their own line in the extracted text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tr": true, "ul": true,
}

var extraBlankLines = regexp.MustCompile(`\n{3,}`)

// HTMLConverter extracts readable text from an HTML edition. Paragraphs
// are separated by a blank line; whitespace inside a paragraph is collapsed
// except within <pre>.
type HTMLConverter struct {
	ContentType string
}

// Convert implements Converter.
func (c HTMLConverter) Convert(body io.Reader) (string, error) {
	r, err := charset.NewReader(body, c.ContentType)
	if err != nil {
		return "", fmt.Errorf("detecting charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Find("head, script, style, noscript").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var w textWriter
	for _, n := range root.Nodes {
		w.walk(n, false)
	}
	return w.String(), nil
}

type textWriter struct {
	sb strings.Builder
}

func (w *textWriter) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			w.sb.WriteString(n.Data)
			return
		}
		w.writeInline(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			w.sb.WriteString("\n")
			return
		case "img":
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		w.sb.WriteString("\n\n")
	}
	inPre := pre || (n.Type == html.ElementNode && n.Data == "pre")
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, inPre)
	}
	if block {
		w.sb.WriteString("\n\n")
	}
}

// writeInline appends text with whitespace runs collapsed to single spaces.
func (w *textWriter) writeInline(s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			w.sb.WriteString(" ")
		}
		return
	}
	if isSpace(s[0]) {
		w.sb.WriteString(" ")
	}
	w.sb.WriteString(strings.Join(fields, " "))
	if isSpace(s[len(s)-1]) {
		w.sb.WriteString(" ")
	}
}

// String returns the text with each line trimmed and blank-line runs
// collapsed to one.
func (w *textWriter) String() string {
	lines := strings.Split(normalizeNewlines(w.sb.String()), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(strings.TrimLeft(l, " "), " \t")
	}
	out := extraBlankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	out = strings.Trim(out, "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
