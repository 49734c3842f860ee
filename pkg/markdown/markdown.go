// Package markdown renders user-authored markdown into sanitized HTML.
package markdown

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	engine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()

	whitespace = regexp.MustCompile(`\s+`)
)

// Render converts markdown to HTML and strips anything unsafe
func Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// PlainText renders markdown and removes every tag, for excerpts and search documents
func PlainText(content string) string {
	rendered, err := Render(content)
	if err != nil {
		rendered = content
	}
	text := stripper.Sanitize(rendered)
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Excerpt returns the first maxRunes runes of the plain text, cut at a word boundary
func Excerpt(content string, maxRunes int) string {
	text := []rune(PlainText(content))
	if len(text) <= maxRunes {
		return string(text)
	}
	cut := maxRunes
	for i := maxRunes; i > maxRunes/2; i-- {
		if unicode.IsSpace(text[i]) {
			cut = i
			break
		}
	}
	return strings.TrimSpace(string(text[:cut])) + "..."
}

// WordCount counts whitespace separated words of the plain text
func WordCount(content string) int {
	return len(strings.Fields(PlainText(content)))
}

// ReadingTime returns minutes to read at 200 words per minute, at least 1
func ReadingTime(content string) int {
	minutes := (WordCount(content) + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
