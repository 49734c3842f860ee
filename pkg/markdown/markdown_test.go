package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_StripsScripts(t *testing.T) {
	out, err := Render("# Title\n\n<script>alert(1)</script>\n\n**bold**")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world link", PlainText("## Hello\n\n*world* [link](https://example.com)"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 10))

	long := strings.Repeat("word ", 50)
	ex := Excerpt(long, 20)
	assert.True(t, strings.HasSuffix(ex, "..."))
	assert.LessOrEqual(t, len([]rune(ex)), 23)
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime(strings.Repeat("a ", 200)))
	assert.Equal(t, 2, ReadingTime(strings.Repeat("a ", 201)))
	assert.Equal(t, 3, WordCount("one two three"))
}
