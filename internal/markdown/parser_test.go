package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRendersHTML(t *testing.T) {
	p := NewParser()

	html, err := p.Parse([]byte("Hello **world**"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<strong>world</strong>")
}

func TestParseKeepsLineBreaks(t *testing.T) {
	p := NewParser()

	html, err := p.Parse([]byte("line one\nline two"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<br")
}

func TestParseSkipsFrontmatter(t *testing.T) {
	p := NewParser()

	html, err := p.Parse([]byte("---\nhashtags: \"#test\"\n---\n\nbody text"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "body text")
	assert.NotContains(t, string(html), "hashtags")
}

func TestExtractFrontmatter(t *testing.T) {
	p := NewParser()

	meta := p.ExtractFrontmatter([]byte("---\nhashtags: \"#sunset #travel\"\n---\n\nbody"))
	assert.Equal(t, "#sunset #travel", meta["hashtags"])
}

func TestExtractFrontmatterAbsent(t *testing.T) {
	p := NewParser()

	meta := p.ExtractFrontmatter([]byte("just a body"))
	assert.Empty(t, meta)
}

func TestBody(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"with frontmatter", "---\nhashtags: \"#t\"\n---\n\nguidance here\n", "guidance here\n"},
		{"no frontmatter", "guidance only\n", "guidance only\n"},
		{"unterminated block", "---\nhashtags: x\n", "---\nhashtags: x\n"},
		{"leading blank lines", "\n\n---\na: b\n---\nbody", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Body([]byte(tt.source))))
		})
	}
}
