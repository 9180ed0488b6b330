package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			// Captions rely on bare line breaks, keep them.
			goldmarkhtml.WithHardWraps(),
		),
	)

	return &Parser{
		md: md,
	}
}

// Parse renders markdown to HTML, skipping any leading frontmatter.
func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExtractFrontmatter decodes the YAML frontmatter block into a map.
// Documents without frontmatter yield an empty map.
func (p *Parser) ExtractFrontmatter(source []byte) map[string]any {
	context := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(context))

	data := frontmatter.Get(context)
	if data == nil {
		return make(map[string]any)
	}

	var meta map[string]any
	err := data.Decode(&meta)
	if err != nil {
		return make(map[string]any)
	}
	return meta
}

// Body returns the document with the leading frontmatter block removed.
func Body(source []byte) []byte {
	delim := []byte("---")
	trimmed := bytes.TrimLeft(source, "\n")
	if !bytes.HasPrefix(trimmed, delim) {
		return source
	}

	rest := trimmed[len(delim):]
	end := bytes.Index(rest, append([]byte("\n"), delim...))
	if end < 0 {
		return source
	}

	body := rest[end+1+len(delim):]
	return bytes.TrimLeft(body, "\n")
}
