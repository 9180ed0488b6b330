package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ringpost/ringpost/internal/markdown"
	"github.com/ringpost/ringpost/internal/model"
)

// StyleService owns the style profile file: free-text guidance in the
// markdown body, the fixed hashtag string in YAML frontmatter. The file
// changes only on an explicit save.
type StyleService struct {
	path   string
	parser *markdown.Parser
}

func NewStyleService(path string) *StyleService {
	return &StyleService{
		path:   path,
		parser: markdown.NewParser(),
	}
}

// Profile reads the stored profile, falling back to the built-in
// defaults when the file is absent or empty.
func (s *StyleService) Profile() *model.StyleProfile {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read style file, using defaults", "path", s.path, "error", err)
		}
		return model.DefaultStyleProfile()
	}

	profile := model.DefaultStyleProfile()

	meta := s.parser.ExtractFrontmatter(b)
	if tags, ok := meta["hashtags"].(string); ok && strings.TrimSpace(tags) != "" {
		profile.Hashtags = strings.TrimSpace(tags)
	}

	body := strings.TrimSpace(string(markdown.Body(b)))
	if body != "" {
		profile.Guidance = body
	}

	return profile
}

// Save persists the profile atomically (temp file + rename) so a
// half-written file can never shadow the previous one.
func (s *StyleService) Save(profile *model.StyleProfile) error {
	content := fmt.Sprintf("---\nhashtags: %q\n---\n\n%s\n",
		strings.TrimSpace(profile.Hashtags),
		strings.TrimSpace(profile.Guidance),
	)

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".style-*")
	if err != nil {
		return fmt.Errorf("failed to create temp style file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.WriteString(content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write style file: %w", err)
	}

	err = os.Rename(tmpName, s.path)
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace style file: %w", err)
	}

	slog.Info("style profile saved", "path", s.path)
	return nil
}
