package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringpost/ringpost/internal/model"
)

func TestProfileDefaultsWhenFileAbsent(t *testing.T) {
	svc := NewStyleService(filepath.Join(t.TempDir(), "style.md"))

	profile := svc.Profile()
	assert.Equal(t, model.DefaultGuidance, profile.Guidance)
	assert.Equal(t, model.DefaultHashtags, profile.Hashtags)
}

func TestProfileReadsFrontmatterAndBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.md")
	content := "---\nhashtags: \"#sunset #travel\"\n---\n\nKeep it warm and personal.\nMention the light.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	svc := NewStyleService(path)
	profile := svc.Profile()
	assert.Equal(t, "#sunset #travel", profile.Hashtags)
	assert.Equal(t, "Keep it warm and personal.\nMention the light.", profile.Guidance)
}

func TestProfilePartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.md")
	require.NoError(t, os.WriteFile(path, []byte("Only body guidance here.\n"), 0o644))

	svc := NewStyleService(path)
	profile := svc.Profile()
	assert.Equal(t, "Only body guidance here.", profile.Guidance)
	assert.Equal(t, model.DefaultHashtags, profile.Hashtags)
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.md")
	svc := NewStyleService(path)

	want := &model.StyleProfile{
		Guidance: "friendly tone",
		Hashtags: "#test",
	}
	require.NoError(t, svc.Save(want))

	got := svc.Profile()
	assert.Equal(t, want.Guidance, got.Guidance)
	assert.Equal(t, want.Hashtags, got.Hashtags)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.md")
	svc := NewStyleService(path)

	require.NoError(t, svc.Save(&model.StyleProfile{Guidance: "first", Hashtags: "#a"}))
	require.NoError(t, svc.Save(&model.StyleProfile{Guidance: "second", Hashtags: "#b"}))

	got := svc.Profile()
	assert.Equal(t, "second", got.Guidance)
	assert.Equal(t, "#b", got.Hashtags)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "style.md", entries[0].Name())
}
