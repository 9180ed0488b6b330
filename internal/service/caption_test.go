package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringpost/ringpost/internal/gemini"
	"github.com/ringpost/ringpost/internal/model"
	"github.com/ringpost/ringpost/internal/source"
)

type fakeSource struct {
	asset *model.ImageAsset
	err   error
	calls int
}

func (f *fakeSource) LatestImage(ctx context.Context) (*model.ImageAsset, error) {
	f.calls++
	return f.asset, f.err
}

func styleServiceWith(t *testing.T, guidance, hashtags string) *StyleService {
	t.Helper()
	svc := NewStyleService(filepath.Join(t.TempDir(), "style.md"))
	require.NoError(t, svc.Save(&model.StyleProfile{Guidance: guidance, Hashtags: hashtags}))
	return svc
}

// The full cycle: one listing, one download, one generation request
// carrying the image bytes and the style profile, one caption out.
func TestRunEndToEnd(t *testing.T) {
	imageData := []byte("png-bytes")
	src := &fakeSource{asset: &model.ImageAsset{
		ID:       "f1",
		Name:     "photo.png",
		MimeType: "image/png",
		Data:     imageData,
	}}

	var generateCalls int
	var lastRequest gemini.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		generateCalls++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastRequest))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Great session today! #test"}]}}]}`))
	}))
	defer ts.Close()

	client := gemini.NewClient(ts.URL, "test-model", "test-key", 10*time.Second)
	style := styleServiceWith(t, "friendly tone", "#test")
	svc := NewCaptionService(src, client, style)

	var out bytes.Buffer
	require.NoError(t, svc.Run(context.Background(), &out))

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, generateCalls)

	require.Len(t, lastRequest.Contents, 1)
	parts := lastRequest.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, "friendly tone")
	assert.Contains(t, parts[0].Text, "#test")
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(imageData), parts[1].InlineData.Data)

	assert.Contains(t, out.String(), "Fetched image: photo.png")
	assert.Contains(t, out.String(), "Great session today! #test")
}

func TestRunEmptyFolderIsNotAnError(t *testing.T) {
	src := &fakeSource{err: source.ErrNotFound}
	svc := NewCaptionService(src, nil, styleServiceWith(t, "g", "#t"))

	var out bytes.Buffer
	require.NoError(t, svc.Run(context.Background(), &out))
	assert.Contains(t, out.String(), "No image found in the source folder.")
}

func TestRunGenerationFailurePropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer ts.Close()

	src := &fakeSource{asset: &model.ImageAsset{Name: "a.png", MimeType: "image/png", Data: []byte("x")}}
	client := gemini.NewClient(ts.URL, "test-model", "test-key", 10*time.Second)
	svc := NewCaptionService(src, client, styleServiceWith(t, "g", "#t"))

	var out bytes.Buffer
	err := svc.Run(context.Background(), &out)
	require.Error(t, err)

	var genErr *gemini.GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Equal(t, http.StatusTooManyRequests, genErr.StatusCode)
}

func TestGenerateTrimsWhitespace(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"\n  padded caption  \n"}]}}]}`))
	}))
	defer ts.Close()

	client := gemini.NewClient(ts.URL, "test-model", "test-key", 10*time.Second)
	svc := NewCaptionService(nil, client, styleServiceWith(t, "g", "#t"))

	caption, err := svc.Generate(context.Background(), &model.ImageAsset{MimeType: "image/png", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "padded caption", caption)
}
