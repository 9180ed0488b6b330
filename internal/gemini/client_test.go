package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringpost/ringpost/internal/model"
)

func testAsset() *model.ImageAsset {
	return &model.ImageAsset{
		ID:       "f1",
		Name:     "photo.png",
		MimeType: "image/png",
		Data:     []byte("fake image bytes"),
	}
}

func TestGenerateCaptionSuccess(t *testing.T) {
	var calls int
	var gotBody Request

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Great session today! #test"}]}}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-model", "secret", time.Second)

	caption, err := client.GenerateCaption(context.Background(), "the prompt", testAsset())
	require.NoError(t, err)
	assert.Equal(t, "Great session today! #test", caption)
	assert.Equal(t, 1, calls)

	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 2)
	assert.Equal(t, "the prompt", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", gotBody.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t,
		base64.StdEncoding.EncodeToString([]byte("fake image bytes")),
		gotBody.Contents[0].Parts[1].InlineData.Data,
	)
}

func TestGenerateCaptionMissingCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-model", "secret", time.Second)

	_, err := client.GenerateCaption(context.Background(), "p", testAsset())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGenerateCaptionEmptyParts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-model", "secret", time.Second)

	_, err := client.GenerateCaption(context.Background(), "p", testAsset())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGenerateCaptionNon200(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-model", "secret", time.Second)

	_, err := client.GenerateCaption(context.Background(), "p", testAsset())

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, http.StatusTooManyRequests, genErr.StatusCode)
	assert.Contains(t, genErr.Body, "quota exceeded")

	// No retry: exactly one HTTP call per invocation
	assert.Equal(t, 1, calls)
}

// Reserved characters in the key or model must not leak into the URL
// structure.
func TestGenerateCaptionEscapesKeyAndModel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "se&cret key=x", r.URL.Query().Get("key"))
		assert.NotContains(t, r.URL.Path, "//")
		assert.Contains(t, r.URL.EscapedPath(), ":generateContent")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "models/odd name", "se&cret key=x", time.Second)

	_, err := client.GenerateCaption(context.Background(), "p", testAsset())
	assert.NoError(t, err)
}

func TestGenerateCaptionDefaultsMimeType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "image/png", req.Contents[0].Parts[1].InlineData.MimeType)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-model", "secret", time.Second)

	asset := testAsset()
	asset.MimeType = ""
	_, err := client.GenerateCaption(context.Background(), "p", asset)
	assert.NoError(t, err)
}
