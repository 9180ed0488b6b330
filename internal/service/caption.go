package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ringpost/ringpost/internal/model"
	"github.com/ringpost/ringpost/internal/prompt"
	"github.com/ringpost/ringpost/internal/source"
)

// Generator is the generation endpoint the caption service calls.
type Generator interface {
	GenerateCaption(ctx context.Context, promptText string, asset *model.ImageAsset) (string, error)
}

// CaptionService orchestrates one generation cycle: latest image from
// the source, prompt from the style profile, one call to the generator.
type CaptionService struct {
	source    source.Source
	generator Generator
	style     *StyleService
}

func NewCaptionService(src source.Source, generator Generator, style *StyleService) *CaptionService {
	return &CaptionService{
		source:    src,
		generator: generator,
		style:     style,
	}
}

// FetchLatest pulls the newest image from the configured source.
// source.ErrNotFound is an expected outcome and passes through unwrapped.
func (s *CaptionService) FetchLatest(ctx context.Context) (*model.ImageAsset, error) {
	return s.source.LatestImage(ctx)
}

// Generate drafts a caption for an already-fetched image using the
// current style profile.
func (s *CaptionService) Generate(ctx context.Context, asset *model.ImageAsset) (string, error) {
	profile := s.style.Profile()
	promptText := prompt.Compose(profile.Guidance, profile.Hashtags)

	caption, err := s.generator.GenerateCaption(ctx, promptText, asset)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(caption), nil
}

// Run is the one-shot flow: fetch, generate, print. An empty folder is
// reported as a normal message, not an error; everything else fails the
// run on first error.
func (s *CaptionService) Run(ctx context.Context, w io.Writer) error {
	asset, err := s.FetchLatest(ctx)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			fmt.Fprintln(w, "No image found in the source folder.")
			return nil
		}
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Fprintf(w, "Fetched image: %s\n", asset.Name)
	fmt.Fprintln(w, "Drafting caption...")

	caption, err := s.Generate(ctx, asset)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	slog.Info("caption generated", "image", asset.Name, "length", len(caption))

	ruler := strings.Repeat("=", 40)
	fmt.Fprintln(w, ruler)
	fmt.Fprintln(w, caption)
	fmt.Fprintln(w, ruler)

	return nil
}
