package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
)

// ErrAuthFailure means neither the stored token, a silent refresh, nor
// interactive consent could produce a usable credential.
var ErrAuthFailure = errors.New("could not obtain a valid credential")

// Store supplies a valid OAuth credential for the file repository.
// Implementations own persistence; callers never touch the token file.
type Store interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// ConsentFunc runs the interactive leg of the OAuth flow and blocks
// until the user completes or abandons it. Injected so tests and
// headless environments can replace the browser flow.
type ConsentFunc func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)

// FileStore persists the credential as JSON in a single file and
// bootstraps a new one via consent when the file is absent or the
// stored token can no longer be refreshed.
type FileStore struct {
	path    string
	config  *oauth2.Config
	consent ConsentFunc
}

func NewFileStore(path string, config *oauth2.Config, consent ConsentFunc) *FileStore {
	return &FileStore{
		path:    path,
		config:  config,
		consent: consent,
	}
}

// NewFileStoreFromClientSecret builds a FileStore from a Google client
// registration file (the out-of-band credentials.json), requesting
// read-only Drive access and using the loopback browser consent flow.
func NewFileStoreFromClientSecret(tokenPath, clientSecretPath string) (*FileStore, error) {
	b, err := os.ReadFile(clientSecretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret file: %w", err)
	}

	return NewFileStore(tokenPath, cfg, BrowserConsent), nil
}

// Token returns a valid credential, walking the lifecycle:
//
//	stored and not expired      -> returned as-is, no network I/O
//	expired with refresh token  -> silent refresh, re-persisted
//	absent/unparsable/revoked   -> interactive consent, persisted
//
// Every transition into a valid state overwrites the token file.
func (s *FileStore) Token(ctx context.Context) (*oauth2.Token, error) {
	tok := s.load()

	if tok != nil && tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := s.config.TokenSource(ctx, tok).Token()
		if err == nil {
			// Google omits the refresh token from refresh responses;
			// carry the old one forward so the next refresh still works.
			if refreshed.RefreshToken == "" {
				refreshed.RefreshToken = tok.RefreshToken
			}
			if err := s.save(refreshed); err != nil {
				return nil, err
			}
			return refreshed, nil
		}
		slog.Warn("credential refresh failed, falling back to interactive consent", "error", err)
	}

	if s.consent == nil {
		return nil, fmt.Errorf("no stored credential and no consent flow available: %w", ErrAuthFailure)
	}

	tok, err := s.consent(ctx, s.config)
	if err != nil {
		return nil, fmt.Errorf("interactive consent failed: %w: %w", err, ErrAuthFailure)
	}

	if err := s.save(tok); err != nil {
		return nil, err
	}

	return tok, nil
}

// load reads the persisted token. A missing or unparsable file yields
// nil: both re-enter the flow through consent, per the lifecycle.
func (s *FileStore) load() *oauth2.Token {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		slog.Warn("stored credential is unparsable, re-bootstrapping", "path", s.path, "error", err)
		return nil
	}
	return &tok
}

func (s *FileStore) save(tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to serialize credential: %w", err)
	}

	// Token material, owner-only.
	err = os.WriteFile(s.path, b, 0o600)
	if err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	slog.Info("credential persisted", "path", s.path)
	return nil
}
