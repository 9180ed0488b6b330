package credential

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/oauth2"
)

type authResult struct {
	code string
	err  error
}

// BrowserConsent runs the installed-app authorization flow: it opens a
// loopback listener on an ephemeral port, prints the authorization URL
// for the user to open, and blocks until the provider redirects back
// with a code or ctx is done. Abandonment surfaces as an error so the
// caller can map it to ErrAuthFailure.
func BrowserConsent(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to open consent listener: %w", err)
	}
	defer func() {
		closeErr := listener.Close()
		if closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			slog.Warn("failed to close consent listener", "error", closeErr)
		}
	}()

	// Copy so the shared config keeps whatever redirect it was built with.
	flowCfg := *cfg
	flowCfg.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	state := generateState()
	results := make(chan authResult, 1)

	server := &http.Server{
		Handler: consentHandler(state, results),
	}

	go func() {
		serveErr := server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			deliverResult(results, authResult{err: serveErr})
		}
	}()
	defer func() {
		closeErr := server.Close()
		if closeErr != nil {
			slog.Warn("failed to close consent server", "error", closeErr)
		}
	}()

	authURL := flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Printf("Open this URL in your browser to authorize access:\n\n  %s\n\n", authURL)
	slog.Info("waiting for interactive consent", "redirect", flowCfg.RedirectURL)

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("consent abandoned: %w", ctx.Err())
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := flowCfg.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("code exchange failed: %w", err)
		}
		return tok, nil
	}
}

// consentHandler answers the provider redirect. Only the first outcome
// is delivered; later hits (double redirects, stray probes) still get
// an HTTP response but their outcome is dropped.
func consentHandler(state string, results chan<- authResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			deliverResult(results, authResult{err: errors.New("authorization state mismatch")})
			return
		}
		if errMsg := r.URL.Query().Get("error"); errMsg != "" {
			http.Error(w, "authorization declined", http.StatusBadRequest)
			deliverResult(results, authResult{err: fmt.Errorf("authorization declined: %s", errMsg)})
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			deliverResult(results, authResult{err: errors.New("authorization response missing code")})
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this window and return to the app.")
		deliverResult(results, authResult{code: code})
	})
}

// deliverResult never blocks: once a result is buffered, nobody drains
// the channel again.
func deliverResult(results chan<- authResult, res authResult) {
	select {
	case results <- res:
	default:
	}
}

// generateState creates a cryptographically secure random state token.
func generateState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
