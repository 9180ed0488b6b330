package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/ringpost/ringpost/internal/credential"
	"github.com/ringpost/ringpost/internal/model"
)

// DriveSource lists a Google Drive folder for the newest image and
// downloads its content in one call. "Newest" follows the orderBy the
// source was built with; with an empty orderBy it is whatever the
// backend returns first, which is not guaranteed chronological.
type DriveSource struct {
	store    credential.Store
	folderID string
	orderBy  string
	opts     []option.ClientOption
}

// NewDriveSource builds a Drive-backed source. Extra client options are
// mainly for tests (endpoint overrides).
func NewDriveSource(store credential.Store, folderID, orderBy string, opts ...option.ClientOption) *DriveSource {
	return &DriveSource{
		store:    store,
		folderID: folderID,
		orderBy:  orderBy,
		opts:     opts,
	}
}

func (s *DriveSource) LatestImage(ctx context.Context) (*model.ImageAsset, error) {
	tok, err := s.store.Token(ctx)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, s.opts...)

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build drive service: %w", err)
	}

	query := fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", s.folderID)
	call := svc.Files.List().
		Q(query).
		PageSize(1).
		Fields("files(id, name, mimeType)")
	if s.orderBy != "" {
		call = call.OrderBy(s.orderBy)
	}

	list, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	if len(list.Files) == 0 {
		return nil, ErrNotFound
	}

	file := list.Files[0]
	slog.Info("found image", "id", file.Id, "name", file.Name, "mime_type", file.MimeType)

	resp, err := svc.Files.Get(file.Id).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download %q: %w", file.Name, err)
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close download body", "error", closeErr)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", file.Name, err)
	}

	return &model.ImageAsset{
		ID:       file.Id,
		Name:     file.Name,
		MimeType: file.MimeType,
		Data:     data,
	}, nil
}
