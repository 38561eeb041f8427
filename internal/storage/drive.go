package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/set-night/chatexport/internal/config"
)

type createFunc func(ctx context.Context, meta *drive.File, mime string, data []byte) (string, error)

// DriveUploader creates files in Google Drive as a service account.
type DriveUploader struct {
	folderID string
	attempts int
	delay    time.Duration
	create   createFunc
}

func NewDriveUploader(ctx context.Context, credentialsFile, folderID string) (*DriveUploader, error) {
	srv, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	create := func(ctx context.Context, meta *drive.File, mime string, data []byte) (string, error) {
		f, err := srv.Files.Create(meta).
			Media(bytes.NewReader(data), googleapi.ContentType(mime)).
			Fields("id").
			Context(ctx).
			Do()
		if err != nil {
			return "", err
		}
		return f.Id, nil
	}
	return newDriveUploader(folderID, create), nil
}

func newDriveUploader(folderID string, create createFunc) *DriveUploader {
	return &DriveUploader{
		folderID: folderID,
		attempts: config.DriveRetryAttempts,
		delay:    config.DriveRetryDelay,
		create:   create,
	}
}

// Upload stores data as a new file and returns its Drive id. Failed
// attempts are retried after a fixed delay until the attempts run out or
// ctx is done.
func (u *DriveUploader) Upload(ctx context.Context, name, mime string, data []byte) (string, error) {
	meta := &drive.File{Name: name, MimeType: mime}
	if u.folderID != "" {
		meta.Parents = []string{u.folderID}
	}

	var lastErr error
	for attempt := 1; attempt <= u.attempts; attempt++ {
		id, err := u.create(ctx, meta, mime, data)
		if err == nil {
			slog.Info("uploaded to drive", "name", name, "file_id", id, "attempt", attempt)
			return id, nil
		}
		lastErr = err
		slog.Warn("drive upload attempt failed", "name", name, "attempt", attempt, "error", err)

		if attempt == u.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(u.delay):
		}
	}
	return "", fmt.Errorf("upload %s after %d attempts: %w", name, u.attempts, lastErr)
}
