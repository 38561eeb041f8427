package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/domain"
)

// DownloadFile downloads a file from Telegram by file ID. Files larger than
// maxSize fail with domain.ErrPageTooLarge.
func DownloadFile(ctx context.Context, b *bot.Bot, fileID string, maxSize int64) ([]byte, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if file.FileSize > maxSize {
		return nil, domain.ErrPageTooLarge
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(file), nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file data: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, domain.ErrPageTooLarge
	}
	return data, nil
}

// IsHTMLDocument reports whether doc looks like a saved web page.
func IsHTMLDocument(doc *models.Document) bool {
	if doc == nil {
		return false
	}
	if strings.HasPrefix(doc.MimeType, "text/html") || doc.MimeType == "application/xhtml+xml" {
		return true
	}
	switch strings.ToLower(path.Ext(doc.FileName)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}
