package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/set-night/chatexport/internal/domain"
	"github.com/set-night/chatexport/internal/extractor"
	"github.com/set-night/chatexport/internal/render"
)

type ExportStore interface {
	Create(ctx context.Context, rec *domain.ExportRecord) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.ExportRecord, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// Uploader stores a rendered file remotely and returns its id.
type Uploader interface {
	Upload(ctx context.Context, name, mime string, data []byte) (string, error)
}

type Publisher interface {
	PublishExport(rec *domain.ExportRecord) error
}

type ExportRequest struct {
	UserID int64
	HTML   io.Reader
	// Title and Format override the page title and the user's setting.
	Title  string
	Format domain.Format
}

type ExportResult struct {
	Conversation *domain.Conversation
	File         *render.File
	Record       *domain.ExportRecord
	// DriveErr is set when the optional upload failed; the export itself
	// still succeeded.
	DriveErr error
}

type ExportDeps struct {
	Extractor *extractor.Extractor
	Settings  *SettingsService
	License   *LicenseService
	Exports   ExportStore
	Fetcher   *PageFetcher
	Uploader  Uploader
	Publisher Publisher
	Location  *time.Location
}

type ExportService struct {
	extractor *extractor.Extractor
	settings  *SettingsService
	license   *LicenseService
	exports   ExportStore
	fetcher   *PageFetcher
	uploader  Uploader
	publisher Publisher
	loc       *time.Location
	newID     func() uuid.UUID
}

func NewExportService(d ExportDeps) *ExportService {
	if d.Extractor == nil {
		d.Extractor = extractor.New()
	}
	if d.Fetcher == nil {
		d.Fetcher = NewPageFetcher(nil)
	}
	return &ExportService{
		extractor: d.Extractor,
		settings:  d.Settings,
		license:   d.License,
		exports:   d.Exports,
		fetcher:   d.Fetcher,
		uploader:  d.Uploader,
		publisher: d.Publisher,
		loc:       d.Location,
		newID:     uuid.New,
	}
}

// Export extracts, renders and records one conversation for a user.
// Extraction errors are returned unchanged.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (_ *ExportResult, err error) {
	release, err := s.license.ReserveExport(ctx, req.UserID)
	if errors.Is(err, domain.ErrFreeLimitReached) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("reserve export: %w", err)
	}
	defer func() {
		if err != nil {
			release()
		}
	}()

	conv, err := s.extractor.ExtractHTML(req.HTML)
	if err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		conv.Title = title
	}

	st, err := s.settings.Load(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	format := st.Format
	if req.Format != "" {
		format = req.Format
	}

	opts := render.Options{ThemeColor: st.ThemeColor, Location: s.loc}
	file, err := render.Render(conv, format, opts)
	if err != nil {
		return nil, err
	}

	rec := &domain.ExportRecord{
		ID:           s.newID(),
		UserID:       req.UserID,
		Title:        conv.Title,
		Format:       format,
		MessageCount: len(conv.Messages),
		CreatedAt:    conv.Timestamp,
	}
	result := &ExportResult{Conversation: conv, File: file, Record: rec}

	if st.DriveUpload && s.uploader != nil {
		id, err := s.uploadMarkdown(ctx, conv, opts)
		if err != nil {
			slog.Warn("drive upload failed", "user_id", req.UserID, "error", err)
			result.DriveErr = err
		} else {
			rec.DriveFileID = &id
		}
	}

	if err := s.exports.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("save export: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishExport(rec); err != nil {
			slog.Error("publish export event", "export_id", rec.ID, "error", err)
		}
	}

	slog.Info("conversation exported",
		"user_id", req.UserID,
		"export_id", rec.ID,
		"format", format,
		"messages", rec.MessageCount,
	)
	return result, nil
}

// ExportURL downloads rawURL and exports it.
func (s *ExportService) ExportURL(ctx context.Context, req ExportRequest, rawURL string) (*ExportResult, error) {
	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	req.HTML = bytes.NewReader(body)
	return s.Export(ctx, req)
}

// History returns one page of the user's exports and the total count.
func (s *ExportService) History(ctx context.Context, userID int64, page, perPage int) ([]domain.ExportRecord, int, error) {
	total, err := s.exports.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if page < 0 {
		page = 0
	}
	recs, err := s.exports.ListByUser(ctx, userID, perPage, page*perPage)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (s *ExportService) uploadMarkdown(ctx context.Context, conv *domain.Conversation, opts render.Options) (string, error) {
	name := render.FileName(conv.Title, domain.FormatMarkdown)
	data := render.Markdown(conv, opts)
	return s.uploader.Upload(ctx, name, domain.FormatMarkdown.MIMEType(), data)
}
