package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/set-night/chatexport/internal/config"
	"github.com/set-night/chatexport/internal/domain"
	"github.com/set-night/chatexport/internal/extractor"
	"github.com/set-night/chatexport/internal/render"
)

type Server struct {
	router    *chi.Mux
	port      int
	extractor *extractor.Extractor
	loc       *time.Location
}

func NewServer(port int, ext *extractor.Extractor, loc *time.Location) *Server {
	if ext == nil {
		ext = extractor.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		port:      port,
		extractor: ext,
		loc:       loc,
	}

	router.Get("/health", s.health)
	router.Post("/api/v1/extract", s.extract)

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	format := domain.FormatJSON
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := domain.ParseFormat(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Supported formats: markdown, html, json, pdf")
			return
		}
		format = f
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.MaxPageSize))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAGE_TOO_LARGE", "Page exceeds the 10 MiB limit")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Could not read request body")
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must contain the page HTML")
		return
	}

	conv, err := s.extractor.ExtractHTML(bytes.NewReader(body))
	switch {
	case errors.Is(err, domain.ErrNoElementsFound):
		writeError(w, http.StatusUnprocessableEntity, "NO_ELEMENTS_FOUND", err.Error())
		return
	case errors.Is(err, domain.ErrNoMessagesExtracted):
		writeError(w, http.StatusUnprocessableEntity, "NO_MESSAGES_EXTRACTED", err.Error())
		return
	case errors.Is(err, domain.ErrInvalidPage):
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "The page markup could not be parsed")
		return
	case err != nil:
		slog.Error("extract failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Extraction failed")
		return
	}
	if title := r.URL.Query().Get("title"); title != "" {
		conv.Title = title
	}

	if format == domain.FormatJSON {
		writeJSON(w, http.StatusOK, conv)
		return
	}

	file, err := render.Render(conv, format, render.Options{
		ThemeColor: r.URL.Query().Get("theme"),
		Location:   s.loc,
	})
	if err != nil {
		slog.Error("render failed", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Rendering failed")
		return
	}

	w.Header().Set("Content-Type", file.MIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
