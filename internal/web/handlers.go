package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devShop-studio/medway-import-core-sub000/internal/engine"
	"github.com/devShop-studio/medway-import-core-sub000/internal/logging"
	"github.com/devShop-studio/medway-import-core-sub000/internal/reader"
)

// ParseResponse wraps the engine result with a request id for client-side
// correlation.
type ParseResponse struct {
	RequestID string                    `json:"request_id"`
	Rows      []engine.CanonicalProduct `json:"rows"`
	Errors    []engine.ParsedRowError   `json:"errors"`
	Meta      engine.Meta               `json:"meta"`
}

// handleHealth reports liveness and current parse load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"status":         "ok",
		"active_parses":  s.gate.activeCount(),
		"parse_capacity": s.gate.available(),
	})
}

// handleParse accepts a multipart file upload (.xlsx, .csv, .txt), runs the
// parse engine, and returns the full preview result.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.FromContext(r.Context())

	if err := s.gate.acquire(r.Context()); err != nil {
		if errors.Is(err, errParseBusy) {
			w.Header().Set("Retry-After", "10")
			respondError(w, r, http.StatusTooManyRequests, "too many concurrent uploads, try again shortly")
			return
		}
		respondError(w, r, http.StatusServiceUnavailable, "request cancelled while queued")
		return
	}
	defer s.gate.release()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		respondError(w, r, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	rows, hint, err := decodeUpload(file, header)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	opts := s.parseOptions(r)
	result := engine.Parse(rows, originFor(header.Filename), hint, opts)

	requestID := uuid.NewString()
	logger.Info("parse completed",
		"parse_id", requestID,
		"file", header.Filename,
		"schema", result.Meta.SourceSchema,
		"rows", len(result.Rows),
		"errors", len(result.Errors),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	respondJSON(w, r, http.StatusOK, ParseResponse{
		RequestID: requestID,
		Rows:      result.Rows,
		Errors:    result.Errors,
		Meta:      result.Meta,
	})
}

// parseOptions resolves engine options from query parameters, falling back
// to configured defaults.
func (s *Server) parseOptions(r *http.Request) engine.Options {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = s.cfg.Engine.AnalysisMode
	}
	validation := r.URL.Query().Get("validation")
	if validation == "" {
		validation = s.cfg.Engine.ValidationMode
	}
	return engine.Options{
		Mode:           engine.AnalysisMode(mode),
		ValidationMode: engine.ValidationMode(validation),
		Allow: engine.Allowlists{
			NumericBrands:        s.cfg.Engine.NumericBrands,
			NumericManufacturers: s.cfg.Engine.NumericManufacturers,
		},
	}
}

// decodeUpload picks the reader by container: zip magic or .xlsx extension
// means workbook, anything else is treated as delimited text.
func decodeUpload(file multipart.File, header *multipart.FileHeader) ([][]string, engine.TemplateHint, error) {
	var hint engine.TemplateHint

	head := make([]byte, 4)
	n, _ := io.ReadFull(file, head)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, hint, fmt.Errorf("rewind upload: %w", err)
	}

	isZip := n >= 2 && bytes.HasPrefix(head[:n], []byte("PK"))
	ext := strings.ToLower(filepath.Ext(header.Filename))

	if isZip || ext == ".xlsx" {
		return reader.ReadWorkbook(file)
	}

	rows, err := reader.ReadDelimited(file)
	return rows, hint, err
}

// originFor maps a filename to the engine's origin classification.
func originFor(filename string) engine.Origin {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return engine.OriginWorkbook
	}
	return engine.OriginText
}
