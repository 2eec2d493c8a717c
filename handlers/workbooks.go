// ABOUTME: HTTP handler for sizing workbook uploads
// ABOUTME: Parses multipart .xlsx uploads and caches imports by content hash

package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ulix1808/AppdyLicCalc/metrics"
	"github.com/ulix1808/AppdyLicCalc/models"
	"github.com/ulix1808/AppdyLicCalc/services"
)

// multipartMemory is how much of a form is buffered before spilling to disk
const multipartMemory = 8 << 20

var errUnreadableWorkbook = errors.New("unreadable workbook")

// ImportWorkbook extracts inventory and network tests from an uploaded
// sizing workbook sent as the multipart field "file".
func (h *Handler) ImportWorkbook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, "File too large", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Expected multipart/form-data with a file field", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := services.ValidateWorkbookName(header.Filename); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Reading upload failed", "error", err)
		h.writeError(w, "Failed to read uploaded file", http.StatusBadRequest)
		return
	}

	sum := sha256.Sum256(data)
	cacheKey := "import:" + hex.EncodeToString(sum[:])
	if h.importCache != nil {
		if cached, found := h.importCache.Get(cacheKey); found {
			h.monitor.ObserveImport(metrics.ImportCached)
			h.writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	// Identical uploads in flight share one parse, which outlives any one caller
	ctx := context.WithoutCancel(r.Context())
	v, err, _ := h.importGroup.Do(cacheKey, func() (any, error) {
		wb, err := services.OpenWorkbook(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUnreadableWorkbook, err)
		}
		defer wb.Close()

		result, err := h.importer.Import(ctx, wb)
		if err != nil {
			return nil, err
		}
		if h.importCache != nil {
			h.importCache.SetWithTTL(cacheKey, result, h.importTTL())
		}
		return result, nil
	})
	if err != nil {
		h.monitor.ObserveImport(metrics.ImportFailed)
		switch {
		case errors.Is(err, errUnreadableWorkbook):
			slog.Info("Unreadable workbook upload", "size", len(data), "error", err)
			h.writeError(w, "File is not a readable .xlsx workbook", http.StatusBadRequest)
		case errors.Is(err, services.ErrSheetNotFound):
			h.writeErrorDetails(w, "Workbook is missing the inventory sheet", err.Error(), http.StatusBadRequest)
		default:
			slog.Error("Workbook import failed", "error", err)
			h.writeError(w, "Failed to import workbook", http.StatusInternalServerError)
		}
		return
	}

	h.monitor.ObserveImport(metrics.ImportOK)
	h.writeJSON(w, http.StatusOK, v.(models.ImportResult))
}
