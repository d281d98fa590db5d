package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/service"
	"github.com/littlesteps/booking/internal/ui"
	"github.com/littlesteps/booking/internal/ui/pages"
)

const pageTimeFormat = "January 2, 2006 at 15:04 UTC"

// requestAccepted is the only answer to export and deletion requests, so the
// response never reveals whether an address is on file.
const requestAccepted = "If we hold data for this address, you'll receive an email with a link shortly."

type GDPRHandler struct {
	gdprService *service.GDPRService
}

func NewGDPRHandler(gdprService *service.GDPRService) *GDPRHandler {
	return &GDPRHandler{gdprService: gdprService}
}

type exportRequest struct {
	Email      string `json:"email"`
	ExportType string `json:"export_type"`
}

func (h *GDPRHandler) RequestExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.gdprService.RequestExport(r.Context(), req.Email, req.ExportType)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusAccepted, map[string]string{"message": requestAccepted})
}

func (h *GDPRHandler) ValidateExport(w http.ResponseWriter, r *http.Request) {
	export, err := h.gdprService.ValidateToken(r.Context(), r.PathValue("token"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if export.NoData {
		respondOK(w, http.StatusOK, map[string]any{
			"status":  "no_data",
			"no_data": true,
		})
		return
	}

	respondOK(w, http.StatusOK, map[string]any{
		"status":      "ready",
		"no_data":     false,
		"export_type": export.Token.ExportType,
		"expires_at":  export.Token.ExpiresAt,
		"filename":    export.Filename,
		"bundle":      export.Bundle,
	})
}

func (h *GDPRHandler) InvalidateExport(w http.ResponseWriter, r *http.Request) {
	err := h.gdprService.InvalidateToken(r.Context(), r.PathValue("token"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]string{"status": "used"})
}

type deletionRequest struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

func (h *GDPRHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	var req deletionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.gdprService.RequestDeletion(r.Context(), req.Email, req.Reason)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusAccepted, map[string]string{"message": requestAccepted})
}

func (h *GDPRHandler) ConfirmDeletionAPI(w http.ResponseWriter, r *http.Request) {
	result, err := h.gdprService.ConfirmDeletion(r.Context(), r.PathValue("token"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{
		"status":           model.DeletionStatusCompleted,
		"bookings_deleted": result.BookingsDeleted,
		"consents_deleted": result.ConsentsDeleted,
	})
}

// DownloadPage is the landing page linked from the export email. It only
// validates; the file itself is served by DownloadFile.
func (h *GDPRHandler) DownloadPage(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	export, err := h.gdprService.ValidateToken(r.Context(), token)
	if err != nil {
		h.renderDownloadError(w, r, err)
		return
	}

	if export.NoData {
		ui.Render(w, r, pages.DownloadNoData())
		return
	}

	ui.Render(w, r, pages.DownloadReady(pages.DownloadSummary{
		Token:      token,
		ExportType: export.Token.ExportType,
		Bookings:   len(export.Bundle.Bookings),
		Consents:   len(export.Bundle.Consents),
		ExpiresAt:  export.Token.ExpiresAt.UTC().Format(pageTimeFormat),
	}))
}

// DownloadFile serves the export as a JSON attachment and burns the token.
func (h *GDPRHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	export, err := h.gdprService.DownloadExport(r.Context(), r.PathValue("token"))
	if err != nil {
		h.renderDownloadError(w, r, err)
		return
	}
	if export.NoData {
		ui.Render(w, r, pages.DownloadNoData())
		return
	}

	body, err := json.MarshalIndent(export.Bundle, "", "  ")
	if err != nil {
		slog.Error("failed to encode data export", "error", err)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.ServerError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	w.Header().Set("Last-Modified", export.Bundle.ExportedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *GDPRHandler) renderDownloadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrTokenNotFound):
		ui.RenderStatus(w, r, http.StatusNotFound, pages.DownloadInvalid())
	case errors.Is(err, service.ErrTokenExpired):
		ui.RenderStatus(w, r, http.StatusGone, pages.DownloadExpired())
	case errors.Is(err, service.ErrTokenUsed):
		ui.RenderStatus(w, r, http.StatusConflict, pages.DownloadUsed())
	default:
		slog.Error("data download failed", "error", err)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.ServerError())
	}
}

func (h *GDPRHandler) DeletionPage(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	req, err := h.gdprService.DeletionRequest(r.Context(), token)
	if err != nil {
		h.renderDeletionError(w, r, err)
		return
	}
	ui.Render(w, r, pages.DeletionConfirm(token, req.ExpiresAt.UTC().Format(pageTimeFormat)))
}

func (h *GDPRHandler) ConfirmDeletionPage(w http.ResponseWriter, r *http.Request) {
	result, err := h.gdprService.ConfirmDeletion(r.Context(), r.PathValue("token"))
	if err != nil {
		h.renderDeletionError(w, r, err)
		return
	}
	ui.Render(w, r, pages.DeletionDone(result.BookingsDeleted, result.ConsentsDeleted))
}

func (h *GDPRHandler) renderDeletionError(w http.ResponseWriter, r *http.Request, err error) {
	var page templ.Component
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrDeletionNotFound):
		status, page = http.StatusNotFound, pages.DeletionInvalid()
	case errors.Is(err, service.ErrDeletionExpired):
		status, page = http.StatusGone, pages.DeletionExpired()
	case errors.Is(err, service.ErrDeletionCompleted):
		status, page = http.StatusConflict, pages.DeletionCompleted()
	default:
		slog.Error("data deletion failed", "error", err)
		page = pages.ServerError()
	}
	ui.RenderStatus(w, r, status, page)
}
