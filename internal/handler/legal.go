package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/littlesteps/booking/internal/service"
	"github.com/littlesteps/booking/internal/ui"
	"github.com/littlesteps/booking/internal/ui/pages"
)

type LegalHandler struct {
	legalService *service.LegalService
}

func NewLegalHandler(legalService *service.LegalService) *LegalHandler {
	handler := &LegalHandler{
		legalService: legalService,
	}

	// Load legal pages on initialization
	err := handler.legalService.LoadPages()
	if err != nil {
		// Pages might be added later; Page reports them missing until then
		slog.Warn("failed to load legal pages", "error", err)
	}

	return handler
}

func (h *LegalHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.legalService.Page(r.PathValue("page"))
	if err != nil {
		if !errors.Is(err, service.ErrLegalPageNotFound) {
			slog.Error("failed to load legal page", "error", err)
		}
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	ui.Render(w, r, pages.Legal(page))
}

func (h *LegalHandler) PageJSON(w http.ResponseWriter, r *http.Request) {
	page, err := h.legalService.Page(r.PathValue("page"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, page)
}

func (h *LegalHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}

// APINotFound keeps unknown API paths in the JSON envelope.
func (h *LegalHandler) APINotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "not_found", "No such endpoint.", nil)
}
