package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/littlesteps/booking/internal/ctxkeys"
	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/service"
	"github.com/littlesteps/booking/internal/validation"
)

// AdminHandler backs the owner's dashboard. Every route except Login sits
// behind middleware.RequireAdmin.
type AdminHandler struct {
	authService     *service.AuthService
	bookingService  *service.BookingService
	pricingService  *service.PricingService
	settingsService *service.SettingsService
	gdprService     *service.GDPRService
	mediaService    *service.MediaService
	jwtExpiry       time.Duration
}

func NewAdminHandler(
	authService *service.AuthService,
	bookingService *service.BookingService,
	pricingService *service.PricingService,
	settingsService *service.SettingsService,
	gdprService *service.GDPRService,
	mediaService *service.MediaService,
	jwtExpiry time.Duration,
) *AdminHandler {
	return &AdminHandler{
		authService:     authService,
		bookingService:  bookingService,
		pricingService:  pricingService,
		settingsService: settingsService,
		gdprService:     gdprService,
		mediaService:    mediaService,
		jwtExpiry:       jwtExpiry,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, admin, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, map[string]any{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(h.jwtExpiry.Seconds()),
		"admin":      admin,
	})
}

func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, ctxkeys.Admin(r.Context()))
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := model.BookingFilter{
		View:   r.URL.Query().Get("view"),
		Status: r.URL.Query().Get("status"),
	}
	switch filter.View {
	case "", model.BookingViewActive, model.BookingViewArchived, model.BookingViewDeleted:
	default:
		respondError(w, http.StatusBadRequest, "invalid_view", "view must be active, archived or deleted.", nil)
		return
	}

	bookings, err := h.bookingService.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	respondOK(w, http.StatusOK, bookings)
}

func (h *AdminHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, booking)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.bookingService.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, booking)
}

func (h *AdminHandler) ArchiveBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingService.Archive(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, booking)
}

func (h *AdminHandler) RestoreBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingService.Restore(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, booking)
}

// DeleteBooking soft deletes, or removes for good with ?permanent=true.
func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	permanent, _ := strconv.ParseBool(r.URL.Query().Get("permanent"))

	if permanent {
		err := h.bookingService.PermanentDelete(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	booking, err := h.bookingService.SoftDelete(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, booking)
}

func (h *AdminHandler) ListPricing(w http.ResponseWriter, r *http.Request) {
	rates, err := h.pricingService.Rates(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if rates == nil {
		rates = []*model.PricingRate{}
	}
	respondOK(w, http.StatusOK, rates)
}

func (h *AdminHandler) SavePricing(w http.ResponseWriter, r *http.Request) {
	var rate model.PricingRate
	if !decodeJSON(w, r, &rate) {
		return
	}
	rate.ServiceType = r.PathValue("serviceType")

	err := h.pricingService.SaveRate(r.Context(), &rate)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	slog.Info("pricing rate saved", "service_type", rate.ServiceType, "admin_id", adminID(r))
	respondOK(w, http.StatusOK, rate)
}

func (h *AdminHandler) DeletePricing(w http.ResponseWriter, r *http.Request) {
	err := h.pricingService.DeleteRate(r.Context(), r.PathValue("serviceType"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	m, err := h.settingsService.MaintenanceStatus(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, m)
}

type maintenanceRequest struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

func (h *AdminHandler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.settingsService.SetMaintenance(r.Context(), req.Enabled, req.Message)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, m)
}

type deletionRequestView struct {
	*model.DeletionRequest
	ExpiresIn string `json:"expires_in,omitempty"`
}

func (h *AdminHandler) ListDeletionRequests(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	reqs, err := h.gdprService.ListDeletionRequests(r.Context(), status)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	now := time.Now().UTC()
	out := make([]deletionRequestView, 0, len(reqs))
	for _, req := range reqs {
		view := deletionRequestView{DeletionRequest: req}
		if req.Status == model.DeletionStatusPending {
			view.ExpiresIn = expiresIn(req.ExpiresAt, now)
		}
		out = append(out, view)
	}
	respondOK(w, http.StatusOK, out)
}

func (h *AdminHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if !h.mediaService.Enabled() {
		respondServiceError(w, r, service.ErrStorageDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.ImageConstraints.MaxSize+(1<<20))
	err := r.ParseMultipartForm(1 << 20)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "Upload must be multipart form data under the size limit.", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "No file provided.", nil)
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", err.Error(), nil)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	media, err := h.mediaService.Upload(r.Context(), r.FormValue("title"), header.Filename, mimeType, header.Size, file)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, media)
}

func (h *AdminHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	err := h.mediaService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func adminID(r *http.Request) string {
	if admin := ctxkeys.Admin(r.Context()); admin != nil {
		return admin.ID
	}
	return ""
}

func expiresIn(t, now time.Time) string {
	if !now.Before(t) {
		return "expired"
	}
	return t.Sub(now).Round(time.Minute).String()
}
