package handler

import (
	"net/http"

	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/service"
)

// PublicHandler serves the JSON endpoints the booking front end calls.
type PublicHandler struct {
	settingsService *service.SettingsService
	pricingService  *service.PricingService
	bookingService  *service.BookingService
	consentService  *service.ConsentService
	mediaService    *service.MediaService
}

func NewPublicHandler(
	settingsService *service.SettingsService,
	pricingService *service.PricingService,
	bookingService *service.BookingService,
	consentService *service.ConsentService,
	mediaService *service.MediaService,
) *PublicHandler {
	return &PublicHandler{
		settingsService: settingsService,
		pricingService:  pricingService,
		bookingService:  bookingService,
		consentService:  consentService,
		mediaService:    mediaService,
	}
}

func (h *PublicHandler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	m, err := h.settingsService.MaintenanceStatus(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{
		"maintenance_mode":    m.Enabled,
		"maintenance_message": m.Message,
	})
}

type serviceResponse struct {
	ServiceType         string  `json:"service_type"`
	Label               string  `json:"label"`
	HourlyRate          float64 `json:"hourly_rate"`
	NightRate           float64 `json:"night_rate,omitempty"`
	HasNightRate        bool    `json:"has_night_rate"`
	AdditionalChildRate float64 `json:"additional_child_rate"`
}

func (h *PublicHandler) Services(w http.ResponseWriter, r *http.Request) {
	rates, err := h.pricingService.ActiveRates(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]serviceResponse, 0, len(rates))
	for _, rate := range rates {
		out = append(out, serviceResponse{
			ServiceType:         rate.ServiceType,
			Label:               rate.Label,
			HourlyRate:          rate.HourlyRate,
			NightRate:           rate.NightRate,
			HasNightRate:        rate.HasNightRate,
			AdditionalChildRate: rate.AdditionalChildRate,
		})
	}
	respondOK(w, http.StatusOK, out)
}

func (h *PublicHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.pricingService.CalculatePrice(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, quote)
}

func (h *PublicHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in service.BookingInput
	if !decodeJSON(w, r, &in) {
		return
	}

	booking, err := h.bookingService.Create(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// The parent only needs the reference and the quoted price back.
	respondOK(w, http.StatusCreated, map[string]any{
		"id":                         booking.ID,
		"status":                     booking.Status,
		"base_amount":                booking.BaseAmount,
		"additional_children_amount": booking.AdditionalChildrenAmount,
		"total_amount":               booking.TotalAmount,
	})
}

func (h *PublicHandler) RecordConsent(w http.ResponseWriter, r *http.Request) {
	var in service.ConsentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	record, err := h.consentService.Record(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, consentResponse(record))
}

func (h *PublicHandler) LatestConsent(w http.ResponseWriter, r *http.Request) {
	record, err := h.consentService.Latest(r.Context(), r.PathValue("visitorID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, consentResponse(record))
}

// consentResponse leaves the email out; the visitor id is not proof of owning it.
func consentResponse(c *model.ConsentRecord) map[string]any {
	return map[string]any{
		"visitor_id":     c.VisitorID,
		"necessary":      c.Necessary,
		"analytics":      c.Analytics,
		"marketing":      c.Marketing,
		"policy_version": c.PolicyVersion,
		"created_at":     c.CreatedAt,
	}
}

func (h *PublicHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	files, err := h.mediaService.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]map[string]any, 0, len(files))
	for _, f := range files {
		out = append(out, map[string]any{
			"id":    f.ID,
			"title": f.Title,
			"url":   f.URL,
		})
	}
	respondOK(w, http.StatusOK, out)
}
