package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/littlesteps/booking/internal/metrics"
	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/repository"
	"github.com/littlesteps/booking/internal/validation"
)

type BookingInput struct {
	ParentName    string  `json:"parent_name" validate:"required,max=100"`
	Email         string  `json:"email" validate:"required,email,max=254"`
	Phone         string  `json:"phone" validate:"max=40"`
	ServiceType   string  `json:"service_type" validate:"required,max=50"`
	BookingDate   string  `json:"booking_date" validate:"required,date"`
	StartTime     string  `json:"start_time" validate:"required,clock"`
	DurationHours float64 `json:"duration_hours" validate:"gt=0,lte=24"`
	ChildrenCount int     `json:"children_count" validate:"gte=1,lte=10"`
	ChildrenAges  string  `json:"children_ages" validate:"max=200"`
	Notes         string  `json:"notes" validate:"max=2000"`
}

type BookingService struct {
	bookingRepo    repository.BookingRepository
	pricingService *PricingService
	emailService   *EmailService
}

func NewBookingService(bookingRepo repository.BookingRepository, pricingService *PricingService, emailService *EmailService) *BookingService {
	return &BookingService{
		bookingRepo:    bookingRepo,
		pricingService: pricingService,
		emailService:   emailService,
	}
}

// Create stores a pending booking priced by the current rate table and
// notifies the parent and the site owner. Notification failures are logged.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (*model.Booking, error) {
	in.Email = normalizeEmail(in.Email)
	in.ParentName = strings.TrimSpace(in.ParentName)
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateName(in.ParentName)
	if err != nil {
		return nil, validation.FieldErrors{"parent_name": err.Error()}
	}

	start, err := time.Parse("15:04", in.StartTime)
	if err != nil {
		return nil, validation.FieldErrors{"start_time": "must be a time (HH:MM)"}
	}
	quote, err := s.pricingService.CalculatePrice(ctx, QuoteRequest{
		ServiceType:   in.ServiceType,
		DurationHours: in.DurationHours,
		ChildrenCount: in.ChildrenCount,
		StartHour:     start.Hour(),
	})
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ParentName:               in.ParentName,
		Email:                    in.Email,
		Phone:                    strings.TrimSpace(in.Phone),
		ServiceType:              in.ServiceType,
		BookingDate:              in.BookingDate,
		StartTime:                in.StartTime,
		DurationHours:            in.DurationHours,
		ChildrenCount:            in.ChildrenCount,
		ChildrenAges:             strings.TrimSpace(in.ChildrenAges),
		Notes:                    strings.TrimSpace(in.Notes),
		Status:                   model.BookingStatusPending,
		BaseAmount:               quote.BaseAmount,
		AdditionalChildrenAmount: quote.AdditionalChildrenAmount,
		TotalAmount:              quote.TotalAmount,
	}
	err = s.bookingRepo.Create(booking)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingsCreatedTotal.WithLabelValues(booking.ServiceType).Inc()
	slog.Info("booking created", "booking_id", booking.ID, "service_type", booking.ServiceType)

	_, err = s.emailService.SendBookingReceived(ctx, booking)
	if err != nil {
		slog.Warn("failed to send booking confirmation", "error", err, "booking_id", booking.ID)
	}
	_, err = s.emailService.SendBookingNotification(ctx, booking)
	if err != nil {
		slog.Warn("failed to send booking notification", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *BookingService) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	if filter.Status != "" && !model.IsValidBookingStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	return s.bookingRepo.List(filter)
}

func (s *BookingService) ByID(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.bookingRepo.ByID(id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// UpdateStatus changes the status of an active booking and tells the parent.
func (s *BookingService) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	if !model.IsValidBookingStatus(status) {
		return nil, ErrInvalidStatus
	}

	b, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return nil, ErrInvalidTransition
	}
	if b.Status == status {
		return b, nil
	}

	b.Status = status
	err = s.save(b)
	if err != nil {
		return nil, err
	}

	_, err = s.emailService.SendBookingStatusChanged(ctx, b)
	if err != nil {
		slog.Warn("failed to send booking status email", "error", err, "booking_id", b.ID)
	}
	return b, nil
}

// Archive moves an active booking out of the default list.
func (s *BookingService) Archive(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	b.ArchivedAt = &now
	return b, s.save(b)
}

// SoftDelete hides an active or archived booking. It can still be restored.
func (s *BookingService) SoftDelete(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsDeleted() {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	b.DeletedAt = &now
	return b, s.save(b)
}

// Restore brings an archived or deleted booking back to the active list.
func (s *BookingService) Restore(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsActive() {
		return nil, ErrInvalidTransition
	}

	b.ArchivedAt = nil
	b.DeletedAt = nil
	return b, s.save(b)
}

// PermanentDelete removes a soft-deleted booking for good.
func (s *BookingService) PermanentDelete(ctx context.Context, id string) error {
	b, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !b.IsDeleted() {
		return ErrInvalidTransition
	}

	err = s.bookingRepo.Delete(id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	slog.Info("booking permanently deleted", "booking_id", id)
	return nil
}

func (s *BookingService) save(b *model.Booking) error {
	err := s.bookingRepo.Update(b)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}
