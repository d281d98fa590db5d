package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
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

type GDPROptions struct {
	ExportExpiry   time.Duration
	DeletionExpiry time.Duration
	// TokenRetention is how long spent or expired tokens are kept around.
	TokenRetention time.Duration
}

// DataExport is the outcome of validating a download token. NoData is a
// valid result, not an error: the link is good but nothing is on file.
type DataExport struct {
	Token    *model.DownloadToken
	Bundle   *model.UserDataBundle
	NoData   bool
	Filename string
}

type DeletionResult struct {
	Email           string
	BookingsDeleted int64
	ConsentsDeleted int64
	TokensDeleted   int64
}

type GDPRService struct {
	tokenRepo    repository.DownloadTokenRepository
	deletionRepo repository.DeletionRequestRepository
	bookingRepo  repository.BookingRepository
	consentRepo  repository.ConsentRepository
	emailService *EmailService
	opts         GDPROptions
	now          func() time.Time
}

func NewGDPRService(
	tokenRepo repository.DownloadTokenRepository,
	deletionRepo repository.DeletionRequestRepository,
	bookingRepo repository.BookingRepository,
	consentRepo repository.ConsentRepository,
	emailService *EmailService,
	opts GDPROptions,
) *GDPRService {
	if opts.ExportExpiry <= 0 {
		opts.ExportExpiry = 24 * time.Hour
	}
	if opts.DeletionExpiry <= 0 {
		opts.DeletionExpiry = 24 * time.Hour
	}
	if opts.TokenRetention <= 0 {
		opts.TokenRetention = 30 * 24 * time.Hour
	}
	return &GDPRService{
		tokenRepo:    tokenRepo,
		deletionRepo: deletionRepo,
		bookingRepo:  bookingRepo,
		consentRepo:  consentRepo,
		emailService: emailService,
		opts:         opts,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. All instants are normalised to UTC.
func (s *GDPRService) WithClock(now func() time.Time) *GDPRService {
	s.now = func() time.Time { return now().UTC() }
	return s
}

// RequestExport emails a one-time download link when data exists for the
// address, or a "nothing on file" notice when it doesn't. The caller gets
// nil in both cases; only an email transport failure is returned.
func (s *GDPRService) RequestExport(ctx context.Context, email, exportType string) error {
	email = normalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return ErrInvalidEmail
	}
	if exportType == "" {
		exportType = model.ExportTypeFull
	}
	if !model.IsValidExportType(exportType) {
		return ErrInvalidExportType
	}

	hasData, err := s.hasData(email)
	if err != nil {
		return err
	}

	if !hasData {
		metrics.ExportRequestsTotal.WithLabelValues("no_data").Inc()
		_, err = s.emailService.SendNoDataOnFile(ctx, email, "export")
		return err
	}

	token, err := GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now()
	dt := &model.DownloadToken{
		Token:      token,
		UserEmail:  email,
		ExportType: exportType,
		ExpiresAt:  now.Add(s.opts.ExportExpiry),
		CreatedAt:  now,
	}
	err = s.tokenRepo.Create(dt)
	if err != nil {
		return fmt.Errorf("failed to create download token: %w", err)
	}

	metrics.ExportRequestsTotal.WithLabelValues("token_sent").Inc()
	_, err = s.emailService.SendExportReady(ctx, email, token, dt.ExpiresAt)
	return err
}

// ValidateToken checks a download token without consuming it, so the
// landing page can be reloaded freely. Expiry is checked before use.
func (s *GDPRService) ValidateToken(ctx context.Context, token string) (*DataExport, error) {
	dt, err := s.tokenRepo.ByToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			metrics.TokenValidationsTotal.WithLabelValues("not_found").Inc()
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get download token: %w", err)
	}

	now := s.now()
	if dt.IsExpired(now) {
		metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
		return nil, ErrTokenExpired
	}
	if dt.Used {
		metrics.TokenValidationsTotal.WithLabelValues("used").Inc()
		return nil, ErrTokenUsed
	}

	bundle, err := s.collect(dt.UserEmail, dt.ExportType, now)
	if err != nil {
		return nil, err
	}

	export := &DataExport{
		Token:    dt,
		Bundle:   bundle,
		NoData:   bundle.IsEmpty(),
		Filename: ExportFilename(dt.UserEmail, now),
	}
	if export.NoData {
		metrics.TokenValidationsTotal.WithLabelValues("no_data").Inc()
	} else {
		metrics.TokenValidationsTotal.WithLabelValues("ready").Inc()
	}
	return export, nil
}

// InvalidateToken marks a token used with a single conditional write.
// Calling it again reports ErrTokenUsed.
func (s *GDPRService) InvalidateToken(ctx context.Context, token string) error {
	err := s.tokenRepo.MarkUsed(token, s.now())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrTokenNotFound):
		return ErrTokenNotFound
	case errors.Is(err, repository.ErrTokenUsed):
		return ErrTokenUsed
	default:
		return fmt.Errorf("failed to invalidate download token: %w", err)
	}
}

// DownloadExport validates the token and burns it. The bundle is only
// returned to the caller that won the conditional write.
func (s *GDPRService) DownloadExport(ctx context.Context, token string) (*DataExport, error) {
	export, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if export.NoData {
		return export, nil
	}

	err = s.InvalidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	slog.Info("data export downloaded", "export_type", export.Token.ExportType)
	return export, nil
}

// RequestDeletion follows the same disclosure rules as RequestExport.
func (s *GDPRService) RequestDeletion(ctx context.Context, email, reason string) error {
	email = normalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return ErrInvalidEmail
	}

	hasData, err := s.hasData(email)
	if err != nil {
		return err
	}

	if !hasData {
		metrics.DeletionRequestsTotal.WithLabelValues("no_data").Inc()
		_, err = s.emailService.SendNoDataOnFile(ctx, email, "deletion")
		return err
	}

	token, err := GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now()
	req := &model.DeletionRequest{
		Email:     email,
		Token:     token,
		Reason:    strings.TrimSpace(reason),
		Status:    model.DeletionStatusPending,
		ExpiresAt: now.Add(s.opts.DeletionExpiry),
		CreatedAt: now,
	}
	err = s.deletionRepo.Create(req)
	if err != nil {
		return fmt.Errorf("failed to create deletion request: %w", err)
	}

	metrics.DeletionRequestsTotal.WithLabelValues("token_sent").Inc()
	_, err = s.emailService.SendDeletionConfirm(ctx, email, token, req.ExpiresAt)
	return err
}

// DeletionRequest looks up a pending request for the confirmation page.
func (s *GDPRService) DeletionRequest(ctx context.Context, token string) (*model.DeletionRequest, error) {
	req, err := s.deletionRepo.ByToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrDeletionNotFound) {
			return nil, ErrDeletionNotFound
		}
		return nil, fmt.Errorf("failed to get deletion request: %w", err)
	}
	return req, s.deletionState(req)
}

// ConfirmDeletion erases everything held for the request's email and marks
// the request completed. Erasure is idempotent, so a failed attempt leaves
// the request pending and can be retried.
func (s *GDPRService) ConfirmDeletion(ctx context.Context, token string) (*DeletionResult, error) {
	req, err := s.DeletionRequest(ctx, token)
	if err != nil {
		return nil, err
	}

	result := &DeletionResult{Email: req.Email}
	result.BookingsDeleted, err = s.bookingRepo.DeleteByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to delete bookings: %w", err)
	}
	result.ConsentsDeleted, err = s.consentRepo.DeleteByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to delete consent records: %w", err)
	}
	result.TokensDeleted, err = s.tokenRepo.DeleteByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to delete download tokens: %w", err)
	}

	err = s.deletionRepo.Complete(token, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrDeletionNotPending) {
			current, getErr := s.deletionRepo.ByToken(token)
			if getErr == nil && current.Status == model.DeletionStatusExpired {
				return nil, ErrDeletionExpired
			}
			return nil, ErrDeletionCompleted
		}
		return nil, fmt.Errorf("failed to complete deletion request: %w", err)
	}

	slog.Info("personal data deleted",
		"bookings", result.BookingsDeleted,
		"consents", result.ConsentsDeleted,
		"tokens", result.TokensDeleted)

	_, err = s.emailService.SendDeletionComplete(ctx, req.Email)
	if err != nil {
		slog.Warn("failed to send deletion complete email", "error", err)
	}

	return result, nil
}

func (s *GDPRService) ListDeletionRequests(ctx context.Context, status string) ([]*model.DeletionRequest, error) {
	return s.deletionRepo.List(status)
}

// CleanupTokens removes download tokens past the retention window.
func (s *GDPRService) CleanupTokens(ctx context.Context) (int64, error) {
	removed, err := s.tokenRepo.CleanupExpired(s.now().Add(-s.opts.TokenRetention))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup download tokens: %w", err)
	}
	if removed > 0 {
		slog.Info("download tokens cleaned up", "removed", removed)
	}
	return removed, nil
}

func (s *GDPRService) ExpireDeletionRequests(ctx context.Context) (int64, error) {
	expired, err := s.deletionRepo.ExpirePending(s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire deletion requests: %w", err)
	}
	if expired > 0 {
		slog.Info("deletion requests expired", "count", expired)
	}
	return expired, nil
}

func (s *GDPRService) deletionState(req *model.DeletionRequest) error {
	switch {
	case req.Status == model.DeletionStatusCompleted:
		return ErrDeletionCompleted
	case req.Status == model.DeletionStatusExpired, req.IsExpired(s.now()):
		return ErrDeletionExpired
	}
	return nil
}

func (s *GDPRService) hasData(email string) (bool, error) {
	bookings, err := s.bookingRepo.CountByEmail(email)
	if err != nil {
		return false, fmt.Errorf("failed to count bookings: %w", err)
	}
	if bookings > 0 {
		return true, nil
	}

	consents, err := s.consentRepo.CountByEmail(email)
	if err != nil {
		return false, fmt.Errorf("failed to count consent records: %w", err)
	}
	return consents > 0, nil
}

func (s *GDPRService) collect(email, exportType string, now time.Time) (*model.UserDataBundle, error) {
	bundle := &model.UserDataBundle{
		Email:      email,
		ExportType: exportType,
		ExportedAt: now,
		Bookings:   []*model.Booking{},
		Consents:   []*model.ConsentRecord{},
	}

	if exportType == model.ExportTypeFull || exportType == model.ExportTypeBookings {
		bookings, err := s.bookingRepo.ByEmail(email)
		if err != nil {
			return nil, fmt.Errorf("failed to get bookings: %w", err)
		}
		if bookings != nil {
			bundle.Bookings = bookings
		}
	}

	if exportType == model.ExportTypeFull || exportType == model.ExportTypeConsents {
		consents, err := s.consentRepo.ByEmail(email)
		if err != nil {
			return nil, fmt.Errorf("failed to get consent records: %w", err)
		}
		if consents != nil {
			bundle.Consents = consents
		}
	}

	return bundle, nil
}

// GenerateToken returns 32 random bytes, hex encoded.
func GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// ExportFilename builds "<email-slug>-<YYYY-MM-DD>.json".
func ExportFilename(email string, now time.Time) string {
	return fmt.Sprintf("%s-%s.json", slugify(email), now.UTC().Format("2006-01-02"))
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "data-export"
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
