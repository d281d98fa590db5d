package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/littlesteps/booking/internal/metrics"
	"github.com/littlesteps/booking/internal/model"
)

const (
	emailTypeExportReady      = "export_ready"
	emailTypeNoData           = "no_data_on_file"
	emailTypeDeletionConfirm  = "deletion_confirm"
	emailTypeDeletionComplete = "deletion_complete"
	emailTypeBookingReceived  = "booking_received"
	emailTypeBookingAdmin     = "booking_admin_notification"
	emailTypeBookingStatus    = "booking_status_changed"
)

type EmailService struct {
	sender     EmailSender
	appURL     string
	appName    string
	adminEmail string
}

func NewEmailService(sender EmailSender, appURL, appName, adminEmail string) *EmailService {
	return &EmailService{
		sender:     sender,
		appURL:     strings.TrimSuffix(appURL, "/"),
		appName:    appName,
		adminEmail: adminEmail,
	}
}

func (s *EmailService) DownloadURL(token string) string {
	return fmt.Sprintf("%s/data-download/%s", s.appURL, token)
}

func (s *EmailService) DeletionURL(token string) string {
	return fmt.Sprintf("%s/data-deletion/%s", s.appURL, token)
}

func (s *EmailService) SendExportReady(ctx context.Context, email, token string, expiresAt time.Time) (*SendResult, error) {
	subject, body := exportReadyEmailTemplate(s.DownloadURL(token), expiresAt, s.appName)
	return s.send(ctx, emailTypeExportReady, email, subject, body)
}

// SendNoDataOnFile answers an export or deletion request for an address we
// hold nothing about. request is "export" or "deletion".
func (s *EmailService) SendNoDataOnFile(ctx context.Context, email, request string) (*SendResult, error) {
	subject, body := noDataOnFileEmailTemplate(request, s.appName)
	return s.send(ctx, emailTypeNoData, email, subject, body)
}

func (s *EmailService) SendDeletionConfirm(ctx context.Context, email, token string, expiresAt time.Time) (*SendResult, error) {
	subject, body := deletionConfirmEmailTemplate(s.DeletionURL(token), expiresAt, s.appName)
	return s.send(ctx, emailTypeDeletionConfirm, email, subject, body)
}

func (s *EmailService) SendDeletionComplete(ctx context.Context, email string) (*SendResult, error) {
	subject, body := deletionCompleteEmailTemplate(s.appName)
	return s.send(ctx, emailTypeDeletionComplete, email, subject, body)
}

func (s *EmailService) SendBookingReceived(ctx context.Context, b *model.Booking) (*SendResult, error) {
	subject, body := bookingReceivedEmailTemplate(b, s.appName)
	return s.send(ctx, emailTypeBookingReceived, b.Email, subject, body)
}

// SendBookingNotification tells the site owner about a new request.
// It is a no-op when no admin address is configured.
func (s *EmailService) SendBookingNotification(ctx context.Context, b *model.Booking) (*SendResult, error) {
	if s.adminEmail == "" {
		return nil, nil
	}
	subject, body := bookingAdminEmailTemplate(b, s.appURL, s.appName)
	return s.send(ctx, emailTypeBookingAdmin, s.adminEmail, subject, body)
}

func (s *EmailService) SendBookingStatusChanged(ctx context.Context, b *model.Booking) (*SendResult, error) {
	subject, body := bookingStatusEmailTemplate(b, s.appName)
	return s.send(ctx, emailTypeBookingStatus, b.Email, subject, body)
}

func (s *EmailService) send(ctx context.Context, emailType, to, subject, body string) (*SendResult, error) {
	result, err := s.sender.Send(ctx, EmailMessage{
		To:      to,
		Subject: subject,
		HTML:    textToHTML(body),
		Text:    body,
	})
	if err != nil {
		metrics.EmailFailuresTotal.WithLabelValues(emailType).Inc()
		slog.Error("email send failed", "type", emailType, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrEmailTransport, err)
	}

	metrics.EmailsSentTotal.WithLabelValues(emailType, s.sender.Mode()).Inc()
	slog.Info("email sent", "type", emailType, "to", to, "simulated", result.Simulated)
	return result, nil
}

// textToHTML renders a plain text body as escaped paragraphs.
func textToHTML(body string) string {
	var b strings.Builder
	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := html.EscapeString(para)
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(escaped, "\n", "<br>"))
		b.WriteString("</p>\n")
	}
	return b.String()
}
