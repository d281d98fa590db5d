package service

import (
	"context"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// SendResult mirrors what the front end used to get back from the mail
// function: Simulated is set when nothing actually left the process.
type SendResult struct {
	Success   bool
	Simulated bool
	ID        string
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (*SendResult, error)
	Mode() string
}

// NewEmailSender returns the Resend sender when an API key is configured
// outside development, and the simulated sender otherwise.
func NewEmailSender(apiKey, fromEmail string, isDev bool) EmailSender {
	if apiKey != "" && !isDev {
		slog.Info("email sender initialized", "mode", "resend")
		return NewResendSender(apiKey, fromEmail)
	}
	slog.Info("email sender initialized", "mode", "simulated")
	return NewSimulatedSender()
}

type ResendSender struct {
	client    *resend.Client
	fromEmail string
}

func NewResendSender(apiKey, fromEmail string) *ResendSender {
	return &ResendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SendResult{Success: true, ID: sent.Id}, nil
}

func (s *ResendSender) Mode() string {
	return "resend"
}

type SimulatedSender struct{}

func NewSimulatedSender() *SimulatedSender {
	return &SimulatedSender{}
}

func (s *SimulatedSender) Send(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	// The body carries live download and deletion links, so it stays out of the log.
	slog.Info("email sent (simulated)", "to", msg.To, "subject", msg.Subject, "body_bytes", len(msg.Text))
	return &SendResult{Success: true, Simulated: true}, nil
}

func (s *SimulatedSender) Mode() string {
	return "simulated"
}
