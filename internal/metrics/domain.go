package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// mode is "resend" or "simulated".
	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of emails handed to the email sender",
		},
		[]string{"type", "mode"},
	)

	EmailFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_failures_total",
			Help: "Total number of emails the sender failed to deliver",
		},
		[]string{"type"},
	)

	// outcome is "token_sent" or "no_data"; never exposed over HTTP.
	ExportRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gdpr_export_requests_total",
			Help: "Total number of data export requests by outcome",
		},
		[]string{"outcome"},
	)

	DeletionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gdpr_deletion_requests_total",
			Help: "Total number of data deletion requests by outcome",
		},
		[]string{"outcome"},
	)

	TokenValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gdpr_token_validations_total",
			Help: "Total number of download token validations by result",
		},
		[]string{"result"},
	)

	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of booking requests received",
		},
		[]string{"service_type"},
	)

	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduled_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"},
	)
)
