package model

import (
	"time"
)

const (
	ExportTypeFull     = "full"
	ExportTypeBookings = "bookings"
	ExportTypeConsents = "consents"
)

func IsValidExportType(t string) bool {
	switch t {
	case ExportTypeFull, ExportTypeBookings, ExportTypeConsents:
		return true
	}
	return false
}

type DownloadToken struct {
	ID         string     `db:"id"`
	Token      string     `db:"token"`
	UserEmail  string     `db:"user_email"`
	ExportType string     `db:"export_type"`
	ExpiresAt  time.Time  `db:"expires_at"`
	Used       bool       `db:"used"`
	UsedAt     *time.Time `db:"used_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

// IsExpired reports whether now is at or past the expiry instant.
func (t *DownloadToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t *DownloadToken) IsValid(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}

const (
	DeletionStatusPending   = "pending"
	DeletionStatusCompleted = "completed"
	DeletionStatusExpired   = "expired"
)

type DeletionRequest struct {
	ID          string     `db:"id" json:"id"`
	Email       string     `db:"email" json:"email"`
	Token       string     `db:"token" json:"-"`
	Reason      string     `db:"reason" json:"reason"`
	Status      string     `db:"status" json:"status"`
	ExpiresAt   time.Time  `db:"expires_at" json:"expires_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

func (d *DeletionRequest) IsExpired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

type ConsentRecord struct {
	ID            string    `db:"id" json:"id"`
	VisitorID     string    `db:"visitor_id" json:"visitor_id"`
	Email         *string   `db:"email" json:"email,omitempty"`
	Necessary     bool      `db:"necessary" json:"necessary"`
	Analytics     bool      `db:"analytics" json:"analytics"`
	Marketing     bool      `db:"marketing" json:"marketing"`
	PolicyVersion string    `db:"policy_version" json:"policy_version"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// UserDataBundle is the downloadable personal data document.
type UserDataBundle struct {
	Email      string           `json:"email"`
	ExportType string           `json:"export_type"`
	ExportedAt time.Time        `json:"exported_at"`
	Bookings   []*Booking       `json:"bookings"`
	Consents   []*ConsentRecord `json:"consents"`
}

func (b *UserDataBundle) IsEmpty() bool {
	return len(b.Bookings) == 0 && len(b.Consents) == 0
}
