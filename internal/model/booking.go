package model

import (
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking views derived from archived_at / deleted_at.
const (
	BookingViewActive   = "active"
	BookingViewArchived = "archived"
	BookingViewDeleted  = "deleted"
)

type Booking struct {
	ID                       string     `db:"id" json:"id"`
	ParentName               string     `db:"parent_name" json:"parent_name"`
	Email                    string     `db:"email" json:"email"`
	Phone                    string     `db:"phone" json:"phone"`
	ServiceType              string     `db:"service_type" json:"service_type"`
	BookingDate              string     `db:"booking_date" json:"booking_date"` // YYYY-MM-DD
	StartTime                string     `db:"start_time" json:"start_time"`     // HH:MM
	DurationHours            float64    `db:"duration_hours" json:"duration_hours"`
	ChildrenCount            int        `db:"children_count" json:"children_count"`
	ChildrenAges             string     `db:"children_ages" json:"children_ages"`
	Notes                    string     `db:"notes" json:"notes"`
	Status                   string     `db:"status" json:"status"`
	BaseAmount               float64    `db:"base_amount" json:"base_amount"`
	AdditionalChildrenAmount float64    `db:"additional_children_amount" json:"additional_children_amount"`
	TotalAmount              float64    `db:"total_amount" json:"total_amount"`
	ArchivedAt               *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	DeletedAt                *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt                time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at" json:"updated_at"`
}

func (b *Booking) IsDeleted() bool {
	return b.DeletedAt != nil
}

func (b *Booking) IsArchived() bool {
	return b.ArchivedAt != nil && b.DeletedAt == nil
}

func (b *Booking) IsActive() bool {
	return b.ArchivedAt == nil && b.DeletedAt == nil
}

// View returns which admin list the booking appears in.
func (b *Booking) View() string {
	switch {
	case b.IsDeleted():
		return BookingViewDeleted
	case b.IsArchived():
		return BookingViewArchived
	default:
		return BookingViewActive
	}
}

func IsValidBookingStatus(status string) bool {
	switch status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// BookingFilter narrows the admin booking list. Empty Status means any.
type BookingFilter struct {
	View   string
	Status string
}
