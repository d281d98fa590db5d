package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/littlesteps/booking/internal/model"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
)

type BookingRepository interface {
	Create(booking *model.Booking) error
	ByID(id string) (*model.Booking, error)
	List(filter model.BookingFilter) ([]*model.Booking, error)
	ByEmail(email string) ([]*model.Booking, error)
	CountByEmail(email string) (int, error)
	Update(booking *model.Booking) error
	Delete(id string) error
	DeleteByEmail(email string) (int64, error)
}

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(b *model.Booking) error {
	now := time.Now().UTC()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = b.CreatedAt
	if b.Status == "" {
		b.Status = model.BookingStatusPending
	}

	query := `
		INSERT INTO bookings (
			id, parent_name, email, phone, service_type, booking_date, start_time,
			duration_hours, children_count, children_ages, notes, status,
			base_amount, additional_children_amount, total_amount,
			archived_at, deleted_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := r.db.Exec(query,
		b.ID,
		b.ParentName,
		b.Email,
		b.Phone,
		b.ServiceType,
		b.BookingDate,
		b.StartTime,
		b.DurationHours,
		b.ChildrenCount,
		b.ChildrenAges,
		b.Notes,
		b.Status,
		b.BaseAmount,
		b.AdditionalChildrenAmount,
		b.TotalAmount,
		b.ArchivedAt,
		b.DeletedAt,
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func (r *bookingRepository) ByID(id string) (*model.Booking, error) {
	b := &model.Booking{}
	err := r.db.Get(b, `SELECT * FROM bookings WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) List(filter model.BookingFilter) ([]*model.Booking, error) {
	var where string
	switch filter.View {
	case model.BookingViewArchived:
		where = "archived_at IS NOT NULL AND deleted_at IS NULL"
	case model.BookingViewDeleted:
		where = "deleted_at IS NOT NULL"
	default:
		where = "archived_at IS NULL AND deleted_at IS NULL"
	}

	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var bookings []*model.Booking
	query := `SELECT * FROM bookings WHERE ` + where + ` ORDER BY created_at DESC`
	err := r.db.Select(&bookings, query, args...)
	return bookings, err
}

func (r *bookingRepository) ByEmail(email string) ([]*model.Booking, error) {
	var bookings []*model.Booking
	err := r.db.Select(&bookings, `SELECT * FROM bookings WHERE email = $1 ORDER BY created_at ASC`, email)
	return bookings, err
}

func (r *bookingRepository) CountByEmail(email string) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE email = $1`, email)
	return count, err
}

// Update persists status and lifecycle timestamps.
func (r *bookingRepository) Update(b *model.Booking) error {
	b.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE bookings
		SET status = $1, archived_at = $2, deleted_at = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.Exec(query, b.Status, b.ArchivedAt, b.DeletedAt, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) DeleteByEmail(email string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM bookings WHERE email = $1`, email)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
