package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/littlesteps/booking/internal/model"
)

var (
	ErrConsentNotFound = errors.New("consent record not found")
)

type ConsentRepository interface {
	Create(record *model.ConsentRecord) error
	LatestByVisitor(visitorID string) (*model.ConsentRecord, error)
	ByEmail(email string) ([]*model.ConsentRecord, error)
	CountByEmail(email string) (int, error)
	DeleteByEmail(email string) (int64, error)
}

type consentRepository struct {
	db *sqlx.DB
}

func NewConsentRepository(db *sqlx.DB) ConsentRepository {
	return &consentRepository{db: db}
}

func (r *consentRepository) Create(c *model.ConsentRecord) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO consent_records (id, visitor_id, email, necessary, analytics, marketing, policy_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		c.ID,
		c.VisitorID,
		c.Email,
		c.Necessary,
		c.Analytics,
		c.Marketing,
		c.PolicyVersion,
		c.CreatedAt,
	)
	return err
}

func (r *consentRepository) LatestByVisitor(visitorID string) (*model.ConsentRecord, error) {
	c := &model.ConsentRecord{}
	query := `SELECT * FROM consent_records WHERE visitor_id = $1 ORDER BY created_at DESC LIMIT 1`
	err := r.db.Get(c, query, visitorID)
	if err == sql.ErrNoRows {
		return nil, ErrConsentNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *consentRepository) ByEmail(email string) ([]*model.ConsentRecord, error) {
	var records []*model.ConsentRecord
	err := r.db.Select(&records, `SELECT * FROM consent_records WHERE email = $1 ORDER BY created_at ASC`, email)
	return records, err
}

func (r *consentRepository) CountByEmail(email string) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM consent_records WHERE email = $1`, email)
	return count, err
}

func (r *consentRepository) DeleteByEmail(email string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM consent_records WHERE email = $1`, email)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
