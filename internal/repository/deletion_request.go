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
	ErrDeletionNotFound   = errors.New("deletion request not found")
	ErrDeletionNotPending = errors.New("deletion request is no longer pending")
)

type DeletionRequestRepository interface {
	Create(req *model.DeletionRequest) error
	ByToken(token string) (*model.DeletionRequest, error)
	Complete(token string, at time.Time) error
	ExpirePending(now time.Time) (int64, error)
	List(status string) ([]*model.DeletionRequest, error)
}

type deletionRequestRepository struct {
	db *sqlx.DB
}

func NewDeletionRequestRepository(db *sqlx.DB) DeletionRequestRepository {
	return &deletionRequestRepository{db: db}
}

func (r *deletionRequestRepository) Create(req *model.DeletionRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.Status == "" {
		req.Status = model.DeletionStatusPending
	}

	query := `
		INSERT INTO deletion_requests (id, email, token, reason, status, expires_at, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		req.ID,
		req.Email,
		req.Token,
		req.Reason,
		req.Status,
		req.ExpiresAt.UTC(),
		req.CompletedAt,
		req.CreatedAt.UTC(),
	)
	return err
}

func (r *deletionRequestRepository) ByToken(token string) (*model.DeletionRequest, error) {
	req := &model.DeletionRequest{}
	err := r.db.Get(req, `SELECT * FROM deletion_requests WHERE token = $1`, token)
	if err == sql.ErrNoRows {
		return nil, ErrDeletionNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Complete moves a pending request to completed. Only one caller can win.
func (r *deletionRequestRepository) Complete(token string, at time.Time) error {
	query := `
		UPDATE deletion_requests
		SET status = $1, completed_at = $2
		WHERE token = $3
		AND status = $4
	`
	result, err := r.db.Exec(query, model.DeletionStatusCompleted, at.UTC(), token, model.DeletionStatusPending)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	if _, err := r.ByToken(token); err != nil {
		return err
	}
	return ErrDeletionNotPending
}

func (r *deletionRequestRepository) ExpirePending(now time.Time) (int64, error) {
	query := `
		UPDATE deletion_requests
		SET status = $1
		WHERE status = $2
		AND expires_at <= $3
	`
	result, err := r.db.Exec(query, model.DeletionStatusExpired, model.DeletionStatusPending, now.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// List returns requests newest first. An empty status lists all of them.
func (r *deletionRequestRepository) List(status string) ([]*model.DeletionRequest, error) {
	var reqs []*model.DeletionRequest
	var err error
	if status == "" {
		err = r.db.Select(&reqs, `SELECT * FROM deletion_requests ORDER BY created_at DESC`)
	} else {
		err = r.db.Select(&reqs, `SELECT * FROM deletion_requests WHERE status = $1 ORDER BY created_at DESC`, status)
	}
	return reqs, err
}
