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
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenUsed     = errors.New("token has already been used")
)

type DownloadTokenRepository interface {
	Create(token *model.DownloadToken) error
	ByToken(token string) (*model.DownloadToken, error)
	MarkUsed(token string, usedAt time.Time) error
	DeleteByEmail(email string) (int64, error)
	CleanupExpired(before time.Time) (int64, error)
}

type downloadTokenRepository struct {
	db *sqlx.DB
}

func NewDownloadTokenRepository(db *sqlx.DB) DownloadTokenRepository {
	return &downloadTokenRepository{db: db}
}

func (r *downloadTokenRepository) Create(token *model.DownloadToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO download_tokens (id, token, user_email, export_type, expires_at, used, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		token.ID,
		token.Token,
		token.UserEmail,
		token.ExportType,
		token.ExpiresAt.UTC(),
		token.Used,
		token.UsedAt,
		token.CreatedAt.UTC(),
	)
	return err
}

func (r *downloadTokenRepository) ByToken(token string) (*model.DownloadToken, error) {
	t := &model.DownloadToken{}
	query := `SELECT * FROM download_tokens WHERE token = $1`

	err := r.db.Get(t, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return t, nil
}

// MarkUsed flips used from false to true in a single conditional write.
// Of several concurrent callers exactly one succeeds; the rest get ErrTokenUsed.
func (r *downloadTokenRepository) MarkUsed(token string, usedAt time.Time) error {
	query := `
		UPDATE download_tokens
		SET used = TRUE, used_at = $1
		WHERE token = $2
		AND used = FALSE
	`
	result, err := r.db.Exec(query, usedAt.UTC(), token)
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

	// Nothing changed: either the token never existed or someone else used it.
	if _, err := r.ByToken(token); err != nil {
		return err
	}
	return ErrTokenUsed
}

func (r *downloadTokenRepository) DeleteByEmail(email string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM download_tokens WHERE user_email = $1`, email)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CleanupExpired removes tokens that expired, or were used, before the cutoff.
// Expiry is enforced at read time; this only keeps the table small.
func (r *downloadTokenRepository) CleanupExpired(before time.Time) (int64, error) {
	query := `
		DELETE FROM download_tokens
		WHERE (used_at IS NOT NULL AND used_at < $1)
		   OR (expires_at < $1)
	`
	result, err := r.db.Exec(query, before.UTC())
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return rowsAffected, nil
}
