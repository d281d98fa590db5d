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
	ErrAdminNotFound = errors.New("admin not found")
)

type AdminUserRepository interface {
	Create(admin *model.AdminUser) error
	ByID(id string) (*model.AdminUser, error)
	ByEmail(email string) (*model.AdminUser, error)
	UpdatePassword(id, passwordHash string) error
}

type adminUserRepository struct {
	db *sqlx.DB
}

func NewAdminUserRepository(db *sqlx.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) Create(admin *model.AdminUser) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO admin_users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(query, admin.ID, admin.Email, admin.PasswordHash, admin.CreatedAt)
	return err
}

func (r *adminUserRepository) ByID(id string) (*model.AdminUser, error) {
	admin := &model.AdminUser{}
	err := r.db.Get(admin, `SELECT * FROM admin_users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrAdminNotFound
	}
	return admin, err
}

func (r *adminUserRepository) ByEmail(email string) (*model.AdminUser, error) {
	admin := &model.AdminUser{}
	err := r.db.Get(admin, `SELECT * FROM admin_users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return nil, ErrAdminNotFound
	}
	return admin, err
}

func (r *adminUserRepository) UpdatePassword(id, passwordHash string) error {
	result, err := r.db.Exec(`UPDATE admin_users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAdminNotFound
	}
	return nil
}
