package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/littlesteps/booking/internal/model"
)

var (
	ErrMediaNotFound = errors.New("media file not found")
)

type MediaRepository interface {
	Create(file *model.MediaFile) error
	ByID(id string) (*model.MediaFile, error)
	All() ([]*model.MediaFile, error)
	Delete(id string) error
}

type mediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(file *model.MediaFile) error {
	query := `INSERT INTO media_files (id, title, filename, original_name, mime_type, size, storage_path, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		file.ID,
		file.Title,
		file.Filename,
		file.OriginalName,
		file.MimeType,
		file.Size,
		file.StoragePath,
		file.CreatedAt,
	)

	return err
}

func (r *mediaRepository) ByID(id string) (*model.MediaFile, error) {
	file := &model.MediaFile{}
	err := r.db.Get(file, `SELECT * FROM media_files WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrMediaNotFound
	}

	return file, err
}

func (r *mediaRepository) All() ([]*model.MediaFile, error) {
	var files []*model.MediaFile
	err := r.db.Select(&files, `SELECT * FROM media_files ORDER BY created_at DESC`)
	return files, err
}

func (r *mediaRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM media_files WHERE id = $1`, id)
	return err
}
