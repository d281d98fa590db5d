package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/repository"
	"github.com/littlesteps/booking/internal/storage"
)

type MediaService struct {
	mediaRepo repository.MediaRepository
	storage   storage.Storage
}

// NewMediaService accepts a nil store; every call then returns ErrStorageDisabled.
func NewMediaService(mediaRepo repository.MediaRepository, store storage.Storage) *MediaService {
	return &MediaService{
		mediaRepo: mediaRepo,
		storage:   store,
	}
}

func (s *MediaService) Enabled() bool {
	return s.storage != nil
}

// Upload stores a gallery image. The caller validates type and size first.
func (s *MediaService) Upload(ctx context.Context, title, originalName, mimeType string, size int64, body io.Reader) (*model.MediaFile, error) {
	if !s.Enabled() {
		return nil, ErrStorageDisabled
	}

	id := uuid.New().String()
	filename := id + strings.ToLower(filepath.Ext(originalName))
	storagePath := path.Join("gallery", filename)

	err := s.storage.Save(ctx, storagePath, mimeType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	file := &model.MediaFile{
		ID:           id,
		Title:        strings.TrimSpace(title),
		Filename:     filename,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         size,
		StoragePath:  storagePath,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.mediaRepo.Create(file)
	if err != nil {
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}

	file.URL = s.url(ctx, file)
	return file, nil
}

// List returns the gallery with presigned URLs filled in.
func (s *MediaService) List(ctx context.Context) ([]*model.MediaFile, error) {
	if !s.Enabled() {
		return nil, ErrStorageDisabled
	}

	files, err := s.mediaRepo.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	for _, f := range files {
		f.URL = s.url(ctx, f)
	}
	return files, nil
}

func (s *MediaService) Delete(ctx context.Context, id string) error {
	if !s.Enabled() {
		return ErrStorageDisabled
	}

	file, err := s.mediaRepo.ByID(id)
	if errors.Is(err, repository.ErrMediaNotFound) {
		return ErrMediaNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get media: %w", err)
	}

	// Storage delete is best effort; the record is what the site lists.
	delErr := s.storage.Delete(ctx, file.StoragePath)
	if delErr != nil {
		slog.Error("failed to delete file from storage", "error", delErr, "path", file.StoragePath)
	}

	err = s.mediaRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}
	return nil
}

func (s *MediaService) url(ctx context.Context, file *model.MediaFile) string {
	u, err := s.storage.URL(ctx, file.StoragePath)
	if err != nil {
		slog.Warn("failed to build media url", "error", err, "path", file.StoragePath)
		return ""
	}
	return u
}
