package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	objects map[string][]byte
}

func (s *memStorage) Save(ctx context.Context, path, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[path] = data
	return nil
}

func (s *memStorage) Delete(ctx context.Context, path string) error {
	delete(s.objects, path)
	return nil
}

func (s *memStorage) URL(ctx context.Context, path string) (string, error) {
	return "https://cdn.littlesteps.test/" + path + "?sig=x", nil
}

type fakeMediaRepo struct {
	files map[string]*model.MediaFile
	err   error
}

func (r *fakeMediaRepo) Create(f *model.MediaFile) error {
	if r.err != nil {
		return r.err
	}
	cp := *f
	r.files[f.ID] = &cp
	return nil
}

func (r *fakeMediaRepo) ByID(id string) (*model.MediaFile, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, repository.ErrMediaNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeMediaRepo) All() ([]*model.MediaFile, error) {
	var out []*model.MediaFile
	for _, f := range r.files {
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMediaRepo) Delete(id string) error {
	delete(r.files, id)
	return nil
}

func TestMediaDisabledWithoutStorage(t *testing.T) {
	svc := NewMediaService(&fakeMediaRepo{files: map[string]*model.MediaFile{}}, nil)
	assert.False(t, svc.Enabled())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = svc.Upload(context.Background(), "t", "a.png", "image/png", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, svc.Delete(context.Background(), "id"), ErrStorageDisabled)
}

func TestMediaUploadListDelete(t *testing.T) {
	store := &memStorage{objects: map[string][]byte{}}
	repo := &fakeMediaRepo{files: map[string]*model.MediaFile{}}
	svc := NewMediaService(repo, store)
	ctx := context.Background()

	file, err := svc.Upload(ctx, " Garden day ", "Garden.PNG", "image/png", 4, bytes.NewReader([]byte("png!")))
	require.NoError(t, err)
	assert.Equal(t, "Garden day", file.Title)
	assert.True(t, strings.HasSuffix(file.Filename, ".png"))
	assert.Equal(t, "gallery/"+file.Filename, file.StoragePath)
	assert.Contains(t, file.URL, file.StoragePath)
	assert.Equal(t, []byte("png!"), store.objects[file.StoragePath])

	files, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.NotEmpty(t, files[0].URL)

	require.NoError(t, svc.Delete(ctx, file.ID))
	assert.Empty(t, store.objects)
	assert.ErrorIs(t, svc.Delete(ctx, file.ID), ErrMediaNotFound)
}

func TestMediaUploadCleansUpOnRecordFailure(t *testing.T) {
	store := &memStorage{objects: map[string][]byte{}}
	repo := &fakeMediaRepo{files: map[string]*model.MediaFile{}, err: errors.New("disk full")}
	svc := NewMediaService(repo, store)

	_, err := svc.Upload(context.Background(), "t", "a.jpg", "image/jpeg", 1, strings.NewReader("x"))
	require.Error(t, err)
	assert.Empty(t, store.objects)
}
