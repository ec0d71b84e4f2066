package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmz-api/internal/application/relation"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	// Drain the reader so the tee'd hash is computed, as a real upload would.
	io.Copy(io.Discard, r) //nolint:errcheck
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc, _ := args.Get(0).(io.ReadCloser); rc != nil {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockObjectStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockMediaStore struct{ mock.Mock }

func (m *mockMediaStore) Put(ctx context.Context, md *domain.Media) error {
	return m.Called(ctx, md).Error(0)
}
func (m *mockMediaStore) Get(ctx context.Context, mediaID string) (*domain.Media, error) {
	args := m.Called(ctx, mediaID)
	if md, _ := args.Get(0).(*domain.Media); md != nil {
		return md, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMediaStore) SoftDelete(ctx context.Context, mediaID string, stamp domain.Stamp) error {
	return m.Called(ctx, mediaID, stamp).Error(0)
}
func (m *mockMediaStore) ScanAll(ctx context.Context) ([]domain.Media, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Media), args.Error(1)
}

type mockAnimalStore struct{ mock.Mock }

func (m *mockAnimalStore) Get(ctx context.Context, animalID string) (*domain.Animal, error) {
	args := m.Called(ctx, animalID)
	if a, _ := args.Get(0).(*domain.Animal); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func newTestService(objects *mockObjectStore, repo *mockMediaStore, animals *mockAnimalStore) Service {
	return NewService(objects, repo, relation.NewChecker(relation.CheckerDeps{Animals: animals}))
}

func testActor() domain.Actor {
	return domain.Actor{UserID: "staff1", DisplayName: "Pat", Email: "pat@example.com"}
}

// --- Upload tests ---

func TestUpload_HappyPath(t *testing.T) {
	content := "lion photo bytes"
	objects := &mockObjectStore{}
	objects.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "media/") && strings.HasSuffix(key, "/lion.jpg")
	}), "image/jpeg").Return("etag", nil)
	repo := &mockMediaStore{}
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Media")).Return(nil)

	svc := newTestService(objects, repo, &mockAnimalStore{})
	m, err := svc.Upload(context.Background(), UploadInput{
		Reader:      strings.NewReader(content),
		Filename:    "lion.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
	}, testActor())

	require.NoError(t, err)
	sum := sha256.Sum256([]byte(content))
	assert.Equal(t, hex.EncodeToString(sum[:]), m.Hash)
	assert.Equal(t, "lion.jpg", m.Filename)
	assert.Equal(t, "staff1", m.UploadedBy)
	objects.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestUpload_MissingAnimal(t *testing.T) {
	animals := &mockAnimalStore{}
	animals.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := newTestService(&mockObjectStore{}, &mockMediaStore{}, animals)
	animalID := "ghost"
	_, err := svc.Upload(context.Background(), UploadInput{
		Reader:   strings.NewReader("x"),
		Filename: "a.png",
		AnimalID: &animalID,
	}, testActor())

	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "animalId")
}

func TestUpload_SanitizesFilename(t *testing.T) {
	objects := &mockObjectStore{}
	objects.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return !strings.Contains(key, "..") && strings.HasSuffix(key, "/passwd")
	}), "").Return("etag", nil)
	repo := &mockMediaStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(objects, repo, &mockAnimalStore{})
	m, err := svc.Upload(context.Background(), UploadInput{
		Reader:   strings.NewReader("x"),
		Filename: "../../../etc/passwd",
	}, testActor())

	require.NoError(t, err)
	assert.NotContains(t, m.Object, "..")
	objects.AssertExpectations(t)
}

// --- List tests ---

func TestList_FilterByAnimal(t *testing.T) {
	lion := "a-lion"
	repo := &mockMediaStore{}
	repo.On("ScanAll", mock.Anything).Return([]domain.Media{
		{MediaID: "m1", AnimalID: &lion},
		{MediaID: "m2"},
	}, nil)

	svc := newTestService(&mockObjectStore{}, repo, &mockAnimalStore{})
	items, total, err := svc.List(context.Background(), pagination.Params{Page: 1, PageSize: 50}, "a-lion")

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].MediaID)
}

// --- Delete tests ---

func TestDelete_RemovesObjectThenRecord(t *testing.T) {
	repo := &mockMediaStore{}
	repo.On("Get", mock.Anything, "m1").Return(&domain.Media{MediaID: "m1", Object: "media/m1/a.png"}, nil)
	repo.On("SoftDelete", mock.Anything, "m1", mock.AnythingOfType("domain.Stamp")).Return(nil)
	objects := &mockObjectStore{}
	objects.On("Delete", mock.Anything, "media/m1/a.png").Return(nil)

	svc := newTestService(objects, repo, &mockAnimalStore{})
	require.NoError(t, svc.Delete(context.Background(), "m1", testActor()))
	objects.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestDelete_SoftDeletedIsNotFound(t *testing.T) {
	repo := &mockMediaStore{}
	repo.On("Get", mock.Anything, "m1").Return(&domain.Media{MediaID: "m1", SoftDelete: true}, nil)

	svc := newTestService(&mockObjectStore{}, repo, &mockAnimalStore{})
	err := svc.Delete(context.Background(), "m1", testActor())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- sanitizeFilename tests ---

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "photo.jpg", sanitizeFilename("photo.jpg"))
	assert.Equal(t, "passwd", sanitizeFilename("../etc/passwd"))
	assert.Equal(t, "a_b_c.png", sanitizeFilename("a b?c.png"))
	assert.Equal(t, "_", sanitizeFilename(""))
	assert.Equal(t, "_", sanitizeFilename("."))
}
