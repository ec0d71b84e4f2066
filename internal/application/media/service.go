package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cmz-api/internal/application/relation"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/id"
	"github.com/cmz-api/internal/pkg/pagination"
)

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	AnimalID    *string
}

type Service interface {
	Upload(ctx context.Context, input UploadInput, actor domain.Actor) (*domain.Media, error)
	List(ctx context.Context, p pagination.Params, animalID string) ([]domain.Media, int, error)
	Download(ctx context.Context, mediaID string) (io.ReadCloser, *domain.Media, error)
	PresignedURL(ctx context.Context, mediaID string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, mediaID string, actor domain.Actor) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type mediaStore interface {
	Put(ctx context.Context, m *domain.Media) error
	Get(ctx context.Context, mediaID string) (*domain.Media, error)
	SoftDelete(ctx context.Context, mediaID string, stamp domain.Stamp) error
	ScanAll(ctx context.Context) ([]domain.Media, error)
}

type service struct {
	objects   objectStore
	repo      mediaStore
	relations *relation.Checker
}

func NewService(objects objectStore, repo mediaStore, relations *relation.Checker) Service {
	return &service{objects: objects, repo: repo, relations: relations}
}

func (s *service) Upload(ctx context.Context, input UploadInput, actor domain.Actor) (*domain.Media, error) {
	ve := domain.NewValidationError()
	if input.AnimalID != nil {
		if err := s.relations.Animal(ctx, ve, "animalId", *input.AnimalID); err != nil {
			return nil, err
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	mediaID := id.New()
	safeName := sanitizeFilename(input.Filename)
	key := fmt.Sprintf("media/%s/%s", mediaID, safeName)
	hasher := sha256.New()
	tee := io.TeeReader(input.Reader, hasher)
	if _, err := s.objects.Upload(ctx, key, tee, input.ContentType); err != nil {
		return nil, err
	}

	m := &domain.Media{
		MediaID:     mediaID,
		Filename:    safeName,
		Object:      key,
		ContentType: input.ContentType,
		Size:        input.Size,
		Hash:        hex.EncodeToString(hasher.Sum(nil)),
		AnimalID:    input.AnimalID,
		UploadedBy:  actor.UserID,
		Created:     domain.StampNow(actor),
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) List(ctx context.Context, p pagination.Params, animalID string) ([]domain.Media, int, error) {
	all, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	var media []domain.Media
	for i := range all {
		if animalID != "" && (all[i].AnimalID == nil || *all[i].AnimalID != animalID) {
			continue
		}
		media = append(media, all[i])
	}
	page, total := pagination.Slice(media, p)
	return page, total, nil
}

func (s *service) Download(ctx context.Context, mediaID string) (io.ReadCloser, *domain.Media, error) {
	m, err := s.get(ctx, mediaID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.objects.Download(ctx, m.Object)
	if err != nil {
		return nil, nil, err
	}
	return rc, m, nil
}

func (s *service) PresignedURL(ctx context.Context, mediaID string, ttl time.Duration) (string, error) {
	m, err := s.get(ctx, mediaID)
	if err != nil {
		return "", err
	}
	return s.objects.PresignedURL(ctx, m.Object, ttl)
}

func (s *service) Delete(ctx context.Context, mediaID string, actor domain.Actor) error {
	m, err := s.get(ctx, mediaID)
	if err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, m.Object); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, mediaID, domain.StampNow(actor))
}

func (s *service) get(ctx context.Context, mediaID string) (*domain.Media, error) {
	m, err := s.repo.Get(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if m.SoftDelete {
		return nil, fmt.Errorf("media %s: %w", mediaID, domain.ErrNotFound)
	}
	return m, nil
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
