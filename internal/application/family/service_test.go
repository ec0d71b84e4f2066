package family

import (
	"context"
	"errors"
	"testing"

	"github.com/cmz-api/internal/application/relation"
	"github.com/cmz-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockFamilyStore struct{ mock.Mock }

func (m *mockFamilyStore) Put(ctx context.Context, f *domain.Family) error {
	return m.Called(ctx, f).Error(0)
}
func (m *mockFamilyStore) Get(ctx context.Context, familyID string) (*domain.Family, error) {
	args := m.Called(ctx, familyID)
	if f, _ := args.Get(0).(*domain.Family); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFamilyStore) Update(ctx context.Context, familyID string, updates map[string]interface{}) error {
	return m.Called(ctx, familyID, updates).Error(0)
}
func (m *mockFamilyStore) SoftDelete(ctx context.Context, familyID string, stamp domain.Stamp) error {
	return m.Called(ctx, familyID, stamp).Error(0)
}
func (m *mockFamilyStore) ScanAll(ctx context.Context) ([]domain.Family, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Family), args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func newTestService(repo *mockFamilyStore, us *mockUserStore) Service {
	return NewService(repo, relation.NewChecker(relation.CheckerDeps{Users: us}))
}

func testActor() domain.Actor {
	return domain.Actor{UserID: "admin1", DisplayName: "Admin", Email: "admin@example.com"}
}

// --- Create tests ---

func TestCreate_MissingMembersAccumulate(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "p1").Return(&domain.User{UserID: "p1"}, nil)
	us.On("Get", mock.Anything, "ghost-parent").Return(nil, domain.ErrNotFound)
	us.On("Get", mock.Anything, "ghost-student").Return(nil, domain.ErrNotFound)

	svc := newTestService(&mockFamilyStore{}, us)
	_, err := svc.Create(context.Background(), domain.CreateFamilyRequest{
		Name:     "The Lions",
		Parents:  []string{"p1", "ghost-parent"},
		Students: []string{"ghost-student"},
	}, testActor())

	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "parents")
	assert.Contains(t, ve.Fields, "students")
}

func TestCreate_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "p1").Return(&domain.User{UserID: "p1"}, nil)
	us.On("Get", mock.Anything, "s1").Return(&domain.User{UserID: "s1"}, nil)
	repo := &mockFamilyStore{}
	repo.On("Put", mock.Anything, mock.MatchedBy(func(f *domain.Family) bool {
		return f.FamilyID != "" && f.Name == "The Lions"
	})).Return(nil)

	svc := newTestService(repo, us)
	f, err := svc.Create(context.Background(), domain.CreateFamilyRequest{
		Name:     "The Lions",
		Parents:  []string{"p1"},
		Students: []string{"s1"},
	}, testActor())

	require.NoError(t, err)
	assert.Equal(t, "admin1", f.Created.By.UserID)
	repo.AssertExpectations(t)
}

// --- Delete tests ---

func TestDelete_MissingFamily(t *testing.T) {
	repo := &mockFamilyStore{}
	repo.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := newTestService(repo, &mockUserStore{})
	err := svc.Delete(context.Background(), "ghost", testActor())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
}
