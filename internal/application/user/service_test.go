package user

import (
	"context"
	"errors"
	"testing"

	"github.com/cmz-api/internal/application/relation"
	"github.com/cmz-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) SoftDelete(ctx context.Context, userID string, stamp domain.Stamp) error {
	return m.Called(ctx, userID, stamp).Error(0)
}
func (m *mockUserStore) ScanAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

type mockFamilyStore struct{ mock.Mock }

func (m *mockFamilyStore) Get(ctx context.Context, familyID string) (*domain.Family, error) {
	args := m.Called(ctx, familyID)
	if f, _ := args.Get(0).(*domain.Family); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func newTestService(us *mockUserStore, fs *mockFamilyStore) Service {
	return NewService(us, relation.NewChecker(relation.CheckerDeps{Families: fs}))
}

func baseReq() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "password123",
		Role:        domain.RoleParent,
	}
}

func testActor() domain.Actor {
	return domain.Actor{UserID: "admin1", DisplayName: "Admin", Email: "admin@example.com"}
}

// --- Create tests ---

func TestCreate_RejectsClientSuppliedID(t *testing.T) {
	svc := newTestService(&mockUserStore{}, &mockFamilyStore{})

	req := baseReq()
	clientID := "u-custom"
	req.UserID = &clientID
	_, err := svc.Create(context.Background(), req, testActor())

	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "userId")
}

func TestCreate_UnknownRole(t *testing.T) {
	svc := newTestService(&mockUserStore{}, &mockFamilyStore{})

	req := baseReq()
	req.Role = "wizard"
	_, err := svc.Create(context.Background(), req, testActor())

	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "role")
}

func TestCreate_MissingFamily(t *testing.T) {
	fs := &mockFamilyStore{}
	fs.On("Get", mock.Anything, "f1").Return(nil, domain.ErrNotFound)

	svc := newTestService(&mockUserStore{}, fs)
	req := baseReq()
	familyID := "f1"
	req.FamilyID = &familyID
	_, err := svc.Create(context.Background(), req, testActor())

	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "familyId")
	fs.AssertExpectations(t)
}

func TestCreate_EmailConflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{UserID: "u2"}, nil)

	svc := newTestService(us, &mockFamilyStore{})
	_, err := svc.Create(context.Background(), baseReq(), testActor())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertExpectations(t)
}

func TestCreate_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := newTestService(us, &mockFamilyStore{})
	u, err := svc.Create(context.Background(), baseReq(), testActor())

	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)
	assert.Equal(t, domain.RoleParent, u.Role)
	assert.Equal(t, domain.UserTypeFamily, u.UserType)
	assert.True(t, u.Enabled)
	assert.Equal(t, "admin1", u.Created.By.UserID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
	us.AssertExpectations(t)
}

// --- Get tests ---

func TestGet_SoftDeletedIsNotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", SoftDelete: true}, nil)

	svc := newTestService(us, &mockFamilyStore{})
	_, err := svc.Get(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- Update tests ---

func TestUpdate_EmailTakenByAnotherUser(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	us.On("GetByEmail", mock.Anything, "taken@example.com").Return(&domain.User{UserID: "u2"}, nil)

	svc := newTestService(us, &mockFamilyStore{})
	email := "taken@example.com"
	_, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Email: &email}, testActor())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestUpdate_RoleChangeUpdatesUserType(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Role: domain.RoleParent}, nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates[fieldRole] == domain.RoleStaff && updates[fieldUserType] == domain.UserTypeStaff
	})).Return(nil)

	svc := newTestService(us, &mockFamilyStore{})
	role := domain.RoleStaff
	_, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Role: &role}, testActor())

	require.NoError(t, err)
	us.AssertExpectations(t)
}

func TestUpdate_NoChangesSkipsWrite(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	svc := newTestService(us, &mockFamilyStore{})
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{}, testActor())

	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// --- Delete tests ---

func TestDelete_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	us.On("SoftDelete", mock.Anything, "u1", mock.AnythingOfType("domain.Stamp")).Return(nil)

	svc := newTestService(us, &mockFamilyStore{})
	require.NoError(t, svc.Delete(context.Background(), "u1", testActor()))
	us.AssertExpectations(t)
}

func TestDelete_MissingUser(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, &mockFamilyStore{})
	err := svc.Delete(context.Background(), "nope", testActor())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	us.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
}
