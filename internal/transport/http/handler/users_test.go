package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmz-api/internal/application/user"
	"github.com/cmz-api/internal/config"
	"github.com/cmz-api/internal/domain"
	jwtinfra "github.com/cmz-api/internal/infrastructure/jwt"
	"github.com/cmz-api/internal/pkg/pagination"
	"github.com/cmz-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockUserSvc struct{ mock.Mock }

var _ user.Service = (*mockUserSvc)(nil)

func (m *mockUserSvc) List(ctx context.Context, p pagination.Params) ([]domain.User, int, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}
func (m *mockUserSvc) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserSvc) Create(ctx context.Context, req domain.CreateUserRequest, actor domain.Actor) (*domain.User, error) {
	args := m.Called(ctx, req, actor)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserSvc) Update(ctx context.Context, userID string, req domain.UpdateUserRequest, actor domain.Actor) (*domain.User, error) {
	args := m.Called(ctx, userID, req, actor)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserSvc) Delete(ctx context.Context, userID string, actor domain.Actor) error {
	return m.Called(ctx, userID, actor).Error(0)
}

// --- helpers ---

func newTestJWTProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{
		JWTSecret:      "test-secret",
		JWTExpiryHours: 24,
	})
	require.NoError(t, err)
	return p
}

// bearerReq builds a request with a signed Bearer token for the given userID and role.
func bearerReq(t *testing.T, p *jwtinfra.Provider, method, target, userID, role string, body []byte) *http.Request {
	t.Helper()
	token, err := p.Sign(userID, userID+"@example.com", role, domain.UserTypeFor(role))
	require.NoError(t, err)
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// serveAuthed wraps the handler with middleware.Auth before serving.
func serveAuthed(p *jwtinfra.Provider, h http.Handler, w http.ResponseWriter, r *http.Request) {
	middleware.Auth(p)(h).ServeHTTP(w, r)
}

// --- Get tests ---

func TestUserGet_Self(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	svc.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "u1@example.com"}, nil)
	h := NewUserHandler(svc)

	req := withChiID(bearerReq(t, p, http.MethodGet, "/v1/users/u1", "u1", domain.RoleStudent, nil), "u1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Get), rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "u1", got.UserID)
}

func TestUserGet_OtherUserForbiddenBelowStaff(t *testing.T) {
	p := newTestJWTProvider(t)
	h := NewUserHandler(&mockUserSvc{})

	req := withChiID(bearerReq(t, p, http.MethodGet, "/v1/users/u2", "u1", domain.RoleParent, nil), "u2")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Get), rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestUserGet_OtherUserAllowedForStaff(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	svc.On("Get", mock.Anything, "u2").Return(&domain.User{UserID: "u2"}, nil)
	h := NewUserHandler(svc)

	req := withChiID(bearerReq(t, p, http.MethodGet, "/v1/users/u2", "staff1", domain.RoleStaff, nil), "u2")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Get), rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUserGet_NotFound(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	svc.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
	h := NewUserHandler(svc)

	req := withChiID(bearerReq(t, p, http.MethodGet, "/v1/users/ghost", "admin1", domain.RoleAdmin, nil), "ghost")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Get), rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "not_found", env.Code)
}

// --- Create tests ---

func TestUserCreate_ValidationFailure(t *testing.T) {
	p := newTestJWTProvider(t)
	h := NewUserHandler(&mockUserSvc{})

	body := []byte(`{"email":"not-an-email","displayName":"","password":"short","role":"parent"}`)
	req := bearerReq(t, p, http.MethodPost, "/v1/users", "admin1", domain.RoleAdmin, body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Create), rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "validation_error", env.Code)
	assert.Contains(t, env.Details, "email")
	assert.Contains(t, env.Details, "displayName")
	assert.Contains(t, env.Details, "password")
}

func TestUserCreate_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	svc.On("Create", mock.Anything, mock.AnythingOfType("domain.CreateUserRequest"), mock.MatchedBy(func(a domain.Actor) bool {
		return a.UserID == "admin1"
	})).Return(&domain.User{UserID: "new1", Email: "bob@example.com"}, nil)
	h := NewUserHandler(svc)

	body := []byte(`{"email":"bob@example.com","displayName":"Bob","password":"password123","role":"parent"}`)
	req := bearerReq(t, p, http.MethodPost, "/v1/users", "admin1", domain.RoleAdmin, body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Create), rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

// --- Update tests ---

func TestUserUpdate_NonAdminCannotChangeRole(t *testing.T) {
	p := newTestJWTProvider(t)
	h := NewUserHandler(&mockUserSvc{})

	body := []byte(`{"role":"admin"}`)
	req := withChiID(bearerReq(t, p, http.MethodPut, "/v1/users/u1", "u1", domain.RoleParent, body), "u1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Update), rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestUserUpdate_SelfProfileChange(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	svc.On("Update", mock.Anything, "u1", mock.AnythingOfType("domain.UpdateUserRequest"), mock.Anything).
		Return(&domain.User{UserID: "u1", DisplayName: "New Name"}, nil)
	h := NewUserHandler(svc)

	body := []byte(`{"displayName":"New Name"}`)
	req := withChiID(bearerReq(t, p, http.MethodPut, "/v1/users/u1", "u1", domain.RoleParent, body), "u1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Update), rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

// --- List tests ---

func TestUserList_PaginationEnvelope(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	svc.On("List", mock.Anything, pagination.Params{Page: 2, PageSize: 1}).
		Return([]domain.User{{UserID: "u2"}}, 3, nil)
	h := NewUserHandler(svc)

	req := bearerReq(t, p, http.MethodGet, "/v1/users?page=2&pageSize=1", "admin1", domain.RoleAdmin, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.List), rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var env struct {
		Page       int           `json:"page"`
		PageSize   int           `json:"pageSize"`
		Total      int           `json:"total"`
		TotalPages int           `json:"totalPages"`
		Data       []domain.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, 2, env.Page)
	assert.Equal(t, 3, env.Total)
	assert.Equal(t, 3, env.TotalPages)
	require.Len(t, env.Data, 1)
}

func TestUserList_BadPageParam(t *testing.T) {
	p := newTestJWTProvider(t)
	h := NewUserHandler(&mockUserSvc{})

	req := bearerReq(t, p, http.MethodGet, "/v1/users?page=zero", "admin1", domain.RoleAdmin, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.List), rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- Delete tests ---

func TestUserDelete_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	svc.On("Delete", mock.Anything, "u2", mock.Anything).Return(nil)
	h := NewUserHandler(svc)

	req := withChiID(bearerReq(t, p, http.MethodDelete, "/v1/users/u2", "admin1", domain.RoleAdmin, nil), "u2")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Delete), rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
