package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "movieapi/internal/errors"
	"movieapi/internal/model"
	"movieapi/internal/repository"
	"movieapi/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit int) ([]model.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) ListMovies(ctx context.Context, limit int) ([]model.Movie, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Movie), args.Error(1)
}

func (m *MockMovieService) GetMovie(ctx context.Context, id uint) (*model.Movie, error) {
	return m.movieResult(m.Called(ctx, id))
}

func (m *MockMovieService) CreateMovie(ctx context.Context, in service.MovieInput) (*model.Movie, error) {
	return m.movieResult(m.Called(ctx, in))
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, id uint, in service.MovieInput) (*model.Movie, error) {
	return m.movieResult(m.Called(ctx, id, in))
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, id uint) (*model.Movie, error) {
	return m.movieResult(m.Called(ctx, id))
}

func (m *MockMovieService) movieResult(args mock.Arguments) (*model.Movie, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		generic     bool
		setup       func(m *MockAuthService)
		wantStatus  int
		wantMessage string
		wantToken   string
	}{
		{
			name: "success",
			body: `{"email":"a@b.com","password":"pw"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "a@b.com", "pw").Return("tok", nil)
			},
			wantStatus: http.StatusOK,
			wantToken:  "tok",
		},
		{
			name: "unknown email",
			body: `{"email":"x@b.com","password":"pw"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "x@b.com", "pw").Return("", apperrors.ErrUserNotFound)
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "unauthorized: user not found",
		},
		{
			name: "wrong password",
			body: `{"email":"a@b.com","password":"bad"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "a@b.com", "bad").Return("", apperrors.ErrInvalidPassword)
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "unauthorized: invalid password",
		},
		{
			name:    "generic errors hide unknown email",
			body:    `{"email":"x@b.com","password":"pw"}`,
			generic: true,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "x@b.com", "pw").Return("", apperrors.ErrUserNotFound)
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "unauthorized: invalid credentials",
		},
		{
			name:    "generic errors hide wrong password",
			body:    `{"email":"a@b.com","password":"bad"}`,
			generic: true,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "a@b.com", "bad").Return("", apperrors.ErrInvalidPassword)
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "unauthorized: invalid credentials",
		},
		{
			name: "store failure",
			body: `{"email":"a@b.com","password":"pw"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "a@b.com", "pw").Return("", errors.New("connection reset"))
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
		},
		{
			name: "missing password",
			body: `{"email":"a@b.com"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "a@b.com", "").Return("", apperrors.ErrInvalidPassword)
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "unauthorized: invalid password",
		},
		{
			name: "empty email",
			body: `{"email":"","password":"pw"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "", "pw").Return("", apperrors.ErrUserNotFound)
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "unauthorized: user not found",
		},
		{
			name:        "malformed body",
			body:        `{"email":`,
			setup:       func(m *MockAuthService) {},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setup(svc)
			e := newEcho()
			h := NewAuthHandler(svc, nil, tt.generic)
			e.POST("/users/login", h.Login)

			rec := do(e, http.MethodPost, "/users/login", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantToken != "" {
				var body LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantToken, body.Token)
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, decodeError(t, rec).Message)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Register(t *testing.T) {
	in := service.RegisterInput{Email: "a@b.com", Password: "pw", Gender: "f", Role: "admin"}
	body := `{"email":"a@b.com","password":"pw","gender":"f","role":"admin"}`

	tests := []struct {
		name       string
		body       string
		setup      func(m *MockAuthService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: body,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, in).
					Return(&model.User{ID: 1, Email: "a@b.com", Password: "pw", Gender: "f", Role: "admin"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: body,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, in).Return(nil, apperrors.ErrEmailExists)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "EMAIL_EXISTS",
		},
		{
			name: "store failure",
			body: body,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, in).Return(nil, errors.New("disk full"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
		{
			name: "password too long for scheme",
			body: body,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, in).Return(nil, apperrors.ErrPasswordTooLong)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "PASSWORD_TOO_LONG",
		},
		{
			name:       "invalid email",
			body:       `{"email":"not-an-email","password":"pw"}`,
			setup:      func(m *MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setup(svc)
			e := newEcho()
			h := NewAuthHandler(svc, nil, false)
			e.POST("/users/register", h.Register)

			rec := do(e, http.MethodPost, "/users/register", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			} else {
				assert.NotContains(t, rec.Body.String(), "password")
				assert.Contains(t, rec.Body.String(), `"email":"a@b.com"`)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_ListUsers_Limit(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantStatus int
	}{
		{name: "no limit", query: "", wantLimit: repository.NoLimit, wantStatus: http.StatusOK},
		{name: "limit", query: "?limit=2", wantLimit: 2, wantStatus: http.StatusOK},
		{name: "zero", query: "?limit=0", wantLimit: 0, wantStatus: http.StatusOK},
		{name: "not a number", query: "?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "negative", query: "?limit=-1", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			if tt.wantStatus == http.StatusOK {
				svc.On("ListUsers", mock.Anything, tt.wantLimit).Return([]model.User{{ID: 1, Email: "a@b.com"}}, nil)
			}
			e := newEcho()
			e.GET("/users", NewUserHandler(svc, nil).ListUsers)

			rec := do(e, http.MethodGet, "/users"+tt.query, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusBadRequest {
				assert.Equal(t, "INVALID_LIMIT", decodeError(t, rec).Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_GetUser(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetUser", mock.Anything, uint(1)).Return(&model.User{ID: 1, Email: "a@b.com"}, nil)
	svc.On("GetUser", mock.Anything, uint(9)).Return(nil, apperrors.ErrNotFound)
	e := newEcho()
	e.GET("/users/:id", NewUserHandler(svc, nil).GetUser)

	rec := do(e, http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/users/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/users/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", decodeError(t, rec).Code)
}

func TestMovieHandler_CRUD(t *testing.T) {
	heat := &model.Movie{ID: 1, Title: "Heat", Genres: []string{"crime"}, Year: 1995}
	in := service.MovieInput{Title: "Heat", Genres: []string{"crime"}, Year: 1995}

	svc := new(MockMovieService)
	svc.On("CreateMovie", mock.Anything, in).Return(heat, nil)
	svc.On("GetMovie", mock.Anything, uint(1)).Return(heat, nil)
	svc.On("UpdateMovie", mock.Anything, uint(1), in).Return(heat, nil)
	svc.On("DeleteMovie", mock.Anything, uint(1)).Return(heat, nil)
	svc.On("DeleteMovie", mock.Anything, uint(2)).Return(nil, apperrors.ErrNotFound)

	e := newEcho()
	h := NewMovieHandler(svc, nil)
	e.POST("/movies", h.CreateMovie)
	e.GET("/movies/:id", h.GetMovie)
	e.PUT("/movies/:id", h.UpdateMovie)
	e.DELETE("/movies/:id", h.DeleteMovie)

	body := `{"title":"Heat","genres":["crime"],"year":1995}`

	rec := do(e, http.MethodPost, "/movies", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created CreateMovieResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, heat, created.InsertedData)
	assert.NotEmpty(t, created.Message)

	rec = do(e, http.MethodGet, "/movies/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPut, "/movies/1", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodDelete, "/movies/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted DeleteMovieResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.Equal(t, heat, deleted.DeletedMovie)

	rec = do(e, http.MethodDelete, "/movies/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodPost, "/movies", `{"genres":["crime"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestMovieHandler_ListMovies(t *testing.T) {
	svc := new(MockMovieService)
	svc.On("ListMovies", mock.Anything, 1).Return([]model.Movie{{ID: 1, Title: "Heat"}}, nil)
	svc.On("ListMovies", mock.Anything, repository.NoLimit).Return(nil, errors.New("timeout"))

	e := newEcho()
	e.GET("/movies/list/:token", NewMovieHandler(svc, nil).ListMovies)

	rec := do(e, http.MethodGet, "/movies/list/tok?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var movies []model.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movies))
	assert.Len(t, movies, 1)

	rec = do(e, http.MethodGet, "/movies/list/tok", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec).Message)

	svc.AssertExpectations(t)
}
