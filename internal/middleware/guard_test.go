package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"incubator/internal/auth"
	apperrors "incubator/internal/errors"
	"incubator/internal/model"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newGuardServer(t *testing.T, users *MockUserService, clk *clock) (*echo.Echo, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour, time.Hour, auth.WithClock(clk.Now))
	guard := NewGuard(jwtService, users)

	e := echo.New()
	e.GET("/wrapped", guard.Wrap(func(c echo.Context, user *model.User) error {
		return c.JSON(http.StatusOK, map[string]string{"email": user.Email})
	}))
	g := e.Group("/group", guard.Middleware())
	g.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"email": CurrentUser(c).Email})
	})
	return e, jwtService
}

func doRequest(e *echo.Echo, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGuard_AcceptsSessionToken(t *testing.T) {
	users := new(MockUserService)
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(&model.User{Email: "a@example.com"}, nil)
	clk := &clock{now: time.Now()}
	e, jwtService := newGuardServer(t, users, clk)

	token, err := jwtService.IssueSession("a@example.com")
	require.NoError(t, err)

	for _, path := range []string{"/wrapped", "/group/me"} {
		rec := doRequest(e, path, "Bearer "+token)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "a@example.com", decodeBody(t, rec)["email"])
	}
	users.AssertExpectations(t)
}

func TestGuard_Rejections(t *testing.T) {
	clk := &clock{now: time.Now()}
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour, time.Hour, auth.WithClock(clk.Now))
	session, err := jwtService.IssueSession("a@example.com")
	require.NoError(t, err)
	activation, err := jwtService.IssueActivation("a@example.com")
	require.NoError(t, err)
	ghost, err := jwtService.IssueSession("ghost@example.com")
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		advance       time.Duration
		wantCode      string
	}{
		{"missing header", "", 0, "MALFORMED_HEADER"},
		{"wrong scheme", "Basic " + session, 0, "MALFORMED_HEADER"},
		{"tampered token", "Bearer " + session + "x", 0, "INVALID_TOKEN"},
		{"activation token", "Bearer " + activation, 0, "INVALID_TOKEN"},
		{"expired token", "Bearer " + session, 2 * time.Hour, "EXPIRED_TOKEN"},
		{"unknown user", "Bearer " + ghost, 0, "USER_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserService)
			users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.ErrUserNotFound)
			c := &clock{now: clk.now.Add(tt.advance)}
			e, _ := newGuardServer(t, users, c)

			rec := doRequest(e, "/wrapped", tt.authorization)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, rec)["code"])
		})
	}
}

func TestCurrentUser_OutsideGuard(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
