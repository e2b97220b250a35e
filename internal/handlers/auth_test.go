package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"course-service/internal/auth"
	"course-service/internal/mocks"
	"course-service/internal/models"
	"course-service/internal/repositories"
)

func TestTokenIssuesBearerToken(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	issuer := auth.NewIssuer("secret", 30*time.Minute)
	router := newTestRouter(0, "")
	router.POST("/auth/token", NewAuthHandler(users, issuer, nil).Token)

	hash, err := auth.HashPassword("pw123456")
	require.NoError(t, err)
	users.On("GetUserByLogin", mock.Anything, "alice").
		Return(models.User{ID: 4, Name: "alice", Role: models.RoleTeacher, Status: models.StatusActive, PasswordHash: hash}, nil).Once()

	form := url.Values{"username": {"alice"}, "password": {"pw123456"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "bearer", body["token_type"])
	assert.EqualValues(t, 1800, body["expires_in"])

	claims, err := issuer.Resolve(body["access_token"].(string))
	require.NoError(t, err)
	id, _ := claims.UserID()
	assert.Equal(t, 4, id)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	users.AssertExpectations(t)
}

func TestTokenRejections(t *testing.T) {
	hash, err := auth.HashPassword("pw123456")
	require.NoError(t, err)

	cases := []struct {
		name   string
		user   models.User
		err    error
		body   string
		status int
		kind   string
	}{
		{"unknown user", models.User{}, repositories.ErrUserNotFound, `{"username":"ghost","password":"pw123456"}`, http.StatusUnauthorized, KindUnauthorized},
		{"wrong password", models.User{ID: 1, Status: models.StatusActive, PasswordHash: hash}, nil, `{"username":"ghost","password":"nope"}`, http.StatusUnauthorized, KindUnauthorized},
		{"disabled", models.User{ID: 1, Status: models.StatusDisabled, PasswordHash: hash}, nil, `{"username":"ghost","password":"pw123456"}`, http.StatusForbidden, KindForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(mocks.UserRepositoryMock)
			router := newTestRouter(0, "")
			router.POST("/auth/token", NewAuthHandler(users, auth.NewIssuer("secret", time.Minute), nil).Token)
			users.On("GetUserByLogin", mock.Anything, "ghost").Return(tc.user, tc.err).Once()

			rec := doJSON(router, http.MethodPost, "/auth/token", tc.body)

			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.kind, decodeBody(t, rec)["kind"])
		})
	}
}

func TestTokenMissingFields(t *testing.T) {
	router := newTestRouter(0, "")
	router.POST("/auth/token", NewAuthHandler(new(mocks.UserRepositoryMock), auth.NewIssuer("secret", time.Minute), nil).Token)

	rec := doJSON(router, http.MethodPost, "/auth/token", `{"username":"alice"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, KindValidation, body["kind"])
	assert.Contains(t, body["fields"], "password")
}

func TestMeAndStudents(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(users, auth.NewIssuer("secret", time.Minute), nil)
	router := newTestRouter(7, models.RoleTeacher)
	router.GET("/auth/user/me", handler.Me)
	router.GET("/auth/students", handler.ListStudents)

	users.On("GetUser", mock.Anything, 7).Return(models.User{ID: 7, Name: "t", PasswordHash: "secret-hash"}, nil).Once()
	users.On("ListUsersByRole", mock.Anything, models.RoleStudent).
		Return([]models.User{{ID: 8, Name: "s", Email: "s@example.com", Role: models.RoleStudent}}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/auth/user/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-hash")

	rec = doJSON(router, http.MethodGet, "/auth/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":8,"name":"s","email":"s@example.com","role":"student"}]`, rec.Body.String())
	users.AssertExpectations(t)
}

func TestAdminCreateUser(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAdminHandler(users, nil)
	router := newTestRouter(1, models.RoleAdmin)
	router.POST("/admin/users", handler.CreateUser)

	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Name == "bob" && u.Role == models.RoleStudent && auth.CheckPassword(u.PasswordHash, "secret1") == nil
	})).Return(models.User{ID: 2, Name: "bob", Role: models.RoleStudent}, nil).Once()

	rec := doJSON(router, http.MethodPost, "/admin/users", `{"name":"bob","email":"bob@example.com","role":"student","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	users.AssertExpectations(t)
}

func TestAdminCreateUserConflictAndValidation(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := newTestRouter(1, models.RoleAdmin)
	router.POST("/admin/users", NewAdminHandler(users, nil).CreateUser)

	users.On("CreateUser", mock.Anything, mock.Anything).Return(nil, repositories.ErrUserExists).Once()
	rec := doJSON(router, http.MethodPost, "/admin/users", `{"name":"bob","email":"bob@example.com","role":"student","password":"secret1"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, KindConflict, decodeBody(t, rec)["kind"])

	rec = doJSON(router, http.MethodPost, "/admin/users", `{"name":"bob","email":"not-an-email","role":"wizard","password":"secret1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeBody(t, rec)["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "role")
}

func TestAdminGetUserNotFound(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := newTestRouter(1, models.RoleAdmin)
	router.GET("/admin/users/:id", NewAdminHandler(users, nil).GetUser)

	users.On("GetUser", mock.Anything, 42).Return(nil, repositories.ErrUserNotFound).Once()

	rec := doJSON(router, http.MethodGet, "/admin/users/42", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, KindNotFound, decodeBody(t, rec)["kind"])
}
