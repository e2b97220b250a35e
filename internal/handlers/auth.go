package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"course-service/internal/auth"
	"course-service/internal/middleware"
	"course-service/internal/models"
	"course-service/internal/repositories"
	"course-service/internal/telemetry"
)

// AuthHandler issues tokens and exposes the caller's account.
type AuthHandler struct {
	users  repositories.UserRepository
	issuer *auth.Issuer
	audit  *telemetry.AuditEmitter
}

func NewAuthHandler(users repositories.UserRepository, issuer *auth.Issuer, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, audit: audit}
}

type tokenRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Token exchanges a name (or email) and password for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.GetUserByLogin(c.Request.Context(), req.Username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		respondError(c, http.StatusUnauthorized, KindUnauthorized, auth.ErrBadCredentials.Error())
		return
	}
	if err != nil {
		respondRepoError(c, err, "load user")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		respondError(c, http.StatusUnauthorized, KindUnauthorized, err.Error())
		return
	}
	if !user.IsActive() {
		respondError(c, http.StatusForbidden, KindForbidden, "account is not active")
		return
	}

	token, expiresIn, err := h.issuer.Issue(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindInternal, "failed to issue token")
		return
	}

	c.Set(middleware.ContextUserID, user.ID)
	audit(c, h.audit, "user logged in")
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer", "expires_in": expiresIn})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.GetInt(middleware.ContextUserID))
	if err != nil {
		respondRepoError(c, err, "load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers returns every account.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondRepoError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListStudents returns the public view of every student.
func (h *AuthHandler) ListStudents(c *gin.Context) {
	students, err := h.users.ListUsersByRole(c.Request.Context(), models.RoleStudent)
	if err != nil {
		respondRepoError(c, err, "list students")
		return
	}
	c.JSON(http.StatusOK, lo.Map(students, func(u models.User, _ int) models.UserView { return u.View() }))
}
