package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-service/internal/auth"
	"course-service/internal/models"
	"course-service/internal/repositories"
	"course-service/internal/telemetry"
)

// AdminHandler manages accounts.
type AdminHandler struct {
	users repositories.UserRepository
	audit *telemetry.AuditEmitter
}

func NewAdminHandler(users repositories.UserRepository, audit *telemetry.AuditEmitter) *AdminHandler {
	return &AdminHandler{users: users, audit: audit}
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req models.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindInternal, "failed to hash password")
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), models.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		Status:       models.StatusActive,
		PasswordHash: hash,
	})
	if err != nil {
		respondRepoError(c, err, "create user")
		return
	}

	audit(c, h.audit, "user created: "+user.Name)
	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondRepoError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "load user")
		return
	}
	c.JSON(http.StatusOK, user)
}
