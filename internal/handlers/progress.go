package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"course-service/internal/middleware"
	"course-service/internal/models"
	"course-service/internal/repositories"
)

const (
	defaultTrendDays = 7
	maxTrendDays     = 365
)

// ProgressHandler records watch progress and reports learning statistics.
type ProgressHandler struct {
	progress repositories.ProgressRepository
	now      func() time.Time
}

func NewProgressHandler(progress repositories.ProgressRepository) *ProgressHandler {
	return &ProgressHandler{progress: progress, now: time.Now}
}

// Get returns the caller's progress in a course.
func (h *ProgressHandler) Get(c *gin.Context) {
	courseID, ok := paramID(c, "course_id")
	if !ok {
		return
	}
	p, err := h.progress.GetProgress(c.Request.Context(), courseID, c.GetInt(middleware.ContextUserID))
	if err != nil {
		respondRepoError(c, err, "load progress")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Save upserts the caller's progress in a course.
func (h *ProgressHandler) Save(c *gin.Context) {
	var req models.SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.progress.SaveProgress(c.Request.Context(), c.GetInt(middleware.ContextUserID), req)
	if err != nil {
		respondRepoError(c, err, "save progress")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProgressHandler) Overview(c *gin.Context) {
	overview, err := h.progress.Overview(c.Request.Context())
	if err != nil {
		respondRepoError(c, err, "load overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *ProgressHandler) CourseStats(c *gin.Context) {
	courseID, ok := paramID(c, "course_id")
	if !ok {
		return
	}
	stats, err := h.progress.CourseStats(c.Request.Context(), courseID)
	if err != nil {
		respondRepoError(c, err, "load course stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Trend reports daily learners and completions over the last ?days (default 7).
func (h *ProgressHandler) Trend(c *gin.Context) {
	days := defaultTrendDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxTrendDays {
			respondError(c, http.StatusBadRequest, KindInvalidRequest, "days must be between 1 and 365")
			return
		}
		days = parsed
	}

	since := h.now().UTC().AddDate(0, 0, -days)
	records, err := h.progress.ListSince(c.Request.Context(), since)
	if err != nil {
		respondRepoError(c, err, "load trend")
		return
	}
	c.JSON(http.StatusOK, models.BuildTrend(records, since))
}

func (h *ProgressHandler) UserStats(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	stats, err := h.progress.UserStats(c.Request.Context(), userID)
	if err != nil {
		respondRepoError(c, err, "load user stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
