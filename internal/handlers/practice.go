package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"course-service/internal/middleware"
	"course-service/internal/models"
	"course-service/internal/repositories"
	"course-service/internal/telemetry"
)

type PracticeHandler struct {
	practices repositories.PracticeRepository
	audit     *telemetry.AuditEmitter
}

func NewPracticeHandler(practices repositories.PracticeRepository, audit *telemetry.AuditEmitter) *PracticeHandler {
	return &PracticeHandler{practices: practices, audit: audit}
}

func (h *PracticeHandler) List(c *gin.Context) {
	list, err := h.practices.ListPractices(c.Request.Context())
	if err != nil {
		respondRepoError(c, err, "list practices")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PracticeHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.practices.GetPractice(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "load practice")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PracticeHandler) Create(c *gin.Context) {
	var req models.NewPractice
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.practices.CreatePractice(c.Request.Context(), req)
	if err != nil {
		respondRepoError(c, err, "create practice")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PracticeHandler) Submit(c *gin.Context) {
	var req models.NewPracticeAnswer
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	answer, err := h.practices.SubmitAnswer(c.Request.Context(), c.GetInt(middleware.ContextUserID), req)
	if err != nil {
		respondRepoError(c, err, "submit answer")
		return
	}
	c.JSON(http.StatusCreated, answer)
}

func (h *PracticeHandler) Answers(c *gin.Context) {
	id, ok := paramID(c, "practice_id")
	if !ok {
		return
	}
	answers, err := h.practices.ListAnswers(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "list answers")
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *PracticeHandler) Score(c *gin.Context) {
	practiceID, ok := paramID(c, "practice_id")
	if !ok {
		return
	}
	answerID, ok := paramID(c, "answer_id")
	if !ok {
		return
	}
	var req models.PracticeScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	answer, err := h.practices.ScoreAnswer(c.Request.Context(), practiceID, answerID, *req.Score, req.Comment)
	if err != nil {
		respondRepoError(c, err, "score answer")
		return
	}
	audit(c, h.audit, "practice answer "+strconv.Itoa(answer.ID)+" graded")
	c.JSON(http.StatusOK, answer)
}
