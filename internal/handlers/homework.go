package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"course-service/internal/middleware"
	"course-service/internal/models"
	"course-service/internal/repositories"
	"course-service/internal/telemetry"
)

// HomeworkHandler manages homework, submissions and grading.
type HomeworkHandler struct {
	homework repositories.HomeworkRepository
	users    repositories.UserRepository
	audit    *telemetry.AuditEmitter
}

func NewHomeworkHandler(homework repositories.HomeworkRepository, users repositories.UserRepository, audit *telemetry.AuditEmitter) *HomeworkHandler {
	return &HomeworkHandler{homework: homework, users: users, audit: audit}
}

// List returns every homework with answer, graded and student counts.
func (h *HomeworkHandler) List(c *gin.Context) {
	list, err := h.homework.ListHomework(c.Request.Context())
	if err != nil {
		respondRepoError(c, err, "list homework")
		return
	}
	students, err := h.users.CountByRole(c.Request.Context(), models.RoleStudent)
	if err != nil {
		respondRepoError(c, err, "count students")
		return
	}
	for i := range list {
		list[i].UserCount = students
	}
	c.JSON(http.StatusOK, list)
}

// ListForStudent returns every homework with the caller's answer and status.
func (h *HomeworkHandler) ListForStudent(c *gin.Context) {
	views, err := h.homework.ListForStudent(c.Request.Context(), c.GetInt(middleware.ContextUserID))
	if err != nil {
		respondRepoError(c, err, "list homework")
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *HomeworkHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	hw, err := h.homework.GetHomework(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "load homework")
		return
	}
	c.JSON(http.StatusOK, hw)
}

func (h *HomeworkHandler) Create(c *gin.Context) {
	var req models.NewHomework
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	hw, err := h.homework.CreateHomework(c.Request.Context(), req)
	if err != nil {
		respondRepoError(c, err, "create homework")
		return
	}
	audit(c, h.audit, "homework created: "+hw.Title)
	c.JSON(http.StatusCreated, hw)
}

// Submit stores the caller's answer; a second submission replaces the first.
func (h *HomeworkHandler) Submit(c *gin.Context) {
	var req models.NewHomeworkAnswer
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	answer, err := h.homework.SubmitAnswer(c.Request.Context(), c.GetInt(middleware.ContextUserID), req)
	if err != nil {
		respondRepoError(c, err, "submit answer")
		return
	}
	c.JSON(http.StatusOK, answer)
}

// Answers lists a homework's answers with the submitting users.
func (h *HomeworkHandler) Answers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.homework.GetHomework(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "load homework")
		return
	}
	answers, err := h.homework.ListAnswers(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "list answers")
		return
	}

	userIDs := lo.Uniq(lo.Map(answers, func(a models.HomeworkAnswer, _ int) int { return a.UserID }))
	users, err := h.users.GetUsersByIDs(c.Request.Context(), userIDs)
	if err != nil {
		respondRepoError(c, err, "load users")
		return
	}
	byID := lo.KeyBy(users, func(u models.User) int { return u.ID })

	c.JSON(http.StatusOK, lo.Map(answers, func(a models.HomeworkAnswer, _ int) models.HomeworkAnswerView {
		view := models.HomeworkAnswerView{HomeworkAnswer: a}
		if u, ok := byID[a.UserID]; ok {
			v := u.View()
			view.User = &v
		}
		return view
	}))
}

// Score grades an answer between 0 and 100.
func (h *HomeworkHandler) Score(c *gin.Context) {
	answerID, ok := paramID(c, "answer_id")
	if !ok {
		return
	}
	var req models.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	answer, err := h.homework.ScoreAnswer(c.Request.Context(), answerID, *req.Score, req.Comment)
	if err != nil {
		respondRepoError(c, err, "score answer")
		return
	}
	audit(c, h.audit, "homework answer "+strconv.Itoa(answer.ID)+" graded")
	c.JSON(http.StatusOK, answer)
}
