package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"course-service/internal/middleware"
	"course-service/internal/models"
	"course-service/internal/observability"
	"course-service/internal/repositories"
	"course-service/internal/telemetry"
)

// multipartOverhead leaves room for the form fields around the file part.
const multipartOverhead = 1 << 20

var allowedExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".ogg": true, ".mov": true, ".avi": true,
	".wmv": true, ".flv": true, ".m4v": true, ".mkv": true, ".pdf": true,
}

// CourseHandler manages course uploads and listings.
type CourseHandler struct {
	courses   repositories.CourseRepository
	users     repositories.UserRepository
	uploadDir string
	maxBytes  int64
	audit     *telemetry.AuditEmitter
	now       func() time.Time
}

func NewCourseHandler(courses repositories.CourseRepository, users repositories.UserRepository, uploadDir string, maxBytes int64, audit *telemetry.AuditEmitter) *CourseHandler {
	return &CourseHandler{
		courses:   courses,
		users:     users,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
		audit:     audit,
		now:       time.Now,
	}
}

type courseForm struct {
	Title       string `form:"title" binding:"required,notblank"`
	Description string `form:"description"`
	Category    string `form:"category" binding:"required,notblank"`
}

// Upload stores a video or PDF and creates its course record.
func (h *CourseHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	var form courseForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusBadRequest, KindInvalidRequest, "file is larger than the upload limit")
			return
		}
		respondBindError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, KindInvalidRequest, "file is required")
		return
	}
	if header.Size > h.maxBytes {
		respondError(c, http.StatusBadRequest, KindInvalidRequest, "file is larger than the upload limit")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		respondError(c, http.StatusBadRequest, KindInvalidRequest, "only video or PDF files are accepted")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, KindInvalidRequest, "unreadable file")
		return
	}
	mt, err := mimetype.DetectReader(file)
	_ = file.Close()
	if err != nil || !allowedContent(mt) {
		respondError(c, http.StatusBadRequest, KindInvalidRequest, "file content is not a video or PDF")
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, KindInternal, "failed to prepare upload directory")
		return
	}
	name := uniqueFilename(header.Filename, h.now())
	if err := c.SaveUploadedFile(header, filepath.Join(h.uploadDir, name)); err != nil {
		observability.LoggerFromContext(c.Request.Context()).Error("save upload", zap.Error(err))
		respondError(c, http.StatusInternalServerError, KindInternal, "failed to save file")
		return
	}

	course, err := h.courses.CreateCourse(c.Request.Context(), models.Course{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		FilePath:    name,
		CreatorID:   c.GetInt(middleware.ContextUserID),
	})
	if err != nil {
		_ = os.Remove(filepath.Join(h.uploadDir, name))
		respondRepoError(c, err, "create course")
		return
	}

	audit(c, h.audit, "course uploaded: "+course.Title)
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.ListCourses(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondRepoError(c, err, "list courses")
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Categories(c *gin.Context) {
	categories, err := h.courses.ListCategories(c.Request.Context())
	if err != nil {
		respondRepoError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Get returns a course together with its creator.
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	course, err := h.courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "load course")
		return
	}

	view := models.CourseView{Course: course}
	creator, err := h.users.GetUser(c.Request.Context(), course.CreatorID)
	switch {
	case err == nil:
		v := creator.View()
		view.Creator = &v
	case !errors.Is(err, repositories.ErrUserNotFound):
		respondRepoError(c, err, "load course creator")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete removes the course record and its file.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	course, err := h.courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err, "load course")
		return
	}
	if err := h.courses.DeleteCourse(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "delete course")
		return
	}
	if err := os.Remove(filepath.Join(h.uploadDir, course.FilePath)); err != nil && !os.IsNotExist(err) {
		observability.LoggerFromContext(c.Request.Context()).Warn("remove course file", zap.String("file", course.FilePath), zap.Error(err))
	}

	audit(c, h.audit, "course deleted: "+course.Title)
	c.Status(http.StatusNoContent)
}

// uniqueFilename builds <name>_<yyyymmdd_hhmmss>_<8 hex><ext>.
func uniqueFilename(original string, now time.Time) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return name + "_" + now.Format("20060102_150405") + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ext
}

// allowedContent accepts PDFs, videos, and containers mimetype cannot name.
func allowedContent(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/pdf") || m.Is("application/ogg") || strings.HasPrefix(m.String(), "video/") {
			return true
		}
	}
	return mt.Is("application/octet-stream")
}
