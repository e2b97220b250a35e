package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"course-service/internal/mocks"
	"course-service/internal/models"
	"course-service/internal/repositories"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/course", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func setupCourseRouter(handler *CourseHandler) *gin.Engine {
	r := newTestRouter(3, models.RoleTeacher)
	r.POST("/course", handler.Upload)
	r.GET("/course", handler.List)
	r.GET("/course/categories", handler.Categories)
	r.GET("/course/:id", handler.Get)
	r.DELETE("/course/:id", handler.Delete)
	return r
}

func TestUploadCourse(t *testing.T) {
	dir := t.TempDir()
	courses := new(mocks.CourseRepositoryMock)
	handler := NewCourseHandler(courses, new(mocks.UserRepositoryMock), dir, 1<<20, nil)
	handler.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	router := setupCourseRouter(handler)

	courses.On("CreateCourse", mock.Anything, mock.MatchedBy(func(c models.Course) bool {
		return c.Title == "Intro" && c.Category == "go" && c.CreatorID == 3 &&
			regexp.MustCompile(`^notes_20240506_070809_[0-9a-f]{8}\.pdf$`).MatchString(c.FilePath)
	})).Return(models.Course{ID: 1, Title: "Intro", FilePath: "stored.pdf"}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "notes.pdf", pdfBytes, map[string]string{"title": "Intro", "category": "go"}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	saved, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, saved)
	courses.AssertExpectations(t)
}

func TestUploadCourseRejections(t *testing.T) {
	fields := map[string]string{"title": "Intro", "category": "go"}
	cases := []struct {
		name     string
		filename string
		content  []byte
		fields   map[string]string
		maxBytes int64
	}{
		{"missing file", "", nil, fields, 1 << 20},
		{"bad extension", "tool.exe", pdfBytes, fields, 1 << 20},
		{"content does not match", "movie.mp4", []byte("just some plain text pretending to be a video"), fields, 1 << 20},
		{"too large", "notes.pdf", pdfBytes, fields, 16},
		{"missing title", "notes.pdf", pdfBytes, map[string]string{"category": "go"}, 1 << 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			courses := new(mocks.CourseRepositoryMock)
			router := setupCourseRouter(NewCourseHandler(courses, new(mocks.UserRepositoryMock), dir, tc.maxBytes, nil))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, multipartUpload(t, tc.filename, tc.content, tc.fields))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			entries, _ := os.ReadDir(dir)
			assert.Empty(t, entries)
			courses.AssertNotCalled(t, "CreateCourse", mock.Anything, mock.Anything)
		})
	}
}

func TestGetCourseWithCreator(t *testing.T) {
	courses := new(mocks.CourseRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	router := setupCourseRouter(NewCourseHandler(courses, users, t.TempDir(), 1<<20, nil))

	courses.On("GetCourse", mock.Anything, 1).Return(models.Course{ID: 1, Title: "Intro", CreatorID: 3}, nil).Once()
	users.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3, Name: "teacher", Role: models.RoleTeacher}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/course/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	creator := decodeBody(t, rec)["creator"].(map[string]any)
	assert.Equal(t, "teacher", creator["name"])
}

func TestListCoursesByCategory(t *testing.T) {
	courses := new(mocks.CourseRepositoryMock)
	router := setupCourseRouter(NewCourseHandler(courses, nil, t.TempDir(), 1<<20, nil))

	courses.On("ListCourses", mock.Anything, "go").Return([]models.Course{{ID: 1, Category: "go"}}, nil).Once()
	courses.On("ListCategories", mock.Anything).Return([]string{"db", "go"}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/course?category=go", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/course/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["db","go"]`, rec.Body.String())
	courses.AssertExpectations(t)
}

func TestDeleteCourse(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), pdfBytes, 0o644))
	courses := new(mocks.CourseRepositoryMock)
	router := setupCourseRouter(NewCourseHandler(courses, nil, dir, 1<<20, nil))

	courses.On("GetCourse", mock.Anything, 1).Return(models.Course{ID: 1, FilePath: "a.pdf"}, nil).Once()
	courses.On("DeleteCourse", mock.Anything, 1).Return(nil).Once()
	courses.On("GetCourse", mock.Anything, 2).Return(nil, repositories.ErrCourseNotFound).Once()

	rec := doJSON(router, http.MethodDelete, "/course/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, err := os.Stat(filepath.Join(dir, "a.pdf"))
	assert.True(t, os.IsNotExist(err))

	rec = doJSON(router, http.MethodDelete, "/course/2", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUniqueFilename(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a := uniqueFilename("../lecture one.mp4", now)
	b := uniqueFilename("../lecture one.mp4", now)

	assert.Regexp(t, `^lecture one_20240102_030405_[0-9a-f]{8}\.mp4$`, a)
	assert.NotEqual(t, a, b)
}
