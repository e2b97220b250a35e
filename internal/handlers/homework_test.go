package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"course-service/internal/mocks"
	"course-service/internal/models"
	"course-service/internal/repositories"
)

func TestListHomeworkAddsStudentCount(t *testing.T) {
	hw := new(mocks.HomeworkRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	router := newTestRouter(1, models.RoleTeacher)
	router.GET("/homework", NewHomeworkHandler(hw, users, nil).List)

	hw.On("ListHomework", mock.Anything).Return([]models.HomeworkSummary{
		{Homework: models.Homework{ID: 1, Title: "Essay"}, AnswerCount: 2, ScoreCount: 1},
	}, nil).Once()
	users.On("CountByRole", mock.Anything, models.RoleStudent).Return(5, nil).Once()

	rec := doJSON(router, http.MethodGet, "/homework", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	require.NoError(t, jsonUnmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.EqualValues(t, 2, body[0]["answer_count"])
	assert.EqualValues(t, 1, body[0]["score_count"])
	assert.EqualValues(t, 5, body[0]["user_count"])
}

func TestSubmitHomeworkAnswer(t *testing.T) {
	hw := new(mocks.HomeworkRepositoryMock)
	router := newTestRouter(4, models.RoleStudent)
	router.POST("/homework/answer", NewHomeworkHandler(hw, nil, nil).Submit)

	path := "essay.pdf"
	hw.On("SubmitAnswer", mock.Anything, 4, models.NewHomeworkAnswer{HomeworkID: 1, FilePath: path}).
		Return(models.HomeworkAnswer{ID: 9, HomeworkID: 1, UserID: 4, FilePath: &path}, nil).Once()
	hw.On("SubmitAnswer", mock.Anything, 4, models.NewHomeworkAnswer{HomeworkID: 99, FilePath: path}).
		Return(nil, repositories.ErrHomeworkNotFound).Once()

	rec := doJSON(router, http.MethodPost, "/homework/answer", `{"homework_id":1,"file_path":"essay.pdf"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodPost, "/homework/answer", `{"homework_id":99,"file_path":"essay.pdf"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	hw.AssertExpectations(t)
}

func TestScoreHomeworkAnswer(t *testing.T) {
	hw := new(mocks.HomeworkRepositoryMock)
	router := newTestRouter(1, models.RoleTeacher)
	router.PUT("/homework/answer/:answer_id/score", NewHomeworkHandler(hw, nil, nil).Score)

	score := 88
	hw.On("ScoreAnswer", mock.Anything, 9, 88, (*string)(nil)).
		Return(models.HomeworkAnswer{ID: 9, Score: &score}, nil).Once()

	rec := doJSON(router, http.MethodPut, "/homework/answer/9/score", `{"score":88}`)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, body := range []string{`{"score":101}`, `{"score":-1}`, `{}`} {
		rec = doJSON(router, http.MethodPut, "/homework/answer/9/score", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, KindValidation, decodeBody(t, rec)["kind"], body)
	}
	hw.AssertExpectations(t)
}

func TestHomeworkAnswersIncludeUsers(t *testing.T) {
	hw := new(mocks.HomeworkRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	router := newTestRouter(1, models.RoleTeacher)
	router.GET("/homework/:id/answer", NewHomeworkHandler(hw, users, nil).Answers)

	hw.On("GetHomework", mock.Anything, 1).Return(models.Homework{ID: 1}, nil).Once()
	hw.On("ListAnswers", mock.Anything, 1).Return([]models.HomeworkAnswer{
		{ID: 1, HomeworkID: 1, UserID: 4},
		{ID: 2, HomeworkID: 1, UserID: 5},
	}, nil).Once()
	users.On("GetUsersByIDs", mock.Anything, []int{4, 5}).Return([]models.User{{ID: 4, Name: "s4"}}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/homework/1/answer", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	require.NoError(t, jsonUnmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "s4", body[0]["user"].(map[string]any)["name"])
	assert.Nil(t, body[1]["user"])
}

func TestCreateHomeworkValidation(t *testing.T) {
	hw := new(mocks.HomeworkRepositoryMock)
	router := newTestRouter(1, models.RoleTeacher)
	router.POST("/homework", NewHomeworkHandler(hw, nil, nil).Create)

	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	hw.On("CreateHomework", mock.Anything, models.NewHomework{Title: "Essay", Deadline: deadline}).
		Return(models.Homework{ID: 3, Title: "Essay", Deadline: deadline}, nil).Once()

	rec := doJSON(router, http.MethodPost, "/homework", `{"title":"Essay","deadline":"2030-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(router, http.MethodPost, "/homework", `{"title":"  ","deadline":"2030-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "this field cannot be blank", decodeBody(t, rec)["fields"].(map[string]any)["title"])
}

func TestPracticeScore(t *testing.T) {
	practices := new(mocks.PracticeRepositoryMock)
	router := newTestRouter(1, models.RoleTeacher)
	router.PUT("/practice/:practice_id/score/:answer_id", NewPracticeHandler(practices, nil).Score)

	score := 75.5
	practices.On("ScoreAnswer", mock.Anything, 2, 3, 75.5, (*string)(nil)).
		Return(models.PracticeAnswer{ID: 3, PracticeID: 2, Score: &score}, nil).Once()
	practices.On("ScoreAnswer", mock.Anything, 2, 4, 10.0, (*string)(nil)).
		Return(nil, repositories.ErrAnswerNotFound).Once()

	rec := doJSON(router, http.MethodPut, "/practice/2/score/3", `{"score":75.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodPut, "/practice/2/score/4", `{"score":10}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	practices.AssertExpectations(t)
}
