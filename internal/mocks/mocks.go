package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"course-service/internal/auth"
	"course-service/internal/models"
	"course-service/internal/repositories"
)

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, fromUserID int, toUserID int, content string) (models.Message, error) {
	args := m.Called(ctx, fromUserID, toUserID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetConversation(ctx context.Context, userA int, userB int) ([]models.Message, error) {
	args := m.Called(ctx, userA, userB)
	var list []models.Message
	if val := args.Get(0); val != nil {
		list = val.([]models.Message)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) ReadConversation(ctx context.Context, readerID int, otherID int) ([]models.Message, error) {
	args := m.Called(ctx, readerID, otherID)
	var list []models.Message
	if val := args.Get(0); val != nil {
		list = val.([]models.Message)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) CountUnread(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var out models.User
	if val := args.Get(0); val != nil {
		out = val.(models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var out models.User
	if val := args.Get(0); val != nil {
		out = val.(models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var out models.User
	if val := args.Get(0); val != nil {
		out = val.(models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByLogin(ctx context.Context, login string) (models.User, error) {
	args := m.Called(ctx, login)
	var out models.User
	if val := args.Get(0); val != nil {
		out = val.(models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) GetUsersByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var list []models.User
	if val := args.Get(0); val != nil {
		list = val.([]models.User)
	}
	return list, args.Error(1)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var list []models.User
	if val := args.Get(0); val != nil {
		list = val.([]models.User)
	}
	return list, args.Error(1)
}

func (m *UserRepositoryMock) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	args := m.Called(ctx, role)
	var list []models.User
	if val := args.Get(0); val != nil {
		list = val.([]models.User)
	}
	return list, args.Error(1)
}

func (m *UserRepositoryMock) CountByRole(ctx context.Context, role string) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

type CourseRepositoryMock struct {
	mock.Mock
}

func (m *CourseRepositoryMock) CreateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	args := m.Called(ctx, course)
	var out models.Course
	if val := args.Get(0); val != nil {
		out = val.(models.Course)
	}
	return out, args.Error(1)
}

func (m *CourseRepositoryMock) GetCourse(ctx context.Context, courseID int) (models.Course, error) {
	args := m.Called(ctx, courseID)
	var out models.Course
	if val := args.Get(0); val != nil {
		out = val.(models.Course)
	}
	return out, args.Error(1)
}

func (m *CourseRepositoryMock) ListCourses(ctx context.Context, category string) ([]models.Course, error) {
	args := m.Called(ctx, category)
	var list []models.Course
	if val := args.Get(0); val != nil {
		list = val.([]models.Course)
	}
	return list, args.Error(1)
}

func (m *CourseRepositoryMock) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var list []string
	if val := args.Get(0); val != nil {
		list = val.([]string)
	}
	return list, args.Error(1)
}

func (m *CourseRepositoryMock) DeleteCourse(ctx context.Context, courseID int) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

type HomeworkRepositoryMock struct {
	mock.Mock
}

func (m *HomeworkRepositoryMock) CreateHomework(ctx context.Context, hw models.NewHomework) (models.Homework, error) {
	args := m.Called(ctx, hw)
	var out models.Homework
	if val := args.Get(0); val != nil {
		out = val.(models.Homework)
	}
	return out, args.Error(1)
}

func (m *HomeworkRepositoryMock) GetHomework(ctx context.Context, homeworkID int) (models.Homework, error) {
	args := m.Called(ctx, homeworkID)
	var out models.Homework
	if val := args.Get(0); val != nil {
		out = val.(models.Homework)
	}
	return out, args.Error(1)
}

func (m *HomeworkRepositoryMock) ListHomework(ctx context.Context) ([]models.HomeworkSummary, error) {
	args := m.Called(ctx)
	var list []models.HomeworkSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.HomeworkSummary)
	}
	return list, args.Error(1)
}

func (m *HomeworkRepositoryMock) ListForStudent(ctx context.Context, userID int) ([]models.HomeworkStudentView, error) {
	args := m.Called(ctx, userID)
	var list []models.HomeworkStudentView
	if val := args.Get(0); val != nil {
		list = val.([]models.HomeworkStudentView)
	}
	return list, args.Error(1)
}

func (m *HomeworkRepositoryMock) SubmitAnswer(ctx context.Context, userID int, answer models.NewHomeworkAnswer) (models.HomeworkAnswer, error) {
	args := m.Called(ctx, userID, answer)
	var out models.HomeworkAnswer
	if val := args.Get(0); val != nil {
		out = val.(models.HomeworkAnswer)
	}
	return out, args.Error(1)
}

func (m *HomeworkRepositoryMock) ListAnswers(ctx context.Context, homeworkID int) ([]models.HomeworkAnswer, error) {
	args := m.Called(ctx, homeworkID)
	var list []models.HomeworkAnswer
	if val := args.Get(0); val != nil {
		list = val.([]models.HomeworkAnswer)
	}
	return list, args.Error(1)
}

func (m *HomeworkRepositoryMock) GetAnswer(ctx context.Context, answerID int) (models.HomeworkAnswer, error) {
	args := m.Called(ctx, answerID)
	var out models.HomeworkAnswer
	if val := args.Get(0); val != nil {
		out = val.(models.HomeworkAnswer)
	}
	return out, args.Error(1)
}

func (m *HomeworkRepositoryMock) ScoreAnswer(ctx context.Context, answerID int, score int, comment *string) (models.HomeworkAnswer, error) {
	args := m.Called(ctx, answerID, score, comment)
	var out models.HomeworkAnswer
	if val := args.Get(0); val != nil {
		out = val.(models.HomeworkAnswer)
	}
	return out, args.Error(1)
}

type PracticeRepositoryMock struct {
	mock.Mock
}

func (m *PracticeRepositoryMock) CreatePractice(ctx context.Context, p models.NewPractice) (models.Practice, error) {
	args := m.Called(ctx, p)
	var out models.Practice
	if val := args.Get(0); val != nil {
		out = val.(models.Practice)
	}
	return out, args.Error(1)
}

func (m *PracticeRepositoryMock) GetPractice(ctx context.Context, practiceID int) (models.Practice, error) {
	args := m.Called(ctx, practiceID)
	var out models.Practice
	if val := args.Get(0); val != nil {
		out = val.(models.Practice)
	}
	return out, args.Error(1)
}

func (m *PracticeRepositoryMock) ListPractices(ctx context.Context) ([]models.Practice, error) {
	args := m.Called(ctx)
	var list []models.Practice
	if val := args.Get(0); val != nil {
		list = val.([]models.Practice)
	}
	return list, args.Error(1)
}

func (m *PracticeRepositoryMock) SubmitAnswer(ctx context.Context, userID int, answer models.NewPracticeAnswer) (models.PracticeAnswer, error) {
	args := m.Called(ctx, userID, answer)
	var out models.PracticeAnswer
	if val := args.Get(0); val != nil {
		out = val.(models.PracticeAnswer)
	}
	return out, args.Error(1)
}

func (m *PracticeRepositoryMock) ListAnswers(ctx context.Context, practiceID int) ([]models.PracticeAnswer, error) {
	args := m.Called(ctx, practiceID)
	var list []models.PracticeAnswer
	if val := args.Get(0); val != nil {
		list = val.([]models.PracticeAnswer)
	}
	return list, args.Error(1)
}

func (m *PracticeRepositoryMock) ScoreAnswer(ctx context.Context, practiceID int, answerID int, score float64, comment *string) (models.PracticeAnswer, error) {
	args := m.Called(ctx, practiceID, answerID, score, comment)
	var out models.PracticeAnswer
	if val := args.Get(0); val != nil {
		out = val.(models.PracticeAnswer)
	}
	return out, args.Error(1)
}

type ProgressRepositoryMock struct {
	mock.Mock
}

func (m *ProgressRepositoryMock) GetProgress(ctx context.Context, courseID int, userID int) (models.Progress, error) {
	args := m.Called(ctx, courseID, userID)
	var out models.Progress
	if val := args.Get(0); val != nil {
		out = val.(models.Progress)
	}
	return out, args.Error(1)
}

func (m *ProgressRepositoryMock) SaveProgress(ctx context.Context, userID int, req models.SaveProgressRequest) (models.Progress, error) {
	args := m.Called(ctx, userID, req)
	var out models.Progress
	if val := args.Get(0); val != nil {
		out = val.(models.Progress)
	}
	return out, args.Error(1)
}

func (m *ProgressRepositoryMock) Overview(ctx context.Context) (models.ProgressOverview, error) {
	args := m.Called(ctx)
	var out models.ProgressOverview
	if val := args.Get(0); val != nil {
		out = val.(models.ProgressOverview)
	}
	return out, args.Error(1)
}

func (m *ProgressRepositoryMock) CourseStats(ctx context.Context, courseID int) (models.CourseStats, error) {
	args := m.Called(ctx, courseID)
	var out models.CourseStats
	if val := args.Get(0); val != nil {
		out = val.(models.CourseStats)
	}
	return out, args.Error(1)
}

func (m *ProgressRepositoryMock) UserStats(ctx context.Context, userID int) (models.UserLearningStats, error) {
	args := m.Called(ctx, userID)
	var out models.UserLearningStats
	if val := args.Get(0); val != nil {
		out = val.(models.UserLearningStats)
	}
	return out, args.Error(1)
}

func (m *ProgressRepositoryMock) ListSince(ctx context.Context, since time.Time) ([]models.Progress, error) {
	args := m.Called(ctx, since)
	var list []models.Progress
	if val := args.Get(0); val != nil {
		list = val.([]models.Progress)
	}
	return list, args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(token string) (auth.Claims, error) {
	args := m.Called(token)
	var claims auth.Claims
	if val := args.Get(0); val != nil {
		claims = val.(auth.Claims)
	}
	return claims, args.Error(1)
}

var (
	_ repositories.MessageRepository  = (*MessageRepositoryMock)(nil)
	_ repositories.UserRepository     = (*UserRepositoryMock)(nil)
	_ repositories.CourseRepository   = (*CourseRepositoryMock)(nil)
	_ repositories.HomeworkRepository = (*HomeworkRepositoryMock)(nil)
	_ repositories.PracticeRepository = (*PracticeRepositoryMock)(nil)
	_ repositories.ProgressRepository = (*ProgressRepositoryMock)(nil)
	_ auth.Resolver                   = (*ResolverMock)(nil)
)
