package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"course-service/internal/auth"
	"course-service/internal/config"
	"course-service/internal/handlers"
	"course-service/internal/middleware"
	"course-service/internal/models"
	"course-service/internal/observability"
	"course-service/internal/repositories"
	"course-service/internal/telemetry"
	"course-service/internal/ws"
)

type routerDeps struct {
	cfg    config.Config
	db     *sqlx.DB
	issuer *auth.Issuer
	hub    *ws.Hub
	events *observability.EventEmitter
	audit  *telemetry.AuditEmitter

	users    repositories.UserRepository
	courses  repositories.CourseRepository
	homework repositories.HomeworkRepository
	practice repositories.PracticeRepository
	progress repositories.ProgressRepository
	messages repositories.MessageRepository
}

func newRouter(d routerDeps) *gin.Engine {
	if d.cfg.Environment != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		observability.RequestLogger(),
		observability.HTTPMetricsMiddleware(),
		middleware.CORS(),
	)

	router.GET("/metrics", observability.MetricsHandler())
	router.GET("/healthz", func(c *gin.Context) {
		if err := d.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	handlers.RegisterDebugRoutes(router, d.audit, d.cfg.DebugRoutes)

	authHandler := handlers.NewAuthHandler(d.users, d.issuer, d.audit)
	adminHandler := handlers.NewAdminHandler(d.users, d.audit)
	courseHandler := handlers.NewCourseHandler(d.courses, d.users, d.cfg.UploadDir, d.cfg.MaxUploadBytes, d.audit)
	homeworkHandler := handlers.NewHomeworkHandler(d.homework, d.users, d.audit)
	practiceHandler := handlers.NewPracticeHandler(d.practice, d.audit)
	progressHandler := handlers.NewProgressHandler(d.progress)
	chatHandler := handlers.NewChatHandler(d.messages, d.hub)
	chatWS := ws.NewChatWebSocketHandler(d.hub, d.messages, d.issuer, d.events, d.cfg.MalformedFramePolicy)

	authMiddleware := middleware.AuthMiddleware(d.issuer)
	teacherOnly := middleware.RequireRole(models.RoleTeacher)
	staffOnly := middleware.RequireRole(models.RoleTeacher, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := router.Group("/api")
	api.Static("/static", d.cfg.UploadDir)

	api.POST("/auth/token", authHandler.Token)
	api.GET("/auth/user/me", authMiddleware, authHandler.Me)
	api.GET("/auth/user", authMiddleware, authHandler.ListUsers)
	api.GET("/auth/students", authMiddleware, teacherOnly, authHandler.ListStudents)

	admin := api.Group("/admin", authMiddleware, adminOnly)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)

	api.GET("/course", courseHandler.List)
	api.GET("/course/categories", courseHandler.Categories)
	api.GET("/course/:id", courseHandler.Get)
	api.POST("/course", authMiddleware, staffOnly, courseHandler.Upload)
	api.DELETE("/course/:id", authMiddleware, staffOnly, courseHandler.Delete)

	api.GET("/homework", homeworkHandler.List)
	api.GET("/homework/student", authMiddleware, homeworkHandler.ListForStudent)
	api.GET("/homework/:id", homeworkHandler.Get)
	api.POST("/homework", authMiddleware, teacherOnly, homeworkHandler.Create)
	api.POST("/homework/answer", authMiddleware, homeworkHandler.Submit)
	api.GET("/homework/:id/answer", authMiddleware, staffOnly, homeworkHandler.Answers)
	api.PUT("/homework/answer/:answer_id/score", authMiddleware, teacherOnly, homeworkHandler.Score)

	api.GET("/practice", practiceHandler.List)
	api.GET("/practice/:id", practiceHandler.Get)
	api.POST("/practice", authMiddleware, teacherOnly, practiceHandler.Create)
	api.POST("/practice/answer", authMiddleware, practiceHandler.Submit)
	api.GET("/practice/answer/:practice_id", authMiddleware, staffOnly, practiceHandler.Answers)
	api.PUT("/practice/:practice_id/score/:answer_id", authMiddleware, teacherOnly, practiceHandler.Score)

	progress := api.Group("/progress", authMiddleware)
	progress.GET("/:course_id", progressHandler.Get)
	progress.POST("", progressHandler.Save)
	progress.GET("/stats/overview", progressHandler.Overview)
	progress.GET("/stats/course/:course_id", progressHandler.CourseStats)
	progress.GET("/stats/trend", progressHandler.Trend)
	progress.GET("/stats/user/:user_id", progressHandler.UserStats)

	api.GET("/chat/ws/:user_id", chatWS.Handle)
	api.GET("/chat/messages/:user_id", authMiddleware, chatHandler.GetMessages)
	api.POST("/chat/messages", authMiddleware, chatHandler.PostMessage)
	api.GET("/chat/unread", authMiddleware, chatHandler.UnreadCount)

	return router
}
