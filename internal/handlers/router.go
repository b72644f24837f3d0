package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/examhub/exam-service/docs"
	"github.com/examhub/exam-service/internal/models"
	"github.com/examhub/exam-service/internal/services"
)

// HandlerManager bundles all HTTP handlers.
type HandlerManager struct {
	Auth         *AuthHandler
	User         *UserHandler
	Exam         *ExamHandler
	Question     *QuestionHandler
	Submission   *SubmissionHandler
	Notification *NotificationHandler
	Statistics   *StatisticsHandler

	authService services.AuthService
}

func NewHandlerManager(sm *services.ServiceManager) *HandlerManager {
	return &HandlerManager{
		Auth:         NewAuthHandler(sm.Auth, sm.User),
		User:         NewUserHandler(sm.User),
		Exam:         NewExamHandler(sm.Exam, sm.Export),
		Question:     NewQuestionHandler(sm.Question),
		Submission:   NewSubmissionHandler(sm.Submission),
		Notification: NewNotificationHandler(sm.Notification),
		Statistics:   NewStatisticsHandler(sm.Statistics),

		authService: sm.Auth,
	}
}

// SetupRoutes registers every route under the /api prefix.
func (m *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", m.Auth.Login)
	}

	authenticated := api.Group("")
	authenticated.Use(AuthMiddleware(m.authService))
	{
		authenticated.POST("/auth/register", RequireRoles(models.RoleAdmin), m.Auth.Register)
		authenticated.GET("/auth/profile", m.Auth.Profile)
		authenticated.POST("/auth/change-password", m.Auth.ChangePassword)

		users := authenticated.Group("/users")
		{
			users.GET("/:id", m.User.GetByID)
			users.PATCH("/:id", m.User.Update)

			admin := users.Group("")
			admin.Use(RequireRoles(models.RoleAdmin))
			{
				admin.POST("", m.User.Create)
				admin.GET("", m.User.List)
				admin.DELETE("/:id", m.User.Delete)
				admin.POST("/:id/reset-password", m.User.ResetPassword)
				admin.POST("/:id/role", m.User.ChangeRole)
				admin.POST("/:id/toggle-active", m.User.ToggleActive)
			}
		}

		exams := authenticated.Group("/exams")
		{
			exams.GET("", m.Exam.List)
			exams.GET("/active", m.Exam.GetActive)
			exams.GET("/upcoming", m.Exam.GetUpcoming)
			exams.GET("/:id", m.Exam.GetByID)

			staff := exams.Group("")
			staff.Use(RequireRoles(models.RoleAdmin, models.RoleTeacher))
			{
				staff.POST("", m.Exam.Create)
				staff.GET("/mine", m.Exam.GetMine)
				staff.GET("/creator/:creatorId", m.Exam.GetByCreator)
				staff.PATCH("/:id", m.Exam.Update)
				staff.DELETE("/:id", m.Exam.Delete)
				staff.POST("/:id/publish", m.Exam.Publish)
				staff.GET("/:id/export", m.Exam.ExportResults)
				staff.GET("/:id/statistics", m.Statistics.GetByExam)
				staff.GET("/:id/submissions", m.Submission.GetByExam)

				staff.POST("/:id/questions", m.Question.Create)
				staff.GET("/:id/questions", m.Question.GetByExam)
				staff.PUT("/:id/questions/order", m.Question.Reorder)
			}
		}

		questions := authenticated.Group("/questions")
		questions.Use(RequireRoles(models.RoleAdmin, models.RoleTeacher))
		{
			questions.GET("/:id", m.Question.GetByID)
			questions.PATCH("/:id", m.Question.Update)
			questions.DELETE("/:id", m.Question.Delete)
		}

		submissions := authenticated.Group("/submissions")
		{
			submissions.POST("", RequireRoles(models.RoleStudent), m.Submission.Start)
			submissions.GET("/mine", m.Submission.GetMine)
			submissions.GET("", RequireRoles(models.RoleAdmin), m.Submission.List)
			submissions.GET("/:id", m.Submission.GetByID)
			submissions.PUT("/:id/answers", RequireRoles(models.RoleStudent), m.Submission.SaveAnswers)
			submissions.POST("/:id/complete", RequireRoles(models.RoleStudent), m.Submission.Complete)
			submissions.POST("/:id/grade", RequireRoles(models.RoleAdmin, models.RoleTeacher), m.Submission.Grade)
			submissions.DELETE("/:id", RequireRoles(models.RoleAdmin, models.RoleTeacher), m.Submission.Delete)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.POST("", RequireRoles(models.RoleAdmin, models.RoleTeacher), m.Notification.Create)
			notifications.GET("", m.Notification.GetMine)
			notifications.GET("/all", RequireRoles(models.RoleAdmin), m.Notification.List)
			notifications.GET("/user/:userId", m.Notification.GetByUser)
			notifications.GET("/unread", m.Notification.GetUnread)
			notifications.GET("/:id", m.Notification.GetByID)
			notifications.PATCH("/:id", RequireRoles(models.RoleAdmin), m.Notification.Update)
			notifications.POST("/:id/read", m.Notification.MarkRead)
			notifications.POST("/read-all", m.Notification.MarkAllRead)
			notifications.DELETE("/:id", m.Notification.Delete)
		}
	}
}
