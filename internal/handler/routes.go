package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/cache"
	"github.com/studyflow/api/internal/content"
	"github.com/studyflow/api/internal/middleware"
	"github.com/studyflow/api/internal/notify"
	"gorm.io/gorm"
)

// RegisterRoutes wires every API route onto the router. redisCache may be
// nil; the tag handler degrades to SQL-only.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, redisCache *cache.RedisCache, jwtSecret string) {
	registry := content.NewRegistry()
	notifier := notify.NewDispatcher(db)

	questionHandler := NewQuestionHandler(db, notifier)
	answerHandler := NewAnswerHandler(db, notifier)
	voteHandler := NewVoteHandler(db, registry)
	commentHandler := NewCommentHandler(db, registry)
	reportHandler := NewReportHandler(db, registry)
	tagHandler := NewTagHandler(db, redisCache)
	notificationHandler := NewNotificationHandler(db)
	dashboardHandler := NewDashboardHandler(db)

	authRequired := middleware.AuthMiddleware(jwtSecret)
	instructorOnly := middleware.InstructorMiddleware(jwtSecret)

	api := r.Group("/api")
	{
		// Questions
		api.GET("/questions", questionHandler.List)
		api.POST("/questions", authRequired, questionHandler.Create)
		api.GET("/questions/:id", questionHandler.Get)
		api.PUT("/questions/:id", authRequired, questionHandler.Update)
		api.PATCH("/questions/:id", authRequired, questionHandler.Update)
		api.DELETE("/questions/:id", authRequired, questionHandler.Delete)

		// Answers
		api.GET("/answers", answerHandler.List)
		api.POST("/answers", authRequired, answerHandler.Create)
		api.GET("/answers/:id", answerHandler.Get)
		api.PUT("/answers/:id", authRequired, answerHandler.Update)
		api.PATCH("/answers/:id", authRequired, answerHandler.Update)
		api.DELETE("/answers/:id", authRequired, answerHandler.Delete)
		api.POST("/answers/:id/mark-best", authRequired, answerHandler.MarkBest)

		// Votes
		api.POST("/votes", authRequired, voteHandler.Create)
		api.GET("/votes", voteHandler.List)

		// Comments
		api.POST("/comments", authRequired, commentHandler.Create)
		api.GET("/comments", commentHandler.List)
		api.PATCH("/comments/:id", authRequired, commentHandler.Update)
		api.DELETE("/comments/:id", authRequired, commentHandler.Delete)

		// Reports
		api.POST("/reports", authRequired, reportHandler.Create)
		api.GET("/reports", instructorOnly, reportHandler.List)
		api.POST("/reports/:id/resolve", instructorOnly, reportHandler.Resolve)

		// Tags
		api.GET("/tags", tagHandler.List)
		api.POST("/tags", authRequired, tagHandler.Create)
		api.GET("/tags/popular", tagHandler.Popular)
		api.GET("/tags/:id", tagHandler.Get)

		// Notifications
		api.GET("/notifications", authRequired, notificationHandler.List)
		api.POST("/notifications/:id/mark-read", authRequired, notificationHandler.MarkRead)

		// Dashboard
		api.GET("/dashboard", authRequired, dashboardHandler.Get)
	}
}
