package routes

import (
	"classquiz/handlers"
	"classquiz/middleware"
	"classquiz/models"
	"classquiz/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	testHandler *handlers.TestHandler,
	studentHandler *handlers.StudentHandler,
	authService *services.AuthService,
) {
	// Public routes
	router.GET("/", authHandler.Home)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// Teacher routes
	admin := router.Group("/admin")
	admin.Use(middleware.RequireRole(authService, models.RoleAdmin))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/classes", adminHandler.MyClasses)
		admin.GET("/classes/:classId", adminHandler.ViewClass)
		admin.GET("/classes/:classId/students/:studentId/tests", adminHandler.ViewStudentTests)

		admin.GET("/tests", testHandler.MyTests)
		admin.POST("/tests", testHandler.CreateTest)
		admin.GET("/tests/:quizId", testHandler.EditTest)
		admin.POST("/tests/:quizId/basic", testHandler.UpdateTestBasic)
		admin.POST("/tests/:quizId/questions", testHandler.SaveQuestion)
		admin.POST("/tests/:quizId/questions/:questionId/delete", testHandler.DeleteQuestion)
	}

	// Student routes
	student := router.Group("/student")
	student.Use(middleware.RequireRole(authService, models.RoleStudent))
	{
		student.GET("/dashboard", studentHandler.Dashboard)
		student.GET("/tests/:quizId", studentHandler.TakeTest)
		student.POST("/tests/:quizId", studentHandler.SubmitTest)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
