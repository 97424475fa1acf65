package api

import (
	"net/http"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	studentService service.StudentService,
	routineService service.RoutineService,
	assignmentService service.AssignmentService,
	retentionService service.RetentionService,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	studentHandler := NewStudentHandler(studentService, retentionService)
	routineHandler := NewRoutineHandler(routineService)
	assignmentHandler := NewAssignmentHandler(assignmentService)

	authMiddleware := AuthMiddleware(jwtSecret)
	manageOnly := RoleMiddleware(domain.RoleAdmin, domain.RoleProfessor)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"user_id": userIDStr, "role": role})
		})

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.POST("", manageOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", manageOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", manageOnly, exerciseHandler.DeleteExercise)
		}

		studentGroup := protected.Group("/students")
		{
			studentGroup.GET("", studentHandler.ListStudents)
			studentGroup.GET("/:id", studentHandler.GetStudent)
			studentGroup.POST("", manageOnly, studentHandler.CreateStudent)
			studentGroup.PUT("/:id", manageOnly, studentHandler.UpdateStudent)
			studentGroup.PATCH("/:id/status", manageOnly, studentHandler.SetStudentStatus)
			studentGroup.DELETE("/:id", manageOnly, studentHandler.DeleteStudent)
		}

		routineGroup := protected.Group("/routines")
		{
			routineGroup.GET("", routineHandler.ListRoutines)
			routineGroup.GET("/:id", routineHandler.GetRoutine)
			routineGroup.POST("", manageOnly, routineHandler.CreateRoutine)
			routineGroup.PUT("/:id", manageOnly, routineHandler.UpdateRoutine)
			routineGroup.DELETE("/:id", manageOnly, routineHandler.DeleteRoutine)
		}

		assignmentGroup := protected.Group("/assignments")
		{
			assignmentGroup.GET("", assignmentHandler.ListAssignments)
			assignmentGroup.POST("", manageOnly, assignmentHandler.CreateAssignment)
			assignmentGroup.DELETE("/:id", manageOnly, assignmentHandler.DeleteAssignment)
		}
	}
}
