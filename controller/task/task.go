package task

import (
	"net/http"

	"taskpanel/middleware"
	"taskpanel/model"
	"taskpanel/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func TaskController(router *gin.Engine, db *gorm.DB) {
	userStore := services.NewGormUserStore(db)
	svc := services.NewTaskService(services.NewGormTaskStore(db), userStore)
	users := services.NewUserService(userStore)

	routes := router.Group("/v1/tasks", middleware.AccessTokenMiddleware())
	{
		routes.GET("", func(c *gin.Context) {
			ListTasks(c, svc, users)
		})
		routes.GET("/summary", func(c *gin.Context) {
			Summary(c, svc)
		})
		routes.GET("/employees", func(c *gin.Context) {
			ListEmployees(c, svc)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetTask(c, svc, users)
		})
		routes.POST("", func(c *gin.Context) {
			Createtask(c, svc, users)
		})
		routes.PATCH("/:id/status", func(c *gin.Context) {
			UpdateStatus(c, svc, users)
		})
	}
}

// currentUser resolves the authenticated caller from the userId claim.
func currentUser(c *gin.Context, users *services.UserService) (*model.User, bool) {
	userId := c.MustGet("userId").(uint)
	user, err := users.GetByID(c.Request.Context(), userId)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return nil, false
	}
	return user, true
}
