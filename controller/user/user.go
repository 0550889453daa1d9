package user

import (
	"errors"
	"net/http"

	"taskpanel/dto"
	"taskpanel/middleware"
	"taskpanel/model"
	"taskpanel/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func UserController(router *gin.Engine, db *gorm.DB) {
	svc := services.NewUserService(services.NewGormUserStore(db))

	routes := router.Group("/user", middleware.AccessTokenMiddleware(), middleware.AdminMiddleware())
	{
		routes.GET("/all", func(c *gin.Context) {
			ListUsers(c, svc)
		})
		routes.POST("/create", func(c *gin.Context) {
			CreateUser(c, svc)
		})
	}
}

func ListUsers(c *gin.Context, svc *services.UserService) {
	users, err := svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, users)
}

func CreateUser(c *gin.Context, svc *services.UserService) {
	var request dto.CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := svc.Create(c.Request.Context(), services.NewUser{
		Email:     request.Email,
		Password:  request.Password,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Role:      model.Role(request.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}
