package task

import (
	"errors"
	"net/http"
	"strconv"

	"taskpanel/services"

	"github.com/gin-gonic/gin"
)

func GetTask(c *gin.Context, svc *services.TaskService, users *services.UserService) {
	user, ok := currentUser(c, users)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	task, err := svc.Get(c.Request.Context(), uint(id), *user)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to fetch task"})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}
