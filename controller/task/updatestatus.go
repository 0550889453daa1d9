package task

import (
	"errors"
	"net/http"
	"strconv"

	"taskpanel/dto"
	"taskpanel/model"
	"taskpanel/services"

	"github.com/gin-gonic/gin"
)

func UpdateStatus(c *gin.Context, svc *services.TaskService, users *services.UserService) {
	user, ok := currentUser(c, users)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var statusReq dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&statusReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, err := svc.UpdateStatus(c.Request.Context(), uint(id), model.TaskStatus(statusReq.Status), *user)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrStatusConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to update task status"})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}
