package task

import (
	"errors"
	"net/http"
	"time"

	"taskpanel/dto"
	"taskpanel/services"

	"github.com/gin-gonic/gin"
)

func Createtask(c *gin.Context, svc *services.TaskService, users *services.UserService) {
	user, ok := currentUser(c, users)
	if !ok {
		return
	}

	var taskReq dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var dueDate *time.Time
	if taskReq.DueDate != "" {
		parsedDate, err := time.Parse(time.RFC3339, taskReq.DueDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid dueDate format"})
			return
		}
		dueDate = &parsedDate
	}

	newtask := services.NewTask{
		Title:       taskReq.Title,
		Description: taskReq.Description,
		AssigneeID:  taskReq.AssigneeID,
		DueDate:     dueDate,
	}

	task, err := svc.Create(c.Request.Context(), newtask, *user)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAssigneeNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAssigneeNotEmployee):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to create task"})
		}
		return
	}

	c.JSON(http.StatusCreated, task)
}
