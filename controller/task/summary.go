package task

import (
	"net/http"

	"taskpanel/services"

	"github.com/gin-gonic/gin"
)

func Summary(c *gin.Context, svc *services.TaskService) {
	summaries, err := svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to summarize tasks"})
		return
	}

	if len(summaries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, summaries)
}
