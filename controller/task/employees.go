package task

import (
	"net/http"

	"taskpanel/dto"
	"taskpanel/services"

	"github.com/gin-gonic/gin"
)

func ListEmployees(c *gin.Context, svc *services.TaskService) {
	employees, err := svc.Employees(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to list employees"})
		return
	}

	responses := make([]dto.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, dto.EmployeeResponse{
			ID:        emp.ID,
			FirstName: emp.FirstName,
			LastName:  emp.LastName,
		})
	}

	c.JSON(http.StatusOK, responses)
}
