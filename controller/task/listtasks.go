package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"taskpanel/dto"
	"taskpanel/model"
	"taskpanel/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ListTasks(c *gin.Context, svc *services.TaskService, users *services.UserService) {
	user, ok := currentUser(c, users)
	if !ok {
		return
	}

	query, ok := parseTaskQuery(c)
	if !ok {
		return
	}

	tasks, hasNextPage, err := svc.List(c.Request.Context(), query, *user)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedSortField) || errors.Is(err, services.ErrUnsupportedSortOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        tasks,
		"hasNextPage": hasNextPage,
	})
}

// parseTaskQuery deserializes page/limit plus the JSON-valued filters and
// sort query parameters, validating them before they reach the service.
func parseTaskQuery(c *gin.Context) (services.TaskQuery, bool) {
	var query services.TaskQuery

	page, ok := parsePositiveInt(c, "page")
	if !ok {
		return query, false
	}
	limit, ok := parsePositiveInt(c, "limit")
	if !ok {
		return query, false
	}
	query.Page = page
	query.Limit = limit

	if raw := c.Query("filters"); raw != "" {
		var filters dto.TaskFilters
		if err := json.Unmarshal([]byte(raw), &filters); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filters parameter"})
			return query, false
		}
		if err := validate.Struct(filters); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filters parameter"})
			return query, false
		}
		for _, a := range filters.Assignees {
			query.AssigneeIDs = append(query.AssigneeIDs, a.ID)
		}
		for _, s := range filters.Statuses {
			query.Statuses = append(query.Statuses, model.TaskStatus(s.Value))
		}
	}

	if raw := c.Query("sort"); raw != "" {
		var sortOptions []dto.TaskSortOption
		if err := json.Unmarshal([]byte(raw), &sortOptions); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort parameter"})
			return query, false
		}
		if len(sortOptions) > 0 {
			if err := validate.Struct(sortOptions[0]); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort parameter"})
				return query, false
			}
			query.SortBy = sortOptions[0].OrderBy
			query.Order = sortOptions[0].Order
		}
	}

	return query, true
}

func parsePositiveInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return value, true
}
