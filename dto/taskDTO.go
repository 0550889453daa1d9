package dto

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssigneeID  uint   `json:"assigneeId" binding:"required"`
	DueDate     string `json:"dueDate"` // RFC3339, optional
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TaskFilters is the wire shape of the "filters" query parameter, sent
// JSON-serialized by the list-view client.
type TaskFilters struct {
	Assignees []AssigneeFilter `json:"assignees" validate:"omitempty,dive"`
	Statuses  []StatusFilter   `json:"statuses" validate:"omitempty,dive"`
}

type AssigneeFilter struct {
	ID uint `json:"id" validate:"required"`
}

type StatusFilter struct {
	Value string `json:"value" validate:"required,oneof=Pending InProgress Completed"`
}

// TaskSortOption is one element of the JSON-serialized "sort" query
// parameter. The server applies the first element.
type TaskSortOption struct {
	OrderBy string `json:"orderBy" validate:"required,oneof=createdAt dueDate status"`
	Order   string `json:"order" validate:"required,oneof=ASC DESC"`
}

type EmployeeResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
