package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/email"
	"github.com/nassimdv/workload-app/internal/httpx"
	"github.com/nassimdv/workload-app/internal/models"
)

type TaskHandler struct {
	DB     *gorm.DB
	Email  email.Service
	Logger *zap.Logger
}

func NewTaskHandler(db *gorm.DB, mail email.Service, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{DB: db, Email: mail, Logger: logger}
}

// List: GET /tasks?projectId=; tasks of one project with their relations.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(r.URL.Query().Get("projectId"))
	if err != nil || projectID <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_project_id", nil)
		return
	}
	var tasks []models.Task
	err = h.DB.WithContext(r.Context()).
		Where("project_id = ?", projectID).
		Preload("Author").Preload("Assignee").Preload("Devis").
		Find(&tasks).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_tasks", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, tasks)
}

type taskReq struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	Tags           *string  `json:"tags"`
	StartDate      *string  `json:"startDate"`
	DueDate        *string  `json:"dueDate"`
	WorkingDays    *float64 `json:"workingDays"`
	ProjectID      *uint    `json:"projectId"`
	AuthorUserID   *uint    `json:"authorUserId"`
	AssignedUserID *uint    `json:"assignedUserId"`
	DevisID        *string  `json:"devisId"`
}

// Create: POST /tasks; only provided fields are set. When the task carries
// both an author and an assignee, assignment mails go out best-effort.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Title == nil || *req.Title == "" || req.ProjectID == nil || *req.ProjectID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed",
			map[string]string{"title": "required", "projectId": "required"})
		return
	}
	task := models.Task{Title: *req.Title, ProjectID: *req.ProjectID}
	applyTaskFields(&task, req)

	if err := h.DB.WithContext(r.Context()).Create(&task).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_task", nil)
		return
	}
	h.notifyAssignment(r, task)
	httpx.JSON(w, http.StatusCreated, task)
}

// Update: PATCH /tasks/{id}; partial update, absent fields untouched.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req taskReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var task models.Task
	if err := h.DB.WithContext(r.Context()).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "task_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_task", nil)
		return
	}
	if req.Title != nil && *req.Title != "" {
		task.Title = *req.Title
	}
	applyTaskFields(&task, req)
	if err := h.DB.WithContext(r.Context()).Save(&task).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_task", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

// UpdateStatus: PATCH /tasks/{id}/status
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var task models.Task
	if err := h.DB.WithContext(r.Context()).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "task_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_task", nil)
		return
	}
	if err := h.DB.WithContext(r.Context()).Model(&task).Update("status", req.Status).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_task", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

// UserTasks: GET /tasks/user/{userId}; tasks authored by or assigned to the user.
func (h *TaskHandler) UserTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.PathValue("userId"))
	if err != nil || userID <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_user_id", nil)
		return
	}
	var tasks []models.Task
	err = h.DB.WithContext(r.Context()).
		Where("author_user_id = ? OR assigned_user_id = ?", userID, userID).
		Preload("Author").Preload("Assignee").
		Find(&tasks).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_tasks", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, tasks)
}

// Delete: DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var task models.Task
	if err := h.DB.WithContext(r.Context()).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "task_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_task", nil)
		return
	}
	if err := h.DB.WithContext(r.Context()).Delete(&task).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_task", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "task deleted successfully", "task": task})
}

func applyTaskFields(task *models.Task, req taskReq) {
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}
	if req.WorkingDays != nil {
		task.WorkingDays = req.WorkingDays
	}
	if req.StartDate != nil {
		task.StartDate = parseTimePtr(*req.StartDate)
	}
	if req.DueDate != nil {
		task.DueDate = parseTimePtr(*req.DueDate)
	}
	if req.AuthorUserID != nil {
		task.AuthorUserID = req.AuthorUserID
	}
	if req.AssignedUserID != nil {
		task.AssignedUserID = req.AssignedUserID
	}
	if req.DevisID != nil {
		task.DevisID = req.DevisID
	}
}

// notifyAssignment sends the assignee/assigner mail pair. Failures are
// logged and swallowed: mail never fails the request.
func (h *TaskHandler) notifyAssignment(r *http.Request, task models.Task) {
	if h.Email == nil || task.AssignedUserID == nil || task.AuthorUserID == nil {
		return
	}
	ctx := r.Context()
	var assignee, author models.User
	if err := h.DB.WithContext(ctx).First(&assignee, *task.AssignedUserID).Error; err != nil {
		return
	}
	if err := h.DB.WithContext(ctx).First(&author, *task.AuthorUserID).Error; err != nil {
		return
	}
	if assignee.Email == "" || author.Email == "" {
		return
	}
	var project models.Project
	_ = h.DB.WithContext(ctx).First(&project, task.ProjectID).Error
	dac := ""
	if task.DevisID != nil {
		var devis models.Devis
		if err := h.DB.WithContext(ctx).First(&devis, "id = ?", *task.DevisID).Error; err == nil {
			dac = devis.NumeroDac
		}
	}
	due := ""
	if task.DueDate != nil {
		due = task.DueDate.Format("2006-01-02")
	}
	toAssignee, toAssigner := email.Assignment(email.AssignmentParams{
		AssigneeEmail: assignee.Email,
		AssignerEmail: author.Email,
		AssignerName:  author.Username,
		TaskTitle:     task.Title,
		DevisDac:      dac,
		ProjectName:   project.Name,
		DueDate:       due,
	})
	for _, msg := range []email.Message{toAssignee, toAssigner} {
		if err := h.Email.Send(ctx, msg); err != nil && h.Logger != nil {
			h.Logger.Error("assignment email failed", zap.String("to", msg.To), zap.Error(err))
		}
	}
}
