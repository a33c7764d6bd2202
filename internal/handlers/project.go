package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/httpx"
	"github.com/nassimdv/workload-app/internal/models"
	"github.com/nassimdv/workload-app/internal/validation"
)

type ProjectHandler struct {
	DB *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{DB: db}
}

// List: GET /projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	if err := h.DB.WithContext(r.Context()).Find(&projects).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_projects", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, projects)
}

// Create: POST /projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		StartDate   string  `json:"startDate"`
		EndDate     string  `json:"endDate"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   parseTimePtr(req.StartDate),
		EndDate:     parseTimePtr(req.EndDate),
	}
	if err := h.DB.WithContext(r.Context()).Create(&project).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_project", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, project)
}
