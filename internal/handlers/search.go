package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/httpx"
	"github.com/nassimdv/workload-app/internal/models"
)

type SearchHandler struct {
	DB *gorm.DB
}

func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{DB: db}
}

// Search: GET /search?q=; substring match over tasks, projects, and users.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_query", nil)
		return
	}
	like := "%" + strings.ToLower(q) + "%"

	var tasks []models.Task
	if err := h.DB.WithContext(r.Context()).
		Where("lower(title) LIKE ? OR lower(description) LIKE ?", like, like).
		Find(&tasks).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "search_failed", nil)
		return
	}
	var projects []models.Project
	if err := h.DB.WithContext(r.Context()).
		Where("lower(name) LIKE ? OR lower(description) LIKE ?", like, like).
		Find(&projects).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "search_failed", nil)
		return
	}
	var users []models.User
	if err := h.DB.WithContext(r.Context()).
		Where("lower(username) LIKE ?", like).
		Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "search_failed", nil)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"tasks":    tasks,
		"projects": projects,
		"users":    users,
	})
}
