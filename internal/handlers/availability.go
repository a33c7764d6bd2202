package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/httpx"
	"github.com/nassimdv/workload-app/internal/models"
	"github.com/nassimdv/workload-app/internal/validation"
)

type AvailabilityHandler struct {
	DB *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{DB: db}
}

// List: GET /availabilities; every declared week with the owning username
// for the capacity calendar.
func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	var availabilities []models.Availability
	err := h.DB.WithContext(r.Context()).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("user_id", "username")
		}).
		Find(&availabilities).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_availabilities", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, availabilities)
}

// ListForUser: GET /availabilities/{userId}
func (h *AvailabilityHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.PathValue("userId"))
	if err != nil || userID <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_user_id", nil)
		return
	}
	var availabilities []models.Availability
	if err := h.DB.WithContext(r.Context()).Where("user_id = ?", userID).Find(&availabilities).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_availabilities", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, availabilities)
}

// Create: POST /availabilities
func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID        uint    `json:"userId"`
		WeekStart     string  `json:"weekStart"`
		DaysAvailable float64 `json:"daysAvailable"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	weekStart := validation.RequiredDate("weekStart", req.WeekStart, v)
	if req.UserID == 0 {
		v["userId"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	availability := models.Availability{
		UserID:        req.UserID,
		WeekStart:     *weekStart,
		DaysAvailable: req.DaysAvailable,
	}
	if err := h.DB.WithContext(r.Context()).Create(&availability).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_availability", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, availability)
}

// Update: PUT /availabilities/{id}; only the declared day count changes.
func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req struct {
		DaysAvailable float64 `json:"daysAvailable"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var availability models.Availability
	if err := h.DB.WithContext(r.Context()).First(&availability, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "availability_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_availability", nil)
		return
	}
	if err := h.DB.WithContext(r.Context()).Model(&availability).Update("days_available", req.DaysAvailable).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_availability", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, availability)
}

// Delete: DELETE /availabilities/{id}
func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var availability models.Availability
	if err := h.DB.WithContext(r.Context()).First(&availability, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "availability_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_availability", nil)
		return
	}
	if err := h.DB.WithContext(r.Context()).Delete(&availability).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_availability", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, availability)
}
