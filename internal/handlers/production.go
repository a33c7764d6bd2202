package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/httpx"
	"github.com/nassimdv/workload-app/internal/models"
	"github.com/nassimdv/workload-app/internal/services"
)

type ProductionHandler struct {
	DB  *gorm.DB
	Svc *services.Production
}

func NewProductionHandler(db *gorm.DB, svc *services.Production) *ProductionHandler {
	return &ProductionHandler{DB: db, Svc: svc}
}

// Compute: POST /production-rates {year}; full recompute of the year's
// per-user monthly rates. Missing or zero year falls back to the current one.
func (h *ProductionHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year int `json:"year"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	year := req.Year
	if year <= 0 {
		year = time.Now().Year()
	}
	rates, err := h.Svc.ComputeMonthlyRates(r.Context(), year)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_compute_rates", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, rates)
}

// List: GET /production-rates; all persisted rows with minimal user fields,
// newest month first, then user ascending.
func (h *ProductionHandler) List(w http.ResponseWriter, r *http.Request) {
	var rates []models.MonthlyProductionRate
	err := h.DB.WithContext(r.Context()).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("user_id", "username", "profile")
		}).
		Order("month desc, user_id asc").
		Find(&rates).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_rates", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, rates)
}
