package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/httpx"
	"github.com/nassimdv/workload-app/internal/models"
	"github.com/nassimdv/workload-app/internal/services"
	"github.com/nassimdv/workload-app/internal/validation"
)

type DevisHandler struct {
	DB        *gorm.DB
	Lifecycle *services.Lifecycle
}

func NewDevisHandler(db *gorm.DB, lifecycle *services.Lifecycle) *DevisHandler {
	return &DevisHandler{DB: db, Lifecycle: lifecycle}
}

// List: GET /devis; advances expired statuses, then returns every devis
// with its user associations.
func (h *DevisHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.Lifecycle.AdvanceExpired(r.Context()); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_devis_statuses", nil)
		return
	}
	var devisList []models.Devis
	if err := h.DB.WithContext(r.Context()).Preload("Users").Find(&devisList).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_devis", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, devisList)
}

// CreateEmpty: POST /devis; a manager reserves a DAC number; everything else
// is filled in later through the full update.
func (h *DevisHandler) CreateEmpty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NumeroDac string `json:"numero_dac"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("numero_dac", req.NumeroDac, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	devis := models.Devis{
		ID:        uuid.NewString(),
		NumeroDac: req.NumeroDac,
		Version:   1,
	}
	if err := h.DB.WithContext(r.Context()).Create(&devis).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_devis", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, devis)
}

// Get: GET /devis/{id}; includes user associations and their user records.
func (h *DevisHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var devis models.Devis
	err := h.DB.WithContext(r.Context()).Preload("Users.User").First(&devis, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "devis_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_devis", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, devis)
}

type devisUserReq struct {
	User struct {
		Username  string  `json:"username"`
		CognitoID string  `json:"cognitoId"`
		Profile   *string `json:"profile"`
	} `json:"user"`
}

type devisUpdateReq struct {
	Libelle           string         `json:"libelle"`
	DateEmission      string         `json:"date_emission"`
	Pole              string         `json:"pole"`
	Application       string         `json:"application"`
	DateDebut         string         `json:"date_debut"`
	DateFin           string         `json:"date_fin"`
	ChargeHJ          *float64       `json:"charge_hj"`
	Montant           float64        `json:"montant"`
	Statut            string         `json:"statut"`
	StatutRealisation string         `json:"statut_realisation"`
	JourHommeConsomme *float64       `json:"jour_homme_consomme"`
	Ecart             *float64       `json:"ecart"`
	HommeJourActive   bool           `json:"hommeJourActive"`
	Users             []devisUserReq `json:"users"`
}

// Update: PUT /devis/{id}; full-record update. Emission/start/end dates are
// all required and must parse; the user-association set is replaced wholesale
// (join rows dropped and recreated, user records upserted by
// username/cognitoId match).
func (h *DevisHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req devisUpdateReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	v := validation.Violations{}
	dateEmission := validation.RequiredDate("date_emission", req.DateEmission, v)
	dateDebut := validation.RequiredDate("date_debut", req.DateDebut, v)
	dateFin := validation.RequiredDate("date_fin", req.DateFin, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date_format", v)
		return
	}

	var devis models.Devis
	if err := h.DB.WithContext(r.Context()).First(&devis, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "devis_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_devis", nil)
		return
	}

	// Upsert each referenced user, collecting join rows to recreate.
	userIDs := make([]uint, 0, len(req.Users))
	for _, uw := range req.Users {
		username := strings.TrimSpace(uw.User.Username)
		cognitoID := strings.TrimSpace(uw.User.CognitoID)
		if username == "" || cognitoID == "" {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed",
				map[string]string{"users": "username_and_cognito_id_required"})
			return
		}
		var existing models.User
		err := h.DB.WithContext(r.Context()).
			Where("username = ? OR cognito_id = ?", username, cognitoID).
			First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]any{"profile": uw.User.Profile, "username": username}
			if err := h.DB.WithContext(r.Context()).Model(&existing).Updates(updates).Error; err != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "failed_to_process_user",
					map[string]string{"username": username})
				return
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = models.User{CognitoID: cognitoID, Username: username, Profile: uw.User.Profile}
			if err := h.DB.WithContext(r.Context()).Create(&existing).Error; err != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "failed_to_process_user",
					map[string]string{"username": username})
				return
			}
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_process_user",
				map[string]string{"username": username})
			return
		}
		userIDs = append(userIDs, existing.UserID)
	}

	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"libelle":             req.Libelle,
			"date_emission":       dateEmission,
			"pole":                req.Pole,
			"application":         req.Application,
			"date_debut":          dateDebut,
			"date_fin":            dateFin,
			"charge_hj":           req.ChargeHJ,
			"montant":             req.Montant,
			"statut":              req.Statut,
			"statut_realisation":  req.StatutRealisation,
			"jour_homme_consomme": req.JourHommeConsomme,
			"ecart":               req.Ecart,
			"homme_jour_active":   req.HommeJourActive,
		}
		if err := tx.Model(&models.Devis{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("devis_id = ?", id).Delete(&models.UserDevis{}).Error; err != nil {
			return err
		}
		for _, uid := range userIDs {
			if err := tx.Create(&models.UserDevis{DevisID: id, UserID: uid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_devis", nil)
		return
	}

	var updated models.Devis
	if err := h.DB.WithContext(r.Context()).Preload("Users").First(&updated, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_devis", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete: DELETE /devis/{id}; join rows go first so no dangling references
// survive the devis itself.
func (h *DevisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var devis models.Devis
	if err := h.DB.WithContext(r.Context()).First(&devis, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "devis_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_devis", nil)
		return
	}
	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("devis_id = ?", id).Delete(&models.UserDevis{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Devis{}, "id = ?", id).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_devis", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "devis deleted successfully"})
}

// parseTimePtr is shared by the task handler for optional date fields.
func parseTimePtr(value string) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	t, err := validation.ParseDate(value)
	if err != nil {
		return nil
	}
	return &t
}
