package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/httpx"
	"github.com/nassimdv/workload-app/internal/models"
	"github.com/nassimdv/workload-app/internal/validation"
)

// UserHandler mirrors identity-provider accounts into local user rows.
type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// List: GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.WithContext(r.Context()).Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

// Get: GET /users/{cognitoId}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	cognitoID := r.PathValue("cognitoId")
	var user models.User
	err := h.DB.WithContext(r.Context()).Where("cognito_id = ?", cognitoID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_user", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// Create: POST /users; mirrors a provider sign-up into a local row.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CognitoID         string `json:"cognitoId"`
		Username          string `json:"username"`
		Email             string `json:"email"`
		PhoneNumber       string `json:"phoneNumber"`
		ProfilePictureURL string `json:"profilePictureUrl"`
		TeamID            *uint  `json:"teamId"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("cognitoId", req.CognitoID, v)
	validation.Required("username", req.Username, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	picture := req.ProfilePictureURL
	if picture == "" {
		picture = "i1.jpg"
	}
	user := models.User{
		CognitoID:         req.CognitoID,
		Username:          req.Username,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		ProfilePictureURL: picture,
		TeamID:            req.TeamID,
	}
	if err := h.DB.WithContext(r.Context()).Create(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_user", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

// Update: PUT /users/{cognitoId}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	cognitoID := r.PathValue("cognitoId")
	var req struct {
		Username          string  `json:"username"`
		Email             string  `json:"email"`
		PhoneNumber       string  `json:"phoneNumber"`
		Profile           *string `json:"profile"`
		ProfilePictureURL string  `json:"profilePictureUrl"`
		TeamID            *uint   `json:"teamId"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var user models.User
	err := h.DB.WithContext(r.Context()).Where("cognito_id = ?", cognitoID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_user", nil)
		return
	}
	updates := map[string]any{
		"username":            req.Username,
		"email":               req.Email,
		"phone_number":        req.PhoneNumber,
		"profile":             req.Profile,
		"profile_picture_url": req.ProfilePictureURL,
		"team_id":             req.TeamID,
	}
	if err := h.DB.WithContext(r.Context()).Model(&user).Updates(updates).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_user", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
