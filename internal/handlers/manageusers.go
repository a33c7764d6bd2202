package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/auth"
	"github.com/nassimdv/workload-app/internal/email"
	"github.com/nassimdv/workload-app/internal/httpx"
	"github.com/nassimdv/workload-app/internal/identity"
	"github.com/nassimdv/workload-app/internal/models"
	"github.com/nassimdv/workload-app/internal/validation"
)

// MailInfo carries the app-level fields stamped into credential emails.
type MailInfo struct {
	AppName  string
	LoginURL string
	FromName string
}

// ManageUsersHandler provisions accounts: identity-provider first, then the
// local mirror row, with provider rollback when the mirror write fails.
type ManageUsersHandler struct {
	DB       *gorm.DB
	Provider identity.Provider
	Email    email.Service
	Mail     MailInfo
	Logger   *zap.Logger
}

func NewManageUsersHandler(db *gorm.DB, provider identity.Provider, mail email.Service, info MailInfo, logger *zap.Logger) *ManageUsersHandler {
	return &ManageUsersHandler{DB: db, Provider: provider, Email: mail, Mail: info, Logger: logger}
}

type enrichedUser struct {
	models.User
	Role string `json:"role"`
}

type enrichedManager struct {
	models.Manager
	Role string `json:"role"`
}

// Create: POST /manageUsers
func (h *ManageUsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req struct {
		Email       string `json:"email"`
		Role        string `json:"role"`
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber"`
		Username    string `json:"username"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	// Managers may only provision plain users.
	if principal.Kind == auth.RoleManager && req.Role != auth.RoleUser {
		httpx.JSONError(w, http.StatusForbidden, "insufficient_permissions", nil)
		return
	}
	v := validation.Violations{}
	validation.OneOf("role", req.Role, []string{auth.RoleUser, auth.RoleManager}, v)
	validation.Required("username", req.Username, v)
	validation.Required("email", req.Email, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	tempPassword := identity.GenerateTempPassword(12)
	cognitoID, err := h.Provider.CreateUser(r.Context(), req.Username, req.Email, req.Role, tempPassword)
	if err != nil || cognitoID == "" {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_provider_user", nil)
		return
	}

	var dbErr error
	if req.Role == auth.RoleManager {
		dbErr = h.DB.WithContext(r.Context()).Create(&models.Manager{
			CognitoID:   cognitoID,
			Email:       req.Email,
			Name:        req.Username,
			PhoneNumber: req.PhoneNumber,
		}).Error
	} else {
		dbErr = h.DB.WithContext(r.Context()).Create(&models.User{
			CognitoID:   cognitoID,
			Email:       req.Email,
			Username:    req.Username,
			PhoneNumber: req.PhoneNumber,
		}).Error
	}
	if dbErr != nil {
		// Roll back the pool account so provider and mirror stay in step.
		if rbErr := h.Provider.DeleteUser(r.Context(), req.Email); rbErr != nil && h.Logger != nil {
			h.Logger.Error("provider rollback failed", zap.String("email", req.Email), zap.Error(rbErr))
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_user", nil)
		return
	}

	emailSent := true
	msg := email.Credentials(email.CredentialsParams{
		To:           req.Email,
		Username:     req.Username,
		TempPassword: tempPassword,
		Name:         req.Name,
		Role:         req.Role,
		AppName:      h.Mail.AppName,
		LoginURL:     h.Mail.LoginURL,
		FromName:     h.Mail.FromName,
	})
	if err := h.Email.Send(r.Context(), msg); err != nil {
		emailSent = false
		if h.Logger != nil {
			h.Logger.Error("credentials email failed", zap.String("to", req.Email), zap.Error(err))
		}
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":   "user created successfully",
		"emailSent": emailSent,
		"username":  req.Username,
	})
}

// List: GET /manageUsers; managers see users; the superadmin additionally
// sees managers. Roles come from the provider, with sensible defaults when
// the pool has no answer.
func (h *ManageUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var users []models.User
	if err := h.DB.WithContext(r.Context()).Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	outUsers := make([]enrichedUser, 0, len(users))
	for _, u := range users {
		outUsers = append(outUsers, enrichedUser{User: u, Role: h.roleFor(r, u.Email, auth.RoleUser)})
	}

	if !principal.IsSuperAdmin() {
		httpx.JSON(w, http.StatusOK, map[string]any{"users": outUsers})
		return
	}

	var managers []models.Manager
	if err := h.DB.WithContext(r.Context()).Find(&managers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_managers", nil)
		return
	}
	outManagers := make([]enrichedManager, 0, len(managers))
	for _, m := range managers {
		outManagers = append(outManagers, enrichedManager{Manager: m, Role: h.roleFor(r, m.Email, auth.RoleManager)})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": outUsers, "managers": outManagers})
}

func (h *ManageUsersHandler) roleFor(r *http.Request, emailAddr, fallback string) string {
	if strings.TrimSpace(emailAddr) == "" {
		return fallback
	}
	role, err := h.Provider.GetRole(r.Context(), emailAddr)
	if err != nil || role == "" {
		return fallback
	}
	return role
}

// Get: GET /manageUsers/{id}
func (h *ManageUsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}

	var user models.User
	userErr := h.DB.WithContext(r.Context()).First(&user, id).Error
	if userErr == nil {
		httpx.JSON(w, http.StatusOK, user)
		return
	}
	if !errors.Is(userErr, gorm.ErrRecordNotFound) {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_user", nil)
		return
	}
	if principal.IsSuperAdmin() {
		var manager models.Manager
		if err := h.DB.WithContext(r.Context()).First(&manager, id).Error; err == nil {
			httpx.JSON(w, http.StatusOK, manager)
			return
		}
	}
	httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
}

// Update: PUT /manageUsers/{id}; managers adjust a user's phone number; the
// superadmin manages manager records.
func (h *ManageUsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	if principal.Kind == auth.RoleManager {
		var user models.User
		if err := h.DB.WithContext(r.Context()).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
				return
			}
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_user", nil)
			return
		}
		if err := h.DB.WithContext(r.Context()).Model(&user).Update("phone_number", req.PhoneNumber).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_user", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, user)
		return
	}

	var manager models.Manager
	if err := h.DB.WithContext(r.Context()).First(&manager, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "manager_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_manager", nil)
		return
	}
	updates := map[string]any{"name": req.Name, "phone_number": req.PhoneNumber}
	if err := h.DB.WithContext(r.Context()).Model(&manager).Updates(updates).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_manager", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, manager)
}

// Delete: DELETE /manageUsers/{id}; removes the pool account, then the
// mirror row.
func (h *ManageUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}

	if principal.Kind == auth.RoleManager {
		var user models.User
		if err := h.DB.WithContext(r.Context()).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
				return
			}
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_user", nil)
			return
		}
		h.deleteProviderAccount(r, user.Email)
		if err := h.DB.WithContext(r.Context()).Delete(&user).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_user", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
		return
	}

	// Superadmin: the id may address a manager or a user.
	var manager models.Manager
	if err := h.DB.WithContext(r.Context()).First(&manager, id).Error; err == nil {
		h.deleteProviderAccount(r, manager.Email)
		if err := h.DB.WithContext(r.Context()).Delete(&manager).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_manager", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"message": "manager deleted successfully"})
		return
	}
	var user models.User
	if err := h.DB.WithContext(r.Context()).First(&user, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
		return
	}
	h.deleteProviderAccount(r, user.Email)
	if err := h.DB.WithContext(r.Context()).Delete(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_user", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}

func (h *ManageUsersHandler) deleteProviderAccount(r *http.Request, emailAddr string) {
	if strings.TrimSpace(emailAddr) == "" {
		return
	}
	err := h.Provider.DeleteUser(r.Context(), emailAddr)
	if err != nil && !errors.Is(err, identity.ErrUserNotFound) && h.Logger != nil {
		h.Logger.Error("provider delete failed", zap.String("email", emailAddr), zap.Error(err))
	}
}
