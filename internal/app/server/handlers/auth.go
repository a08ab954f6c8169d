package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
	"github.com/eric-kaloki/server-medconnect/internal/core/services"
	"github.com/eric-kaloki/server-medconnect/pkg/logging"
	"github.com/eric-kaloki/server-medconnect/pkg/middleware"
)

type AuthHandler struct {
	userSvc  *services.UserService
	tokenSvc *services.TokenService
}

func NewAuthHandler(u *services.UserService, t *services.TokenService) *AuthHandler {
	return &AuthHandler{userSvc: u, tokenSvc: t}
}

func (h *AuthHandler) ValidateLicense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LicenseID string `json:"licenseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	valid, err := h.userSvc.ValidateLicense(r.Context(), req.LicenseID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

func (h *AuthHandler) RegisterDoctor(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		LicenseID string `json:"licenseId"`
		Phone     string `json:"phone"`
		Category  string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	doctor, err := h.userSvc.RegisterDoctor(r.Context(), &domain.Doctor{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		LicenseID: req.LicenseID,
		Phone:     req.Phone,
		Category:  req.Category,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Doctor registered successfully",
			"doctor":  map[string]string{"id": doctor.ID, "name": doctor.Name, "email": doctor.Email},
		})
	case errors.Is(err, domain.ErrInvalidLicense):
		writeMessage(w, http.StatusBadRequest, "Invalid license ID")
	case errors.Is(err, domain.ErrInvalidRequest):
		writeMessage(w, http.StatusBadRequest, "invalid request")
	default:
		log.ErrorContext(r.Context(), "auth handler - register doctor failed", "email", req.Email, "err", err)
		writeMessage(w, http.StatusInternalServerError, "Error registering doctor")
	}
}

func (h *AuthHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	patient, err := h.userSvc.RegisterPatient(r.Context(), &domain.Patient{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Patient registered successfully",
			"patient": map[string]string{"id": patient.ID, "name": patient.Name, "email": patient.Email},
		})
	case errors.Is(err, domain.ErrInvalidRequest):
		writeMessage(w, http.StatusBadRequest, "invalid request")
	default:
		log.ErrorContext(r.Context(), "auth handler - register patient failed", "email", req.Email, "err", err)
		writeMessage(w, http.StatusInternalServerError, "Error registering patient")
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	user, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrInvalidRequest) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.ErrorContext(r.Context(), "auth handler - login failed", "email", req.Email, "err", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	token, err := h.tokenSvc.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.ErrorContext(r.Context(), "auth handler - generate token failed", "user_id", user.ID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]string{
			"token": token,
			"role":  user.Role,
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
		},
	})
	log.InfoContext(r.Context(), "auth handler - login success", "user_id", user.ID)
}

// UpdatePushToken records the caller's current FCM device token.
func (h *AuthHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	role, _ := r.Context().Value(middleware.RoleKey).(string)
	var req struct {
		Token string `json:"fcmToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.userSvc.UpdatePushToken(r.Context(), userID, role, req.Token); err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeMessage(w, http.StatusOK, "Push token updated")
}
