package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"learnhub-storefront-api/models"
	"learnhub-storefront-api/services/auth"
	"learnhub-storefront-api/utils"
)

type AuthHandler struct {
	jwtService *auth.JWTService
}

func NewAuthHandler(jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{jwtService: jwtService}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.jwtService == nil {
		utils.SendErrorResponse(w, http.StatusServiceUnavailable, "Login is temporarily unavailable")
		return
	}

	var body models.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Username == "" || body.Password == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	response, err := h.jwtService.Authenticate(body.Username, body.Password)
	if err != nil {
		switch err {
		case auth.ErrInvalidCredentials:
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		case auth.ErrMemberInactive:
			utils.SendErrorResponse(w, http.StatusForbidden, "Account is inactive")
		default:
			log.Printf("Login error for %s: %v", body.Username, err)
			utils.SendErrorResponse(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	utils.SendJSON(w, http.StatusOK, response)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.jwtService == nil {
		utils.SendErrorResponse(w, http.StatusServiceUnavailable, "Login is temporarily unavailable")
		return
	}

	var body models.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.jwtService.RefreshToken(body.RefreshToken)
	if err != nil {
		switch err {
		case auth.ErrTokenExpired:
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Refresh token expired")
		case auth.ErrInvalidToken, auth.ErrInvalidCredentials:
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		case auth.ErrMemberInactive:
			utils.SendErrorResponse(w, http.StatusForbidden, "Account is inactive")
		default:
			log.Printf("Token refresh error: %v", err)
			utils.SendErrorResponse(w, http.StatusInternalServerError, "Token refresh failed")
		}
		return
	}

	utils.SendJSON(w, http.StatusOK, response)
}
