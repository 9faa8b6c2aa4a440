package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/inspectflow/inspectflow/internal/models"
	"github.com/inspectflow/inspectflow/internal/utils"
	"github.com/inspectflow/inspectflow/internal/websocket"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Company  string `json:"company"`
}

// login handles user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// 1. Find User
	var user models.UserAuth
	if err := r.db.Where("email = ?", loginReq.Email).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 2. Check Password
	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 3. Update Last Login
	now := time.Now()
	user.LastLogin = &now
	r.db.Save(&user)

	// 4. Generate Tokens
	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}

// register handles user registration
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var regReq RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&regReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// 1. Hash Password
	hashedPassword, err := utils.HashPassword(regReq.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	// 2. Create User
	user := models.UserAuth{
		Username: regReq.Username,
		Email:    regReq.Email,
		Password: hashedPassword,
		Name:     regReq.Name,
		Company:  regReq.Company,
		Role:     "user",
	}

	if err := r.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusBadRequest, "Failed to create user (email or username might exist)")
		return
	}

	// 3. Generate Tokens for immediate login
	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "User created but failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}

// logout handles user logout
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	// Token invalidation is client-side; nothing to revoke server-side
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// serveWs authenticates the token query parameter and upgrades to a
// progress-event session
func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "Token required")
		return
	}

	claims, err := utils.ValidateToken(token, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	userID, _ := claims["id"].(string)
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	websocket.ServeWs(r.hub, w, req, userID)
}
