package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/bizziosync/internal/middleware"
	"github.com/xelth-com/bizziosync/internal/utils"
)

const adminSubject = "admin"

// nonceActions lists every action a nonce can be issued for
var nonceActions = map[string]bool{
	"import_products":    true,
	"process_products":   true,
	"import_categories":  true,
	"process_categories": true,
	"test_connection":    true,
	"save_settings":      true,
	"uninstall":          true,
}

// TokenRequest represents a login request
type TokenRequest struct {
	Password string `json:"password"`
}

// issueToken exchanges the admin password for an access token
func (r *Router) issueToken(w http.ResponseWriter, req *http.Request) {
	var tokenReq TokenRequest
	if err := json.NewDecoder(req.Body).Decode(&tokenReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if !r.checkAdminPassword(tokenReq.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, err := utils.GenerateAccessToken(adminSubject, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"accessToken": accessToken,
		"tokenType":   "Bearer",
		"expiresIn":   3600,
	})
}

func (r *Router) checkAdminPassword(password string) bool {
	if password == "" {
		return false
	}
	if r.cfg.AdminPasswordHash != "" {
		return utils.CheckPasswordHash(password, r.cfg.AdminPasswordHash)
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(r.cfg.AdminPassword)) == 1
}

// issueNonce returns an anti-replay token for one action
func (r *Router) issueNonce(w http.ResponseWriter, req *http.Request) {
	action := mux.Vars(req)["action"]
	if !nonceActions[action] {
		respondError(w, http.StatusNotFound, "Unknown action")
		return
	}

	nonce, err := utils.GenerateNonce(middleware.Subject(req.Context()), action, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate nonce")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"action":    action,
		"nonce":     nonce,
		"expiresIn": int(utils.NonceTTL.Seconds()),
	})
}
