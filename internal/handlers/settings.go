package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xelth-com/bizziosync/internal/settings"
)

// SettingsResponse is the settings form, password masked
type SettingsResponse struct {
	Endpoint   string `json:"endpoint"`
	Database   string `json:"api_database"`
	Username   string `json:"api_username"`
	Password   string `json:"api_password"`
	SiteID     string `json:"id_site"`
	Debug      bool   `json:"debug"`
	Configured bool   `json:"configured"`
}

func (r *Router) getSettings(w http.ResponseWriter, req *http.Request) {
	r.respondSettings(w, req)
}

func (r *Router) updateSettings(w http.ResponseWriter, req *http.Request) {
	var u settings.Update
	if err := json.NewDecoder(req.Body).Decode(&u); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := r.settings.Apply(req.Context(), u); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	r.respondSettings(w, req)
}

func (r *Router) respondSettings(w http.ResponseWriter, req *http.Request) {
	cfg, err := r.settings.Resolve(req.Context(), r.cfg.Bizzio)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	masked := cfg.Masked()
	respondSuccess(w, SettingsResponse{
		Endpoint:   masked.Endpoint,
		Database:   masked.Database,
		Username:   masked.Username,
		Password:   masked.Password,
		SiteID:     masked.SiteID,
		Debug:      masked.Debug,
		Configured: cfg.Configured(),
	})
}
