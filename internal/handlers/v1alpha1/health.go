package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/socovidiu/loc-solutions-backend/internal/config"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

type healthResponse struct {
	Status string `json:"status"`
	Env    string `json:"env"`
	Tms    string `json:"tms"`
}

// (GET /health)
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status: "ok",
		Env:    h.cfg.App.Env,
		Tms:    h.cfg.TMS.Provider,
	})
}
