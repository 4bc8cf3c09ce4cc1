package controllers

import (
	"net/http"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/app"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/dtos"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{app}
}

// HealthCheckHandler => GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.app.Ping(r.Context()); err != nil {
		utils.Logger.WithError(err).Error("scheduling-service DB unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", nil, err)
		return
	}
	ledger := "disabled"
	if c.app.Ledger != nil {
		ledger = "enabled"
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK", Ledger: ledger})
}
