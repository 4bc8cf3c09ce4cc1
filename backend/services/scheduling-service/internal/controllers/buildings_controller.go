package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/services"
	internal_utils "github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
)

// BuildingsController serves the building list and the dashboard metrics.
type BuildingsController struct {
	auth      *services.AuthService
	dashboard *services.DashboardService
	now       func() time.Time
}

func NewBuildingsController(auth *services.AuthService, dashboard *services.DashboardService) *BuildingsController {
	return &BuildingsController{auth: auth, dashboard: dashboard, now: time.Now}
}

// month returns ?month= or the current UTC month.
func (c *BuildingsController) month(r *http.Request) string {
	if m := strings.TrimSpace(r.URL.Query().Get("month")); m != "" {
		return m
	}
	now := c.now().UTC()
	return internal_utils.MonthKey(now.Year(), now.Month())
}

// GET /api/v1/buildings
func (c *BuildingsController) ListBuildingsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	buildings, err := c.auth.ListBuildings(r.Context(), session)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, buildings)
}

// GET /api/v1/buildings/{buildingId}/metrics?month=YYYY-MM
func (c *BuildingsController) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathID(w, r, "buildingId")
	if !ok {
		return
	}

	metrics, err := c.dashboard.MetricsByMonth(r.Context(), session.ExternalToken, buildingID, c.month(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, metrics)
}

// GET /api/v1/buildings/{buildingId}/metrics/monthly
func (c *BuildingsController) MonthlyMetricsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathID(w, r, "buildingId")
	if !ok {
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		badQuery(w, err)
		return
	}
	maxMonths, err := queryInt(r, "maxMonths")
	if err != nil {
		badQuery(w, err)
		return
	}

	q := r.URL.Query()
	res, err := c.dashboard.MonthlyCounts(r.Context(), session.ExternalToken, services.MonthlyCountsQuery{
		BuildingID: buildingID,
		Year:       year,
		StartMonth: strings.TrimSpace(q.Get("startMonth")),
		EndMonth:   strings.TrimSpace(q.Get("endMonth")),
		MaxMonths:  maxMonths,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// GET /api/v1/buildings/{buildingId}/metrics/apartments?month=YYYY-MM
func (c *BuildingsController) ApartmentMetricsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathID(w, r, "buildingId")
	if !ok {
		return
	}

	res, err := c.dashboard.SchedulingsByApartment(r.Context(), session.ExternalToken, buildingID, c.month(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}
