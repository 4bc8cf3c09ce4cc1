package controllers

import (
	"net/http"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/dtos"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/services"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

type ApartmentsController struct {
	apartments *services.ApartmentService
}

func NewApartmentsController(apartments *services.ApartmentService) *ApartmentsController {
	return &ApartmentsController{apartments: apartments}
}

// GET /api/v1/buildings/{buildingId}/apartments
func (c *ApartmentsController) ListApartmentsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathID(w, r, "buildingId")
	if !ok {
		return
	}

	apts, err := c.apartments.ListApartments(r.Context(), session.ExternalToken, buildingID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apts)
}

// POST /api/v1/buildings/{buildingId}/apartments/{apartmentId}/unlock
func (c *ApartmentsController) UnlockHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathID(w, r, "buildingId")
	if !ok {
		return
	}
	apartmentID, ok := pathID(w, r, "apartmentId")
	if !ok {
		return
	}

	logger := utils.LoggerFromContext(r.Context()).WithFields(logrus.Fields{
		"handler":     "UnlockHandler",
		"userID":      session.UserID,
		"apartmentID": apartmentID,
	})
	if err := c.apartments.Unlock(r.Context(), session.ExternalToken, buildingID, apartmentID); err != nil {
		logger.WithError(err).Warn("Unlock failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.UnlockResponse{Unlocked: true})
}
