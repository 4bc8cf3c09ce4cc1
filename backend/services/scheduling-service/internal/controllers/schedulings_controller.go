package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/dtos"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/services"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SchedulingsController struct {
	orchestrator *services.SchedulingOrchestrator
	store        *services.SchedulingStore
	export       *services.SchedulingExportService
	now          func() time.Time
}

func NewSchedulingsController(
	orchestrator *services.SchedulingOrchestrator,
	store *services.SchedulingStore,
	export *services.SchedulingExportService,
) *SchedulingsController {
	return &SchedulingsController{orchestrator: orchestrator, store: store, export: export, now: time.Now}
}

// POST /api/v1/buildings/{buildingId}/schedulings
func (c *SchedulingsController) GenerateSchedulingHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathID(w, r, "buildingId")
	if !ok {
		return
	}
	logger := utils.LoggerFromContext(r.Context()).WithFields(logrus.Fields{
		"handler":    "GenerateSchedulingHandler",
		"userID":     session.UserID,
		"buildingID": buildingID,
	})

	var req dtos.GenerateSchedulingRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}
	if err := services.ValidateSchedulingWindow(c.now(), req.Start, req.End); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	res, err := c.orchestrator.Generate(r.Context(), session.ExternalToken, services.GenerateSchedulingInput{
		BuildingID:           buildingID,
		ApartmentID:          req.ApartmentID,
		Name:                 strings.TrimSpace(req.Name),
		LastName:             strings.TrimSpace(req.LastName),
		IdentificationNumber: strings.TrimSpace(req.IdentificationNumber),
		Email:                strings.TrimSpace(req.Email),
		CellPhoneNumber:      strings.TrimSpace(req.CellPhoneNumber),
		CreatedBy:            session.UserID,
		Start:                req.Start.UTC(),
		End:                  req.End.UTC(),
	})
	if err != nil {
		logger.WithField("stage", utils.AppErrorCode(err)).WithError(err).Warn("Scheduling generation failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.GenerateSchedulingResponse{
		SchedulingID: res.SchedulingID,
		KeyboardPwd:  res.KeyboardPwd,
	})
}

func parsePageQuery(r *http.Request, buildingID int64) (services.SchedulingPageQuery, error) {
	q := r.URL.Query()
	page, err := queryInt(r, "page")
	if err != nil {
		return services.SchedulingPageQuery{}, err
	}
	pageSize, err := queryInt(r, "pageSize")
	if err != nil {
		return services.SchedulingPageQuery{}, err
	}
	apartmentID, err := queryInt(r, "apartmentId")
	if err != nil {
		return services.SchedulingPageQuery{}, err
	}
	return services.SchedulingPageQuery{
		BuildingID:  buildingID,
		Page:        page,
		PageSize:    pageSize,
		ApartmentID: int64(apartmentID),
		StartDate:   strings.TrimSpace(q.Get("startDate")),
		EndDate:     strings.TrimSpace(q.Get("endDate")),
		State:       strings.TrimSpace(q.Get("state")),
		GuestName:   strings.TrimSpace(q.Get("guestName")),
	}, nil
}

// GET /api/v1/buildings/{buildingId}/schedulings
func (c *SchedulingsController) ListSchedulingsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathID(w, r, "buildingId")
	if !ok {
		return
	}
	q, err := parsePageQuery(r, buildingID)
	if err != nil {
		badQuery(w, err)
		return
	}

	page, err := c.store.Page(r.Context(), session.ExternalToken, q)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, page)
}

// GET /api/v1/buildings/{buildingId}/schedulings/export.xlsx
func (c *SchedulingsController) ExportSchedulingsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathID(w, r, "buildingId")
	if !ok {
		return
	}
	q, err := parsePageQuery(r, buildingID)
	if err != nil {
		badQuery(w, err)
		return
	}

	raw, filename, err := c.export.ExportXLSX(r.Context(), session.ExternalToken, q)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithBytes(w, http.StatusOK, xlsxContentType, filename, raw)
}
