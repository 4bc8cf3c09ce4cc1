package controllers

import (
	"net/http"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/services"
	internal_utils "github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
)

const (
	minQRSize = 128
	maxQRSize = 1024
)

type AccessController struct {
	access *services.AccessService
}

func NewAccessController(access *services.AccessService) *AccessController {
	return &AccessController{access: access}
}

// GET /api/v1/schedulings/{schedulingId}/access
func (c *AccessController) AccessDataHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	schedulingID, ok := pathID(w, r, "schedulingId")
	if !ok {
		return
	}

	data, err := c.access.GetAccessData(r.Context(), session.ExternalToken, schedulingID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}

// GET /api/v1/schedulings/{schedulingId}/access/qr.png?size=
func (c *AccessController) QRImageHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	schedulingID, ok := pathID(w, r, "schedulingId")
	if !ok {
		return
	}
	size, err := queryInt(r, "size")
	if err != nil {
		badQuery(w, err)
		return
	}
	if size == 0 {
		size = internal_utils.DefaultQRSize
	}
	size = min(max(size, minQRSize), maxQRSize)

	png, err := c.access.QRImage(r.Context(), session.ExternalToken, schedulingID, size)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	utils.RespondWithBytes(w, http.StatusOK, "image/png", "", png)
}
