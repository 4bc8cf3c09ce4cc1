package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/backend"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

type RequirementsResolver struct {
	backend RequirementsBackend
}

func NewRequirementsResolver(b RequirementsBackend) *RequirementsResolver {
	return &RequirementsResolver{backend: b}
}

// Resolve fetches the lock configuration for one apartment. Results are
// never cached. A missing lockId is a valid answer; only transport or
// backend errors fail.
func (r *RequirementsResolver) Resolve(ctx context.Context, token string, buildingID, apartmentID int64) (*models.SchedulingRequirements, error) {
	req, err := r.backend.GetSchedulingRequirements(ctx, token, backend.RequirementsRequest{
		BuildingID:  buildingID,
		ApartmentID: apartmentID,
	})
	if err == nil && req == nil {
		err = errors.New("empty scheduling requirements response")
	}
	if err != nil {
		utils.Logger.WithError(err).WithFields(logrus.Fields{
			"buildingID":  buildingID,
			"apartmentID": apartmentID,
		}).Warn("Failed to resolve scheduling requirements")
		return nil, utils.NewAppError(
			http.StatusBadGateway,
			utils.ErrCodeRequirementsUnavailable,
			constants.MsgRequirementsUnavailable,
			err,
		)
	}
	if req.BuildingID == 0 {
		req.BuildingID = buildingID
	}
	if req.ApartmentID == 0 {
		req.ApartmentID = apartmentID
	}
	return req, nil
}
