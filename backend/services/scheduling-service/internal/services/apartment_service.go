package services

import (
	"context"
	"net/http"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/sciener"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

type ApartmentService struct {
	directory DirectoryBackend
	resolver  *RequirementsResolver
	vendor    LockVendor
}

func NewApartmentService(directory DirectoryBackend, resolver *RequirementsResolver, vendor LockVendor) *ApartmentService {
	return &ApartmentService{directory: directory, resolver: resolver, vendor: vendor}
}

// ListApartments returns the building's apartments ordered by name.
func (s *ApartmentService) ListApartments(ctx context.Context, token string, buildingID int64) ([]models.Apartment, error) {
	apts, err := s.directory.ListApartmentsByBuilding(ctx, token, buildingID)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Could not load the apartments.", err)
	}
	if apts == nil {
		apts = []models.Apartment{}
	}
	return apts, nil
}

// Unlock opens the apartment's smart lock remotely.
func (s *ApartmentService) Unlock(ctx context.Context, token string, buildingID, apartmentID int64) error {
	logger := utils.Logger.WithFields(logrus.Fields{"buildingID": buildingID, "apartmentID": apartmentID})

	req, err := s.resolver.Resolve(ctx, token, buildingID, apartmentID)
	if err != nil {
		return err
	}
	if !req.HasLock() {
		return utils.NewAppError(http.StatusConflict, utils.ErrCodeNoSmartLock, constants.MsgNoSmartLock, nil)
	}
	if !req.HasVendorCredentials() {
		return utils.NewAppError(http.StatusUnprocessableEntity, utils.ErrCodeLockConfigIncomplete,
			constants.MsgLockConfigIncomplete, nil)
	}

	result, err := s.vendor.Unlock(ctx, sciener.UnlockArgs{LockCredentials: sciener.LockCredentials{
		ClientID:    req.ClientID.String(),
		AccessToken: req.AccessTokenSmartLocker,
		LockID:      req.LockID.String(),
	}})
	if err == nil && result.Failed() {
		err = &VendorError{Errcode: result.Errcode, Errmsg: result.Errmsg}
	}
	if err != nil {
		logger.WithError(err).Warn("Remote unlock failed")
		return utils.NewAppError(http.StatusBadGateway, utils.ErrCodeLockVendorFailure, constants.MsgUnlockFailed, err)
	}
	logger.Info("Lock opened remotely")
	return nil
}
