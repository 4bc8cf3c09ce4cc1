package services

import (
	"context"
	"net/http"

	internal_utils "github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/backend"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
)

// AccessData is what the guest needs to get in: the keypad code and the
// QR payload, either of which may be empty.
type AccessData struct {
	Code string `json:"code,omitempty"`
	QR   string `json:"qr,omitempty"`
}

type AccessService struct {
	schedulings SchedulingBackend
}

func NewAccessService(schedulings SchedulingBackend) *AccessService {
	return &AccessService{schedulings: schedulings}
}

func (s *AccessService) GetAccessData(ctx context.Context, token string, schedulingID int64) (*AccessData, error) {
	sched, err := s.schedulings.GetSchedulingWithQR(ctx, token, schedulingID)
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Scheduling not found.", err)
		}
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Could not load the access data.", err)
	}
	data := &AccessData{Code: sched.KeyboardPwd}
	if sched.QR != nil {
		data.QR = sched.QR.Code
	}
	return data, nil
}

// QRImage renders the scheduling's QR payload as a PNG.
func (s *AccessService) QRImage(ctx context.Context, token string, schedulingID int64, size int) ([]byte, error) {
	data, err := s.GetAccessData(ctx, token, schedulingID)
	if err != nil {
		return nil, err
	}
	if data.QR == "" {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "The scheduling has no QR code.", nil)
	}
	png, err := internal_utils.RenderQRPNG(data.QR, size)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Could not render the QR code.", err)
	}
	return png, nil
}
