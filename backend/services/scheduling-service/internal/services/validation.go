package services

import (
	"net/http"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
)

// ValidateSchedulingWindow rejects windows that do not start strictly in the
// future or do not end strictly after they start. It makes no network calls
// and must run before orchestration.
func ValidateSchedulingWindow(now, start, end time.Time) error {
	if !start.After(now) {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, constants.MsgStartNotInFuture, nil)
	}
	if !end.After(start) {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, constants.MsgEndNotAfterStart, nil)
	}
	return nil
}
