package utils

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	ErrCodeInvalidPayload           = "invalid_payload"
	ErrCodeValidation               = "validation_error"
	ErrCodeUnauthorized             = "unauthorized"
	ErrCodeTokenExpired             = "token_expired"
	ErrCodeInvalidCredentials       = "invalid_credentials"
	ErrCodeInternal                 = "internal_server_error"
	ErrCodeNotFound                 = "not_found"
	ErrCodeConflict                 = "conflict"
	ErrCodeRowVersionConflict       = "row_version_conflict"
	ErrCodeRateLimitExceeded        = "rate_limit_exceeded"
	ErrCodeExternalServiceFailure   = "external_service_failure"
	ErrCodeRequirementsUnavailable  = "requirements_unavailable"
	ErrCodeLockConfigIncomplete     = "lock_configuration_incomplete"
	ErrCodeLockVendorFailure        = "lock_vendor_failure"
	ErrCodeSchedulingPersistFailure = "scheduling_persist_failure"
	ErrCodeSchedulingConflict       = "scheduling_conflict"
	ErrCodeNoSmartLock              = "no_smart_lock"
	ErrCodeLedgerUnavailable        = "ledger_unavailable"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// RespondErrorWithCode builds a JSON error response with a standard
// code and message. The optional `details` is included if non-nil.
func RespondErrorWithCode(
	w http.ResponseWriter,
	status int,
	errorCode string,
	publicMessage string,
	details any,
	devErrs ...error,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errBody := ErrorResponse{
		Code:    errorCode,
		Message: publicMessage,
	}
	if details != nil {
		errBody.Details = details
	}
	_ = json.NewEncoder(w).Encode(errBody)

	fields := logrus.Fields{
		"status": status,
		"code":   errorCode,
	}
	if len(devErrs) > 0 && devErrs[0] != nil {
		fields["error"] = devErrs[0].Error()
	}
	if status >= http.StatusInternalServerError {
		Logger.WithFields(fields).Error(publicMessage)
	} else {
		Logger.WithFields(fields).Warn(publicMessage)
	}
}

// RespondWithJSON for successful cases
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondWithBytes writes a binary body (QR images, spreadsheets).
// A non-empty filename adds an attachment Content-Disposition.
func RespondWithBytes(w http.ResponseWriter, status int, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
