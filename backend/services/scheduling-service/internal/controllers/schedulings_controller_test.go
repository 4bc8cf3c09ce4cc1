package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/dtos"
	shared_dtos "github.com/Jepierre88/coins-control/backend/shared/go-dtos"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-testhelpers"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var controllerNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func generateRequest() dtos.GenerateSchedulingRequest {
	start, end := testhelpers.FutureWindow(controllerNow)
	return dtos.GenerateSchedulingRequest{
		ApartmentID:          7,
		Name:                 " Ana ",
		LastName:             "Ruiz",
		IdentificationNumber: "1020304050",
		Email:                "ana@example.com",
		CellPhoneNumber:      "3001234567",
		Start:                start,
		End:                  end,
	}
}

func newSchedulingFixture(t *testing.T) *fixture {
	f := newFixture(t)
	f.schedulings.now = func() time.Time { return controllerNow }
	return f
}

func TestGenerateScheduling_NoLock(t *testing.T) {
	f := newSchedulingFixture(t)
	f.api.HandleJSON(http.MethodPost, "/scheduling-requirements", http.StatusOK, map[string]any{"buildingId": 3, "apartmentId": 7})
	f.api.HandleJSON(http.MethodPost, "/schedulings", http.StatusOK, map[string]any{"id": 55})

	rec := f.do(t, http.MethodPost, "/api/v1/buildings/3/schedulings", generateRequest(), false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"schedulingId":55}`, rec.Body.String())

	var body map[string]any
	f.api.Calls(http.MethodPost, "/schedulings")[0].DecodeJSON(t, &body)
	assert.Equal(t, "17", body["createdBy"])
	assert.Equal(t, "ANA", body["name"])
	assert.Equal(t, float64(3), body["buildingId"])
	assert.Empty(t, f.lock.Requests())
}

func TestGenerateScheduling_WithLock(t *testing.T) {
	f := newSchedulingFixture(t)
	f.api.HandleJSON(http.MethodPost, "/scheduling-requirements", http.StatusOK, map[string]any{
		"lockId": 42, "clientId": 7, "accessTokenSmartLocker": "tok",
	})
	f.lock.HandleJSON(http.MethodPost, "/v3/keyboardPwd/add", http.StatusOK, map[string]any{"keyboardPwdId": 999})
	f.api.HandleJSON(http.MethodPost, "/schedulings", http.StatusOK, map[string]any{"id": 56})

	rec := f.do(t, http.MethodPost, "/api/v1/buildings/3/schedulings", generateRequest(), false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res dtos.GenerateSchedulingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(56), res.SchedulingID)
	assert.Len(t, res.KeyboardPwd, utils.DefaultPasscodeLength)
	assert.Equal(t, res.KeyboardPwd, f.lock.Calls(http.MethodPost, "/v3/keyboardPwd/add")[0].Form.Get("keyboardPwd"))
}

func TestGenerateScheduling_VendorFailure(t *testing.T) {
	f := newSchedulingFixture(t)
	f.api.HandleJSON(http.MethodPost, "/scheduling-requirements", http.StatusOK, map[string]any{
		"lockId": 42, "clientId": 7, "accessTokenSmartLocker": "tok",
	})
	f.lock.HandleJSON(http.MethodPost, "/v3/keyboardPwd/add", http.StatusOK, map[string]any{"errcode": 1, "errmsg": "offline"})

	rec := f.do(t, http.MethodPost, "/api/v1/buildings/3/schedulings", generateRequest(), false)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	errBody := decodeError(t, rec)
	assert.Equal(t, utils.ErrCodeLockVendorFailure, errBody.Code)
	assert.Equal(t, constants.MsgLockVendorFailure, errBody.Message)
	assert.Empty(t, f.api.Calls(http.MethodPost, "/schedulings"))
}

func TestGenerateScheduling_RejectsBeforeAnyCall(t *testing.T) {
	past := generateRequest()
	past.Start = controllerNow.Add(-time.Hour)

	reversed := generateRequest()
	reversed.End = reversed.Start

	noEmail := generateRequest()
	noEmail.Email = ""

	cases := map[string]struct {
		body    any
		code    string
		message string
	}{
		"start in the past": {past, utils.ErrCodeValidation, constants.MsgStartNotInFuture},
		"end not after":     {reversed, utils.ErrCodeValidation, constants.MsgEndNotAfterStart},
		"missing email":     {noEmail, utils.ErrCodeValidation, "Validation error"},
		"bad json":          {"{", utils.ErrCodeInvalidPayload, "Invalid JSON payload"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newSchedulingFixture(t)
			rec := f.do(t, http.MethodPost, "/api/v1/buildings/3/schedulings", tc.body, false)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			errBody := decodeError(t, rec)
			assert.Equal(t, tc.code, errBody.Code)
			assert.Equal(t, tc.message, errBody.Message)
			assert.Empty(t, f.api.Requests())
			assert.Empty(t, f.lock.Requests())
		})
	}
}

func TestGenerateScheduling_BadBuildingID(t *testing.T) {
	f := newSchedulingFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/buildings/abc/schedulings", generateRequest(), false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.api.Requests())
}

func TestListSchedulings(t *testing.T) {
	f := newSchedulingFixture(t)
	f.api.HandleJSON(http.MethodGet, "/schedulings/count", http.StatusOK, map[string]int{"count": 1})
	f.api.HandleJSON(http.MethodGet, "/schedulings", http.StatusOK, []map[string]any{
		{"id": 9, "start": "2025-03-10T15:00:00.000Z", "end": "2025-03-12T11:00:00.000Z", "state": "Active", "apartmentId": 7, "buildingId": 3},
	})

	rec := f.do(t, http.MethodGet, "/api/v1/buildings/3/schedulings?page=2&pageSize=10&state=active&apartmentId=7", nil, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page shared_dtos.Page[models.Scheduling]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.SchedulingStateActive, page.Items[0].State)

	var filter map[string]any
	f.api.Calls(http.MethodGet, "/schedulings")[0].QueryJSON(t, "filter", &filter)
	assert.Equal(t, float64(10), filter["skip"])
	where := filter["where"].(map[string]any)
	assert.Equal(t, float64(7), where["apartmentId"])
}

func TestListSchedulingsBadQuery(t *testing.T) {
	f := newSchedulingFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/buildings/3/schedulings?page=two", nil, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "page must be an integer", decodeError(t, rec).Message)
}

func TestListSchedulingsBackendDown(t *testing.T) {
	f := newSchedulingFixture(t)
	f.api.HandleLoopBackError(http.MethodGet, "/schedulings/count", http.StatusInternalServerError, "boom")
	f.api.HandleJSON(http.MethodGet, "/schedulings", http.StatusOK, []map[string]any{})

	rec := f.do(t, http.MethodGet, "/api/v1/buildings/3/schedulings", nil, false)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, utils.ErrCodeExternalServiceFailure, decodeError(t, rec).Code)
}

func TestExportSchedulings(t *testing.T) {
	f := newSchedulingFixture(t)
	f.api.HandleJSON(http.MethodGet, "/schedulings", http.StatusOK, []map[string]any{
		{"id": 9, "start": "2025-03-10T15:00:00.000Z", "end": "2025-03-12T11:00:00.000Z", "apartmentId": 7, "buildingId": 3},
	})

	rec := f.do(t, http.MethodGet, "/api/v1/buildings/3/schedulings/export.xlsx?state=created", nil, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="schedulings-3-`)
	assert.Equal(t, []byte("PK"), rec.Body.Bytes()[:2])
}
