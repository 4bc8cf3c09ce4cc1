package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"
)

type RequirementsRequest struct {
	BuildingID  int64 `json:"buildingId"`
	ApartmentID int64 `json:"apartmentId"`
}

// GetSchedulingRequirements asks whether the apartment has a smart lock and
// returns its vendor credentials.
func (c *Client) GetSchedulingRequirements(ctx context.Context, token string, req RequirementsRequest) (*models.SchedulingRequirements, error) {
	var out models.SchedulingRequirements
	if err := c.doJSON(ctx, token, http.MethodPost, "/scheduling-requirements", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSchedulingPayload is the exact body the backend expects. Empty
// strings are sent as such, never omitted.
type CreateSchedulingPayload struct {
	Datetime                   string `json:"datetime"`
	Start                      string `json:"start"`
	End                        string `json:"end"`
	Title                      string `json:"title"`
	State                      string `json:"state"`
	Type                       string `json:"type"`
	Name                       string `json:"name"`
	LastName                   string `json:"lastName"`
	CellPhoneNumber            string `json:"cellPhoneNumber"`
	TypeIdentificationDocument string `json:"typeIdentificationDocument"`
	IdentificationNumber       string `json:"identificationNumber"`
	KeyboardPwd                string `json:"keyboardPwd"`
	KeyboardPwdID              string `json:"keyboardPwdId"`
	Email                      string `json:"email"`
	CreatedBy                  string `json:"createdBy"`
	ApartmentID                int64  `json:"apartmentId"`
	BuildingID                 int64  `json:"buildingId"`
}

func (c *Client) CreateScheduling(ctx context.Context, token string, payload CreateSchedulingPayload) (*models.Scheduling, error) {
	var out models.Scheduling
	if err := c.doJSON(ctx, token, http.MethodPost, "/schedulings", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CountSchedulings(ctx context.Context, token string, where Where) (int, error) {
	q, err := whereQuery(where)
	if err != nil {
		return 0, err
	}
	var out countResponse
	if err := c.doJSON(ctx, token, http.MethodGet, "/schedulings/count", q, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) ListSchedulings(ctx context.Context, token string, f Filter) ([]models.Scheduling, error) {
	q, err := filterQuery(f)
	if err != nil {
		return nil, err
	}
	var out []models.Scheduling
	if err := c.doJSON(ctx, token, http.MethodGet, "/schedulings", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSchedulingWithQR loads one scheduling including its QR relation.
func (c *Client) GetSchedulingWithQR(ctx context.Context, token string, schedulingID int64) (*models.Scheduling, error) {
	q, err := filterQuery(Filter{Include: []any{"qr"}})
	if err != nil {
		return nil, err
	}
	var out models.Scheduling
	reqPath := "/schedulings/" + strconv.FormatInt(schedulingID, 10)
	if err := c.doJSON(ctx, token, http.MethodGet, reqPath, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
