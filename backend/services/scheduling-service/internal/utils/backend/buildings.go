package backend

import (
	"context"
	"net/http"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"
)

func (c *Client) ListBuildingsByHolding(ctx context.Context, token string, holdingID int64) ([]models.Building, error) {
	q, err := filterQuery(Filter{Where: Where{"holdingId": holdingID}})
	if err != nil {
		return nil, err
	}
	var out []models.Building
	if err := c.doJSON(ctx, token, http.MethodGet, "/buildings", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
