package backend

import (
	"context"
	"net/http"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"
)

// ListApartmentsByBuilding returns the building's apartments ordered by name.
func (c *Client) ListApartmentsByBuilding(ctx context.Context, token string, buildingID int64) ([]models.Apartment, error) {
	q, err := filterQuery(Filter{
		Where: Where{"buildingId": buildingID},
		Order: []string{"name ASC"},
	})
	if err != nil {
		return nil, err
	}
	var out []models.Apartment
	if err := c.doJSON(ctx, token, http.MethodGet, "/apartments", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CountApartments(ctx context.Context, token string, where Where) (int, error) {
	q, err := whereQuery(where)
	if err != nil {
		return 0, err
	}
	var out countResponse
	if err := c.doJSON(ctx, token, http.MethodGet, "/apartments/count", q, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
