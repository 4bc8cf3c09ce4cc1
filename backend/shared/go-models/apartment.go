package models

import "strconv"

type Apartment struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Address      *string    `json:"address,omitempty"`
	Description  *string    `json:"description,omitempty"`
	State        bool       `json:"state"`
	IsActive     bool       `json:"isActive"`
	BuildingID   int64      `json:"buildingId"`
	StaysID      FlexString `json:"staysId,omitempty"`
	UseDigitCode bool       `json:"useDigitCode"`
	UseQRCode    bool       `json:"useQRCode"`
}

// DisplayName falls back to "Apto <id>" for unnamed apartments.
func (a *Apartment) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return "Apto " + strconv.FormatInt(a.ID, 10)
}
