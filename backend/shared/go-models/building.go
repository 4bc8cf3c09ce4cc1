package models

// Building belongs to a holding. Vendor credentials stored on the backend
// record (username, password, clientSecret) are deliberately not mapped.
type Building struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address,omitempty"`
	Description string     `json:"description,omitempty"`
	State       bool       `json:"state"`
	HoldingID   int64      `json:"holdingId"`
	StaysID     FlexString `json:"staysId,omitempty"`
	URLImage    string     `json:"urlImage,omitempty"`
}
