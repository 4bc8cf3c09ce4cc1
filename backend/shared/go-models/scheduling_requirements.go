package models

import "strings"

// SchedulingRequirements says whether an apartment has a smart lock and the
// vendor credentials needed to program it. It is resolved fresh for every
// generation request and never cached.
type SchedulingRequirements struct {
	BuildingID             int64      `json:"buildingId"`
	ApartmentID            int64      `json:"apartmentId"`
	LockID                 FlexString `json:"lockId,omitempty"`
	ClientID               FlexString `json:"clientId,omitempty"`
	AccessTokenSmartLocker string     `json:"accessTokenSmartLocker,omitempty"`
}

// HasLock is false when the apartment has no lock integration. The backend
// reports a missing lock as either an absent id or lockId 0.
func (r *SchedulingRequirements) HasLock() bool {
	return !r.LockID.IsBlank() && strings.TrimSpace(r.LockID.String()) != "0"
}

// HasVendorCredentials is true when both the vendor client id and access
// token are present.
func (r *SchedulingRequirements) HasVendorCredentials() bool {
	return !r.ClientID.IsBlank() && strings.TrimSpace(r.AccessTokenSmartLocker) != ""
}
