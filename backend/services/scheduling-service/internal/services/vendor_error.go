package services

import "fmt"

// VendorError is an application-level rejection from the lock vendor.
type VendorError struct {
	Errcode int
	Errmsg  string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("lock vendor errcode %d: %s", e.Errcode, e.Errmsg)
}
