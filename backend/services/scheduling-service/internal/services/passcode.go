package services

import (
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
)

// GeneratePasscode returns a fresh six-digit keypad code. Codes are not
// checked for uniqueness; the vendor scopes them to one lock and window.
func GeneratePasscode() string {
	return utils.RandomNumericString(utils.DefaultPasscodeLength)
}
