//go:build (dev_test || staging_test) && integration

package integration

import (
	"log"
	"os"
	"testing"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/shared/go-testhelpers"
)

var h *testhelpers.TestHelper

// TestMain sets up a single TestHelper for all integration tests in this package.
func TestMain(m *testing.M) {
	if config.AppName == "" {
		log.Fatal("AppName ldflag is missing")
	}

	// Use a dummy testing.T to initialize the helper.
	// We can't use one from a real test since TestMain runs before tests.
	t := &testing.T{}
	h = testhelpers.NewTestHelper(t, config.AppName)

	os.Exit(m.Run())
}
