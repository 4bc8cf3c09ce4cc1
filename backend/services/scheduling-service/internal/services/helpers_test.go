package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/backend"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/sciener"
	"github.com/Jepierre88/coins-control/backend/shared/go-repositories"
	"github.com/Jepierre88/coins-control/backend/shared/go-testhelpers"
	"github.com/stretchr/testify/require"
)

const (
	testToken       = "backend-token"
	testPasscode    = "503912"
	testBuildingID  = int64(3)
	testApartmentID = int64(7)
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// testEnv wires real backend and vendor clients to two fake servers.
type testEnv struct {
	api  *testhelpers.FakeAPI
	lock *testhelpers.FakeAPI

	cfg      *config.Config
	ledger   *testhelpers.MemoryLedger
	backend  *backend.Client
	vendor   *sciener.Client
	store    *SchedulingStore
	resolver *RequirementsResolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := testhelpers.NewFakeAPI(t)
	lock := testhelpers.NewFakeAPI(t)

	bc, err := backend.NewClient(api.URL(), time.Second)
	require.NoError(t, err)
	vc, err := sciener.NewClient(lock.URL(), time.Second)
	require.NoError(t, err)
	vc.Now = func() time.Time { return testNow }

	store := NewSchedulingStore(bc)
	store.now = func() time.Time { return testNow }

	return &testEnv{
		api:  api,
		lock: lock,
		cfg: &config.Config{
			OrganizationName:                  config.OrganizationName,
			ReconcileGracePeriod:              10 * time.Minute,
			ReconcileBatchSize:                50,
			LDFlag_ReconcileOrphanedPasscodes: true,
		},
		ledger:   testhelpers.NewMemoryLedger(),
		backend:  bc,
		vendor:   vc,
		store:    store,
		resolver: NewRequirementsResolver(bc),
	}
}

func (e *testEnv) orchestrator(ledger repositories.PasscodeRegistrationRepository, notifier GuestNotifier) *SchedulingOrchestrator {
	o := NewSchedulingOrchestrator(e.cfg, e.resolver, e.store, e.vendor, ledger, notifier)
	o.newPasscode = func() string { return testPasscode }
	return o
}

func (e *testEnv) requirementsWithLock() {
	e.api.HandleJSON(http.MethodPost, "/scheduling-requirements", http.StatusOK, map[string]any{
		"buildingId": testBuildingID, "apartmentId": testApartmentID,
		"lockId": 42, "clientId": 7, "accessTokenSmartLocker": "tok",
	})
}

func (e *testEnv) requirementsWithoutLock() {
	e.api.HandleJSON(http.MethodPost, "/scheduling-requirements", http.StatusOK, map[string]any{
		"buildingId": testBuildingID, "apartmentId": testApartmentID,
	})
}

func (e *testEnv) vendorAccepts(pwdID int64) {
	e.lock.HandleJSON(http.MethodPost, "/v3/keyboardPwd/add", http.StatusOK, map[string]any{"keyboardPwdId": pwdID})
}

func (e *testEnv) backendCreates(id int64) {
	e.api.HandleJSON(http.MethodPost, "/schedulings", http.StatusOK, map[string]any{"id": id})
}

func sampleInput() GenerateSchedulingInput {
	start, end := testhelpers.FutureWindow(testNow)
	return GenerateSchedulingInput{
		BuildingID:           testBuildingID,
		ApartmentID:          testApartmentID,
		Name:                 "Ana",
		LastName:             "Ruiz",
		IdentificationNumber: "1020304050",
		Email:                "ana@example.com",
		CellPhoneNumber:      "3001234567",
		CreatedBy:            "17",
		Start:                start,
		End:                  end,
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []GuestAccessNotice
}

func (r *recordingNotifier) NotifyGuestAccess(_ context.Context, n GuestAccessNotice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}
