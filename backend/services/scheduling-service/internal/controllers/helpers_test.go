package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/app"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/routes"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/services"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/backend"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/sciener"
	"github.com/Jepierre88/coins-control/backend/shared/go-middleware"
	"github.com/Jepierre88/coins-control/backend/shared/go-testhelpers"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const testToken = "backend-token"

type fixture struct {
	api    *testhelpers.FakeAPI
	lock   *testhelpers.FakeAPI
	cfg    *config.Config
	keys   *testhelpers.SessionKeys
	router *mux.Router

	buildings   *BuildingsController
	schedulings *SchedulingsController
}

// newFixture wires every controller against fake backend and vendor
// servers, the same way cmd/main.go does.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := testhelpers.NewFakeAPI(t)
	lock := testhelpers.NewFakeAPI(t)
	keys := testhelpers.NewSessionKeys(t)

	cfg := &config.Config{
		OrganizationName:        config.OrganizationName,
		RSAPrivateKey:           keys.Private,
		RSAPublicKey:            keys.Public,
		SessionEncryptionKey:    keys.EncKey,
		SessionTTL:              config.DefaultSessionTTL,
		LDFlag_CORSHighSecurity: true,
	}

	bc, err := backend.NewClient(api.URL(), time.Second)
	require.NoError(t, err)
	vc, err := sciener.NewClient(lock.URL(), time.Second)
	require.NoError(t, err)

	resolver := services.NewRequirementsResolver(bc)
	store := services.NewSchedulingStore(bc)
	authSvc := services.NewAuthService(cfg, bc)

	f := &fixture{api: api, lock: lock, cfg: cfg, keys: keys, router: mux.NewRouter()}
	health := NewHealthController(&app.App{Config: cfg})
	auth := NewAuthController(cfg, authSvc)
	f.buildings = NewBuildingsController(authSvc, services.NewDashboardService(bc, store))
	apartments := NewApartmentsController(services.NewApartmentService(bc, resolver, vc))
	f.schedulings = NewSchedulingsController(
		services.NewSchedulingOrchestrator(cfg, resolver, store, vc, nil, nil),
		store,
		services.NewSchedulingExportService(store),
	)
	access := NewAccessController(services.NewAccessService(bc))

	f.router.HandleFunc(routes.Health, health.HealthCheckHandler).Methods(http.MethodGet)
	f.router.HandleFunc(routes.AuthSignIn, auth.SignInHandler).Methods(http.MethodPost)
	f.router.HandleFunc(routes.AuthSignOut, auth.SignOutHandler).Methods(http.MethodPost)

	secured := f.router.NewRoute().Subrouter()
	secured.Use(middleware.SessionMiddleware(keys.Public, keys.EncKey))
	secured.HandleFunc(routes.AuthSession, auth.SessionHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Buildings, f.buildings.ListBuildingsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingMetrics, f.buildings.MetricsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingMetricsMonthly, f.buildings.MonthlyMetricsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingMetricsApartments, f.buildings.ApartmentMetricsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Apartments, apartments.ListApartmentsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ApartmentUnlock, apartments.UnlockHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.SchedulingsExport, f.schedulings.ExportSchedulingsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Schedulings, f.schedulings.GenerateSchedulingHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Schedulings, f.schedulings.ListSchedulingsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SchedulingAccess, access.AccessDataHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SchedulingAccessQR, access.QRImageHandler).Methods(http.MethodGet)
	return f
}

func (f *fixture) sessionToken(t *testing.T) string {
	return f.keys.Mint(t, middleware.Session{
		UserID:        "17",
		HoldingID:     3,
		Name:          "Ana Ruiz",
		ExternalToken: testToken,
	})
}

// do sends an authenticated request unless anonymous is set.
func (f *fixture) do(t *testing.T, method, target string, body any, anonymous bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !anonymous {
		req.Header.Set("Authorization", "Bearer "+f.sessionToken(t))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var out utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
