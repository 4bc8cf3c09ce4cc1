package services

import (
	"context"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/backend"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/sciener"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
)

// RequirementsBackend resolves smart-lock requirements for an apartment.
type RequirementsBackend interface {
	GetSchedulingRequirements(ctx context.Context, token string, req backend.RequirementsRequest) (*models.SchedulingRequirements, error)
}

// SchedulingBackend is the backend's scheduling collection.
type SchedulingBackend interface {
	CreateScheduling(ctx context.Context, token string, payload backend.CreateSchedulingPayload) (*models.Scheduling, error)
	CountSchedulings(ctx context.Context, token string, where backend.Where) (int, error)
	ListSchedulings(ctx context.Context, token string, f backend.Filter) ([]models.Scheduling, error)
	GetSchedulingWithQR(ctx context.Context, token string, schedulingID int64) (*models.Scheduling, error)
}

// DirectoryBackend covers operators, buildings and apartments.
type DirectoryBackend interface {
	Login(ctx context.Context, req backend.LoginRequest) (*backend.LoginResponse, error)
	ListBuildingsByHolding(ctx context.Context, token string, holdingID int64) ([]models.Building, error)
	ListApartmentsByBuilding(ctx context.Context, token string, buildingID int64) ([]models.Apartment, error)
	CountApartments(ctx context.Context, token string, where backend.Where) (int, error)
}

// LockVendor is the smart-lock cloud API.
type LockVendor interface {
	AddPasscode(ctx context.Context, args sciener.AddPasscodeArgs) (*sciener.AddPasscodeResponse, error)
	DeletePasscode(ctx context.Context, args sciener.DeletePasscodeArgs) (*sciener.Result, error)
	Unlock(ctx context.Context, args sciener.UnlockArgs) (*sciener.Result, error)
}

var (
	_ RequirementsBackend = (*backend.Client)(nil)
	_ SchedulingBackend   = (*backend.Client)(nil)
	_ DirectoryBackend    = (*backend.Client)(nil)
	_ LockVendor          = (*sciener.Client)(nil)
)
