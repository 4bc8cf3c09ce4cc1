package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/sciener"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-repositories"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

// GenerateSchedulingInput is one guest access request. Start and End must
// already have passed ValidateSchedulingWindow.
type GenerateSchedulingInput struct {
	BuildingID           int64
	ApartmentID          int64
	Name                 string
	LastName             string
	IdentificationNumber string
	Email                string
	CellPhoneNumber      string
	CreatedBy            string
	Start                time.Time
	End                  time.Time
}

type GenerateSchedulingResult struct {
	SchedulingID int64  `json:"schedulingId"`
	KeyboardPwd  string `json:"keyboardPwd,omitempty"`
}

// SchedulingOrchestrator runs resolve → (register passcode) → persist.
//
// When a ledger is configured every vendor passcode is tracked from before
// the vendor call until a scheduling references it, so PasscodeReconciler can
// revoke passcodes whose scheduling never got written. Without a ledger a
// persistence failure after a successful vendor call leaves the passcode live.
type SchedulingOrchestrator struct {
	cfg      *config.Config
	resolver *RequirementsResolver
	store    *SchedulingStore
	vendor   LockVendor
	ledger   repositories.PasscodeRegistrationRepository
	notifier GuestNotifier

	newPasscode func() string
}

// NewSchedulingOrchestrator wires the flow. ledger and notifier may be nil.
func NewSchedulingOrchestrator(
	cfg *config.Config,
	resolver *RequirementsResolver,
	store *SchedulingStore,
	vendor LockVendor,
	ledger repositories.PasscodeRegistrationRepository,
	notifier GuestNotifier,
) *SchedulingOrchestrator {
	return &SchedulingOrchestrator{
		cfg:         cfg,
		resolver:    resolver,
		store:       store,
		vendor:      vendor,
		ledger:      ledger,
		notifier:    notifier,
		newPasscode: GeneratePasscode,
	}
}

// Generate creates a scheduling, registering a vendor passcode first when
// the apartment has a smart lock. Every failure is an *utils.AppError whose
// Code names the failing stage.
func (o *SchedulingOrchestrator) Generate(ctx context.Context, token string, in GenerateSchedulingInput) (*GenerateSchedulingResult, error) {
	logger := utils.Logger.WithFields(logrus.Fields{
		"buildingID":  in.BuildingID,
		"apartmentID": in.ApartmentID,
	})

	req, err := o.resolver.Resolve(ctx, token, in.BuildingID, in.ApartmentID)
	if err != nil {
		return nil, err
	}

	hasLock := req.HasLock()
	if hasLock && !req.HasVendorCredentials() {
		logger.Warn("Lock attached without vendor credentials")
		return nil, utils.NewAppError(
			http.StatusUnprocessableEntity,
			utils.ErrCodeLockConfigIncomplete,
			constants.MsgLockConfigIncomplete,
			nil,
		)
	}

	if o.cfg != nil && o.cfg.LDFlag_OverlapGuard {
		if err := o.checkAvailability(ctx, token, in); err != nil {
			return nil, err
		}
	}

	createIn := CreateSchedulingInput{
		BuildingID:           in.BuildingID,
		ApartmentID:          in.ApartmentID,
		Name:                 in.Name,
		LastName:             in.LastName,
		IdentificationNumber: in.IdentificationNumber,
		Email:                in.Email,
		CellPhoneNumber:      in.CellPhoneNumber,
		CreatedBy:            in.CreatedBy,
		Start:                in.Start,
		End:                  in.End,
	}

	var reg *models.PasscodeRegistration
	if hasLock {
		// Once the vendor is involved the caller can no longer cancel: an
		// accepted passcode must end up either referenced or recorded.
		ctx = context.WithoutCancel(ctx)

		passcode := o.newPasscode()
		creds := sciener.LockCredentials{
			ClientID:    req.ClientID.String(),
			AccessToken: req.AccessTokenSmartLocker,
			LockID:      req.LockID.String(),
		}

		reg, err = o.reserve(ctx, in, creds)
		if err != nil {
			logger.WithError(err).Error("Failed to reserve passcode ledger entry")
			return nil, utils.NewAppError(
				http.StatusServiceUnavailable,
				utils.ErrCodeLedgerUnavailable,
				constants.MsgLedgerUnavailable,
				err,
			)
		}

		pwdID, err := o.registerPasscode(ctx, creds, passcode, in)
		if err != nil {
			var vendorErr *VendorError
			if errors.As(err, &vendorErr) {
				logger.WithError(err).Warn("Lock vendor rejected passcode")
				o.updateLedger(ctx, reg, func(p *models.PasscodeRegistration) {
					p.Status = models.PasscodeRegistrationFailed
					p.LastError = utils.Ptr(err.Error())
				})
			} else {
				// The vendor may have stored the passcode. The row stays
				// PENDING so the reconciler keeps seeing it.
				logger.WithError(err).Error("Lock vendor outcome unknown")
				o.updateLedger(ctx, reg, func(p *models.PasscodeRegistration) {
					p.LastError = utils.Ptr(err.Error())
				})
			}
			return nil, utils.NewAppError(
				http.StatusBadGateway,
				utils.ErrCodeLockVendorFailure,
				constants.MsgLockVendorFailure,
				err,
			)
		}
		o.updateLedger(ctx, reg, func(p *models.PasscodeRegistration) {
			p.Status = models.PasscodeRegistrationRegistered
			p.VendorPwdID = pwdID
		})

		createIn.KeyboardPwd = passcode
		createIn.KeyboardPwdID = pwdID
	}

	created, err := o.store.Create(ctx, token, createIn)
	if err != nil {
		if reg != nil {
			logger.WithField("registrationID", reg.ID).Error("Scheduling not persisted; passcode orphaned")
			o.updateLedger(ctx, reg, func(p *models.PasscodeRegistration) {
				p.Status = models.PasscodeRegistrationOrphaned
				p.LastError = utils.Ptr(err.Error())
			})
		}
		return nil, err
	}

	o.updateLedger(ctx, reg, func(p *models.PasscodeRegistration) {
		p.Status = models.PasscodeRegistrationFinalized
		p.SchedulingID = utils.Ptr(created.ID)
	})

	logger.WithFields(logrus.Fields{
		"schedulingID": created.ID,
		"withPasscode": createIn.KeyboardPwd != "",
	}).Info("Scheduling generated")

	if o.notifier != nil && createIn.KeyboardPwd != "" {
		o.notifier.NotifyGuestAccess(ctx, GuestAccessNotice{
			SchedulingID: created.ID,
			Name:         in.Name,
			LastName:     in.LastName,
			Email:        in.Email,
			Phone:        in.CellPhoneNumber,
			Passcode:     createIn.KeyboardPwd,
			Start:        in.Start,
			End:          in.End,
		})
	}

	return &GenerateSchedulingResult{SchedulingID: created.ID, KeyboardPwd: createIn.KeyboardPwd}, nil
}

func (o *SchedulingOrchestrator) checkAvailability(ctx context.Context, token string, in GenerateSchedulingInput) error {
	n, err := o.store.CountOverlapping(ctx, token, in.ApartmentID, in.Start, in.End)
	if err != nil {
		utils.Logger.WithError(err).WithField("apartmentID", in.ApartmentID).Warn("Overlap check failed")
		return utils.NewAppError(
			http.StatusBadGateway,
			utils.ErrCodeExternalServiceFailure,
			constants.MsgAvailabilityUnverified,
			err,
		)
	}
	if n > 0 {
		return utils.NewAppError(
			http.StatusConflict,
			utils.ErrCodeSchedulingConflict,
			constants.MsgSchedulingConflict,
			nil,
		)
	}
	return nil
}

// registerPasscode calls the vendor once. A non-zero errcode comes back as
// *VendorError. Any other error leaves the vendor-side outcome unknown.
func (o *SchedulingOrchestrator) registerPasscode(
	ctx context.Context,
	creds sciener.LockCredentials,
	passcode string,
	in GenerateSchedulingInput,
) (*int64, error) {
	resp, err := o.vendor.AddPasscode(ctx, sciener.AddPasscodeArgs{
		LockCredentials: creds,
		Passcode:        passcode,
		Label:           in.IdentificationNumber,
		Start:           in.Start,
		End:             in.End,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("empty vendor response")
	}
	if resp.Failed() {
		return nil, &VendorError{Errcode: resp.Errcode, Errmsg: resp.Errmsg}
	}
	raw := strings.TrimSpace(resp.KeyboardPwdID.String())
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("vendor returned keyboardPwdId %q: %w", raw, err)
	}
	if id == 0 {
		return nil, nil
	}
	return &id, nil
}

func (o *SchedulingOrchestrator) reserve(ctx context.Context, in GenerateSchedulingInput, creds sciener.LockCredentials) (*models.PasscodeRegistration, error) {
	if o.ledger == nil {
		return nil, nil
	}
	reg := &models.PasscodeRegistration{
		BuildingID:  in.BuildingID,
		ApartmentID: in.ApartmentID,
		LockID:      creds.LockID,
		ClientID:    creds.ClientID,
		AccessToken: creds.AccessToken,
		Label:       in.IdentificationNumber,
		StartsAt:    in.Start,
		EndsAt:      in.End,
		Status:      models.PasscodeRegistrationPending,
		CreatedBy:   in.CreatedBy,
	}
	if err := o.ledger.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// updateLedger applies mutate to reg's row. Ledger write failures are logged
// and left to the reconciler; they never change the request outcome.
func (o *SchedulingOrchestrator) updateLedger(ctx context.Context, reg *models.PasscodeRegistration, mutate func(*models.PasscodeRegistration)) {
	if o.ledger == nil || reg == nil {
		return
	}
	err := o.ledger.UpdateWithRetry(ctx, reg.ID, func(p *models.PasscodeRegistration) error {
		mutate(p)
		return nil
	})
	if err != nil {
		utils.Logger.WithError(err).WithField("registrationID", reg.ID).Error("Failed to update passcode ledger")
	}
}
