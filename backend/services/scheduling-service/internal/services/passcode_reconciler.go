package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/sciener"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-repositories"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	Examined  int `json:"examined"`
	Revoked   int `json:"revoked"`
	Abandoned int `json:"abandoned"`
	Retrying  int `json:"retrying"`
}

// PasscodeReconciler revokes vendor passcodes that no scheduling references:
// ORPHANED rows immediately, REGISTERED rows once older than the grace
// period. Stale PENDING rows carry no vendor id and are marked ABANDONED.
type PasscodeReconciler struct {
	cfg    *config.Config
	ledger repositories.PasscodeRegistrationRepository
	vendor LockVendor
	now    func() time.Time
}

func NewPasscodeReconciler(cfg *config.Config, ledger repositories.PasscodeRegistrationRepository, vendor LockVendor) *PasscodeReconciler {
	return &PasscodeReconciler{cfg: cfg, ledger: ledger, vendor: vendor, now: time.Now}
}

// Schedule registers RunOnce on c at cfg.ReconcileCronSpec. Overlapping
// runs are skipped.
func (r *PasscodeReconciler) Schedule(c *cron.Cron) (cron.EntryID, error) {
	job := cron.FuncJob(func() {
		if !r.cfg.LDFlag_ReconcileOrphanedPasscodes {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), constants.ReconcileRunTimeout)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			utils.Logger.WithError(err).Error("Passcode reconciliation failed")
		}
	})
	return c.AddJob(r.cfg.ReconcileCronSpec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(job))
}

// RunOnce processes one batch of reconcilable rows.
func (r *PasscodeReconciler) RunOnce(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	staleBefore := r.now().Add(-r.cfg.ReconcileGracePeriod)

	rows, err := r.ledger.ListReconcilable(ctx, staleBefore, r.cfg.ReconcileBatchSize)
	if err != nil {
		return report, fmt.Errorf("list reconcilable passcodes: %w", err)
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Examined++

		logger := utils.Logger.WithFields(logrus.Fields{
			"registrationID": row.ID,
			"status":         row.Status,
			"lockID":         row.LockID,
		})

		outcome, err := r.reconcile(ctx, row)
		if err != nil {
			logger.WithError(err).Warn("Failed to reconcile passcode registration")
		}
		switch outcome {
		case models.PasscodeRegistrationRevoked:
			report.Revoked++
			logger.Info("Orphaned passcode revoked")
		case models.PasscodeRegistrationAbandoned:
			report.Abandoned++
			logger.Warn("Passcode registration abandoned")
		default:
			report.Retrying++
		}
	}

	if report.Examined > 0 {
		utils.Logger.WithFields(logrus.Fields{
			"examined":  report.Examined,
			"revoked":   report.Revoked,
			"abandoned": report.Abandoned,
			"retrying":  report.Retrying,
		}).Info("Passcode reconciliation pass complete")
	}
	return report, nil
}

// reconcile returns the status the row ended in.
func (r *PasscodeReconciler) reconcile(ctx context.Context, row *models.PasscodeRegistration) (models.PasscodeRegistrationStatus, error) {
	if row.Status == models.PasscodeRegistrationPending || row.VendorPwdID == nil {
		reason := "no vendor passcode id recorded"
		if row.LastError != nil {
			reason += ": " + *row.LastError
		}
		return r.transition(ctx, row, models.PasscodeRegistrationAbandoned, &reason)
	}

	result, err := r.vendor.DeletePasscode(ctx, sciener.DeletePasscodeArgs{
		LockCredentials: sciener.LockCredentials{
			ClientID:    row.ClientID,
			AccessToken: row.AccessToken,
			LockID:      row.LockID,
		},
		KeyboardPwdID: *row.VendorPwdID,
	})
	if err == nil && result.Failed() {
		err = &VendorError{Errcode: result.Errcode, Errmsg: result.Errmsg}
	}
	if err == nil {
		return r.transition(ctx, row, models.PasscodeRegistrationRevoked, nil)
	}

	msg := err.Error()
	if row.Attempts+1 >= constants.ReconcileMaxAttempts {
		status, uErr := r.transition(ctx, row, models.PasscodeRegistrationAbandoned, &msg)
		return status, errors.Join(err, uErr)
	}
	uErr := r.ledger.UpdateWithRetry(ctx, row.ID, func(p *models.PasscodeRegistration) error {
		p.Attempts++
		p.LastError = &msg
		return nil
	})
	return row.Status, errors.Join(err, uErr)
}

func (r *PasscodeReconciler) transition(
	ctx context.Context,
	row *models.PasscodeRegistration,
	to models.PasscodeRegistrationStatus,
	lastErr *string,
) (models.PasscodeRegistrationStatus, error) {
	err := r.ledger.UpdateWithRetry(ctx, row.ID, func(p *models.PasscodeRegistration) error {
		if p.Status.IsTerminal() {
			return fmt.Errorf("registration already %s", p.Status)
		}
		p.Status = to
		p.Attempts++
		if lastErr != nil {
			p.LastError = lastErr
		}
		return nil
	})
	if err != nil {
		return row.Status, err
	}
	return to, nil
}
