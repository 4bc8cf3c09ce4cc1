package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	internal_utils "github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/backend"
	"github.com/Jepierre88/coins-control/backend/shared/go-dtos"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	schedulingOrderStartDesc = "start DESC"
	relationApartment        = "apartment"
)

// SchedulingStore reads and writes the backend's scheduling collection.
// Failures come back as *utils.AppError; listings also return a usable
// empty value so callers can degrade gracefully.
type SchedulingStore struct {
	backend SchedulingBackend
	now     func() time.Time
}

func NewSchedulingStore(b SchedulingBackend) *SchedulingStore {
	return &SchedulingStore{backend: b, now: time.Now}
}

type CreateSchedulingInput struct {
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

	KeyboardPwd   string
	KeyboardPwdID *int64
}

// Create posts one scheduling with the fixed console values. A response
// without an id counts as a failure.
func (s *SchedulingStore) Create(ctx context.Context, token string, in CreateSchedulingInput) (*models.Scheduling, error) {
	payload := backend.CreateSchedulingPayload{
		Datetime:                   internal_utils.FormatISO(s.now()),
		Start:                      internal_utils.FormatISO(in.Start),
		End:                        internal_utils.FormatISO(in.End),
		Title:                      models.SchedulingTitle,
		State:                      string(models.SchedulingStateCreated),
		Type:                       models.SchedulingType,
		Name:                       strings.ToUpper(in.Name),
		LastName:                   strings.ToUpper(in.LastName),
		CellPhoneNumber:            in.CellPhoneNumber,
		TypeIdentificationDocument: models.IdentificationDocumentType,
		IdentificationNumber:       in.IdentificationNumber,
		KeyboardPwd:                in.KeyboardPwd,
		Email:                      in.Email,
		CreatedBy:                  in.CreatedBy,
		ApartmentID:                in.ApartmentID,
		BuildingID:                 in.BuildingID,
	}
	if in.KeyboardPwdID != nil && *in.KeyboardPwdID != 0 {
		payload.KeyboardPwdID = strconv.FormatInt(*in.KeyboardPwdID, 10)
	}

	created, err := s.backend.CreateScheduling(ctx, token, payload)
	if err == nil && (created == nil || created.ID == 0) {
		err = errors.New("backend returned no scheduling id")
	}
	if err != nil {
		utils.Logger.WithError(err).WithFields(logrus.Fields{
			"buildingID":  in.BuildingID,
			"apartmentID": in.ApartmentID,
		}).Error("Failed to create scheduling")
		return nil, utils.NewAppError(
			http.StatusBadGateway,
			utils.ErrCodeSchedulingPersistFailure,
			constants.MsgSchedulingPersistFailed,
			err,
		)
	}
	return created, nil
}

// SchedulingPageQuery filters a building's schedulings. Dates are calendar
// days (YYYY-MM-DD) interpreted in UTC; zero values mean "no filter".
type SchedulingPageQuery struct {
	BuildingID  int64
	Page        int
	PageSize    int
	ApartmentID int64
	StartDate   string
	EndDate     string
	State       string
	GuestName   string
}

// NormalizePaging applies the defaults (page 1, size 20) to zero values and
// clamps both to at least 1.
func NormalizePaging(page, pageSize int) (int, int) {
	if pageSize == 0 {
		pageSize = constants.DefaultPageSize
	}
	if page == 0 {
		page = constants.DefaultPage
	}
	return max(1, page), max(1, pageSize)
}

// BuildSchedulingWhere translates q into a backend where-clause.
func BuildSchedulingWhere(q SchedulingPageQuery) (backend.Where, error) {
	where := backend.Where{"buildingId": q.BuildingID}

	if q.ApartmentID != 0 {
		where["apartmentId"] = q.ApartmentID
	}
	if variants := models.StateFilterVariants(q.State); len(variants) > 0 {
		where["state"] = backend.Where{"inq": variants}
	}

	switch {
	case q.StartDate != "" && q.EndDate != "":
		from, err := internal_utils.DateOnlyToUTCStart(q.StartDate)
		if err != nil {
			return nil, err
		}
		to, err := internal_utils.DateOnlyToUTCEnd(q.EndDate)
		if err != nil {
			return nil, err
		}
		where["start"] = backend.Where{"between": []string{internal_utils.FormatISO(from), internal_utils.FormatISO(to)}}
	case q.StartDate != "":
		from, err := internal_utils.DateOnlyToUTCStart(q.StartDate)
		if err != nil {
			return nil, err
		}
		where["start"] = backend.Where{"gte": internal_utils.FormatISO(from)}
	case q.EndDate != "":
		to, err := internal_utils.DateOnlyToUTCEnd(q.EndDate)
		if err != nil {
			return nil, err
		}
		where["start"] = backend.Where{"lte": internal_utils.FormatISO(to)}
	}

	if name := strings.TrimSpace(q.GuestName); name != "" {
		where["or"] = []backend.Where{
			{"name": backend.Like(name)},
			{"lastName": backend.Like(name)},
		}
	}
	return where, nil
}

// Page returns one page of schedulings, newest start first. The count and
// list queries run concurrently. On any failure the empty page is returned
// alongside the error.
func (s *SchedulingStore) Page(ctx context.Context, token string, q SchedulingPageQuery) (dtos.Page[models.Scheduling], error) {
	where, err := BuildSchedulingWhere(q)
	if err != nil {
		return dtos.EmptyPage[models.Scheduling](), utils.NewAppError(
			http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), err)
	}
	page, pageSize := NormalizePaging(q.Page, q.PageSize)
	filter := backend.Filter{
		Where:   where,
		Order:   []string{schedulingOrderStartDesc},
		Limit:   pageSize,
		Skip:    (page - 1) * pageSize,
		Include: []any{backend.Relation{Relation: relationApartment}},
	}

	var (
		total int
		items []models.Scheduling
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.backend.CountSchedulings(gctx, token, where)
		total = n
		return err
	})
	g.Go(func() error {
		list, err := s.backend.ListSchedulings(gctx, token, filter)
		items = list
		return err
	})
	if err := g.Wait(); err != nil {
		utils.Logger.WithError(err).WithField("buildingID", q.BuildingID).Warn("Failed to load schedulings page")
		return dtos.EmptyPage[models.Scheduling](), utils.NewAppError(
			http.StatusBadGateway, utils.ErrCodeExternalServiceFailure, "Could not load the schedulings.", err)
	}

	if items == nil {
		items = []models.Scheduling{}
	}
	return dtos.Page[models.Scheduling]{Items: items, Total: total}, nil
}

// List returns up to limit schedulings matching q, newest start first,
// without a count. Used by exports.
func (s *SchedulingStore) List(ctx context.Context, token string, q SchedulingPageQuery, limit int) ([]models.Scheduling, error) {
	where, err := BuildSchedulingWhere(q)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), err)
	}
	items, err := s.backend.ListSchedulings(ctx, token, backend.Filter{
		Where:   where,
		Order:   []string{schedulingOrderStartDesc},
		Limit:   max(1, limit),
		Include: []any{backend.Relation{Relation: relationApartment}},
	})
	if err != nil {
		return nil, utils.NewAppError(
			http.StatusBadGateway, utils.ErrCodeExternalServiceFailure, "Could not load the schedulings.", err)
	}
	return items, nil
}

// CountInRange counts a building's schedulings whose start falls in
// [start, end]. It returns 0 with the error on failure.
func (s *SchedulingStore) CountInRange(ctx context.Context, token string, buildingID int64, start, end time.Time) (int, error) {
	return s.count(ctx, token, backend.Where{
		"buildingId": buildingID,
		"start":      backend.Where{"between": []string{internal_utils.FormatISO(start), internal_utils.FormatISO(end)}},
	})
}

// CountApartmentInRange is CountInRange narrowed to one apartment.
func (s *SchedulingStore) CountApartmentInRange(ctx context.Context, token string, buildingID, apartmentID int64, start, end time.Time) (int, error) {
	return s.count(ctx, token, backend.Where{
		"buildingId":  buildingID,
		"apartmentId": apartmentID,
		"start":       backend.Where{"between": []string{internal_utils.FormatISO(start), internal_utils.FormatISO(end)}},
	})
}

// CountOverlapping counts the apartment's non-canceled schedulings whose
// [start, end) window intersects [start, end).
func (s *SchedulingStore) CountOverlapping(ctx context.Context, token string, apartmentID int64, start, end time.Time) (int, error) {
	return s.count(ctx, token, backend.Where{
		"apartmentId": apartmentID,
		"start":       backend.Where{"lt": internal_utils.FormatISO(end)},
		"end":         backend.Where{"gt": internal_utils.FormatISO(start)},
		"state":       backend.Where{"nin": models.StateFilterVariants(string(models.SchedulingStateCanceled))},
	})
}

func (s *SchedulingStore) count(ctx context.Context, token string, where backend.Where) (int, error) {
	n, err := s.backend.CountSchedulings(ctx, token, where)
	if err != nil {
		return 0, err
	}
	return n, nil
}
