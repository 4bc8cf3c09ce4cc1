package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	internal_utils "github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/backend"
	"github.com/Jepierre88/coins-control/backend/shared/go-dtos"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type BuildingMetrics struct {
	ApartmentsCount  int            `json:"apartmentsCount"`
	SchedulingsCount int            `json:"schedulingsCount"`
	Range            dtos.DateRange `json:"range"`
}

type MonthlyCountItem struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type MonthlyCounts struct {
	Items []MonthlyCountItem `json:"items"`
	Range dtos.DateRange     `json:"range"`
}

type MonthlyCountsQuery struct {
	BuildingID int64
	Year       int
	StartMonth string
	EndMonth   string
	MaxMonths  int
}

type ApartmentSchedulingCount struct {
	ApartmentID   int64  `json:"apartmentId"`
	ApartmentName string `json:"apartmentName"`
	Count         int    `json:"count"`
}

type DashboardService struct {
	directory DirectoryBackend
	store     *SchedulingStore
}

func NewDashboardService(directory DirectoryBackend, store *SchedulingStore) *DashboardService {
	return &DashboardService{directory: directory, store: store}
}

func monthRange(month string) (time.Time, time.Time, error) {
	start, end, err := internal_utils.MonthToUTCRange(month)
	if err != nil {
		return start, end, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), err)
	}
	return start, end, nil
}

func toDateRange(start, end time.Time) dtos.DateRange {
	return dtos.DateRange{
		StartDatetime: internal_utils.FormatISO(start),
		EndDatetime:   internal_utils.FormatISO(end),
	}
}

// MetricsByMonth returns the building's apartment count and the number of
// schedulings starting in month. Either count degrades to 0 on failure.
func (d *DashboardService) MetricsByMonth(ctx context.Context, token string, buildingID int64, month string) (*BuildingMetrics, error) {
	start, end, err := monthRange(month)
	if err != nil {
		return nil, err
	}
	logger := utils.Logger.WithFields(logrus.Fields{"buildingID": buildingID, "month": month})

	out := &BuildingMetrics{Range: toDateRange(start, end)}
	var g errgroup.Group
	g.Go(func() error {
		n, err := d.directory.CountApartments(ctx, token, backend.Where{"buildingId": buildingID})
		if err != nil {
			logger.WithError(err).Warn("Apartments count unavailable")
		}
		out.ApartmentsCount = n
		return nil
	})
	g.Go(func() error {
		n, err := d.store.CountInRange(ctx, token, buildingID, start, end)
		if err != nil {
			logger.WithError(err).Warn("Schedulings count unavailable")
		}
		out.SchedulingsCount = n
		return nil
	})
	_ = g.Wait()
	return out, nil
}

// MonthlyCounts counts schedulings per month for a calendar year or an
// explicit startMonth..endMonth range of at most MaxMonths (default 24).
func (d *DashboardService) MonthlyCounts(ctx context.Context, token string, q MonthlyCountsQuery) (*MonthlyCounts, error) {
	maxMonths := q.MaxMonths
	if maxMonths <= 0 {
		maxMonths = constants.DefaultMaxMonths
	}

	startMonth, endMonth := q.StartMonth, q.EndMonth
	if q.Year > 0 {
		startMonth = internal_utils.MonthKey(q.Year, time.January)
		endMonth = internal_utils.MonthKey(q.Year, time.December)
	}
	if startMonth == "" || endMonth == "" {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation,
			"Provide year or both startMonth and endMonth.", nil)
	}

	months, err := internal_utils.ExpandMonthRange(startMonth, endMonth)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), err)
	}
	if len(months) > maxMonths {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation,
			fmt.Sprintf("The range is too large (%d months). Narrow it or raise maxMonths.", len(months)), nil)
	}

	items := make([]MonthlyCountItem, len(months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.DashboardCountConcurrency)
	for i, month := range months {
		i, month := i, month
		g.Go(func() error {
			start, end, err := internal_utils.MonthToUTCRange(month)
			if err != nil {
				return err
			}
			n, err := d.store.CountInRange(gctx, token, q.BuildingID, start, end)
			if err != nil {
				return err
			}
			items[i] = MonthlyCountItem{Month: month, Count: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		utils.Logger.WithError(err).WithField("buildingID", q.BuildingID).Warn("Monthly counts failed")
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Could not load the monthly counts.", err)
	}

	first, _, _ := internal_utils.MonthToUTCRange(months[0])
	_, last, _ := internal_utils.MonthToUTCRange(months[len(months)-1])
	return &MonthlyCounts{Items: items, Range: toDateRange(first, last)}, nil
}

// SchedulingsByApartment counts each apartment's schedulings starting in
// month, drops apartments with none and sorts by count descending.
func (d *DashboardService) SchedulingsByApartment(ctx context.Context, token string, buildingID int64, month string) ([]ApartmentSchedulingCount, error) {
	start, end, err := monthRange(month)
	if err != nil {
		return nil, err
	}

	apartments, err := d.directory.ListApartmentsByBuilding(ctx, token, buildingID)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Could not load the apartments.", err)
	}

	counts := make([]ApartmentSchedulingCount, len(apartments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.DashboardCountConcurrency)
	for i := range apartments {
		i := i
		apt := &apartments[i]
		g.Go(func() error {
			n, err := d.store.CountApartmentInRange(gctx, token, buildingID, apt.ID, start, end)
			if err != nil {
				return err
			}
			counts[i] = ApartmentSchedulingCount{ApartmentID: apt.ID, ApartmentName: apt.DisplayName(), Count: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Could not load the schedulings per apartment.", err)
	}

	out := make([]ApartmentSchedulingCount, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}
