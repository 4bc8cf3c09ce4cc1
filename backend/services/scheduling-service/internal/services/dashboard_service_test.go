package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/Jepierre88/coins-control/backend/shared/go-dtos"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countWhere struct {
	ApartmentID int64 `json:"apartmentId"`
	Start       struct {
		Between []string `json:"between"`
	} `json:"start"`
}

// answerCounts serves /schedulings/count with fn applied to the decoded
// where clause.
func answerCounts(env *testEnv, fn func(w countWhere) int) {
	env.api.Handle(http.MethodGet, "/schedulings/count", func(w http.ResponseWriter, r *http.Request) {
		var where countWhere
		_ = json.Unmarshal([]byte(r.URL.Query().Get("where")), &where)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"count": fn(where)})
	})
}

func newDashboard(env *testEnv) *DashboardService {
	return NewDashboardService(env.backend, env.store)
}

func TestMetricsByMonth(t *testing.T) {
	env := newTestEnv(t)
	env.api.HandleJSON(http.MethodGet, "/apartments/count", http.StatusOK, map[string]int{"count": 12})
	env.api.HandleJSON(http.MethodGet, "/schedulings/count", http.StatusOK, map[string]int{"count": 5})

	metrics, err := newDashboard(env).MetricsByMonth(context.Background(), testToken, 3, "2024-02")
	require.NoError(t, err)
	assert.Equal(t, &BuildingMetrics{
		ApartmentsCount:  12,
		SchedulingsCount: 5,
		Range: dtos.DateRange{
			StartDatetime: "2024-02-01T00:00:00.000Z",
			EndDatetime:   "2024-02-29T23:59:59.999Z",
		},
	}, metrics)

	var aptWhere map[string]any
	env.api.Calls(http.MethodGet, "/apartments/count")[0].QueryJSON(t, "where", &aptWhere)
	assert.Equal(t, map[string]any{"buildingId": float64(3)}, aptWhere)

	var schedWhere map[string]any
	env.api.Calls(http.MethodGet, "/schedulings/count")[0].QueryJSON(t, "where", &schedWhere)
	assert.Equal(t, map[string]any{
		"buildingId": float64(3),
		"start":      map[string]any{"between": []any{"2024-02-01T00:00:00.000Z", "2024-02-29T23:59:59.999Z"}},
	}, schedWhere)
}

func TestMetricsByMonthDegradesToZero(t *testing.T) {
	env := newTestEnv(t)
	env.api.HandleLoopBackError(http.MethodGet, "/apartments/count", http.StatusInternalServerError, "boom")
	env.api.HandleJSON(http.MethodGet, "/schedulings/count", http.StatusOK, map[string]int{"count": 5})

	metrics, err := newDashboard(env).MetricsByMonth(context.Background(), testToken, 3, "2025-03")
	require.NoError(t, err)
	assert.Zero(t, metrics.ApartmentsCount)
	assert.Equal(t, 5, metrics.SchedulingsCount)
}

func TestMetricsByMonthRejectsBadMonth(t *testing.T) {
	env := newTestEnv(t)
	_, err := newDashboard(env).MetricsByMonth(context.Background(), testToken, 3, "2025-13")
	requireAppError(t, err, utils.ErrCodeValidation, "Invalid month format. Expected YYYY-MM")
	assert.Empty(t, env.api.Requests())
}

func TestMonthlyCountsForYear(t *testing.T) {
	env := newTestEnv(t)
	answerCounts(env, func(w countWhere) int {
		if len(w.Start.Between) != 2 {
			return -1
		}
		month, _ := strconv.Atoi(w.Start.Between[0][5:7])
		return month * 10
	})

	res, err := newDashboard(env).MonthlyCounts(context.Background(), testToken, MonthlyCountsQuery{BuildingID: 3, Year: 2025})
	require.NoError(t, err)
	require.Len(t, res.Items, 12)
	for i, item := range res.Items {
		assert.Equal(t, "2025-"+twoDigits(i+1), item.Month)
		assert.Equal(t, (i+1)*10, item.Count)
	}
	assert.Equal(t, dtos.DateRange{
		StartDatetime: "2025-01-01T00:00:00.000Z",
		EndDatetime:   "2025-12-31T23:59:59.999Z",
	}, res.Range)
	assert.Len(t, env.api.Calls(http.MethodGet, "/schedulings/count"), 12)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func TestMonthlyCountsForRange(t *testing.T) {
	env := newTestEnv(t)
	answerCounts(env, func(countWhere) int { return 1 })

	res, err := newDashboard(env).MonthlyCounts(context.Background(), testToken, MonthlyCountsQuery{
		BuildingID: 3, StartMonth: "2024-11", EndMonth: "2025-2",
	})
	require.NoError(t, err)
	months := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		months = append(months, item.Month)
	}
	assert.Equal(t, []string{"2024-11", "2024-12", "2025-01", "2025-02"}, months)
	assert.Equal(t, "2025-02-28T23:59:59.999Z", res.Range.EndDatetime)
}

func TestMonthlyCountsRejects(t *testing.T) {
	cases := map[string]struct {
		query   MonthlyCountsQuery
		message string
	}{
		"nothing": {
			MonthlyCountsQuery{BuildingID: 3},
			"Provide year or both startMonth and endMonth.",
		},
		"only start": {
			MonthlyCountsQuery{BuildingID: 3, StartMonth: "2025-01"},
			"Provide year or both startMonth and endMonth.",
		},
		"reversed": {
			MonthlyCountsQuery{BuildingID: 3, StartMonth: "2025-05", EndMonth: "2025-01"},
			"endMonth must be >= startMonth",
		},
		"too large": {
			MonthlyCountsQuery{BuildingID: 3, StartMonth: "2023-01", EndMonth: "2025-02"},
			"The range is too large (26 months). Narrow it or raise maxMonths.",
		},
		"custom limit": {
			MonthlyCountsQuery{BuildingID: 3, Year: 2025, MaxMonths: 6},
			"The range is too large (12 months). Narrow it or raise maxMonths.",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := newDashboard(env).MonthlyCounts(context.Background(), testToken, tc.query)
			requireAppError(t, err, utils.ErrCodeValidation, tc.message)
			assert.Empty(t, env.api.Requests())
		})
	}
}

func TestMonthlyCountsBackendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.api.HandleLoopBackError(http.MethodGet, "/schedulings/count", http.StatusInternalServerError, "boom")

	_, err := newDashboard(env).MonthlyCounts(context.Background(), testToken, MonthlyCountsQuery{BuildingID: 3, Year: 2025})
	requireAppError(t, err, utils.ErrCodeExternalServiceFailure, "")
}

func TestSchedulingsByApartment(t *testing.T) {
	env := newTestEnv(t)
	env.api.HandleJSON(http.MethodGet, "/apartments", http.StatusOK, []map[string]any{
		{"id": 1, "name": "101", "buildingId": 3},
		{"id": 2, "name": "", "buildingId": 3},
		{"id": 3, "name": "303", "buildingId": 3},
		{"id": 4, "name": "404", "buildingId": 3},
	})
	counts := map[int64]int{1: 2, 2: 5, 3: 0, 4: 2}
	answerCounts(env, func(w countWhere) int { return counts[w.ApartmentID] })

	res, err := newDashboard(env).SchedulingsByApartment(context.Background(), testToken, 3, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, []ApartmentSchedulingCount{
		{ApartmentID: 2, ApartmentName: "Apto 2", Count: 5},
		{ApartmentID: 1, ApartmentName: "101", Count: 2},
		{ApartmentID: 4, ApartmentName: "404", Count: 2},
	}, res)
}

func TestSchedulingsByApartmentNoApartments(t *testing.T) {
	env := newTestEnv(t)
	env.api.HandleJSON(http.MethodGet, "/apartments", http.StatusOK, []map[string]any{})

	res, err := newDashboard(env).SchedulingsByApartment(context.Background(), testToken, 3, "2025-03")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
	assert.Empty(t, env.api.Calls(http.MethodGet, "/schedulings/count"))
}
