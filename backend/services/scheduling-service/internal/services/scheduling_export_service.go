package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	internal_utils "github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Schedulings"

var exportHeader = []any{
	"ID", "Apartment", "Name", "Last name", "Identification", "Email", "Phone", "Start (UTC)", "End (UTC)", "State", "Passcode",
}

type SchedulingExportService struct {
	store *SchedulingStore
	now   func() time.Time
}

func NewSchedulingExportService(store *SchedulingStore) *SchedulingExportService {
	return &SchedulingExportService{store: store, now: time.Now}
}

// ExportXLSX writes the schedulings matching q (paging ignored) to a
// spreadsheet and returns it with a suggested file name.
func (s *SchedulingExportService) ExportXLSX(ctx context.Context, token string, q SchedulingPageQuery) ([]byte, string, error) {
	items, err := s.store.List(ctx, token, q, constants.ExportMaxRows)
	if err != nil {
		return nil, "", err
	}

	raw, err := buildSchedulingWorkbook(items)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to build schedulings workbook")
		return nil, "", utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal,
			"Could not build the export.", err)
	}
	name := fmt.Sprintf("schedulings-%d-%s.xlsx", q.BuildingID, s.now().UTC().Format("20060102-150405"))
	return raw, name, nil
}

func buildSchedulingWorkbook(items []models.Scheduling) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeader))
	if err := f.SetCellStyle(exportSheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheetName, "A", lastCol, 18); err != nil {
		return nil, err
	}

	for i := range items {
		sched := &items[i]
		apartment := ""
		if sched.Apartment != nil {
			apartment = sched.Apartment.DisplayName()
		}
		row := []any{
			sched.ID,
			apartment,
			sched.Name,
			sched.LastName,
			sched.IdentificationNumber,
			sched.Email,
			sched.CellPhoneNumber,
			internal_utils.FormatISO(sched.Start),
			internal_utils.FormatISO(sched.End),
			string(sched.State.Canonical()),
			sched.KeyboardPwd,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
