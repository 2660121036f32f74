package analytics

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

// SheetNames перечисляет листы выгрузки в порядке периодов.
var SheetNames = []string{"Today", "Week", "Month", "Year"}

// WriteWorkbook выгружает снимок в XLSX: по листу на период, слева показатели, справа график.
func WriteWorkbook(snapshot *model.AnalyticsSnapshot, w io.Writer) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	periods := []model.PeriodStats{snapshot.Today, snapshot.Week, snapshot.Month, snapshot.Year}

	for i, name := range SheetNames {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}

		if err := writePeriod(f, name, periods[i]); err != nil {
			return fmt.Errorf("write sheet %s: %w", name, err)
		}
	}

	if !snapshot.UpdatedAt.IsZero() {
		if err := f.SetCellValue(SheetNames[0], "A10", "Updated at"); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetNames[0], "B10", snapshot.UpdatedAt.UTC().Format("2006-01-02 15:04:05 MST")); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writePeriod(f *excelize.File, sheet string, p model.PeriodStats) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Orders", p.Orders},
		{"Revenue", p.Price},
		{"Delivery orders", p.DeliveryOrders},
		{"Delivery revenue", p.DeliveryPrice},
		{"Delivery distance", p.DeliveryDistance},
		{"Unique users", p.Users},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(sheet, "D1", &[]any{"Label", "Total"}); err != nil {
		return err
	}
	for i, pt := range p.Chart {
		cell, err := excelize.CoordinatesToCellName(4, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{pt.Label, pt.Total}); err != nil {
			return err
		}
	}
	return nil
}
