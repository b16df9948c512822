package export

import (
	"fmt"

	"github.com/alimgiray/timetrack/internal/models"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Timers"

var currencyFormat = "$#,##0.00"

// GenerateWorkbook renders the same header and rows as GenerateDelimitedText
// into a single-sheet XLSX workbook. Rate and amount are numeric cells.
func GenerateWorkbook(timers []*models.Timer) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, timer := range timers {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := workbookRow(timer)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, headerStyle); err != nil {
		return nil, err
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFormat})
	if err != nil {
		return nil, err
	}
	if err := f.SetColStyle(SheetName, "H:I", moneyStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "A", "B", 30); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func workbookRow(timer *models.Timer) []interface{} {
	fields := Row(timer)
	row := make([]interface{}, 0, len(fields))
	for _, field := range fields[:7] {
		row = append(row, field)
	}

	if timer.IsBillable && timer.HourlyRate != nil {
		row = append(row, *timer.HourlyRate)
	} else {
		row = append(row, nil)
	}
	if timer.AmountEarned != nil {
		row = append(row, *timer.AmountEarned)
	} else {
		row = append(row, nil)
	}
	return row
}
