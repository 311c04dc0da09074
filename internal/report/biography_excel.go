package report

import (
	"bytes"
	"fmt"

	"wisefido-motion/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetDaily  = "Daily Summary"
	SheetWeekly = "Weekly Trend"
)

// DailySummaryHeader 日摘要表头
var DailySummaryHeader = []string{
	"Date",
	"Walking Duration",
	"Transition Count",
	"Near Falls",
	"Inactivity Time",
	"Fall Risk Score",
}

// WeeklyTrendHeader 周趋势表头
var WeeklyTrendHeader = []string{"Metric", "Change (%)"}

// GenerateBiographyReport 生成运动传记 Excel（日摘要 + 周趋势）
func GenerateBiographyReport(userID string, summaries []models.DailySummary, weekly models.WeeklyTrend) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// 默认的 Sheet1 改名为日摘要
	if err := f.SetSheetName("Sheet1", SheetDaily); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetWeekly); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, SheetDaily, DailySummaryHeader, headerStyle); err != nil {
		return nil, err
	}
	for i, s := range summaries {
		row := []interface{}{
			s.Date.String(),
			s.WalkingDuration,
			s.TransitionCount,
			s.NearFalls,
			s.InactivityTime,
			s.FallRiskScore,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetDaily, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetDaily, "A", "F", 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	if err := writeHeader(f, SheetWeekly, WeeklyTrendHeader, headerStyle); err != nil {
		return nil, err
	}
	rows := [][]interface{}{
		{"User", userID},
		{"Week Ending", weekly.EndDate.String()},
		{"Walking", weekly.WalkChange},
		{"Near Falls", weekly.NearFallChange},
		{"Inactivity", weekly.InactivityChange},
	}
	for _, n := range weekly.Narratives {
		rows = append(rows, []interface{}{"Narrative", n})
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetWeekly, cell, &rows[i]); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetWeekly, "A", "A", 16); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(SheetWeekly, "B", "B", 60); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	return nil
}
