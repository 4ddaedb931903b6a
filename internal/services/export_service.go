package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService turns the dashboard aggregates into downloadable files
type ExportService struct {
	analyticsSvc *AnalyticsService
}

func NewExportService(analyticsSvc *AnalyticsService) *ExportService {
	return &ExportService{analyticsSvc: analyticsSvc}
}

func (s *ExportService) ExportCSV(ctx context.Context) ([]byte, string, error) {
	overview, err := s.analyticsSvc.GetOverview(ctx)
	if err != nil {
		return nil, "", err
	}
	aging, err := s.analyticsSvc.ReceivablesAging(ctx)
	if err != nil {
		return nil, "", err
	}
	expenses, err := s.analyticsSvc.ExpensesByCategory(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Business Report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Overview"})
	_ = writer.Write([]string{"Metric", "Value"})
	_ = writer.Write([]string{"Total Revenue", fmt.Sprintf("%.2f", overview.TotalRevenue)})
	_ = writer.Write([]string{"Cost of Goods Sold", fmt.Sprintf("%.2f", overview.TotalCOGS)})
	_ = writer.Write([]string{"Gross Profit", fmt.Sprintf("%.2f", overview.GrossProfit)})
	_ = writer.Write([]string{"Total Expenses", fmt.Sprintf("%.2f", overview.TotalExpenses)})
	_ = writer.Write([]string{"Net Profit", fmt.Sprintf("%.2f", overview.NetProfit)})
	_ = writer.Write([]string{"Receivables", fmt.Sprintf("%.2f", overview.Receivables)})
	_ = writer.Write([]string{"Inventory Value", fmt.Sprintf("%.2f", overview.InventoryValue)})
	_ = writer.Write([]string{"Cash Balance", fmt.Sprintf("%.2f", overview.CashBalance)})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Receivables Aging"})
	_ = writer.Write([]string{"Bucket", "Amount"})
	_ = writer.Write([]string{"0-30 days", fmt.Sprintf("%.2f", aging.Current)})
	_ = writer.Write([]string{"31-60 days", fmt.Sprintf("%.2f", aging.Mid)})
	_ = writer.Write([]string{"61+ days", fmt.Sprintf("%.2f", aging.Old)})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Expenses by Category"})
	_ = writer.Write([]string{"Category", "Amount"})
	for _, cat := range models.ExpenseCategories {
		if amount, ok := expenses[cat]; ok {
			_ = writer.Write([]string{cat, fmt.Sprintf("%.2f", amount)})
		}
	}

	writer.Flush()

	filename := fmt.Sprintf("business_report_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context) ([]byte, string, error) {
	overview, err := s.analyticsSvc.GetOverview(ctx)
	if err != nil {
		return nil, "", err
	}
	aging, err := s.analyticsSvc.ReceivablesAging(ctx)
	if err != nil {
		return nil, "", err
	}
	trend, err := s.analyticsSvc.MonthlyTrend(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Business"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Business Report")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Overview")
	_ = f.SetCellValue(sheet, "A4", "Metric")
	_ = f.SetCellValue(sheet, "B4", "Value")

	rows := []struct {
		label string
		value float64
	}{
		{"Total Revenue", overview.TotalRevenue},
		{"Cost of Goods Sold", overview.TotalCOGS},
		{"Gross Profit", overview.GrossProfit},
		{"Total Expenses", overview.TotalExpenses},
		{"Net Profit", overview.NetProfit},
		{"Receivables", overview.Receivables},
		{"Inventory Value", overview.InventoryValue},
		{"Cash Balance", overview.CashBalance},
	}
	for i, row := range rows {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", 5+i), row.label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", 5+i), row.value)
	}

	_ = f.SetCellValue(sheet, "A14", "Receivables Aging")
	_ = f.SetCellValue(sheet, "A15", "0-30 days")
	_ = f.SetCellValue(sheet, "B15", aging.Current)
	_ = f.SetCellValue(sheet, "A16", "31-60 days")
	_ = f.SetCellValue(sheet, "B16", aging.Mid)
	_ = f.SetCellValue(sheet, "A17", "61+ days")
	_ = f.SetCellValue(sheet, "B17", aging.Old)

	_ = f.SetCellValue(sheet, "A19", "Monthly Trend")
	_ = f.SetCellValue(sheet, "A20", "Month")
	_ = f.SetCellValue(sheet, "B20", "Revenue")
	_ = f.SetCellValue(sheet, "C20", "Gross Profit")
	for i, point := range trend {
		row := 21 + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), point.Month)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), point.Revenue)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), point.GrossProfit)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("business_report_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
