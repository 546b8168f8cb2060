// Package export renders dashboard downloads: expense and payroll
// workbooks, and invoice payment receipts.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/wessamh/edara-actions/internal/model"
)

// UnitExpenseReport is one unit's expense history over a period.
type UnitExpenseReport struct {
	Unit       model.Unit
	PeriodFrom *time.Time
	PeriodTo   *time.Time
	Expenses   []model.OperationalExpense
}

type ExcelGenerator struct{}

func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

func (g *ExcelGenerator) UnitExpenses(report UnitExpenseReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)

	set := func(sheet, cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	total := decimal.Zero
	byCategory := map[model.ExpenseCategory]decimal.Decimal{}
	for _, exp := range report.Expenses {
		total = total.Add(exp.Amount)
		byCategory[exp.Category] = byCategory[exp.Category].Add(exp.Amount)
	}

	set(summarySheet, "A1", "Unit")
	set(summarySheet, "B1", fmt.Sprintf("%s — %s", report.Unit.BuildingName, report.Unit.Label))
	set(summarySheet, "A2", "Period start")
	set(summarySheet, "B2", formatDatePtr(report.PeriodFrom))
	set(summarySheet, "A3", "Period end")
	set(summarySheet, "B3", formatDatePtr(report.PeriodTo))
	set(summarySheet, "A4", "Expense count")
	set(summarySheet, "B4", len(report.Expenses))
	set(summarySheet, "A5", "Total amount")
	set(summarySheet, "B5", total.StringFixed(2))

	tableRow := 7
	set(summarySheet, fmt.Sprintf("A%d", tableRow), "Category")
	set(summarySheet, fmt.Sprintf("B%d", tableRow), "Amount")
	row := tableRow
	for _, category := range categoryOrder {
		amount, ok := byCategory[category]
		if !ok {
			continue
		}
		row++
		set(summarySheet, fmt.Sprintf("A%d", row), string(category))
		set(summarySheet, fmt.Sprintf("B%d", row), amount.StringFixed(2))
	}

	detailSheet := sanitizeSheetName(report.Unit.Label)
	if detailSheet == summarySheet {
		detailSheet = "Expenses"
	}
	file.NewSheet(detailSheet)

	headers := []string{"Date", "Description", "Category", "Source", "Amount"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(detailSheet, cell, header)
	}
	for i, exp := range report.Expenses {
		row := i + 2
		set(detailSheet, fmt.Sprintf("A%d", row), exp.CreatedAt.Format("2006-01-02 15:04"))
		set(detailSheet, fmt.Sprintf("B%d", row), exp.Description)
		set(detailSheet, fmt.Sprintf("C%d", row), string(exp.Category))
		set(detailSheet, fmt.Sprintf("D%d", row), string(exp.SourceType))
		set(detailSheet, fmt.Sprintf("E%d", row), exp.Amount.StringFixed(2))
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 32)
	_ = file.SetColWidth(detailSheet, "A", "A", 18)
	_ = file.SetColWidth(detailSheet, "B", "B", 48)
	_ = file.SetColWidth(detailSheet, "C", "D", 18)
	_ = file.SetColWidth(detailSheet, "E", "E", 14)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *ExcelGenerator) Payroll(payroll model.Payroll) ([]byte, error) {
	file := excelize.NewFile()

	sheet := sanitizeSheetName("Payroll " + payroll.Month)
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Month")
	set("B1", payroll.Month)
	set("A2", "Status")
	set("B2", string(payroll.Status))
	set("A3", "Total gross")
	set("B3", payroll.TotalGross.StringFixed(2))
	set("A4", "Total advances")
	set("B4", payroll.TotalAdvances.StringFixed(2))
	set("A5", "Total net")
	set("B5", payroll.TotalNet.StringFixed(2))
	if payroll.PaidAt != nil {
		set("A6", "Paid at")
		set("B6", payroll.PaidAt.Format("2006-01-02 15:04"))
	}

	tableRow := 8
	headers := []string{"Staff", "Salary", "Advances", "Net"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}
	for i, item := range payroll.Items {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), item.StaffName)
		set(fmt.Sprintf("B%d", row), item.Salary.StringFixed(2))
		set(fmt.Sprintf("C%d", row), item.Advances.StringFixed(2))
		set(fmt.Sprintf("D%d", row), item.Net.StringFixed(2))
	}

	_ = file.SetColWidth(sheet, "A", "A", 36)
	_ = file.SetColWidth(sheet, "B", "D", 16)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var categoryOrder = []model.ExpenseCategory{
	model.CategoryTechnicianWork,
	model.CategoryStaffWork,
	model.CategoryUtilities,
	model.CategoryOther,
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}
	if len(value) > 31 {
		value = value[:31]
	}
	return value
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
