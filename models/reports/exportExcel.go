package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

// BuildFinancialSummaryWorkbook lays the summary out as a spreadsheet for
// the shop's accountant. The handler streams the file to the caller.
func BuildFinancialSummaryWorkbook(summary *FinancialSummary, startDate, endDate time.Time) (*excelize.File, error) {

	f := excelize.NewFile()
	sheet := "Summary"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheet, "A1", "Financial Summary")
	f.SetCellValue(sheet, "A2", "Period")
	f.SetCellValue(sheet, "B2", fmt.Sprintf("%s to %s",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))

	rows := [][2]interface{}{
		{"Total Revenue", summary.TotalRevenue.InexactFloat64()},
		{"Total Expenses", summary.TotalExpenses.InexactFloat64()},
		{"Net Profit", summary.NetProfit.InexactFloat64()},
		{"Profit Margin (%)", summary.ProfitMargin.InexactFloat64()},
	}
	rowNo := 4
	for _, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNo), row[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNo), row[1])
		rowNo++
	}

	rowNo++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNo), "Revenue Distribution")
	rowNo++
	for _, source := range sortedKeys(summary.RevenueDistribution) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNo), source)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNo), summary.RevenueDistribution[source].InexactFloat64())
		rowNo++
	}

	rowNo++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNo), "Expense Distribution")
	rowNo++
	for _, category := range sortedKeys(summary.ExpenseDistribution) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNo), category)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNo), summary.ExpenseDistribution[category].InexactFloat64())
		rowNo++
	}

	rowNo++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNo), "Profit Trend")
	rowNo++
	for _, bucket := range summary.ProfitTrend {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNo), bucket.Period)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNo), bucket.Profit.InexactFloat64())
		rowNo++
	}

	return f, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
