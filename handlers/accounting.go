package handlers

import (
	"fmt"
	"net/http"

	"bitbucket.org/bharatisweets/sweets_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func GetFinancialSummary(c *gin.Context) {
	startDate, endDate, ok := dateRange(c)
	if !ok {
		return
	}
	summary, err := reports.GetFinancialSummary(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func ExportFinancialSummary(c *gin.Context) {
	startDate, endDate, ok := dateRange(c)
	if !ok {
		return
	}
	summary, err := reports.GetFinancialSummary(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}
	workbook, err := reports.BuildFinancialSummaryWorkbook(summary, startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}

	fileName := fmt.Sprintf("financial_summary_%s_%s.xlsx",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := workbook.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}

func GetTransactions(c *gin.Context) {
	startDate, endDate, ok := dateRange(c)
	if !ok {
		return
	}
	transactions, err := reports.GetTransactions(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}
