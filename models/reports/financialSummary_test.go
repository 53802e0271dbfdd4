package reports_test

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/models"
	"bitbucket.org/bharatisweets/sweets_backend/models/reports"
	"github.com/shopspring/decimal"
)

func TestGetFinancialSummary_Totals(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	seedRegularOrder(t, db, "Priya Sharma", 600, start.AddDate(0, 0, 2))
	seedEventOrder(t, db, "Wedding", 400, start.AddDate(0, 0, 10), models.EventOrderStatusConfirmed)
	seedExpense(t, db, 400, models.ExpenseCategoryIngredients, start.AddDate(0, 0, 3))
	seedExpense(t, db, 200, models.ExpenseCategoryUtilities, start.AddDate(0, 0, 12))

	// Outside the range on both sides; must not be counted.
	seedRegularOrder(t, db, "Old Sale", 9999, start.AddDate(0, 0, -5))
	seedExpense(t, db, 9999, models.ExpenseCategoryRent, end.AddDate(0, 0, 5))

	summary, err := reports.GetFinancialSummary(ctx, start, end)
	if err != nil {
		t.Fatalf("GetFinancialSummary: %v", err)
	}

	if !summary.TotalRevenue.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("revenue = %s, want 1000", summary.TotalRevenue)
	}
	if !summary.TotalExpenses.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expenses = %s, want 600", summary.TotalExpenses)
	}
	if !summary.NetProfit.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("net profit = %s, want 400", summary.NetProfit)
	}
	if !summary.ProfitMargin.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("profit margin = %s, want 40", summary.ProfitMargin)
	}

	if !summary.RevenueDistribution["regular"].Equal(decimal.NewFromInt(600)) {
		t.Fatalf("regular revenue = %s, want 600", summary.RevenueDistribution["regular"])
	}
	if !summary.RevenueDistribution["event"].Equal(decimal.NewFromInt(400)) {
		t.Fatalf("event revenue = %s, want 400", summary.RevenueDistribution["event"])
	}
	if !summary.ExpenseDistribution["ingredients"].Equal(decimal.NewFromInt(400)) {
		t.Fatalf("ingredients = %s, want 400", summary.ExpenseDistribution["ingredients"])
	}

	// Placeholder asset block, not derived from the data.
	if !summary.Assets.Cash.Equal(decimal.NewFromInt(125000)) {
		t.Fatalf("assets.cash = %s", summary.Assets.Cash)
	}
}

func TestGetFinancialSummary_ZeroRevenueMargin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	seedExpense(t, db, 500, models.ExpenseCategoryRent, start.AddDate(0, 0, 1))

	summary, err := reports.GetFinancialSummary(ctx, start, end)
	if err != nil {
		t.Fatalf("GetFinancialSummary: %v", err)
	}
	if !summary.ProfitMargin.IsZero() {
		t.Fatalf("profit margin = %s, want 0 with no revenue", summary.ProfitMargin)
	}
	if !summary.NetProfit.Equal(decimal.NewFromInt(-500)) {
		t.Fatalf("net profit = %s, want -500", summary.NetProfit)
	}
}

func TestGetFinancialSummary_WeeklyTrendBuckets(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	// 17 days: two full weeks plus a short tail bucket.
	end := start.AddDate(0, 0, 17)

	seedRegularOrder(t, db, "Week1 Sale", 300, start.AddDate(0, 0, 1))
	seedExpense(t, db, 100, models.ExpenseCategoryUtilities, start.AddDate(0, 0, 2))
	seedRegularOrder(t, db, "Week2 Sale", 500, start.AddDate(0, 0, 8))
	seedRegularOrder(t, db, "Week3 Sale", 700, start.AddDate(0, 0, 15))

	summary, err := reports.GetFinancialSummary(ctx, start, end)
	if err != nil {
		t.Fatalf("GetFinancialSummary: %v", err)
	}

	trend := summary.ProfitTrend
	if len(trend) != 3 {
		t.Fatalf("trend buckets = %d, want 3", len(trend))
	}
	if trend[0].Period != "Week 1" || trend[2].Period != "Week 3" {
		t.Fatalf("periods = %s .. %s", trend[0].Period, trend[2].Period)
	}
	if !trend[0].Profit.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("week 1 profit = %s, want 200", trend[0].Profit)
	}
	if !trend[1].Profit.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("week 2 profit = %s, want 500", trend[1].Profit)
	}
	if !trend[2].Profit.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("week 3 profit = %s, want 700", trend[2].Profit)
	}
}

func TestGetTransactions_MergedReverseChronological(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	seedExpense(t, db, 250, models.ExpenseCategoryPackaging, start.AddDate(0, 0, 5))
	seedRegularOrder(t, db, "Priya Sharma", 600, start.AddDate(0, 0, 10))
	seedEventOrder(t, db, "", 1500, start.AddDate(0, 0, 2), models.EventOrderStatusPending)

	entries, err := reports.GetTransactions(ctx, start, end)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	// Newest first.
	for i := 1; i < len(entries); i++ {
		if entries[i].Date.After(entries[i-1].Date) {
			t.Fatalf("entries not in reverse chronological order at %d", i)
		}
	}

	byID := map[string]reports.TransactionEntry{}
	for _, e := range entries {
		byID[e.ID[:4]] = e
	}
	if e, ok := byID["reg-"]; !ok || e.Type != "revenue" || e.Description != "Order from Priya Sharma" {
		t.Fatalf("regular entry = %+v", e)
	}
	if e, ok := byID["exp-"]; !ok || e.Type != "expense" || e.Category != "packaging" {
		t.Fatalf("expense entry = %+v", e)
	}
	// Purposeless event bookings fall back to the customer name.
	if e, ok := byID["evt-"]; !ok || e.Description != "Event order from Ravi Kumar" {
		t.Fatalf("event entry = %+v", e)
	}
}
