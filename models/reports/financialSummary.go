package reports

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/models"
	"github.com/shopspring/decimal"
)

type FinancialSummary struct {
	TotalRevenue        decimal.Decimal            `json:"total_revenue"`
	TotalExpenses       decimal.Decimal            `json:"total_expenses"`
	NetProfit           decimal.Decimal            `json:"net_profit"`
	ProfitMargin        decimal.Decimal            `json:"profit_margin"`
	ExpenseDistribution map[string]decimal.Decimal `json:"expense_distribution"`
	RevenueDistribution map[string]decimal.Decimal `json:"revenue_distribution"`
	ProfitTrend         []ProfitTrendBucket        `json:"profit_trend"`
	Assets              AssetSnapshot              `json:"assets"`
}

type ProfitTrendBucket struct {
	Period string          `json:"period"`
	Profit decimal.Decimal `json:"profit"`
}

// AssetSnapshot is a fixed placeholder until a real asset ledger exists.
// The figures are static and not derived from inventory or banking data.
type AssetSnapshot struct {
	Cash      decimal.Decimal `json:"cash"`
	Inventory decimal.Decimal `json:"inventory"`
	Equipment decimal.Decimal `json:"equipment"`
}

func placeholderAssets() AssetSnapshot {
	return AssetSnapshot{
		Cash:      decimal.NewFromInt(125000),
		Inventory: decimal.NewFromInt(68500),
		Equipment: decimal.NewFromInt(215000),
	}
}

// regularOrderRevenue is the payment amount, falling back to re-summing the
// line totals for legacy rows persisted without a payment.
func regularOrderRevenue(o *models.RegularOrder) decimal.Decimal {
	if !o.Payment.Amount.IsZero() {
		return o.Payment.Amount
	}
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total)
	}
	return total
}

// eventOrderRevenue is the order total, falling back to summing payments.
func eventOrderRevenue(o *models.EventOrder) decimal.Decimal {
	if !o.TotalAmount.IsZero() {
		return o.TotalAmount
	}
	total := decimal.Zero
	for _, p := range o.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

func fetchRangeRows(ctx context.Context, startDate, endDate time.Time) ([]*models.Expense, []*models.RegularOrder, []*models.EventOrder, error) {

	db := config.GetDB()

	var expenses []*models.Expense
	err := db.WithContext(ctx).
		Where("date >= ? AND date <= ?", startDate, endDate).Find(&expenses).Error
	if err != nil {
		return nil, nil, nil, err
	}

	var regularOrders []*models.RegularOrder
	err = db.WithContext(ctx).Preload("Items").
		Where("order_date >= ? AND order_date <= ?", startDate, endDate).Find(&regularOrders).Error
	if err != nil {
		return nil, nil, nil, err
	}

	// event orders are booked revenue, counted when the booking is taken
	var eventOrders []*models.EventOrder
	err = db.WithContext(ctx).Preload("Items").Preload("Payments").
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).Find(&eventOrders).Error
	if err != nil {
		return nil, nil, nil, err
	}

	return expenses, regularOrders, eventOrders, nil
}

func GetFinancialSummary(ctx context.Context, startDate, endDate time.Time) (*FinancialSummary, error) {

	key := cacheKey("financial_summary", startDate, endDate)
	var cached FinancialSummary
	if hit, err := cacheGet(key, &cached); err == nil && hit {
		return &cached, nil
	}

	expenses, regularOrders, eventOrders, err := fetchRangeRows(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	totalExpenses := decimal.Zero
	expenseDistribution := map[string]decimal.Decimal{}
	for _, exp := range expenses {
		totalExpenses = totalExpenses.Add(exp.Amount)
		category := string(exp.Category)
		expenseDistribution[category] = expenseDistribution[category].Add(exp.Amount)
	}

	regularRevenue := decimal.Zero
	for _, o := range regularOrders {
		regularRevenue = regularRevenue.Add(regularOrderRevenue(o))
	}
	eventRevenue := decimal.Zero
	for _, o := range eventOrders {
		eventRevenue = eventRevenue.Add(eventOrderRevenue(o))
	}

	totalRevenue := regularRevenue.Add(eventRevenue)
	netProfit := totalRevenue.Sub(totalExpenses)
	profitMargin := decimal.Zero
	if totalRevenue.GreaterThan(decimal.Zero) {
		profitMargin = netProfit.Div(totalRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	summary := FinancialSummary{
		TotalRevenue:        totalRevenue,
		TotalExpenses:       totalExpenses,
		NetProfit:           netProfit,
		ProfitMargin:        profitMargin,
		ExpenseDistribution: expenseDistribution,
		RevenueDistribution: map[string]decimal.Decimal{
			"regular": regularRevenue,
			"event":   eventRevenue,
		},
		ProfitTrend: profitTrend(startDate, endDate, expenses, regularOrders, eventOrders),
		Assets:      placeholderAssets(),
	}

	cacheSet(key, &summary)
	return &summary, nil
}

// profitTrend buckets the range into 7-day windows starting at startDate.
// The final window is included even when it is shorter than a week.
func profitTrend(startDate, endDate time.Time, expenses []*models.Expense,
	regularOrders []*models.RegularOrder, eventOrders []*models.EventOrder) []ProfitTrendBucket {

	trend := []ProfitTrendBucket{}
	for current := startDate; current.Before(endDate); current = current.AddDate(0, 0, 7) {
		weekStart := current
		weekEnd := current.AddDate(0, 0, 7)

		inWeek := func(t time.Time) bool {
			return !t.Before(weekStart) && t.Before(weekEnd)
		}

		profit := decimal.Zero
		for _, o := range regularOrders {
			if inWeek(o.OrderDate) {
				profit = profit.Add(regularOrderRevenue(o))
			}
		}
		for _, o := range eventOrders {
			if inWeek(o.CreatedAt) {
				profit = profit.Add(eventOrderRevenue(o))
			}
		}
		for _, e := range expenses {
			if inWeek(e.Date) {
				profit = profit.Sub(e.Amount)
			}
		}

		trend = append(trend, ProfitTrendBucket{
			Period: fmt.Sprintf("Week %d", len(trend)+1),
			Profit: profit,
		})
	}
	return trend
}
