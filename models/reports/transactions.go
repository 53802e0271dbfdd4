package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionEntry is one row in the merged money-movement list shown on
// the accounting screen.
type TransactionEntry struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Type        string          `json:"type"` // expense | revenue
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
}

// GetTransactions merges expenses and both order kinds in range into one
// reverse-chronological list.
func GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]TransactionEntry, error) {

	expenses, regularOrders, eventOrders, err := fetchRangeRows(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	entries := make([]TransactionEntry, 0, len(expenses)+len(regularOrders)+len(eventOrders))
	for _, exp := range expenses {
		entries = append(entries, TransactionEntry{
			ID:          fmt.Sprintf("exp-%d", exp.ID),
			Date:        exp.Date,
			Description: exp.Description,
			Type:        "expense",
			Category:    string(exp.Category),
			Amount:      exp.Amount,
		})
	}
	for _, o := range regularOrders {
		entries = append(entries, TransactionEntry{
			ID:          fmt.Sprintf("reg-%d", o.ID),
			Date:        o.OrderDate,
			Description: fmt.Sprintf("Order from %s", o.CustomerName),
			Type:        "revenue",
			Category:    "regular",
			Amount:      regularOrderRevenue(o),
		})
	}
	for _, o := range eventOrders {
		description := fmt.Sprintf("%s order", o.Purpose)
		if o.Purpose == "" {
			description = fmt.Sprintf("Event order from %s", o.CustomerName)
		}
		entries = append(entries, TransactionEntry{
			ID:          fmt.Sprintf("evt-%d", o.ID),
			Date:        o.CreatedAt,
			Description: description,
			Type:        "revenue",
			Category:    "event",
			Amount:      eventOrderRevenue(o),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}
