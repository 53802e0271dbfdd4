package reports

import (
	"context"
	"sort"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/models"
	"github.com/shopspring/decimal"
)

type DashboardSummary struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	PendingOrders int64           `json:"pending_orders"`
	LowStockItems int64           `json:"low_stock_items"`
}

// GetDashboardSummary counts regular sales plus delivered event orders only;
// an undelivered booking is not yet a sale here, unlike the accounting
// summary which reports booked revenue.
func GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {

	db := config.GetDB()

	var eventOrders []*models.EventOrder
	err := db.WithContext(ctx).
		Where("order_status = ?", models.EventOrderStatusDelivered).Find(&eventOrders).Error
	if err != nil {
		return nil, err
	}
	var regularOrders []*models.RegularOrder
	if err := db.WithContext(ctx).Preload("Items").Find(&regularOrders).Error; err != nil {
		return nil, err
	}

	totalSales := decimal.Zero
	for _, o := range eventOrders {
		totalSales = totalSales.Add(o.TotalAmount)
	}
	for _, o := range regularOrders {
		totalSales = totalSales.Add(regularOrderRevenue(o))
	}

	var expenses []*models.Expense
	if err := db.WithContext(ctx).Find(&expenses).Error; err != nil {
		return nil, err
	}
	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}

	var pendingOrders int64
	err = db.WithContext(ctx).Model(&models.EventOrder{}).
		Where("order_status = ?", models.EventOrderStatusPending).Count(&pendingOrders).Error
	if err != nil {
		return nil, err
	}
	var lowStockItems int64
	err = db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("status = ?", models.StockStatusLowStock).Count(&lowStockItems).Error
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalSales:    totalSales,
		TotalExpenses: totalExpenses,
		NetProfit:     totalSales.Sub(totalExpenses),
		PendingOrders: pendingOrders,
		LowStockItems: lowStockItems,
	}, nil
}

type DailySales struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// GetDashboardSales aggregates the last 30 days of sales by calendar day.
// Event orders count on their delivery date, once delivered.
func GetDashboardSales(ctx context.Context) ([]DailySales, error) {

	db := config.GetDB()
	startDate := time.Now().AddDate(0, 0, -30)

	var eventOrders []*models.EventOrder
	err := db.WithContext(ctx).
		Where("order_status = ? AND delivery_date >= ?", models.EventOrderStatusDelivered, startDate).
		Find(&eventOrders).Error
	if err != nil {
		return nil, err
	}
	var regularOrders []*models.RegularOrder
	err = db.WithContext(ctx).Preload("Items").
		Where("order_date >= ?", startDate).Find(&regularOrders).Error
	if err != nil {
		return nil, err
	}

	salesByDay := map[string]decimal.Decimal{}
	for _, o := range eventOrders {
		day := o.DeliveryDate.Format("2006-01-02")
		salesByDay[day] = salesByDay[day].Add(o.TotalAmount)
	}
	for _, o := range regularOrders {
		day := o.OrderDate.Format("2006-01-02")
		salesByDay[day] = salesByDay[day].Add(regularOrderRevenue(o))
	}

	sales := make([]DailySales, 0, len(salesByDay))
	for day, amount := range salesByDay {
		sales = append(sales, DailySales{Date: day, Amount: amount})
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Date < sales[j].Date })
	return sales, nil
}

type CategoryExpense struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func GetDashboardExpenses(ctx context.Context) ([]CategoryExpense, error) {

	db := config.GetDB()
	var results []CategoryExpense
	err := db.WithContext(ctx).Model(&models.Expense{}).
		Select("category, SUM(amount) as amount").
		Group("category").Scan(&results).Error
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Category < results[j].Category })
	return results, nil
}

type PopularProduct struct {
	InventoryItemId int             `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	QuantitySold    decimal.Decimal `json:"quantity_sold"`
	Revenue         decimal.Decimal `json:"revenue"`
}

// GetPopularProducts returns the five best sellers by quantity across both
// order kinds, decorated with category and unit from the inventory master.
func GetPopularProducts(ctx context.Context) ([]PopularProduct, error) {

	db := config.GetDB()

	var regularItems []models.OrderItem
	if err := db.WithContext(ctx).Find(&regularItems).Error; err != nil {
		return nil, err
	}
	var eventItems []models.EventOrderItem
	if err := db.WithContext(ctx).Find(&eventItems).Error; err != nil {
		return nil, err
	}

	byItem := map[int]*PopularProduct{}
	tally := func(itemId int, name string, price, quantity decimal.Decimal) {
		if itemId == 0 {
			return
		}
		p, ok := byItem[itemId]
		if !ok {
			p = &PopularProduct{InventoryItemId: itemId, Name: name}
			byItem[itemId] = p
		}
		p.QuantitySold = p.QuantitySold.Add(quantity)
		p.Revenue = p.Revenue.Add(price.Mul(quantity))
	}
	for _, item := range regularItems {
		tally(item.InventoryItemId, item.Name, item.Price, item.Quantity)
	}
	for _, item := range eventItems {
		tally(item.InventoryItemId, item.Name, item.Price, item.Quantity)
	}

	products := make([]PopularProduct, 0, len(byItem))
	for _, p := range byItem {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].QuantitySold.GreaterThan(products[j].QuantitySold)
	})
	if len(products) > 5 {
		products = products[:5]
	}

	ids := make([]int, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.InventoryItemId)
	}
	var items []models.InventoryItem
	if len(ids) > 0 {
		if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
			return nil, err
		}
	}
	for i := range products {
		products[i].Category = "Unknown"
		for _, item := range items {
			if item.ID == products[i].InventoryItemId {
				products[i].Category = item.Category
				products[i].Unit = item.Unit
				break
			}
		}
	}
	return products, nil
}

// GetPendingOrders returns the next five pending event orders by delivery
// date, for the "upcoming work" panel.
func GetPendingOrders(ctx context.Context) ([]*models.EventOrder, error) {

	db := config.GetDB()
	var orders []*models.EventOrder
	err := db.WithContext(ctx).Preload("Items").Preload("Payments").
		Where("order_status = ?", models.EventOrderStatusPending).
		Order("delivery_date ASC").Limit(5).Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
