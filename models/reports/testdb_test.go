package reports_test

import (
	"testing"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	config.SetDB(db)
	models.MigrateTable()

	t.Cleanup(func() {
		sqlDB, dbErr := db.DB()
		if dbErr == nil {
			_ = sqlDB.Close()
		}
		config.SetDB(nil)
	})
	return db
}

// Seeders write rows directly so the tests control the dates the range
// queries filter on.

func seedExpense(t *testing.T, db *gorm.DB, amount int64, category models.ExpenseCategory, date time.Time) {
	t.Helper()
	exp := models.Expense{
		Description:   "seed expense",
		Amount:        decimal.NewFromInt(amount),
		Category:      category,
		PaymentMethod: models.ExpensePaymentMethodCash,
		Date:          date,
	}
	if err := db.Create(&exp).Error; err != nil {
		t.Fatalf("seed expense: %v", err)
	}
}

func seedRegularOrder(t *testing.T, db *gorm.DB, customer string, amount int64, orderDate time.Time) *models.RegularOrder {
	t.Helper()
	order := models.RegularOrder{
		CustomerName: customer,
		Phone:        "+919876543210",
		Payment: models.OrderPayment{
			Amount: decimal.NewFromInt(amount),
			Method: models.OrderPaymentMethodCash,
		},
		OrderDate: orderDate,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed regular order: %v", err)
	}
	return &order
}

func seedEventOrder(t *testing.T, db *gorm.DB, purpose string, amount int64, createdAt time.Time, status models.EventOrderStatus) *models.EventOrder {
	t.Helper()
	order := models.EventOrder{
		CustomerName:  "Ravi Kumar",
		Phone:         "+919900112233",
		Purpose:       purpose,
		DeliveryDate:  createdAt.AddDate(0, 0, 5),
		TotalAmount:   decimal.NewFromInt(amount),
		PaymentStatus: models.PaymentStatusPending,
		OrderStatus:   status,
		CreatedAt:     createdAt,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed event order: %v", err)
	}
	return &order
}
