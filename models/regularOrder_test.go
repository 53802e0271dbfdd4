package models_test

import (
	"context"
	"testing"

	"bitbucket.org/bharatisweets/sweets_backend/models"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"github.com/shopspring/decimal"
)

func TestCreateRegularOrder_SettlesPaymentAndDeductsStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	item := mustCreateItem(t, &models.NewInventoryItem{
		Name:     "Ladoo",
		Quantity: decimal.NewFromInt(10),
		Unit:     "kg",
		MinStock: decimal.NewFromInt(2),
	})

	order, err := models.CreateRegularOrder(ctx, &models.NewRegularOrder{
		CustomerName: "Priya Sharma",
		Phone:        "+919876543210",
		Items: []models.NewOrderItem{
			{InventoryItemId: item.ID, Name: "Ladoo", Price: decimal.NewFromInt(450), Quantity: decimal.NewFromInt(2)},
		},
		PaymentMethod: models.OrderPaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("CreateRegularOrder: %v", err)
	}

	// Payment is computed server side from the line totals.
	if !order.Payment.Amount.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("payment amount = %s, want 900", order.Payment.Amount)
	}
	if len(order.Items) != 1 || !order.Items[0].Total.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("line total = %s, want 900", order.Items[0].Total)
	}

	var stock models.InventoryItem
	if err := db.First(&stock, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if !stock.Quantity.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("stock after sale = %s, want 8", stock.Quantity)
	}

	var records []models.SideEffectRecord
	err = db.Where("kind = ? AND reference_id = ?", models.SideEffectRegularInvoice, order.ID).Find(&records).Error
	if err != nil {
		t.Fatalf("fetch outbox: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("invoice side effects = %d, want 1", len(records))
	}
	if records[0].Phone != "+919876543210" {
		t.Fatalf("outbox phone = %s", records[0].Phone)
	}
}

func TestCreateRegularOrder_RejectsEmptyItems(t *testing.T) {
	setupTestDB(t)

	_, err := models.CreateRegularOrder(context.Background(), &models.NewRegularOrder{
		CustomerName:  "Priya Sharma",
		Phone:         "+919876543210",
		PaymentMethod: models.OrderPaymentMethodCash,
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestUpdateRegularOrder_RejectsItemAndPaymentChanges(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	item := mustCreateItem(t, &models.NewInventoryItem{
		Name:     "Jalebi",
		Quantity: decimal.NewFromInt(10),
		MinStock: decimal.NewFromInt(2),
	})
	order, err := models.CreateRegularOrder(ctx, &models.NewRegularOrder{
		CustomerName: "Amit Verma",
		Phone:        "+919812345678",
		Items: []models.NewOrderItem{
			{InventoryItemId: item.ID, Name: "Jalebi", Price: decimal.NewFromInt(300), Quantity: decimal.NewFromInt(1)},
		},
		PaymentMethod: models.OrderPaymentMethodGPay,
	})
	if err != nil {
		t.Fatalf("CreateRegularOrder: %v", err)
	}

	_, err = models.UpdateRegularOrder(ctx, order.ID, &models.UpdateRegularOrderInput{
		Items: []models.NewOrderItem{{Name: "Jalebi", Price: decimal.NewFromInt(300), Quantity: decimal.NewFromInt(5)}},
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("items change: err = %v, want validation error", err)
	}

	_, err = models.UpdateRegularOrder(ctx, order.ID, &models.UpdateRegularOrderInput{
		PaymentMethod: models.OrderPaymentMethodCash,
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("payment change: err = %v, want validation error", err)
	}

	// Contact details stay editable.
	updated, err := models.UpdateRegularOrder(ctx, order.ID, &models.UpdateRegularOrderInput{
		CustomerName: "Amit K Verma",
	})
	if err != nil {
		t.Fatalf("UpdateRegularOrder: %v", err)
	}
	if updated.CustomerName != "Amit K Verma" {
		t.Fatalf("customer name = %s", updated.CustomerName)
	}
	if !updated.Payment.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("payment amount changed to %s", updated.Payment.Amount)
	}
}

func TestDeleteRegularOrder_RestoresStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	item := mustCreateItem(t, &models.NewInventoryItem{
		Name:     "Peda",
		Quantity: decimal.NewFromInt(10),
		MinStock: decimal.NewFromInt(2),
	})
	order, err := models.CreateRegularOrder(ctx, &models.NewRegularOrder{
		CustomerName: "Sunita Rao",
		Phone:        "+919898989898",
		Items: []models.NewOrderItem{
			{InventoryItemId: item.ID, Name: "Peda", Price: decimal.NewFromInt(200), Quantity: decimal.NewFromInt(4)},
		},
		PaymentMethod: models.OrderPaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("CreateRegularOrder: %v", err)
	}

	if err := models.DeleteRegularOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteRegularOrder: %v", err)
	}

	var stock models.InventoryItem
	if err := db.First(&stock, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if !stock.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("stock after delete = %s, want 10", stock.Quantity)
	}

	if _, err := models.FetchRegularOrder(ctx, order.ID); err != utils.ErrorRecordNotFound {
		t.Fatalf("fetch deleted order: err = %v, want record not found", err)
	}
	var lineCount int64
	if err := db.Model(&models.OrderItem{}).Where("regular_order_id = ?", order.ID).Count(&lineCount).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if lineCount != 0 {
		t.Fatalf("orphan lines = %d", lineCount)
	}

	var records []models.SideEffectRecord
	err = db.Where("kind = ? AND reference_id = ?", models.SideEffectRegularCancelled, order.ID).Find(&records).Error
	if err != nil {
		t.Fatalf("fetch outbox: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("cancellation side effects = %d, want 1", len(records))
	}
}
