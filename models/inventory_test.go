package models_test

import (
	"context"
	"testing"

	"bitbucket.org/bharatisweets/sweets_backend/models"
	"github.com/shopspring/decimal"
)

func TestStockStatusFor(t *testing.T) {
	cases := []struct {
		name     string
		quantity int64
		minStock int64
		want     models.StockStatus
	}{
		{"above min", 10, 5, models.StockStatusInStock},
		{"at min", 5, 5, models.StockStatusLowStock},
		{"below min", 3, 5, models.StockStatusLowStock},
		{"zero", 0, 5, models.StockStatusOutOfStock},
		{"negative", -2, 5, models.StockStatusOutOfStock},
		{"zero min stock positive qty", 1, 0, models.StockStatusInStock},
	}
	for _, tc := range cases {
		got := models.StockStatusFor(decimal.NewFromInt(tc.quantity), decimal.NewFromInt(tc.minStock))
		if got != tc.want {
			t.Errorf("%s: StockStatusFor(%d, %d) = %s, want %s", tc.name, tc.quantity, tc.minStock, got, tc.want)
		}
	}
}

func TestCreateInventoryItem_DerivesStatus(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	item := mustCreateItem(t, &models.NewInventoryItem{
		Name:     "Kaju Katli",
		Category: "sweets",
		Quantity: decimal.NewFromInt(4),
		Unit:     "kg",
		MinStock: decimal.NewFromInt(5),
	})
	if item.Status != models.StockStatusLowStock {
		t.Fatalf("status = %s, want %s", item.Status, models.StockStatusLowStock)
	}

	// Edits recompute the status from the new quantities; the caller never
	// sets it directly.
	updated, err := models.UpdateInventoryItem(ctx, item.ID, &models.NewInventoryItem{
		Name:     "Kaju Katli",
		Category: "sweets",
		Quantity: decimal.NewFromInt(20),
		Unit:     "kg",
		MinStock: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("UpdateInventoryItem: %v", err)
	}
	if updated.Status != models.StockStatusInStock {
		t.Fatalf("status after update = %s, want %s", updated.Status, models.StockStatusInStock)
	}
}

func TestApplyOrderStock_MovesQuantityAndStatusTogether(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	item := mustCreateItem(t, &models.NewInventoryItem{
		Name:     "Rasgulla",
		Quantity: decimal.NewFromInt(10),
		Unit:     "kg",
		MinStock: decimal.NewFromInt(5),
	})

	tx := db.Begin()
	err := models.ApplyOrderStock(ctx, tx, []models.StockLine{{ItemId: item.ID, Quantity: decimal.NewFromInt(6)}})
	if err != nil {
		t.Fatalf("ApplyOrderStock: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit: %v", err)
	}

	var got models.InventoryItem
	if err := db.First(&got, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if !got.Quantity.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("quantity = %s, want 4", got.Quantity)
	}
	if got.Status != models.StockStatusLowStock {
		t.Fatalf("status = %s, want %s", got.Status, models.StockStatusLowStock)
	}

	tx = db.Begin()
	err = models.ApplyOrderStock(ctx, tx, []models.StockLine{{ItemId: item.ID, Quantity: decimal.NewFromInt(4)}})
	if err != nil {
		t.Fatalf("ApplyOrderStock: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := db.First(&got, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if !got.Quantity.IsZero() {
		t.Fatalf("quantity = %s, want 0", got.Quantity)
	}
	if got.Status != models.StockStatusOutOfStock {
		t.Fatalf("status = %s, want %s", got.Status, models.StockStatusOutOfStock)
	}

	// Putting the stock back restores the derived status as well.
	tx = db.Begin()
	err = models.RevertOrderStock(ctx, tx, []models.StockLine{{ItemId: item.ID, Quantity: decimal.NewFromInt(10)}})
	if err != nil {
		t.Fatalf("RevertOrderStock: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := db.First(&got, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if !got.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("quantity = %s, want 10", got.Quantity)
	}
	if got.Status != models.StockStatusInStock {
		t.Fatalf("status = %s, want %s", got.Status, models.StockStatusInStock)
	}
}

// The deduction UPDATE assigns status before quantity so that engines which
// expose already-updated columns to later SET clauses (MySQL) still derive
// the status from a single application of the delta.
func TestApplyOrderStock_StatusTracksResultingQuantity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cases := []struct {
		name       string
		start      int64
		deduct     int64
		wantQty    int64
		wantStatus models.StockStatus
	}{
		{"Peda", 20, 8, 12, models.StockStatusInStock},
		{"Jalebi", 10, 6, 4, models.StockStatusLowStock},
	}
	for _, tc := range cases {
		item := mustCreateItem(t, &models.NewInventoryItem{
			Name:     tc.name,
			Quantity: decimal.NewFromInt(tc.start),
			Unit:     "kg",
			MinStock: decimal.NewFromInt(5),
		})

		tx := db.Begin()
		err := models.ApplyOrderStock(ctx, tx, []models.StockLine{{ItemId: item.ID, Quantity: decimal.NewFromInt(tc.deduct)}})
		if err != nil {
			t.Fatalf("%s: ApplyOrderStock: %v", tc.name, err)
		}
		if err := tx.Commit().Error; err != nil {
			t.Fatalf("%s: commit: %v", tc.name, err)
		}

		var got models.InventoryItem
		if err := db.First(&got, item.ID).Error; err != nil {
			t.Fatalf("%s: reload item: %v", tc.name, err)
		}
		if !got.Quantity.Equal(decimal.NewFromInt(tc.wantQty)) {
			t.Fatalf("%s: quantity = %s, want %d", tc.name, got.Quantity, tc.wantQty)
		}
		if got.Status != tc.wantStatus {
			t.Fatalf("%s: status = %s, want %s", tc.name, got.Status, tc.wantStatus)
		}
	}
}

func TestApplyOrderStock_SkipsMissingItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	item := mustCreateItem(t, &models.NewInventoryItem{
		Name:     "Gulab Jamun",
		Quantity: decimal.NewFromInt(10),
		MinStock: decimal.NewFromInt(2),
	})

	tx := db.Begin()
	err := models.ApplyOrderStock(ctx, tx, []models.StockLine{
		{ItemId: 99999, Quantity: decimal.NewFromInt(3)},
		{ItemId: item.ID, Quantity: decimal.NewFromInt(3)},
	})
	if err != nil {
		t.Fatalf("ApplyOrderStock with missing item: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit: %v", err)
	}

	var got models.InventoryItem
	if err := db.First(&got, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if !got.Quantity.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("quantity = %s, want 7", got.Quantity)
	}
}

func TestApplyOrderStock_QueuesLowStockAlert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	item := mustCreateItem(t, &models.NewInventoryItem{
		Name:     "Barfi",
		Quantity: decimal.NewFromInt(10),
		Unit:     "kg",
		MinStock: decimal.NewFromInt(5),
	})

	tx := db.Begin()
	err := models.ApplyOrderStock(ctx, tx, []models.StockLine{{ItemId: item.ID, Quantity: decimal.NewFromInt(7)}})
	if err != nil {
		t.Fatalf("ApplyOrderStock: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit: %v", err)
	}

	var records []models.SideEffectRecord
	err = db.Where("kind = ? AND reference_id = ?", models.SideEffectLowStockAlert, item.ID).Find(&records).Error
	if err != nil {
		t.Fatalf("fetch outbox: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("low stock alerts = %d, want 1", len(records))
	}
	if records[0].PublishStatus != models.OutboxStatusPending {
		t.Fatalf("publish status = %s, want %s", records[0].PublishStatus, models.OutboxStatusPending)
	}

	// A further sale of an already-low item does not alert again.
	tx = db.Begin()
	err = models.ApplyOrderStock(ctx, tx, []models.StockLine{{ItemId: item.ID, Quantity: decimal.NewFromInt(1)}})
	if err != nil {
		t.Fatalf("ApplyOrderStock: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit: %v", err)
	}
	var count int64
	err = db.Model(&models.SideEffectRecord{}).
		Where("kind = ? AND reference_id = ?", models.SideEffectLowStockAlert, item.ID).Count(&count).Error
	if err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if count != 1 {
		t.Fatalf("alerts after repeat low-stock sale = %d, want 1", count)
	}

	// Crossing from low to out is a new transition and alerts once more.
	tx = db.Begin()
	err = models.ApplyOrderStock(ctx, tx, []models.StockLine{{ItemId: item.ID, Quantity: decimal.NewFromInt(2)}})
	if err != nil {
		t.Fatalf("ApplyOrderStock: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit: %v", err)
	}
	err = db.Model(&models.SideEffectRecord{}).
		Where("kind = ? AND reference_id = ?", models.SideEffectLowStockAlert, item.ID).Count(&count).Error
	if err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if count != 2 {
		t.Fatalf("alerts after selling out = %d, want 2", count)
	}
}

func TestFetchInventoryItems_Filters(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateItem(t, &models.NewInventoryItem{Name: "Milk", Category: "dairy", Quantity: decimal.NewFromInt(10), MinStock: decimal.NewFromInt(2)})
	mustCreateItem(t, &models.NewInventoryItem{Name: "Chenna", Category: "dairy", Quantity: decimal.NewFromInt(1), MinStock: decimal.NewFromInt(2)})
	mustCreateItem(t, &models.NewInventoryItem{Name: "Sugar", Category: "pantry", Quantity: decimal.NewFromInt(50), MinStock: decimal.NewFromInt(5)})

	dairy, err := models.FetchInventoryItems(ctx, "dairy", "")
	if err != nil {
		t.Fatalf("FetchInventoryItems: %v", err)
	}
	if len(dairy) != 2 {
		t.Fatalf("dairy items = %d, want 2", len(dairy))
	}
	if dairy[0].Name != "Chenna" {
		t.Fatalf("first item = %s, want Chenna (name ASC)", dairy[0].Name)
	}

	low, err := models.FetchInventoryItems(ctx, "", string(models.StockStatusLowStock))
	if err != nil {
		t.Fatalf("FetchInventoryItems: %v", err)
	}
	if len(low) != 1 || low[0].Name != "Chenna" {
		t.Fatalf("low stock filter returned %d items, want just Chenna", len(low))
	}
}
