package models

import (
	"context"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Name        string          `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Category    string          `gorm:"size:100" json:"category"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	Unit        string          `gorm:"size:20" json:"unit"`
	MinStock    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"min_stock"`
	CostPerUnit decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_per_unit"`
	Status      StockStatus     `gorm:"size:20;not null;default:'in-stock';index" json:"status"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInventoryItem struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	MinStock    decimal.Decimal `json:"min_stock"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

// StockLine is one order line's claim on an inventory item. Both order
// kinds feed these into ApplyOrderStock / RevertOrderStock.
type StockLine struct {
	ItemId   int
	Quantity decimal.Decimal
}

// StockStatusFor derives the status from quantity vs the low-water mark.
// The stored status column is always recomputed from this rule, never
// trusted from the caller.
func StockStatusFor(quantity, minStock decimal.Decimal) StockStatus {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return StockStatusOutOfStock
	}
	if quantity.LessThanOrEqual(minStock) {
		return StockStatusLowStock
	}
	return StockStatusInStock
}

func (input *NewInventoryItem) validate() error {
	if input.Quantity.IsNegative() {
		return utils.NewValidationError("quantity must not be negative")
	}
	if input.MinStock.IsNegative() {
		return utils.NewValidationError("min stock must not be negative")
	}
	if input.CostPerUnit.IsNegative() {
		return utils.NewValidationError("cost per unit must not be negative")
	}
	return nil
}

func CreateInventoryItem(ctx context.Context, input *NewInventoryItem) (*InventoryItem, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	item := InventoryItem{
		Name:        input.Name,
		Category:    input.Category,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		MinStock:    input.MinStock,
		CostPerUnit: input.CostPerUnit,
		Status:      StockStatusFor(input.Quantity, input.MinStock),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateInventoryItem(ctx context.Context, id int, input *NewInventoryItem) (*InventoryItem, error) {

	item, err := utils.FetchModel[InventoryItem](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	item.Name = input.Name
	item.Category = input.Category
	item.Quantity = input.Quantity
	item.Unit = input.Unit
	item.MinStock = input.MinStock
	item.CostPerUnit = input.CostPerUnit
	item.Status = StockStatusFor(input.Quantity, input.MinStock)

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteInventoryItem(ctx context.Context, id int) error {

	if err := utils.ValidateResourceId[InventoryItem](ctx, id); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Delete(&InventoryItem{}, id).Error
}

func FetchInventoryItems(ctx context.Context, category string, status string) ([]*InventoryItem, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("name ASC")
	if category != "" {
		dbCtx = dbCtx.Where("category = ?", category)
	}
	if status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}
	var items []*InventoryItem
	if err := dbCtx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ApplyOrderStock deducts each line's quantity inside the caller's
// transaction. Quantity and status move in one UPDATE statement, so two
// orders racing on the same item can never leave a stale status behind.
// Lines referencing a deleted item are skipped.
func ApplyOrderStock(ctx context.Context, tx *gorm.DB, lines []StockLine) error {
	return moveOrderStock(ctx, tx, lines, true)
}

// RevertOrderStock puts each line's quantity back, for order deletion and
// cancellation. Same atomicity and missing-item rules as ApplyOrderStock.
func RevertOrderStock(ctx context.Context, tx *gorm.DB, lines []StockLine) error {
	return moveOrderStock(ctx, tx, lines, false)
}

func moveOrderStock(ctx context.Context, tx *gorm.DB, lines []StockLine, deduct bool) error {

	for _, line := range lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		delta := line.Quantity
		if deduct {
			delta = delta.Neg()
		}

		// status must be assigned before quantity: MySQL applies SET
		// clauses left to right and later clauses see the updated value,
		// so the reverse order would fold the delta into the CASE twice.
		// SQLite reads the pre-update value in every clause.
		result := tx.WithContext(ctx).Exec(`
			UPDATE inventory_items
			SET status = CASE
			        WHEN quantity + ? <= 0 THEN 'out-of-stock'
			        WHEN quantity + ? <= min_stock THEN 'low-stock'
			        ELSE 'in-stock'
			    END,
			    quantity = quantity + ?,
			    updated_at = ?
			WHERE id = ?`,
			delta, delta, delta, time.Now(), line.ItemId)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// item deleted since the order was placed; not fatal
			config.GetLogger().WithField("itemId", line.ItemId).
				Warn("stock move skipped missing inventory item")
			continue
		}

		if deduct {
			if err := enqueueLowStockAlert(ctx, tx, line.ItemId, line.Quantity); err != nil {
				return err
			}
		}
	}
	return nil
}

// enqueueLowStockAlert queues a staff notice when a deduction moved the item
// across its low-water mark. An item that was already low or out stays quiet;
// the first crossing was announced. Best effort downstream; the order itself
// never fails because of an alert.
func enqueueLowStockAlert(ctx context.Context, tx *gorm.DB, itemId int, deducted decimal.Decimal) error {

	var item InventoryItem
	if err := tx.WithContext(ctx).First(&item, itemId).Error; err != nil {
		return err
	}
	if item.Status == StockStatusInStock {
		return nil
	}
	if StockStatusFor(item.Quantity.Add(deducted), item.MinStock) == item.Status {
		return nil
	}
	payload := map[string]interface{}{
		"item_name": item.Name,
		"quantity":  item.Quantity,
		"min_stock": item.MinStock,
		"unit":      item.Unit,
		"status":    item.Status,
	}
	return EnqueueSideEffect(ctx, tx, SideEffectLowStockAlert, "inventory_items", item.ID, "", payload)
}
