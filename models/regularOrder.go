package models

import (
	"context"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"github.com/shopspring/decimal"
)

// RegularOrder is a walk-in counter sale. It is settled in one shot: the
// payment amount always equals the sum of its line totals, and neither the
// lines nor the payment can be changed afterwards. Corrections are done by
// deleting the order (which puts the stock back) and creating a new one.
type RegularOrder struct {
	ID           int          `gorm:"primary_key" json:"id"`
	CustomerName string       `gorm:"size:100;not null" json:"customer_name" binding:"required"`
	Phone        string       `gorm:"size:20;not null" json:"phone" binding:"required"`
	Items        []OrderItem  `gorm:"foreignKey:RegularOrderId" json:"items"`
	Payment      OrderPayment `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	OrderDate    time.Time    `gorm:"not null;index" json:"order_date"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderItem snapshots name and price at sale time so later inventory edits
// never rewrite history.
type OrderItem struct {
	ID              int             `gorm:"primary_key" json:"id"`
	RegularOrderId  int             `gorm:"index;not null" json:"regular_order_id"`
	InventoryItemId int             `gorm:"index" json:"inventory_item_id"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Price           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	Total           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
}

type OrderPayment struct {
	Amount decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Method OrderPaymentMethod `gorm:"size:20" json:"method"`
	CardId int                `json:"card_id"`
}

type NewRegularOrder struct {
	CustomerName  string             `json:"customer_name" binding:"required"`
	Phone         string             `json:"phone" binding:"required,phone"`
	Items         []NewOrderItem     `json:"items"`
	PaymentMethod OrderPaymentMethod `json:"payment_method" binding:"required"`
	CardId        int                `json:"card_id"`
	OrderDate     time.Time          `json:"order_date"`
}

type NewOrderItem struct {
	InventoryItemId int             `json:"inventory_item_id"`
	Name            string          `json:"name" binding:"required"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"quantity"`
}

func (input *NewRegularOrder) validate(ctx context.Context) error {
	if len(input.Items) == 0 {
		return utils.NewValidationError("order must have at least one item")
	}
	for _, item := range input.Items {
		if item.Price.IsNegative() {
			return utils.NewValidationError("item price must not be negative")
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return utils.NewValidationError("item quantity must be positive")
		}
	}
	if !input.PaymentMethod.Valid() {
		return utils.NewValidationError("invalid payment method")
	}
	if input.PaymentMethod == OrderPaymentMethodCard && input.CardId > 0 {
		if err := utils.ValidateResourceId[CreditCard](ctx, input.CardId); err != nil {
			return utils.NewValidationError("card not found")
		}
	}
	return nil
}

func (o *RegularOrder) stockLines() []StockLine {
	lines := make([]StockLine, 0, len(o.Items))
	for _, item := range o.Items {
		if item.InventoryItemId > 0 {
			lines = append(lines, StockLine{ItemId: item.InventoryItemId, Quantity: item.Quantity})
		}
	}
	return lines
}

// CreateRegularOrder settles a counter sale. The total is always computed
// server-side from the lines, stock is deducted in the same transaction,
// and the invoice/receipt job is queued through the outbox so it runs only
// if the order commits.
func CreateRegularOrder(ctx context.Context, input *NewRegularOrder) (*RegularOrder, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	total := decimal.Zero
	items := make([]OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		lineTotal := in.Price.Mul(in.Quantity)
		total = total.Add(lineTotal)
		items = append(items, OrderItem{
			InventoryItemId: in.InventoryItemId,
			Name:            in.Name,
			Price:           in.Price,
			Quantity:        in.Quantity,
			Total:           lineTotal,
		})
	}

	order := RegularOrder{
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		Items:        items,
		Payment: OrderPayment{
			Amount: total,
			Method: input.PaymentMethod,
			CardId: input.CardId,
		},
		OrderDate: orderDate,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := ApplyOrderStock(ctx, tx, order.stockLines()); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := EnqueueSideEffect(ctx, tx, SideEffectRegularInvoice, "regular_orders", order.ID, order.Phone, order); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &order, nil
}

type UpdateRegularOrderInput struct {
	CustomerName  string             `json:"customer_name"`
	Phone         string             `json:"phone"`
	OrderDate     *time.Time         `json:"order_date"`
	Items         []NewOrderItem     `json:"items"`
	PaymentMethod OrderPaymentMethod `json:"payment_method"`
	CardId        *int               `json:"card_id"`
}

// UpdateRegularOrder allows contact-detail corrections only. Any attempt to
// touch the lines or the payment is rejected; the order was settled against
// inventory and the payment already happened at the counter.
func UpdateRegularOrder(ctx context.Context, id int, input *UpdateRegularOrderInput) (*RegularOrder, error) {

	order, err := utils.FetchModel[RegularOrder](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	if len(input.Items) > 0 {
		return nil, utils.NewValidationError("order items cannot be changed after creation")
	}
	if input.PaymentMethod != "" && input.PaymentMethod != order.Payment.Method {
		return nil, utils.NewValidationError("order payment cannot be changed after creation")
	}
	if input.CardId != nil && *input.CardId != order.Payment.CardId {
		return nil, utils.NewValidationError("order payment cannot be changed after creation")
	}

	if input.CustomerName != "" {
		order.CustomerName = input.CustomerName
	}
	if input.Phone != "" {
		order.Phone = input.Phone
	}
	if input.OrderDate != nil && !input.OrderDate.IsZero() {
		order.OrderDate = *input.OrderDate
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Omit("Items").Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteRegularOrder reverts the stock deducted at creation, removes the
// order and its lines, and queues a cancellation notice for the customer.
func DeleteRegularOrder(ctx context.Context, id int) error {

	order, err := utils.FetchModel[RegularOrder](ctx, id, "Items")
	if err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := RevertOrderStock(ctx, tx, order.stockLines()); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Where("regular_order_id = ?", order.ID).Delete(&OrderItem{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(&RegularOrder{}, order.ID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := EnqueueSideEffect(ctx, tx, SideEffectRegularCancelled, "regular_orders", order.ID, order.Phone, order); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func FetchRegularOrder(ctx context.Context, id int) (*RegularOrder, error) {
	return utils.FetchModel[RegularOrder](ctx, id, "Items")
}

func FetchRegularOrders(ctx context.Context) ([]*RegularOrder, error) {

	db := config.GetDB()
	var orders []*RegularOrder
	err := db.WithContext(ctx).Preload("Items").Order("order_date DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
