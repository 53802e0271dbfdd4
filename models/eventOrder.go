package models

import (
	"context"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventOrder is a bulk booking for weddings, festivals and functions, paid
// in installments. paidAmount and paymentStatus are projections of the
// payments list and are recomputed on every persist, never taken from the
// caller.
type EventOrder struct {
	ID            int              `gorm:"primary_key" json:"id"`
	CustomerName  string           `gorm:"size:100;not null" json:"customer_name" binding:"required"`
	Phone         string           `gorm:"size:20;not null" json:"phone" binding:"required"`
	Purpose       string           `gorm:"size:255" json:"purpose"`
	Address       string           `gorm:"type:text" json:"address"`
	DeliveryDate  time.Time        `gorm:"not null;index" json:"delivery_date"`
	DeliveryTime  string           `gorm:"size:20" json:"delivery_time"`
	Items         []EventOrderItem `gorm:"foreignKey:EventOrderId" json:"items"`
	Payments      []EventPayment   `gorm:"foreignKey:EventOrderId" json:"payments"`
	TotalAmount   decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Discount      decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"discount"`
	PaidAmount    decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	PaymentStatus PaymentStatus    `gorm:"size:20;not null;default:'pending';index" json:"payment_status"`
	OrderStatus   EventOrderStatus `gorm:"size:20;not null;default:'pending';index" json:"order_status"`
	Notes         string           `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type EventOrderItem struct {
	ID              int             `gorm:"primary_key" json:"id"`
	EventOrderId    int             `gorm:"index;not null" json:"event_order_id"`
	InventoryItemId int             `gorm:"index" json:"inventory_item_id"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Price           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	Total           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
}

// EventPayment rows are append-only; a wrong installment is corrected with
// a compensating entry, not an edit.
type EventPayment struct {
	ID           int                `gorm:"primary_key" json:"id"`
	EventOrderId int                `gorm:"index;not null" json:"event_order_id"`
	Amount       decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Method       OrderPaymentMethod `gorm:"size:20" json:"method"`
	CardId       int                `json:"card_id"`
	PaidAt       time.Time          `gorm:"not null" json:"paid_at"`
}

type NewEventOrder struct {
	CustomerName string            `json:"customer_name" binding:"required"`
	Phone        string            `json:"phone" binding:"required,phone"`
	Purpose      string            `json:"purpose"`
	Address      string            `json:"address"`
	DeliveryDate time.Time         `json:"delivery_date" binding:"required"`
	DeliveryTime string            `json:"delivery_time"`
	Items        []NewOrderItem    `json:"items"`
	Payments     []NewEventPayment `json:"payments"`
	Discount     decimal.Decimal   `json:"discount"`
	Notes        string            `json:"notes"`
}

type NewEventPayment struct {
	Amount decimal.Decimal    `json:"amount" binding:"required"`
	Method OrderPaymentMethod `json:"method" binding:"required"`
	CardId int                `json:"card_id"`
	PaidAt time.Time          `json:"paid_at"`
}

func (input *NewEventOrder) validate() error {
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
	if input.Discount.IsNegative() {
		return utils.NewValidationError("discount must not be negative")
	}
	for _, p := range input.Payments {
		if p.Amount.LessThanOrEqual(decimal.Zero) {
			return utils.NewValidationError("payment amount must be positive")
		}
		if !p.Method.Valid() {
			return utils.NewValidationError("invalid payment method")
		}
	}
	return nil
}

func (input *NewEventPayment) validate() error {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return utils.NewValidationError("payment amount must be positive")
	}
	if !input.Method.Valid() {
		return utils.NewValidationError("invalid payment method")
	}
	return nil
}

// recomputePayment refreshes the derived paid amount and payment status
// from the payments list. paid iff paidAmount >= totalAmount.
func (o *EventOrder) recomputePayment() {
	paid := decimal.Zero
	for _, p := range o.Payments {
		paid = paid.Add(p.Amount)
	}
	o.PaidAmount = paid
	switch {
	case paid.GreaterThanOrEqual(o.TotalAmount):
		o.PaymentStatus = PaymentStatusPaid
	case paid.GreaterThan(decimal.Zero):
		o.PaymentStatus = PaymentStatusPartial
	default:
		o.PaymentStatus = PaymentStatusPending
	}
}

func (o *EventOrder) RemainingBalance() decimal.Decimal {
	remaining := o.TotalAmount.Sub(o.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

func (o *EventOrder) stockLines() []StockLine {
	lines := make([]StockLine, 0, len(o.Items))
	for _, item := range o.Items {
		if item.InventoryItemId > 0 {
			lines = append(lines, StockLine{ItemId: item.InventoryItemId, Quantity: item.Quantity})
		}
	}
	return lines
}

func CreateEventOrder(ctx context.Context, input *NewEventOrder) (*EventOrder, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]EventOrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		lineTotal := in.Price.Mul(in.Quantity)
		total = total.Add(lineTotal)
		items = append(items, EventOrderItem{
			InventoryItemId: in.InventoryItemId,
			Name:            in.Name,
			Price:           in.Price,
			Quantity:        in.Quantity,
			Total:           lineTotal,
		})
	}
	total = total.Sub(input.Discount)
	if total.IsNegative() {
		return nil, utils.NewValidationError("discount exceeds order total")
	}

	payments := make([]EventPayment, 0, len(input.Payments))
	for _, p := range input.Payments {
		paidAt := p.PaidAt
		if paidAt.IsZero() {
			paidAt = time.Now()
		}
		payments = append(payments, EventPayment{
			Amount: p.Amount,
			Method: p.Method,
			CardId: p.CardId,
			PaidAt: paidAt,
		})
	}

	order := EventOrder{
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		Purpose:      input.Purpose,
		Address:      input.Address,
		DeliveryDate: input.DeliveryDate,
		DeliveryTime: input.DeliveryTime,
		Items:        items,
		Payments:     payments,
		TotalAmount:  total,
		Discount:     input.Discount,
		OrderStatus:  EventOrderStatusPending,
		Notes:        input.Notes,
	}
	order.recomputePayment()

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
	if err := EnqueueSideEffect(ctx, tx, SideEffectEventBooking, "event_orders", order.ID, order.Phone, order); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &order, nil
}

// AddEventOrderPayment appends one installment and refreshes the derived
// payment fields. Fully paid orders get a final invoice; otherwise the
// customer is notified of the remaining balance.
func AddEventOrderPayment(ctx context.Context, id int, input *NewEventPayment) (*EventOrder, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}
	order, err := utils.FetchModel[EventOrder](ctx, id, "Items", "Payments")
	if err != nil {
		return nil, err
	}

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	payment := EventPayment{
		EventOrderId: order.ID,
		Amount:       input.Amount,
		Method:       input.Method,
		CardId:       input.CardId,
		PaidAt:       paidAt,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	order.Payments = append(order.Payments, payment)
	order.recomputePayment()

	err = tx.WithContext(ctx).Model(&EventOrder{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"paid_amount":    order.PaidAmount,
			"payment_status": order.PaymentStatus,
		}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	kind := SideEffectEventPartPayment
	if order.PaymentStatus == PaymentStatusPaid {
		kind = SideEffectEventFinalInvoice
	}
	if err := EnqueueSideEffect(ctx, tx, kind, "event_orders", order.ID, order.Phone, order); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateEventOrderStatus sets the kitchen/delivery status. Any status may
// follow any other; reaching delivered queues a delivery notice.
func UpdateEventOrderStatus(ctx context.Context, id int, status EventOrderStatus) (*EventOrder, error) {

	if !status.Valid() {
		return nil, utils.NewValidationError("invalid order status")
	}
	order, err := utils.FetchModel[EventOrder](ctx, id, "Items", "Payments")
	if err != nil {
		return nil, err
	}

	previous := order.OrderStatus
	order.OrderStatus = status

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(&EventOrder{}).Where("id = ?", order.ID).
		Update("order_status", status).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if status == EventOrderStatusDelivered && previous != EventOrderStatusDelivered {
		if err := EnqueueSideEffect(ctx, tx, SideEffectEventDelivered, "event_orders", order.ID, order.Phone, order); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return order, nil
}

type UpdateEventOrderInput struct {
	CustomerName string            `json:"customer_name"`
	Phone        string            `json:"phone"`
	Purpose      string            `json:"purpose"`
	Address      string            `json:"address"`
	DeliveryDate *time.Time        `json:"delivery_date"`
	DeliveryTime string            `json:"delivery_time"`
	Notes        string            `json:"notes"`
	Items        []NewOrderItem    `json:"items"`
	Payments     []NewEventPayment `json:"payments"`
}

// UpdateEventOrder edits booking details. Items and payments have their own
// settlement paths and cannot be rewritten here.
func UpdateEventOrder(ctx context.Context, id int, input *UpdateEventOrderInput) (*EventOrder, error) {

	order, err := utils.FetchModel[EventOrder](ctx, id, "Items", "Payments")
	if err != nil {
		return nil, err
	}

	if len(input.Items) > 0 {
		return nil, utils.NewValidationError("order items cannot be changed after creation")
	}
	if len(input.Payments) > 0 {
		return nil, utils.NewValidationError("payments must be added through the payments endpoint")
	}

	if input.CustomerName != "" {
		order.CustomerName = input.CustomerName
	}
	if input.Phone != "" {
		order.Phone = input.Phone
	}
	if input.Purpose != "" {
		order.Purpose = input.Purpose
	}
	if input.Address != "" {
		order.Address = input.Address
	}
	if input.DeliveryDate != nil && !input.DeliveryDate.IsZero() {
		order.DeliveryDate = *input.DeliveryDate
	}
	if input.DeliveryTime != "" {
		order.DeliveryTime = input.DeliveryTime
	}
	if input.Notes != "" {
		order.Notes = input.Notes
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Omit("Items", "Payments").Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteEventOrder cancels a booking: stock goes back, the record and its
// children are removed, and the customer gets a cancellation notice that
// mentions the refund amount when installments were already paid.
func DeleteEventOrder(ctx context.Context, id int) error {

	order, err := utils.FetchModel[EventOrder](ctx, id, "Items", "Payments")
	if err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := RevertOrderStock(ctx, tx, order.stockLines()); err != nil {
		tx.Rollback()
		return err
	}
	if err := deleteEventOrderRows(ctx, tx, order.ID); err != nil {
		tx.Rollback()
		return err
	}
	if err := EnqueueSideEffect(ctx, tx, SideEffectEventCancelled, "event_orders", order.ID, order.Phone, order); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func deleteEventOrderRows(ctx context.Context, tx *gorm.DB, orderId int) error {
	if err := tx.WithContext(ctx).Where("event_order_id = ?", orderId).Delete(&EventOrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("event_order_id = ?", orderId).Delete(&EventPayment{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Delete(&EventOrder{}, orderId).Error
}

func FetchEventOrder(ctx context.Context, id int) (*EventOrder, error) {
	return utils.FetchModel[EventOrder](ctx, id, "Items", "Payments")
}

func FetchEventOrders(ctx context.Context) ([]*EventOrder, error) {

	db := config.GetDB()
	var orders []*EventOrder
	err := db.WithContext(ctx).Preload("Items").Preload("Payments").
		Order("delivery_date DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
