package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bitbucket.org/bharatisweets/sweets_backend/models"
	"bitbucket.org/bharatisweets/sweets_backend/pdf"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"bitbucket.org/bharatisweets/sweets_backend/whatsapp"
	"github.com/sirupsen/logrus"
)

// purchaseReceiptTemplate is the pre-approved Cloud API template used for
// document messages.
const purchaseReceiptTemplate = "purchase_receipt_3"

// DocumentExecutor renders order documents and sends the matching WhatsApp
// notices. A returned error makes the dispatcher retry the whole record;
// rendering is idempotent (same file path per order), so retries are safe.
type DocumentExecutor struct {
	Logger *logrus.Logger
	WA     *whatsapp.Client
}

func NewDocumentExecutor(logger *logrus.Logger) *DocumentExecutor {
	return &DocumentExecutor{
		Logger: logger,
		WA:     whatsapp.NewClient(),
	}
}

func (e *DocumentExecutor) Execute(ctx context.Context, record models.SideEffectRecord) error {
	switch record.Kind {
	case models.SideEffectRegularInvoice:
		return e.regularInvoice(ctx, record)
	case models.SideEffectRegularCancelled:
		return e.regularCancelled(ctx, record)
	case models.SideEffectEventBooking:
		return e.eventDocument(ctx, record, pdf.GenerateBookingReceipt)
	case models.SideEffectEventPartPayment:
		return e.eventPartPayment(ctx, record)
	case models.SideEffectEventFinalInvoice:
		return e.eventDocument(ctx, record, pdf.GenerateFinalInvoice)
	case models.SideEffectEventDelivered:
		return e.eventDelivered(ctx, record)
	case models.SideEffectEventCancelled:
		return e.eventCancelled(ctx, record)
	case models.SideEffectLowStockAlert:
		return e.lowStockAlert(ctx, record)
	default:
		// Unknown kinds are dropped rather than retried; they can only
		// appear after a bad deploy and would never succeed.
		e.Logger.WithFields(logrus.Fields{
			"module":    "DocumentExecutor",
			"record_id": record.ID,
			"kind":      record.Kind,
		}).Warn("dropping side effect of unknown kind")
		return nil
	}
}

func (e *DocumentExecutor) sendText(ctx context.Context, phone, body string) error {
	if !e.WA.Enabled() {
		return nil
	}
	return e.WA.SendText(ctx, phone, body)
}

func (e *DocumentExecutor) regularInvoice(ctx context.Context, record models.SideEffectRecord) error {
	var order models.RegularOrder
	if err := utils.UnmarshalFromJSON(record.Payload, &order); err != nil {
		return err
	}
	path, err := pdf.GenerateRegularInvoice(&order)
	if err != nil {
		return err
	}
	if !e.WA.Enabled() {
		return nil
	}
	return e.WA.SendDocumentTemplate(ctx, record.Phone, purchaseReceiptTemplate,
		order.CustomerName, fmt.Sprintf("#%d", order.ID), path, filepath.Base(path))
}

func (e *DocumentExecutor) regularCancelled(ctx context.Context, record models.SideEffectRecord) error {
	var order models.RegularOrder
	if err := utils.UnmarshalFromJSON(record.Payload, &order); err != nil {
		return err
	}
	body := fmt.Sprintf("Dear %s, your Bharati Sweets order #%d has been cancelled.",
		order.CustomerName, order.ID)
	return e.sendText(ctx, record.Phone, body)
}

func (e *DocumentExecutor) eventDocument(ctx context.Context, record models.SideEffectRecord,
	generate func(*models.EventOrder) (string, error)) error {

	var order models.EventOrder
	if err := utils.UnmarshalFromJSON(record.Payload, &order); err != nil {
		return err
	}
	path, err := generate(&order)
	if err != nil {
		return err
	}
	if !e.WA.Enabled() {
		return nil
	}
	return e.WA.SendDocumentTemplate(ctx, record.Phone, purchaseReceiptTemplate,
		order.CustomerName, fmt.Sprintf("#%d", order.ID), path, filepath.Base(path))
}

func (e *DocumentExecutor) eventPartPayment(ctx context.Context, record models.SideEffectRecord) error {
	var order models.EventOrder
	if err := utils.UnmarshalFromJSON(record.Payload, &order); err != nil {
		return err
	}
	if _, err := pdf.GeneratePartialInvoice(&order); err != nil {
		return err
	}
	body := fmt.Sprintf("Dear %s, we received your payment for order #%d. Remaining balance: Rs %s.",
		order.CustomerName, order.ID, order.RemainingBalance().StringFixed(2))
	return e.sendText(ctx, record.Phone, body)
}

func (e *DocumentExecutor) eventDelivered(ctx context.Context, record models.SideEffectRecord) error {
	var order models.EventOrder
	if err := utils.UnmarshalFromJSON(record.Payload, &order); err != nil {
		return err
	}
	body := fmt.Sprintf("Dear %s, your Bharati Sweets order #%d has been delivered. Thank you!",
		order.CustomerName, order.ID)
	return e.sendText(ctx, record.Phone, body)
}

func (e *DocumentExecutor) eventCancelled(ctx context.Context, record models.SideEffectRecord) error {
	var order models.EventOrder
	if err := utils.UnmarshalFromJSON(record.Payload, &order); err != nil {
		return err
	}
	body := fmt.Sprintf("Dear %s, your Bharati Sweets event order #%d has been cancelled.",
		order.CustomerName, order.ID)
	if order.PaidAmount.IsPositive() {
		body += fmt.Sprintf(" Rs %s will be refunded to you.", order.PaidAmount.StringFixed(2))
	}
	return e.sendText(ctx, record.Phone, body)
}

// lowStockAlert notifies the shop's own number (STAFF_ALERT_PHONE). Without
// one configured the alert only lands in the log.
func (e *DocumentExecutor) lowStockAlert(ctx context.Context, record models.SideEffectRecord) error {
	var payload struct {
		ItemName string `json:"item_name"`
		Quantity string `json:"quantity"`
		MinStock string `json:"min_stock"`
		Unit     string `json:"unit"`
		Status   string `json:"status"`
	}
	if err := utils.UnmarshalFromJSON(record.Payload, &payload); err != nil {
		return err
	}

	e.Logger.WithFields(logrus.Fields{
		"module":   "DocumentExecutor",
		"item":     payload.ItemName,
		"quantity": payload.Quantity,
		"status":   payload.Status,
	}).Warn("inventory item running low")

	staffPhone := strings.TrimSpace(os.Getenv("STAFF_ALERT_PHONE"))
	if staffPhone == "" {
		return nil
	}
	body := fmt.Sprintf("Stock alert: %s is %s (%s %s left, minimum %s).",
		payload.ItemName, payload.Status, payload.Quantity, payload.Unit, payload.MinStock)
	return e.sendText(ctx, staffPhone, body)
}
