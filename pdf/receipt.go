package pdf

import (
	"fmt"

	"bitbucket.org/bharatisweets/sweets_backend/models"
	"github.com/phpdave11/gofpdf"
)

func eventCustomerBlock(f *gofpdf.Fpdf, order *models.EventOrder) {
	f.SetY(40)
	f.SetX(15)
	f.SetFont("Helvetica", "B", 11)
	f.CellFormat(90, 7, "Customer Details", "", 1, "L", false, 0, "")
	detailLine(f, 15, "Name", order.CustomerName)
	detailLine(f, 15, "Phone", order.Phone)
	detailLine(f, 15, "Delivery", order.DeliveryDate.Format("Mon, 02 Jan 2006"))
	detailLine(f, 15, "Purpose", order.Purpose)
}

func eventRows(order *models.EventOrder) []tableRow {
	rows := make([]tableRow, 0, len(order.Items))
	for _, item := range order.Items {
		rows = append(rows, tableRow{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    item.Total,
		})
	}
	return rows
}

// GenerateBookingReceipt renders receipts/booking_<orderId>.pdf for a new
// event booking, showing the advance paid and the open balance.
func GenerateBookingReceipt(order *models.EventOrder) (string, error) {

	f := newDocument("BOOKING RECEIPT")
	eventCustomerBlock(f, order)

	f.SetY(40)
	f.SetX(110)
	f.SetFont("Helvetica", "B", 11)
	f.CellFormat(85, 7, "Payment Summary", "", 1, "R", false, 0, "")
	detailLine(f, 110, "Order ID", fmt.Sprintf("#%d", order.ID))
	detailLine(f, 110, "Date", today())
	detailLine(f, 110, "Total Amount", money(order.TotalAmount))
	detailLine(f, 110, "Advance Paid", money(order.PaidAmount))

	balance := order.RemainingBalance()
	f.SetX(110)
	f.SetFont("Helvetica", "B", 11)
	if balance.IsPositive() {
		f.SetTextColor(239, 68, 68)
	} else {
		f.SetTextColor(34, 197, 94)
	}
	f.CellFormat(90, 7, fmt.Sprintf("Balance: %s", money(balance)), "", 1, "L", false, 0, "")
	f.SetTextColor(0, 0, 0)

	itemsTable(f, eventRows(order))

	return save(f, ReceiptSubdir, fmt.Sprintf("booking_%d.pdf", order.ID))
}

// GenerateFinalInvoice renders receipts/final_<orderId>.pdf once an event
// order is fully paid.
func GenerateFinalInvoice(order *models.EventOrder) (string, error) {

	f := newDocument("FINAL INVOICE")
	eventCustomerBlock(f, order)

	f.SetY(40)
	f.SetX(110)
	f.SetFont("Helvetica", "B", 11)
	f.CellFormat(85, 7, "Invoice Details", "", 1, "R", false, 0, "")
	detailLine(f, 110, "Invoice ID", fmt.Sprintf("#%d", order.ID))
	detailLine(f, 110, "Date", today())
	detailLine(f, 110, "Total Amount", money(order.TotalAmount))

	y := itemsTable(f, eventRows(order))

	f.SetY(y + 5)
	f.SetX(15)
	f.SetFont("Helvetica", "B", 12)
	f.CellFormat(140, 8, "Total Paid:", "", 0, "R", false, 0, "")
	f.CellFormat(40, 8, money(order.PaidAmount), "", 1, "R", false, 0, "")

	f.SetX(15)
	f.SetFont("Helvetica", "B", 14)
	f.SetTextColor(34, 197, 94)
	f.CellFormat(180, 10, "STATUS: PAID IN FULL", "", 1, "L", false, 0, "")
	f.SetTextColor(0, 0, 0)

	return save(f, ReceiptSubdir, fmt.Sprintf("final_%d.pdf", order.ID))
}

// GeneratePartialInvoice renders receipts/partial_<orderId>.pdf after an
// installment that leaves a balance due.
func GeneratePartialInvoice(order *models.EventOrder) (string, error) {

	f := newDocument("PARTIAL PAYMENT INVOICE")
	eventCustomerBlock(f, order)

	f.SetY(40)
	f.SetX(110)
	f.SetFont("Helvetica", "B", 11)
	f.CellFormat(85, 7, "Invoice Details", "", 1, "R", false, 0, "")
	detailLine(f, 110, "Invoice ID", fmt.Sprintf("#%d", order.ID))
	detailLine(f, 110, "Date", today())
	detailLine(f, 110, "Total Amount", money(order.TotalAmount))

	y := itemsTable(f, eventRows(order))

	f.SetY(y + 5)
	f.SetX(15)
	f.SetFont("Helvetica", "B", 12)
	f.CellFormat(140, 8, "Total Paid:", "", 0, "R", false, 0, "")
	f.CellFormat(40, 8, money(order.PaidAmount), "", 1, "R", false, 0, "")

	f.SetX(15)
	f.SetTextColor(239, 68, 68)
	f.CellFormat(140, 8, "BALANCE DUE:", "", 0, "R", false, 0, "")
	f.CellFormat(40, 8, money(order.RemainingBalance()), "", 1, "R", false, 0, "")
	f.SetTextColor(0, 0, 0)

	return save(f, ReceiptSubdir, fmt.Sprintf("partial_%d.pdf", order.ID))
}
