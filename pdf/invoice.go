package pdf

import (
	"fmt"

	"bitbucket.org/bharatisweets/sweets_backend/models"
)

// GenerateRegularInvoice renders the walk-in sale invoice as
// invoices/invoice_<orderId>.pdf and returns its public path.
func GenerateRegularInvoice(order *models.RegularOrder) (string, error) {

	f := newDocument("INVOICE")

	f.SetY(40)
	f.SetX(15)
	f.SetFont("Helvetica", "B", 11)
	f.CellFormat(90, 7, "Bill To:", "", 1, "L", false, 0, "")
	detailLine(f, 15, "Customer", order.CustomerName)
	detailLine(f, 15, "Phone", order.Phone)

	f.SetY(40)
	f.SetX(110)
	f.SetFont("Helvetica", "B", 11)
	f.CellFormat(85, 7, "Invoice Details", "", 1, "R", false, 0, "")
	detailLine(f, 110, "Invoice ID", fmt.Sprintf("#%d", order.ID))
	detailLine(f, 110, "Date", order.OrderDate.Format("02/01/2006"))
	detailLine(f, 110, "Payment", string(order.Payment.Method))

	rows := make([]tableRow, 0, len(order.Items))
	for _, item := range order.Items {
		rows = append(rows, tableRow{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    item.Total,
		})
	}
	y := itemsTable(f, rows)

	f.SetY(y + 5)
	f.SetX(15)
	f.SetFont("Helvetica", "B", 12)
	f.CellFormat(140, 8, "Total Paid:", "", 0, "R", false, 0, "")
	f.CellFormat(40, 8, money(order.Payment.Amount), "", 1, "R", false, 0, "")

	return save(f, InvoiceSubdir, fmt.Sprintf("invoice_%d.pdf", order.ID))
}
