// Package pdf renders order documents (invoices and receipts) into the
// configured document directory, from where they are served statically and
// linked inside WhatsApp messages.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	InvoiceSubdir = "invoices"
	ReceiptSubdir = "receipts"
)

type tableRow struct {
	Name     string
	Quantity decimal.Decimal
	Unit     string
	Price    decimal.Decimal
	Total    decimal.Decimal
}

func newDocument(title string) *gofpdf.Fpdf {
	f := gofpdf.New("P", "mm", "A4", "")
	f.AddPage()

	// logo block + shop name
	f.SetFillColor(59, 130, 246)
	f.Rect(15, 15, 8, 8, "F")
	f.SetTextColor(0, 0, 0)
	f.SetFont("Helvetica", "B", 16)
	f.Text(26, 21, "Bharati Sweets")

	f.SetTextColor(31, 41, 55)
	f.SetFont("Helvetica", "B", 18)
	f.CellFormat(0, 10, title, "", 1, "R", false, 0, "")
	f.Ln(6)
	return f
}

func money(d decimal.Decimal) string {
	return "Rs " + d.StringFixed(2)
}

// itemsTable renders the line-item table and returns the Y position below
// it for totals.
func itemsTable(f *gofpdf.Fpdf, rows []tableRow) float64 {
	f.SetXY(15, 85)
	f.SetFont("Helvetica", "B", 11)
	f.SetTextColor(0, 0, 0)
	f.CellFormat(70, 8, "Item", "B", 0, "L", false, 0, "")
	f.CellFormat(35, 8, "Quantity", "B", 0, "L", false, 0, "")
	f.CellFormat(35, 8, "Price", "B", 0, "R", false, 0, "")
	f.CellFormat(40, 8, "Amount", "B", 1, "R", false, 0, "")

	f.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		unit := row.Unit
		if unit == "" {
			unit = "g"
		}
		f.SetX(15)
		f.CellFormat(70, 7, row.Name, "", 0, "L", false, 0, "")
		f.CellFormat(35, 7, fmt.Sprintf("%s %s", row.Quantity.String(), unit), "", 0, "L", false, 0, "")
		f.CellFormat(35, 7, money(row.Price), "", 0, "R", false, 0, "")
		f.CellFormat(40, 7, money(row.Total), "", 1, "R", false, 0, "")
	}
	f.SetX(15)
	f.CellFormat(180, 1, "", "T", 1, "L", false, 0, "")
	return f.GetY()
}

func detailLine(f *gofpdf.Fpdf, x float64, label, value string) {
	f.SetX(x)
	f.SetFont("Helvetica", "", 10)
	f.CellFormat(90, 6, fmt.Sprintf("%s: %s", label, value), "", 1, "L", false, 0, "")
}

func today() string {
	return time.Now().Format("02/01/2006")
}

// save writes the document under DOCUMENT_DIR/<subdir>/ and returns the
// public path the file is served at.
func save(f *gofpdf.Fpdf, subdir, fileName string) (string, error) {
	dir := filepath.Join(config.DocumentDir(), subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := f.OutputFileAndClose(filepath.Join(dir, fileName)); err != nil {
		return "", err
	}
	return "/" + subdir + "/" + fileName, nil
}
