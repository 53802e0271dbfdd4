package models

import (
	"context"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"github.com/shopspring/decimal"
)

// Vendor is a raw-material supplier. paymentDue is a running balance:
// supply deliveries raise it, recorded payments lower it. Transactions are
// append-only; the master record itself stays editable.
type Vendor struct {
	ID              int                 `gorm:"primary_key" json:"id"`
	Name            string              `gorm:"size:100;not null" json:"name" binding:"required"`
	Type            VendorType          `gorm:"size:20;not null" json:"type" binding:"required"`
	Contact         string              `gorm:"size:100" json:"contact"`
	Address         string              `gorm:"type:text" json:"address"`
	SuppliedItems   string              `gorm:"type:text" json:"supplied_items"`
	DailySupply     decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"daily_supply"`
	MonthlySupply   decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"monthly_supply"`
	Rate            decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"rate"`
	PaymentDue      decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"payment_due"`
	LastPaymentDate *time.Time          `json:"last_payment_date"`
	Transactions    []VendorTransaction `gorm:"foreignKey:VendorId" json:"transactions"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type VendorTransaction struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	VendorId      int                 `gorm:"index;not null" json:"vendor_id"`
	Date          time.Time           `gorm:"not null" json:"date"`
	Quantity      decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	Amount        decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"amount"`
	PaymentMethod VendorPaymentMethod `gorm:"size:20" json:"payment_method"`
	CardId        int                 `json:"card_id"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

type NewVendor struct {
	Name          string          `json:"name" binding:"required"`
	Type          VendorType      `json:"type" binding:"required"`
	Contact       string          `json:"contact"`
	Address       string          `json:"address"`
	SuppliedItems string          `json:"supplied_items"`
	DailySupply   decimal.Decimal `json:"daily_supply"`
	MonthlySupply decimal.Decimal `json:"monthly_supply"`
	Rate          decimal.Decimal `json:"rate"`
	PaymentDue    decimal.Decimal `json:"payment_due"`
}

type NewVendorPayment struct {
	Date          time.Time           `json:"date"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Amount        decimal.Decimal     `json:"amount" binding:"required"`
	PaymentMethod VendorPaymentMethod `json:"payment_method" binding:"required"`
	CardId        int                 `json:"card_id"`
}

func (input *NewVendor) validate() error {
	if !input.Type.Valid() {
		return utils.NewValidationError("invalid vendor type")
	}
	if input.Rate.IsNegative() {
		return utils.NewValidationError("rate must not be negative")
	}
	if input.PaymentDue.IsNegative() {
		return utils.NewValidationError("payment due must not be negative")
	}
	return nil
}

func CreateVendor(ctx context.Context, input *NewVendor) (*Vendor, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	vendor := Vendor{
		Name:          input.Name,
		Type:          input.Type,
		Contact:       input.Contact,
		Address:       input.Address,
		SuppliedItems: input.SuppliedItems,
		DailySupply:   input.DailySupply,
		MonthlySupply: input.MonthlySupply,
		Rate:          input.Rate,
		PaymentDue:    input.PaymentDue,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func UpdateVendor(ctx context.Context, id int, input *NewVendor) (*Vendor, error) {

	vendor, err := utils.FetchModel[Vendor](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	vendor.Name = input.Name
	vendor.Type = input.Type
	vendor.Contact = input.Contact
	vendor.Address = input.Address
	vendor.SuppliedItems = input.SuppliedItems
	vendor.DailySupply = input.DailySupply
	vendor.MonthlySupply = input.MonthlySupply
	vendor.Rate = input.Rate
	vendor.PaymentDue = input.PaymentDue

	db := config.GetDB()
	if err := db.WithContext(ctx).Omit("Transactions").Save(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func DeleteVendor(ctx context.Context, id int) error {

	if err := utils.ValidateResourceId[Vendor](ctx, id); err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("vendor_id = ?", id).Delete(&VendorTransaction{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(&Vendor{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func FetchVendors(ctx context.Context) ([]*Vendor, error) {

	db := config.GetDB()
	var vendors []*Vendor
	err := db.WithContext(ctx).Preload("Transactions").Order("name ASC").Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

// RecordVendorPayment appends one transaction and settles it against the
// running balance. Paying more than is owed is rejected; a delivery that
// raises the balance must be recorded first.
func RecordVendorPayment(ctx context.Context, vendorId int, input *NewVendorPayment) (*Vendor, error) {

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, utils.NewValidationError("payment amount must be positive")
	}
	if !input.PaymentMethod.Valid() {
		return nil, utils.NewValidationError("invalid payment method")
	}

	vendor, err := utils.FetchModel[Vendor](ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if input.Amount.GreaterThan(vendor.PaymentDue) {
		return nil, utils.NewValidationError("payment cannot exceed due balance")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}
	transaction := VendorTransaction{
		VendorId:      vendor.ID,
		Date:          date,
		Quantity:      input.Quantity,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		CardId:        input.CardId,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&transaction).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	vendor.PaymentDue = vendor.PaymentDue.Sub(input.Amount)
	vendor.LastPaymentDate = &date
	err = tx.WithContext(ctx).Model(&Vendor{}).Where("id = ?", vendor.ID).
		Updates(map[string]interface{}{
			"payment_due":       vendor.PaymentDue,
			"last_payment_date": vendor.LastPaymentDate,
		}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	vendor.Transactions = append(vendor.Transactions, transaction)
	return vendor, nil
}
