package models

import (
	"context"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID            int                  `gorm:"primary_key" json:"id"`
	Description   string               `gorm:"size:255;not null" json:"description" binding:"required"`
	Amount        decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Category      ExpenseCategory      `gorm:"size:20;not null;index" json:"category" binding:"required"`
	PaymentMethod ExpensePaymentMethod `gorm:"size:20;not null" json:"payment_method" binding:"required"`
	Date          time.Time            `gorm:"not null;index" json:"date"`
	Notes         string               `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpense struct {
	Description   string               `json:"description" binding:"required"`
	Amount        decimal.Decimal      `json:"amount" binding:"required"`
	Category      ExpenseCategory      `json:"category" binding:"required"`
	PaymentMethod ExpensePaymentMethod `json:"payment_method" binding:"required"`
	Date          time.Time            `json:"date"`
	Notes         string               `json:"notes"`
}

func (input *NewExpense) validate() error {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return utils.NewValidationError("amount must be positive")
	}
	if !input.Category.Valid() {
		return utils.NewValidationError("invalid expense category")
	}
	if !input.PaymentMethod.Valid() {
		return utils.NewValidationError("invalid payment method")
	}
	return nil
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}
	expense := Expense{
		Description:   input.Description,
		Amount:        input.Amount,
		Category:      input.Category,
		PaymentMethod: input.PaymentMethod,
		Date:          date,
		Notes:         input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func UpdateExpense(ctx context.Context, id int, input *NewExpense) (*Expense, error) {

	expense, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	expense.Description = input.Description
	expense.Amount = input.Amount
	expense.Category = input.Category
	expense.PaymentMethod = input.PaymentMethod
	if !input.Date.IsZero() {
		expense.Date = input.Date
	}
	expense.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

func DeleteExpense(ctx context.Context, id int) error {

	if err := utils.ValidateResourceId[Expense](ctx, id); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Delete(&Expense{}, id).Error
}

func FetchExpenses(ctx context.Context, category string) ([]*Expense, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("date DESC")
	if category != "" {
		dbCtx = dbCtx.Where("category = ?", category)
	}
	var expenses []*Expense
	if err := dbCtx.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}
