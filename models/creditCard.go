package models

import (
	"context"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
)

// CreditCard records the shop's cards so card payments on orders and
// vendor transactions can reference which card was used. Only the last
// four digits are stored.
type CreditCard struct {
	ID         int       `gorm:"primary_key" json:"id"`
	CardName   string    `gorm:"size:100;not null" json:"card_name" binding:"required"`
	Bank       string    `gorm:"size:100" json:"bank"`
	LastDigits string    `gorm:"size:4" json:"last_digits"`
	HolderName string    `gorm:"size:100" json:"holder_name"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCreditCard struct {
	CardName   string `json:"card_name" binding:"required"`
	Bank       string `json:"bank"`
	LastDigits string `json:"last_digits"`
	HolderName string `json:"holder_name"`
}

func (input *NewCreditCard) validate() error {
	if len(input.LastDigits) > 4 {
		return utils.NewValidationError("last digits must be at most 4 characters")
	}
	return nil
}

func CreateCreditCard(ctx context.Context, input *NewCreditCard) (*CreditCard, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}
	card := CreditCard{
		CardName:   input.CardName,
		Bank:       input.Bank,
		LastDigits: input.LastDigits,
		HolderName: input.HolderName,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func UpdateCreditCard(ctx context.Context, id int, input *NewCreditCard) (*CreditCard, error) {

	card, err := utils.FetchModel[CreditCard](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	card.CardName = input.CardName
	card.Bank = input.Bank
	card.LastDigits = input.LastDigits
	card.HolderName = input.HolderName

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

func DeleteCreditCard(ctx context.Context, id int) error {

	if err := utils.ValidateResourceId[CreditCard](ctx, id); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Delete(&CreditCard{}, id).Error
}

func FetchCreditCards(ctx context.Context) ([]*CreditCard, error) {
	return utils.FetchAllModels[CreditCard](ctx)
}
