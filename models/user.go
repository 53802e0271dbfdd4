package models

import (
	"context"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;uniqueIndex" json:"username" binding:"required"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Signup(ctx context.Context, input *NewUser) (*User, error) {

	if !utils.IsValidEmail(input.Email) {
		return nil, utils.NewValidationError("invalid email address")
	}
	if len(input.Password) < 6 {
		return nil, utils.NewValidationError("password must be at least 6 characters")
	}

	count, err := utils.ResourceCountWhere[User](ctx, "username = ? OR email = ?", input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("username or email already taken")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hash),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies the credentials and issues a signed bearer token. The
// same message is returned for a wrong username and a wrong password.
func Login(ctx context.Context, input *LoginInput) (string, *User, error) {

	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("username = ?", input.Username).First(&user).Error
	if err != nil {
		return "", nil, utils.NewValidationError("invalid username or password")
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return "", nil, utils.NewValidationError("invalid username or password")
	}

	token, err := utils.JwtGenerate(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}
