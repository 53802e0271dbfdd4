package models_test

import (
	"context"
	"testing"

	"bitbucket.org/bharatisweets/sweets_backend/models"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
)

func TestSignupAndLogin(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	user, err := models.Signup(ctx, &models.NewUser{
		Username: "owner",
		Email:    "owner@bharatisweets.in",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plain text")
	}

	token, loggedIn, err := models.Login(ctx, &models.LoginInput{Username: "owner", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("logged in user id = %d, want %d", loggedIn.ID, user.ID)
	}

	parsed, err := utils.JwtValidate(token)
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not validate: %v", err)
	}
	claims, ok := parsed.Claims.(*utils.JwtCustomClaim)
	if !ok {
		t.Fatalf("claims type %T", parsed.Claims)
	}
	if claims.ID != user.ID || claims.Username != "owner" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLogin_SameErrorForBothFailureModes(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	if _, err := models.Signup(ctx, &models.NewUser{
		Username: "owner",
		Email:    "owner@bharatisweets.in",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, _, badUser := models.Login(ctx, &models.LoginInput{Username: "nobody", Password: "secret123"})
	_, _, badPass := models.Login(ctx, &models.LoginInput{Username: "owner", Password: "wrong"})

	if !utils.IsValidationError(badUser) || !utils.IsValidationError(badPass) {
		t.Fatalf("errors = %v / %v, want validation errors", badUser, badPass)
	}
	if badUser.Error() != badPass.Error() {
		t.Fatalf("failure messages differ: %q vs %q", badUser.Error(), badPass.Error())
	}
}

func TestSignup_Validation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	_, err := models.Signup(ctx, &models.NewUser{Username: "a", Email: "not-an-email", Password: "secret123"})
	if !utils.IsValidationError(err) {
		t.Fatalf("bad email: err = %v, want validation error", err)
	}

	_, err = models.Signup(ctx, &models.NewUser{Username: "a", Email: "a@b.co", Password: "short"})
	if !utils.IsValidationError(err) {
		t.Fatalf("short password: err = %v, want validation error", err)
	}

	if _, err := models.Signup(ctx, &models.NewUser{Username: "owner", Email: "owner@bharatisweets.in", Password: "secret123"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_, err = models.Signup(ctx, &models.NewUser{Username: "owner", Email: "other@bharatisweets.in", Password: "secret123"})
	if !utils.IsValidationError(err) {
		t.Fatalf("duplicate username: err = %v, want validation error", err)
	}
}
