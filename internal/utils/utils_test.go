package utils_test

import (
	"testing"

	"github.com/kajbd/kajbd-backend/internal/utils"
)

func TestPasswordRoundTrip(t *testing.T) {
	hashed, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hashed == "secret123" {
		t.Fatalf("password stored in plain text")
	}
	if !utils.CheckPassword(hashed, "secret123") {
		t.Fatalf("expected matching password to verify")
	}
	if utils.CheckPassword(hashed, "wrong") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestSignAndParseJWT(t *testing.T) {
	token, err := utils.SignJWT("test-secret", 42, "employer", 60)
	if err != nil {
		t.Fatalf("SignJWT error: %v", err)
	}

	claims, err := utils.ParseJWT("test-secret", token)
	if err != nil {
		t.Fatalf("ParseJWT error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected uid 42, got %d", claims.UserID)
	}
	if claims.Role != "employer" {
		t.Fatalf("expected role employer, got %q", claims.Role)
	}

	if _, err := utils.ParseJWT("other-secret", token); err == nil {
		t.Fatalf("expected parse with wrong secret to fail")
	}
}
