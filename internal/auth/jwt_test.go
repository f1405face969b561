package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/ordering/internal/auth"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	token, err := auth.GenerateToken(secret, userID, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := auth.ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("user ID: got %v, want %v", claims.UserID, userID)
	}
	if claims.Subject != userID.String() {
		t.Errorf("subject: got %v, want %v", claims.Subject, userID)
	}
}

func TestValidateTokenWithWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("secret-a", uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = auth.ValidateToken("secret-b", token)
	if err == nil {
		t.Fatal("expected error validating with wrong secret")
	}
}

func TestValidateTokenWithInvalidString(t *testing.T) {
	_, err := auth.ValidateToken("secret", "not-a-jwt")
	if err == nil {
		t.Fatal("expected error validating invalid token string")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := auth.GenerateToken("secret", uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = auth.ValidateToken("secret", token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("got %v, want jwt.ErrTokenExpired", err)
	}
}

func TestValidateTokenWithoutUser(t *testing.T) {
	token, err := auth.GenerateToken("secret", uuid.Nil, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = auth.ValidateToken("secret", token)
	if !errors.Is(err, auth.ErrNoUser) {
		t.Fatalf("got %v, want ErrNoUser", err)
	}
}
