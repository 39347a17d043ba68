package service

import (
	"context"
	"testing"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"

	"github.com/golang-jwt/jwt/v5"
)

func authTestConfig(password string) *config.Config {
	return &config.Config{Admin: config.AdminConfig{
		Username: "admin",
		Password: password,
	}}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewAuthService(authTestConfig("rahasia123"))

	t.Run("valid credentials issue a signed token", func(t *testing.T) {
		res, err := svc.Login(context.Background(), &dto.LoginRequest{
			Username: "admin",
			Password: "rahasia123",
		})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if res.Token == "" {
			t.Fatal("token must not be empty")
		}
		if res.ExpiresAt.IsZero() {
			t.Error("expiry must be set")
		}

		token, err := jwt.Parse(res.Token, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		if err != nil {
			t.Fatalf("parse token: %v", err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			t.Fatal("token must be valid")
		}
		if claims["sub"] != "admin" {
			t.Errorf("sub = %v, want admin", claims["sub"])
		}
		if claims["role"] != "admin" {
			t.Errorf("role = %v, want admin", claims["role"])
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		if _, err := svc.Login(context.Background(), &dto.LoginRequest{
			Username: "admin",
			Password: "salah",
		}); err == nil {
			t.Fatal("wrong password must be rejected")
		}
	})

	t.Run("wrong username is rejected", func(t *testing.T) {
		if _, err := svc.Login(context.Background(), &dto.LoginRequest{
			Username: "operator",
			Password: "rahasia123",
		}); err == nil {
			t.Fatal("unknown username must be rejected")
		}
	})
}

func TestLoginDisabledWithoutPassword(t *testing.T) {
	svc := NewAuthService(authTestConfig(""))

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "apapun",
	}); err == nil {
		t.Fatal("login must be disabled when no admin password is configured")
	}
}

func TestLoginRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	svc := NewAuthService(authTestConfig("rahasia123"))

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "rahasia123",
	}); err == nil {
		t.Fatal("signing must fail without a configured secret")
	}
}
