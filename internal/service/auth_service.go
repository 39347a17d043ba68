// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// authService issues admin tokens for the protected training and ingest
// routes. There is a single admin account, configured via environment; the
// plaintext password is hashed once at startup and discarded.
type authService struct {
	username     string
	passwordHash []byte
}

func NewAuthService(cfg *config.Config) IAuthService {
	var hash []byte
	if cfg.Admin.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[ERROR] Failed to hash admin password: %v", err)
		} else {
			hash = h
		}
	} else {
		log.Println("[WARN] ADMIN_PASSWORD not set; admin login is disabled")
	}

	return &authService{
		username:     cfg.Admin.Username,
		passwordHash: hash,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if len(s.passwordHash) == 0 {
		return nil, errors.New("admin login is not configured")
	}
	if req.Username != s.username {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":  s.username,
		"role": "admin",
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     signedToken,
		ExpiresAt: expiresAt,
	}, nil
}
