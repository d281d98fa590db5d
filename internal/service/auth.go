package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/repository"
	"github.com/littlesteps/booking/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash keeps unknown-email logins as slow as wrong-password ones.
const dummyPasswordHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z7E5Z1uFvVQ9zcaT1TxxO8jS"

type AuthService struct {
	adminRepo repository.AdminUserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(adminRepo repository.AdminUserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Login checks admin credentials and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.AdminUser, error) {
	admin, err := s.adminRepo.ByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			// Spend the same time as a real comparison.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get admin: %w", err)
	}

	err = s.ComparePassword(password, admin.PasswordHash)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(admin)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	slog.Info("admin logged in", "admin_id", admin.ID)
	return token, admin, nil
}

// CreateAdmin provisions an admin account. Used by the operator CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*model.AdminUser, error) {
	email = normalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.adminRepo.ByEmail(email)
	if err == nil {
		return nil, ErrAdminExists
	}
	if !errors.Is(err, repository.ErrAdminNotFound) {
		return nil, fmt.Errorf("failed to check admin: %w", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.AdminUser{Email: email, PasswordHash: hash}
	err = s.adminRepo.Create(admin)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

// AdminFromJWT verifies the token and loads the admin it names.
func (s *AuthService) AdminFromJWT(tokenString string) (*model.AdminUser, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, err
	}

	adminID, ok := claims["admin_id"].(string)
	if !ok || adminID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	return s.adminRepo.ByID(adminID)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(admin *model.AdminUser) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"exp":      now.Add(s.jwtExpiry).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
