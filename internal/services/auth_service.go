package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/repository"
	"github.com/prasadbobby/suraksha-backend/pkg/utils"
)

type AuthService struct {
	userRepo *repository.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{
		userRepo: repository.NewUserRepository(),
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := utils.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	phone := req.Phone
	if phone != "" {
		normalized, err := utils.NormalizePhone(phone)
		if err != nil {
			return nil, err
		}
		phone = normalized
	}

	// Check if email already registered
	existingUser, _ := s.userRepo.GetUserByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:       uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Phone:        phone,
		IsActive:     true,
		CreatedAt:    time.Now(),
		LastSeen:     time.Now(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token := generateToken()
	GetTokenStore().StoreToken(token, user.UserID)

	return &models.AuthResponse{
		UserID: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
		Token:  token,
	}, nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !user.IsActive {
		return nil, errors.New("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token := generateToken()
	GetTokenStore().StoreToken(token, user.UserID)

	return &models.AuthResponse{
		UserID: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
		Token:  token,
	}, nil
}

// UpdateNotificationToken updates the user's registered device token
func (s *AuthService) UpdateNotificationToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return errors.New("notification token cannot be empty")
	}
	return s.userRepo.UpdateNotificationToken(ctx, userID, token)
}

// Logout invalidates a user's token
func (s *AuthService) Logout(token string) {
	GetTokenStore().DeleteToken(token)
}

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
