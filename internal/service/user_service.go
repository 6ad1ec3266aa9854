package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

var ErrInvalidCredentials = errors.New("invalid email or password")

// RegisterInput carries the fields accepted at registration. Role is
// not among them; every registration produces a customer.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Address  string
	Phone    string
}

// ProfileInput carries the mutable profile fields. Empty values leave
// the stored field unchanged.
type ProfileInput struct {
	Name     string
	Address  string
	Phone    string
	Password string
}

// UserService defines the interface for account business logic
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	codec    *auth.Codec
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, codec *auth.Codec) UserService {
	return &userService{
		userRepo: userRepo,
		codec:    codec,
	}
}

// Register creates a new customer account with a hashed password
func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil && err != repository.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: hashedPassword,
		Name:         in.Name,
		Address:      in.Address,
		Phone:        in.Phone,
		Role:         domain.RoleCustomer,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and issues a session token
func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the provided profile fields. Role can never be
// changed through this path.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Address != "" {
		user.Address = in.Address
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Password != "" {
		hashed, err := hashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashed
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
