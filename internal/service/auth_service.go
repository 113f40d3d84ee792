package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/mapper"
	"github.com/agentdesk/leads-api/internal/repository"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	hasher   *auth.PasswordHasher
	logger   *zap.Logger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokens *auth.TokenManager,
	hasher *auth.PasswordHasher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		logger:   logger,
	}
}

// Register creates an account and returns a token for it
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check user email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUserEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return s.authResponse(user)
}

// Login verifies credentials and returns a fresh token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.authResponse(user)
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context) (*domain.UserDTO, error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *AuthService) authResponse(user *domain.User) (*domain.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		Success: true,
		Token:   token,
		User:    mapper.ToUserDTO(user),
	}, nil
}
