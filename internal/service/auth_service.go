package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/citaflow/citaflow/internal/domain"
	"github.com/citaflow/citaflow/pkg/auth"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Administrator, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Administrator, error)
	RoleOf(ctx context.Context, adminID uuid.UUID) (string, error)
	TouchLogin(ctx context.Context, id uuid.UUID) error
}

type AuthService struct {
	adminRepo  AdminRepository
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAuthService(adminRepo AdminRepository, jwtManager *auth.JWTManager, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{adminRepo: adminRepo, jwtManager: jwtManager, auditSvc: auditSvc, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.TokenPair, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		// Burn a bcrypt round anyway so response timing does not reveal
		// whether the email exists.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	role, err := s.adminRepo.RoleOf(ctx, admin.ID)
	if err != nil {
		s.log.Error("failed to resolve administrator role", zap.Error(err))
		return nil, fmt.Errorf("resolving role: %w", err)
	}

	_ = s.adminRepo.TouchLogin(ctx, admin.ID)

	pair, err := s.jwtManager.GenerateTokenPair(&domain.Claims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    role,
	})
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		ActorID:      admin.ID.String(),
		Action:       "login",
		ResourceType: "administrator",
		ResourceID:   admin.ID.String(),
		IPAddress:    ip,
	})

	return pair, nil
}

// RefreshToken issues a new token pair given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate the administrator still exists
	admin, err := s.adminRepo.GetByID(ctx, claims.AdminID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := s.adminRepo.RoleOf(ctx, admin.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving role: %w", err)
	}

	return s.jwtManager.GenerateTokenPair(&domain.Claims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    role,
	})
}
