package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users         repository.UserRepository
	customers     repository.CustomerRepository
	professionals repository.ProfessionalRepository
	resets        repository.PasswordResetRepository
	tokenMgr      *auth.TokenManager
	bcryptCost    int
	resetTTL      time.Duration
	adminCfg      config.AdminConfig
	logger        *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	CustomerRepo      repository.CustomerRepository
	ProfessionalRepo  repository.ProfessionalRepository
	PasswordResetRepo repository.PasswordResetRepository
}

// RegisterInput describes a registration payload. Profile fields apply
// depending on the requested role.
type RegisterInput struct {
	Username        string
	Password        string
	Role            domain.Role
	FullName        string
	Address         string
	PostalCode      string
	Description     string
	ServiceType     string
	ExperienceYears int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:         deps.UserRepo,
		customers:     deps.CustomerRepo,
		professionals: deps.ProfessionalRepo,
		resets:        deps.PasswordResetRepo,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:    cfg.Auth.BcryptCost,
		resetTTL:      time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		adminCfg:      cfg.Admin,
		logger:        logger,
	}
}

// Register creates a user plus the role-specific profile record. Professional
// profiles start as PENDING and stay ineligible for assignment until an admin
// approves them.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("username and password required", nil)
	}
	if input.Role != domain.RoleCustomer && input.Role != domain.RoleProfessional {
		return nil, "", time.Time{}, apperrors.NewValidationError("role must be CUSTOMER or PROFESSIONAL", nil)
	}
	if input.Role == domain.RoleProfessional && strings.TrimSpace(input.ServiceType) == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("service_type required for professionals", nil)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, "", time.Time{}, apperrors.NewDuplicateHandle(username)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         input.Role,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	switch input.Role {
	case domain.RoleCustomer:
		customer := &domain.Customer{
			UserID:     user.ID,
			FullName:   strings.TrimSpace(input.FullName),
			Address:    strings.TrimSpace(input.Address),
			PostalCode: strings.TrimSpace(input.PostalCode),
		}
		if err := s.customers.Create(ctx, customer); err != nil {
			return nil, "", time.Time{}, apperrors.MapError(err)
		}
	case domain.RoleProfessional:
		prof := &domain.Professional{
			UserID:          user.ID,
			Name:            strings.TrimSpace(input.FullName),
			Description:     strings.TrimSpace(input.Description),
			ServiceType:     strings.TrimSpace(input.ServiceType),
			ExperienceYears: input.ExperienceYears,
			Address:         strings.TrimSpace(input.Address),
			PostalCode:      strings.TrimSpace(input.PostalCode),
			Approval:        domain.ApprovalPending,
		}
		if err := s.professionals.Create(ctx, prof); err != nil {
			return nil, "", time.Time{}, apperrors.MapError(err)
		}
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Login authenticates a user. It succeeds only when the username exists, the
// hash verifies and the claimed role matches; blocked users always fail. A
// non-approved professional may still log in, the assignment side keeps them
// out of new work.
func (s *AuthService) Login(ctx context.Context, username, password string, role domain.Role) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if role != "" && user.Role != role {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if user.Status == domain.UserStatusBlocked {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// EnsureAdmin creates the bootstrap administrator account if missing.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	if s.adminCfg.Password == "" {
		s.logger.Warn("ADMIN_PASSWORD not set; skipping admin bootstrap")
		return nil
	}
	if _, err := s.users.GetByUsername(ctx, s.adminCfg.Username); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(s.adminCfg.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Username:     s.adminCfg.Username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("username", admin.Username))
	return nil
}

// RequestPasswordReset persists a reset token for the username.
func (s *AuthService) RequestPasswordReset(ctx context.Context, username string) (*repository.PasswordResetToken, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		return apperrors.MapError(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("token expired or used", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return apperrors.MapError(s.resets.MarkUsed(ctx, token.ID))
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
