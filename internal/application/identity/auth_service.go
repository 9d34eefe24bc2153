package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pricecraft/backend/internal/domain/identity"
	"github.com/pricecraft/backend/internal/domain/shared"
	"github.com/pricecraft/backend/internal/infrastructure/auth"
)

// AuthServiceConfig holds tunables for the authentication flow
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig returns the default authentication settings
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles registration, login and session lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Register creates a new, immediately active account
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*UserInfo, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, shared.ErrBackingStore
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, shared.ErrBackingStore
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, shared.ErrBackingStore
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	info := ToUserInfo(user)
	return &info, nil
}

// Login verifies credentials and issues a token pair.
// Unknown users and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, clientIP string) (*LoginResult, error) {
	user, err := s.findByUsernameOrEmail(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked due to too many failed login attempts")
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("failed to record login failure",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
		if locked {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked due to too many failed login attempts")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_GENERATION_FAILED", "Failed to generate tokens")
	}

	// Login already succeeded, failing to record it should not fail the call
	user.RecordLoginSuccess(clientIP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Warn("failed to record login success",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("ip", clientIP))

	return &LoginResult{
		AccessToken:           tokens.AccessToken,
		RefreshToken:          tokens.RefreshToken,
		AccessTokenExpiresAt:  tokens.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokens.RefreshTokenExpiresAt,
		TokenType:             tokens.TokenType,
		User:                  ToUserInfo(user),
	}, nil
}

// Logout revokes the presented token. It succeeds even when the token is
// already revoked or there is nothing to revoke.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("failed to blacklist token",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
		return shared.ErrBackingStore
	}

	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

// RefreshToken rotates a token pair using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked")
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	tokens, err := s.jwtService.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	return &LoginResult{
		AccessToken:           tokens.AccessToken,
		RefreshToken:          tokens.RefreshToken,
		AccessTokenExpiresAt:  tokens.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokens.RefreshTokenExpiresAt,
		TokenType:             tokens.TokenType,
		User:                  ToUserInfo(user),
	}, nil
}

// GetCurrentUser returns the account behind an authenticated request
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// ChangePassword changes the password of the current user and revokes
// every token issued before the change.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.ErrBackingStore
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		s.logger.Warn("failed to invalidate existing sessions after password change",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	s.logger.Info("password changed", zap.String("user_id", userID.String()))
	return nil
}

// findByUsernameOrEmail resolves a login identifier. A missing user is
// returned as nil without error so the caller controls the error shape.
func (s *AuthService) findByUsernameOrEmail(ctx context.Context, identifier string) (*identity.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	user, err = s.userRepo.FindByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return nil, nil
}

func isNotFound(err error) bool {
	domainErr, ok := err.(*shared.DomainError)
	return ok && domainErr.Code == shared.ErrNotFound.Code
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum refresh count exceeded, please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
