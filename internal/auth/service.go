package auth

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	internal "github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
)

// Credentials is the minimal row the login path reads. The full identity is
// only loaded once a token is presented.
type Credentials struct {
	UserID       int64
	Email        string
	PasswordHash string
	IsActive     bool
}

type Repository interface {
	CredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	CredentialsByUserID(ctx context.Context, userID int64) (*Credentials, error)
	IdentityByUserID(ctx context.Context, userID int64) (*access.Identity, error)
}

// Service is the main auth service with dependencies
type Service struct {
	repo           Repository
	tokenGenerator TokenGenerator
	logger         *slog.Logger
	bcryptCost     int
}

// NewService creates a new auth service
func NewService(repo Repository, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

// Authenticate validates credentials and returns a token pair. All
// credential failures collapse into the same error so responses do not
// reveal whether an email is registered.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.repo.CredentialsByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to load credentials", "error", err)
		return AuthTokens{}, internal.NewInternalError("authentication unavailable", err)
	}
	if creds == nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !creds.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issueTokens(creds)
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. The user
// is re-read so deactivation takes effect at the next refresh even though
// outstanding access tokens stay valid until expiry.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	creds, err := s.repo.CredentialsByUserID(ctx, claims.UserID)
	if err != nil {
		s.logger.Error("failed to reload credentials on refresh", "user_id", claims.UserID, "error", err)
		return AuthTokens{}, internal.NewInternalError("authentication unavailable", err)
	}
	if creds == nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if !creds.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issueTokens(creds)
}

func (s *Service) issueTokens(creds *Credentials) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(creds.UserID, creds.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(creds.UserID, creds.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	tokens := AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if generator, ok := s.tokenGenerator.(*JWTTokenGenerator); ok {
		tokens.ExpiresIn = int64(generator.AccessTokenTTL.Seconds())
	}
	return tokens, nil
}

// ValidateAccessToken validates the token and rejects refresh tokens used in
// place of access tokens.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// IdentityForUser loads the caller's full identity: base role, custom role
// and supervisor edges. It is read fresh per request so role and reporting
// changes apply without re-login.
func (s *Service) IdentityForUser(ctx context.Context, userID int64) (*access.Identity, error) {
	identity, err := s.repo.IdentityByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load identity", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("authentication unavailable", err)
	}
	if identity == nil {
		return nil, internal.ErrInvalidToken
	}
	return identity, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
