// Package services contains server-side business logic. This file implements
// UserService, which handles password and provider sign-in, refreshing
// access tokens and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/osp/internal/common"
	"github.com/dmitrijs2005/osp/internal/dbx"
	"github.com/dmitrijs2005/osp/internal/server/auth"
	"github.com/dmitrijs2005/osp/internal/server/config"
	"github.com/dmitrijs2005/osp/internal/server/models"
	"github.com/dmitrijs2005/osp/internal/server/repositories/repomanager"
)

// bcryptCost is lowered in tests.
var bcryptCost = bcrypt.DefaultCost

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
//   - Login: verify a password and mint tokens
//   - SocialSignIn: verify a provider id token, create the account on first
//     sight and mint tokens
//   - Refresh: mint a new access token for a stored refresh token
//   - DeleteAccount: mark the account pending deletion and revoke its tokens
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	verifier                     *auth.ProviderVerifier
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
// db may be nil when m keeps everything in memory.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		verifier:                     auth.NewProviderVerifier(cfg.ProviderSecrets),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// Login checks userName and password and, on success, returns a new
// TokenPair. Unknown users, wrong passwords and accounts pending deletion
// all give common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if len(user.PasswordHash) == 0 || bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	if user.DeletionPending() {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user, s.db)
}

// SocialSignIn verifies idToken with the provider's secret. The first
// sign-in of a subject creates its account.
func (s *UserService) SocialSignIn(ctx context.Context, provider, idToken string) (*TokenPair, error) {
	identity, err := s.verifier.Verify(provider, idToken)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedProvider) {
			return nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
		}
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	err = s.repomanager.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByProvider(ctx, identity.Provider, identity.Subject)
		if errors.Is(err, common.ErrorNotFound) {
			user, err = repo.Create(ctx, &models.User{
				UserName:        identity.Provider + ":" + identity.Subject,
				Email:           identity.Email,
				Provider:        identity.Provider,
				ProviderSubject: identity.Subject,
			})
		}
		if err != nil {
			return fmt.Errorf("error resolving provider user: %w", err)
		}
		if user.DeletionPending() {
			return common.ErrorUnauthorized
		}

		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh returns a new access token for refreshToken. The refresh token is
// not rotated. Unknown tokens and accounts pending deletion give
// common.ErrorUnauthorized; expired ones common.ErrRefreshTokenExpired.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.now()) {
		_ = repo.Delete(ctx, refreshToken)
		return "", common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}
	if user.DeletionPending() {
		return "", common.ErrorUnauthorized
	}

	return s.generateAccessToken(user)
}

// DeleteAccount marks userID pending deletion and revokes its refresh
// tokens. A second request gives common.ErrDeletionInProgress.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.DeletionPending() {
		return common.ErrDeletionInProgress
	}

	return s.repomanager.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).MarkDeletionPending(ctx, userID, s.now().UTC()); err != nil {
			return err
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("error revoking refresh tokens: %w", err)
		}
		return nil
	})
}

// SeedUser creates a password account. An existing username gives
// common.ErrorAlreadyExists.
func (s *UserService) SeedUser(ctx context.Context, userName, password string) (*models.User, error) {
	if userName == "" || password == "" {
		return nil, common.ErrorValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{UserName: userName, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// --- helpers below ---

func (s *UserService) generateAccessToken(user *models.User) (string, error) {
	tok, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return tok, nil
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
