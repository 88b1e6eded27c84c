package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "go-dayoff/internal/auth/errors"
	"go-dayoff/internal/directory"
	directoryerrors "go-dayoff/internal/directory/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionTTL = 12 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, id, secret string) (token string, resp AuthResponse, err error)
	GetMe(ctx context.Context, id string) (AuthResponse, error)
	ChangeSecret(ctx context.Context, id, currentSecret, newSecret string) error
}

type service struct {
	directory directory.Service
}

func NewService(dir directory.Service) Service {
	return &service{directory: dir}
}

// Login compares the plaintext secret against the directory and hands out
// a signed session token. Secrets are stored and compared as opaque
// strings; there is deliberately no hashing in this system.
func (s *service) Login(ctx context.Context, id, secret string) (string, AuthResponse, error) {
	account, err := s.directory.Authenticate(ctx, id, secret)
	if err != nil {
		// The directory's credential error names the account surface;
		// login speaks in its own terms.
		if errors.Is(err, directoryerrors.ErrBadCredential) {
			return "", AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		return "", AuthResponse{}, err
	}

	token, err := generateToken(account)
	if err != nil {
		return "", AuthResponse{}, err
	}

	return token, authResponseFromAccount(account), nil
}

func (s *service) GetMe(ctx context.Context, id string) (AuthResponse, error) {
	resp, err := s.directory.GetByID(ctx, id)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		ID:          resp.ID,
		DisplayName: resp.DisplayName,
		Role:        resp.Role,
		Allowance:   resp.Allowance,
	}, nil
}

func (s *service) ChangeSecret(ctx context.Context, id, currentSecret, newSecret string) error {
	return s.directory.ChangeOwnSecret(ctx, id, currentSecret, newSecret)
}

func generateToken(account directory.Account) (string, error) {
	claims := jwt.MapClaims{
		"account_id":   account.ID,
		"role":         string(account.Role),
		"display_name": account.DisplayName,
		"jti":          uuid.New().String(),
		"exp":          time.Now().Add(sessionTTL).Unix(),
		"iat":          time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
