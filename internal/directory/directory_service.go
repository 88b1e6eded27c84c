package directory

import (
	"context"
	"sort"
	"sync"

	directoryerrors "go-dayoff/internal/directory/errors"
	"go-dayoff/internal/shared/apperror"

	"go.uber.org/zap"
)

// RequestPurger removes every request owned by an account. Implemented by
// the request ledger; declared locally to keep the dependency one-way.
type RequestPurger interface {
	PurgeAccount(ctx context.Context, accountID string) error
}

//go:generate mockgen -source=directory_service.go -destination=mock/directory_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]AccountResponse, error)
	GetByID(ctx context.Context, id string) (AccountResponse, error)
	Create(ctx context.Context, actorID string, req CreateAccountRequest) (AccountResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	ResetSecret(ctx context.Context, actorID, id, newSecret string) error
	ChangeOwnSecret(ctx context.Context, id, currentSecret, newSecret string) error
	UpdateAllowance(ctx context.Context, actorID, id string, allowance int) error
	UpdateDisplayName(ctx context.Context, actorID, id, displayName string) error
	Authenticate(ctx context.Context, id, secret string) (Account, error)
}

type service struct {
	mu     sync.Mutex
	repo   Repository
	purger RequestPurger
	logger *zap.Logger
}

func NewService(repo Repository, purger RequestPurger, logger ...*zap.Logger) Service {
	l := zap.L().Named("directory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.service")
	}
	return &service{repo: repo, purger: purger, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]AccountResponse, error) {
	accounts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, mapToResponse(a))
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].ID < resp[j].ID })
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (AccountResponse, error) {
	accounts, err := s.repo.Load(ctx)
	if err != nil {
		return AccountResponse{}, err
	}

	a, ok := accounts[id]
	if !ok {
		return AccountResponse{}, directoryerrors.ErrAccountNotFound
	}
	return mapToResponse(a), nil
}

func (s *service) Create(ctx context.Context, actorID string, req CreateAccountRequest) (AccountResponse, error) {
	s.logger.Debug("create account requested",
		zap.String("actor_id", actorID),
		zap.String("account_id", req.ID),
		zap.String("role", req.Role),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.repo.Load(ctx)
	if err != nil {
		return AccountResponse{}, err
	}
	if err := requireAdmin(accounts, actorID); err != nil {
		return AccountResponse{}, err
	}

	if req.ID == "" || req.Secret == "" {
		return AccountResponse{}, directoryerrors.ErrMissingField
	}
	if _, exists := accounts[req.ID]; exists {
		s.logger.Warn("create account duplicate", zap.String("account_id", req.ID))
		return AccountResponse{}, directoryerrors.ErrDuplicateAccount
	}
	if req.Allowance < 0 {
		return AccountResponse{}, directoryerrors.ErrNegativeAllowance
	}

	role := Role(req.Role)
	switch role {
	case "":
		role = RoleStandard
	case RoleStandard, RoleAdmin:
	default:
		return AccountResponse{}, directoryerrors.ErrInvalidRole
	}

	a := Account{
		ID:          req.ID,
		Secret:      req.Secret,
		DisplayName: req.DisplayName,
		Role:        role,
		Allowance:   req.Allowance,
	}
	if a.DisplayName == "" {
		a.DisplayName = a.ID
	}
	// Admins never draw from an allowance.
	if a.Role == RoleAdmin {
		a.Allowance = 0
	}

	accounts[a.ID] = a
	if err := s.repo.Save(ctx, accounts); err != nil {
		s.logger.Error("create account persist failed", zap.Error(err))
		return AccountResponse{}, err
	}

	s.logger.Info("account created",
		zap.String("account_id", a.ID),
		zap.String("role", string(a.Role)),
	)
	return mapToResponse(a), nil
}

// Delete removes an account and cascades to its requests. The ledger is
// purged first so a failure there leaves the directory untouched; the two
// writes go out back-to-back with the directory lock held.
func (s *service) Delete(ctx context.Context, actorID, id string) error {
	s.logger.Debug("delete account requested",
		zap.String("actor_id", actorID),
		zap.String("account_id", id),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin(accounts, actorID); err != nil {
		return err
	}

	if id == RootAccountID {
		return directoryerrors.ErrProtectedAccount
	}
	if _, ok := accounts[id]; !ok {
		return directoryerrors.ErrAccountNotFound
	}

	if err := s.purger.PurgeAccount(ctx, id); err != nil {
		s.logger.Error("cascade purge failed",
			zap.String("account_id", id),
			zap.Error(err),
		)
		return err
	}

	delete(accounts, id)
	if err := s.repo.Save(ctx, accounts); err != nil {
		s.logger.Error("delete account persist failed", zap.Error(err))
		return err
	}

	s.logger.Info("account deleted", zap.String("account_id", id))
	return nil
}

func (s *service) ResetSecret(ctx context.Context, actorID, id, newSecret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin(accounts, actorID); err != nil {
		return err
	}

	a, ok := accounts[id]
	if !ok {
		return directoryerrors.ErrAccountNotFound
	}
	if len(newSecret) < 4 {
		return directoryerrors.ErrWeakSecret
	}

	a.Secret = newSecret
	accounts[id] = a
	if err := s.repo.Save(ctx, accounts); err != nil {
		s.logger.Error("reset secret persist failed", zap.Error(err))
		return err
	}

	s.logger.Info("secret reset",
		zap.String("account_id", id),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) ChangeOwnSecret(ctx context.Context, id, currentSecret, newSecret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	a, ok := accounts[id]
	if !ok {
		return directoryerrors.ErrAccountNotFound
	}
	if a.Secret != currentSecret {
		s.logger.Warn("change secret rejected", zap.String("account_id", id))
		return directoryerrors.ErrBadCredential
	}
	if len(newSecret) < 4 {
		return directoryerrors.ErrWeakSecret
	}

	a.Secret = newSecret
	accounts[id] = a
	if err := s.repo.Save(ctx, accounts); err != nil {
		s.logger.Error("change secret persist failed", zap.Error(err))
		return err
	}

	s.logger.Info("secret changed", zap.String("account_id", id))
	return nil
}

func (s *service) UpdateAllowance(ctx context.Context, actorID, id string, allowance int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin(accounts, actorID); err != nil {
		return err
	}

	a, ok := accounts[id]
	if !ok {
		return directoryerrors.ErrAccountNotFound
	}
	if allowance < 0 {
		return directoryerrors.ErrNegativeAllowance
	}

	a.Allowance = allowance
	accounts[id] = a
	if err := s.repo.Save(ctx, accounts); err != nil {
		s.logger.Error("update allowance persist failed", zap.Error(err))
		return err
	}

	s.logger.Info("allowance updated",
		zap.String("account_id", id),
		zap.Int("allowance", allowance),
	)
	return nil
}

func (s *service) UpdateDisplayName(ctx context.Context, actorID, id, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	// Admins may rename anyone; a standard account only itself.
	if actorID != id {
		if err := requireAdmin(accounts, actorID); err != nil {
			return err
		}
	}

	a, ok := accounts[id]
	if !ok {
		return directoryerrors.ErrAccountNotFound
	}
	if displayName == "" {
		return apperror.ErrInvalidInput
	}

	a.DisplayName = displayName
	accounts[id] = a
	if err := s.repo.Save(ctx, accounts); err != nil {
		s.logger.Error("update display name persist failed", zap.Error(err))
		return err
	}
	return nil
}

// Authenticate does the opaque plaintext comparison the login glue relies
// on. Unknown id and wrong secret are indistinguishable to the caller.
func (s *service) Authenticate(ctx context.Context, id, secret string) (Account, error) {
	accounts, err := s.repo.Load(ctx)
	if err != nil {
		return Account{}, err
	}

	a, ok := accounts[id]
	if !ok || a.Secret != secret {
		return Account{}, directoryerrors.ErrBadCredential
	}
	return a, nil
}

func requireAdmin(accounts Accounts, actorID string) error {
	actor, ok := accounts[actorID]
	if !ok || !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	return nil
}

func mapToResponse(a Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Role:        string(a.Role),
		Allowance:   a.Allowance,
	}
}
