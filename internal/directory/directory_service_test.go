package directory_test

import (
	"context"
	"testing"

	"go-dayoff/internal/directory"
	directoryerrors "go-dayoff/internal/directory/errors"
	"go-dayoff/internal/shared/apperror"
	"go-dayoff/internal/store"

	"github.com/stretchr/testify/assert"
)

type fakePurger struct {
	purged  []string
	purgeFn func(ctx context.Context, accountID string) error
}

func (f *fakePurger) PurgeAccount(ctx context.Context, accountID string) error {
	if f.purgeFn != nil {
		return f.purgeFn(ctx, accountID)
	}
	f.purged = append(f.purged, accountID)
	return nil
}

type directoryServiceDeps struct {
	service directory.Service
	repo    directory.Repository
	purger  *fakePurger
}

func setupDirectoryServiceTest(t *testing.T) *directoryServiceDeps {
	t.Helper()

	repo := directory.NewRepository(store.NewMemoryStore())
	purger := &fakePurger{}
	svc := directory.NewService(repo, purger)

	return &directoryServiceDeps{service: svc, repo: repo, purger: purger}
}

func TestDirectoryService_Bootstrap(t *testing.T) {
	ctx := context.Background()
	deps := setupDirectoryServiceTest(t)

	// An empty store starts with exactly the root admin.
	resp, err := deps.service.GetAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, directory.RootAccountID, resp[0].ID)
	assert.Equal(t, string(directory.RoleAdmin), resp[0].Role)

	_, err = deps.service.Authenticate(ctx, "admin", "admin")
	assert.NoError(t, err)
}

func TestDirectoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		resp, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{
			ID:        "alice",
			Secret:    "s3cret",
			Allowance: 24,
		})
		assert.NoError(t, err)
		assert.Equal(t, "alice", resp.ID)
		// Display name defaults to the id, role to standard.
		assert.Equal(t, "alice", resp.DisplayName)
		assert.Equal(t, string(directory.RoleStandard), resp.Role)
		assert.Equal(t, 24, resp.Allowance)
	})

	t.Run("success admin gets no allowance", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		resp, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{
			ID:        "boss",
			Secret:    "s3cret",
			Role:      "admin",
			Allowance: 24,
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, resp.Allowance)
	})

	t.Run("negative non admin actor", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		_, err = deps.service.Create(ctx, "alice", directory.CreateAccountRequest{ID: "eve", Secret: "s3cret"})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative missing fields", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice"})
		assert.ErrorIs(t, err, directoryerrors.ErrMissingField)

		_, err = deps.service.Create(ctx, "admin", directory.CreateAccountRequest{Secret: "s3cret"})
		assert.ErrorIs(t, err, directoryerrors.ErrMissingField)
	})

	t.Run("negative duplicate id", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		_, err = deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "other"})
		assert.ErrorIs(t, err, directoryerrors.ErrDuplicateAccount)
	})

	t.Run("negative unknown role", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret", Role: "owner"})
		assert.ErrorIs(t, err, directoryerrors.ErrInvalidRole)
	})
}

func TestDirectoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success cascades to requests first", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		assert.NoError(t, deps.service.Delete(ctx, "admin", "alice"))
		assert.Equal(t, []string{"alice"}, deps.purger.purged)

		_, err = deps.service.GetByID(ctx, "alice")
		assert.ErrorIs(t, err, directoryerrors.ErrAccountNotFound)
	})

	t.Run("purge failure leaves the account in place", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)
		deps.purger.purgeFn = func(ctx context.Context, accountID string) error {
			return apperror.ErrInternal
		}

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		err = deps.service.Delete(ctx, "admin", "alice")
		assert.Error(t, err)

		_, err = deps.service.GetByID(ctx, "alice")
		assert.NoError(t, err)
	})

	t.Run("negative root account is protected", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		err := deps.service.Delete(ctx, "admin", directory.RootAccountID)
		assert.ErrorIs(t, err, directoryerrors.ErrProtectedAccount)
	})

	t.Run("negative unknown account", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		err := deps.service.Delete(ctx, "admin", "ghost")
		assert.ErrorIs(t, err, directoryerrors.ErrAccountNotFound)
	})

	t.Run("negative non admin actor", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		err = deps.service.Delete(ctx, "alice", "alice")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestDirectoryService_Secrets(t *testing.T) {
	ctx := context.Background()

	t.Run("admin resets any secret", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		assert.NoError(t, deps.service.ResetSecret(ctx, "admin", "alice", "fresh"))

		_, err = deps.service.Authenticate(ctx, "alice", "fresh")
		assert.NoError(t, err)
	})

	t.Run("negative reset weak secret", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		err = deps.service.ResetSecret(ctx, "admin", "alice", "abc")
		assert.ErrorIs(t, err, directoryerrors.ErrWeakSecret)
	})

	t.Run("negative reset by non admin", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		err = deps.service.ResetSecret(ctx, "alice", "alice", "fresh")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("change own secret", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		assert.NoError(t, deps.service.ChangeOwnSecret(ctx, "alice", "s3cret", "fresh"))

		_, err = deps.service.Authenticate(ctx, "alice", "fresh")
		assert.NoError(t, err)
	})

	t.Run("negative change with wrong current secret", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		err = deps.service.ChangeOwnSecret(ctx, "alice", "wrong", "fresh")
		assert.ErrorIs(t, err, directoryerrors.ErrBadCredential)
	})

	t.Run("negative change to weak secret", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		err = deps.service.ChangeOwnSecret(ctx, "alice", "s3cret", "abc")
		assert.ErrorIs(t, err, directoryerrors.ErrWeakSecret)
	})
}

func TestDirectoryService_Updates(t *testing.T) {
	ctx := context.Background()

	t.Run("allowance update", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret", Allowance: 10})
		assert.NoError(t, err)

		assert.NoError(t, deps.service.UpdateAllowance(ctx, "admin", "alice", 30))

		resp, err := deps.service.GetByID(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, 30, resp.Allowance)
	})

	t.Run("negative allowance update by non admin", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		err = deps.service.UpdateAllowance(ctx, "alice", "alice", 30)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative allowance below zero", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		err = deps.service.UpdateAllowance(ctx, "admin", "alice", -1)
		assert.ErrorIs(t, err, directoryerrors.ErrNegativeAllowance)
	})

	t.Run("display name self service", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)

		assert.NoError(t, deps.service.UpdateDisplayName(ctx, "alice", "alice", "Alice A."))

		resp, err := deps.service.GetByID(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, "Alice A.", resp.DisplayName)
	})

	t.Run("negative rename someone else", func(t *testing.T) {
		deps := setupDirectoryServiceTest(t)

		_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
		assert.NoError(t, err)
		_, err = deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "bob", Secret: "s3cret"})
		assert.NoError(t, err)

		err = deps.service.UpdateDisplayName(ctx, "bob", "alice", "Hacked")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestDirectoryService_Authenticate(t *testing.T) {
	ctx := context.Background()
	deps := setupDirectoryServiceTest(t)

	_, err := deps.service.Create(ctx, "admin", directory.CreateAccountRequest{ID: "alice", Secret: "s3cret"})
	assert.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		a, err := deps.service.Authenticate(ctx, "alice", "s3cret")
		assert.NoError(t, err)
		assert.Equal(t, "alice", a.ID)
	})

	t.Run("negative wrong secret", func(t *testing.T) {
		_, err := deps.service.Authenticate(ctx, "alice", "nope")
		assert.ErrorIs(t, err, directoryerrors.ErrBadCredential)
	})

	t.Run("negative unknown id looks identical", func(t *testing.T) {
		_, err := deps.service.Authenticate(ctx, "ghost", "s3cret")
		assert.ErrorIs(t, err, directoryerrors.ErrBadCredential)
	})
}
