package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"go-dayoff/internal/store"

	"golang.org/x/sync/singleflight"
)

// StorageKey is the blob the directory lives under, kept from the
// original deployment so existing data files keep working.
const StorageKey = "dayoff-users"

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock
type Repository interface {
	Load(ctx context.Context) (Accounts, error)
	Save(ctx context.Context, accounts Accounts) error
}

type repository struct {
	store store.Store
	group singleflight.Group
}

func NewRepository(s store.Store) Repository {
	return &repository{store: s}
}

// Load reads and normalizes the whole directory. An empty store is seeded
// with the root admin account so the system is usable on first boot.
// Concurrent loads share one store read; every caller gets its own copy.
func (r *repository) Load(ctx context.Context) (Accounts, error) {
	v, err, _ := r.group.Do(StorageKey, func() (any, error) {
		return r.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return clone(v.(Accounts)), nil
}

func (r *repository) load(ctx context.Context) (Accounts, error) {
	raw, ok, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	if !ok {
		seeded := Accounts{
			RootAccountID: {
				ID:          RootAccountID,
				Secret:      "admin",
				DisplayName: RootAccountID,
				Role:        RoleAdmin,
				Allowance:   0,
			},
		}
		if err := r.Save(ctx, seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}

	var accounts Accounts
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("decode directory: %w", err)
	}

	return normalize(accounts), nil
}

func (r *repository) Save(ctx context.Context, accounts Accounts) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode directory: %w", err)
	}
	if err := r.store.Put(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("save directory: %w", err)
	}
	return nil
}

// normalize is the single place load-time migration happens: map keys win
// over any stored id, missing display names default to the id, and a
// missing role means a standard account.
func normalize(accounts Accounts) Accounts {
	for id, a := range accounts {
		a.ID = id
		if a.DisplayName == "" {
			a.DisplayName = id
		}
		if a.Role == "" {
			a.Role = RoleStandard
		}
		accounts[id] = a
	}
	return accounts
}

func clone(accounts Accounts) Accounts {
	copied := make(Accounts, len(accounts))
	for id, a := range accounts {
		copied[id] = a
	}
	return copied
}
