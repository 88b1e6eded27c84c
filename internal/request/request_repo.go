package request

import (
	"context"
	"encoding/json"
	"fmt"

	"go-dayoff/internal/store"

	"golang.org/x/sync/singleflight"
)

// StorageKey is the blob the ledger lives under, kept from the original
// deployment so existing data files keep working.
const StorageKey = "dayoff-requests"

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	Load(ctx context.Context) (Ledger, error)
	Save(ctx context.Context, ledger Ledger) error
}

type repository struct {
	store store.Store
	group singleflight.Group
}

func NewRepository(s store.Store) Repository {
	return &repository{store: s}
}

// Load reads the whole ledger. Concurrent loads share one store read;
// every caller gets its own copy to mutate.
func (r *repository) Load(ctx context.Context) (Ledger, error) {
	v, err, _ := r.group.Do(StorageKey, func() (any, error) {
		return r.load(ctx)
	})
	if err != nil {
		return nil, err
	}

	shared := v.(Ledger)
	copied := make(Ledger, len(shared))
	copy(copied, shared)
	return copied, nil
}

func (r *repository) load(ctx context.Context) (Ledger, error) {
	raw, ok, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if !ok {
		return Ledger{}, nil
	}

	var ledger Ledger
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}

	// Old blobs may predate the comment thread; fill the default here so
	// no call site has to care.
	for i := range ledger {
		if ledger[i].Comments == nil {
			ledger[i].Comments = []Comment{}
		}
	}
	return ledger, nil
}

func (r *repository) Save(ctx context.Context, ledger Ledger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := r.store.Put(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}
