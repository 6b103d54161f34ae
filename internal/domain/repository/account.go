package repository

import (
	"context"

	"github.com/polkiloo/banksampah/internal/domain/model"
)

// AccountStore persists the full account snapshot.
//
// Load returns an empty snapshot when nothing has been stored yet. When stored
// data cannot be read it returns an empty snapshot together with an error
// matching ErrPersistenceCorrupt. Save replaces the stored snapshot as a whole;
// a failed Save leaves the previous snapshot intact.
type AccountStore interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snapshot *model.Snapshot) error
}
