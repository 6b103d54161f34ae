package test

import (
	"context"
	"sync"

	"github.com/polkiloo/banksampah/internal/domain/model"
)

// AccountStoreStub keeps the last saved snapshot in memory for tests.
type AccountStoreStub struct {
	LoadFn func(context.Context) (*model.Snapshot, error)
	SaveFn func(context.Context, *model.Snapshot) error

	// Stored is returned by Load when LoadFn is nil.
	Stored *model.Snapshot
	// SaveErr, when set, fails every Save without touching Stored.
	SaveErr error

	mu    sync.Mutex
	saves int
}

// Load returns the configured snapshot or the last saved one.
func (s *AccountStoreStub) Load(ctx context.Context) (*model.Snapshot, error) {
	if s.LoadFn != nil {
		return s.LoadFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Stored == nil {
		return model.NewSnapshot(), nil
	}
	return s.Stored.Clone(), nil
}

// Save records the snapshot unless configured to fail.
func (s *AccountStoreStub) Save(ctx context.Context, snapshot *model.Snapshot) error {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Stored = snapshot.Clone()
	return nil
}

// Saves returns the number of Save attempts, including failed ones.
func (s *AccountStoreStub) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// SetSaveErr changes the Save outcome safely while goroutines use the stub.
func (s *AccountStoreStub) SetSaveErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveErr = err
}

// StoredSnapshot returns a copy of the last successfully saved snapshot.
func (s *AccountStoreStub) StoredSnapshot() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Stored == nil {
		return nil
	}
	return s.Stored.Clone()
}
