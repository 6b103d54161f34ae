package test

import (
	"context"
	"sync"

	"github.com/polkiloo/banksampah/internal/domain/model"
)

// LedgerFacadeStub provides controllable behaviour for HTTP handlers.
// Nil functions fall back to a small fixed account "Aiko".
type LedgerFacadeStub struct {
	CreateFn    func(context.Context, string) (*model.Account, error)
	AccountsFn  func(context.Context) ([]model.AccountSummary, error)
	BalanceFn   func(context.Context, string) (float64, error)
	HistoryFn   func(context.Context, string) ([]model.Transaction, error)
	DepositFn   func(context.Context, string, string, float64) (model.DepositReceipt, error)
	RedeemFn    func(context.Context, string, string) (model.RedemptionReceipt, error)
	MaterialsFn func(context.Context) []model.ConversionEntry
	RewardsFn   func(context.Context) []model.RedemptionOffer
	HealthFn    func(context.Context) error
}

// CreateAccount delegates to provided function or returns an empty account.
func (s LedgerFacadeStub) CreateAccount(ctx context.Context, name string) (*model.Account, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, name)
	}
	return &model.Account{Name: name, History: []model.Transaction{}}, nil
}

// Accounts returns predefined listing.
func (s LedgerFacadeStub) Accounts(ctx context.Context) ([]model.AccountSummary, error) {
	if s.AccountsFn != nil {
		return s.AccountsFn(ctx)
	}
	return []model.AccountSummary{{Name: "Aiko", Balance: 20}}, nil
}

// Balance returns configured balance.
func (s LedgerFacadeStub) Balance(ctx context.Context, name string) (float64, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, name)
	}
	return 20, nil
}

// History returns configured history, newest first.
func (s LedgerFacadeStub) History(ctx context.Context, name string) ([]model.Transaction, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, name)
	}
	return []model.Transaction{
		model.NewRedemptionTransaction("Pulsa 20.000", 50),
		model.NewDepositTransaction("plastik", 2, 70),
	}, nil
}

// Deposit executes configured deposit handler.
func (s LedgerFacadeStub) Deposit(ctx context.Context, name, material string, weightKg float64) (model.DepositReceipt, error) {
	if s.DepositFn != nil {
		return s.DepositFn(ctx, name, material, weightKg)
	}
	return model.DepositReceipt{Account: name, Material: material, WeightKg: weightKg, Points: 35 * weightKg, Balance: 35 * weightKg}, nil
}

// Redeem executes configured redemption handler.
func (s LedgerFacadeStub) Redeem(ctx context.Context, name, rewardID string) (model.RedemptionReceipt, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, name, rewardID)
	}
	return model.RedemptionReceipt{
		Account: name,
		Offer:   model.RedemptionOffer{ID: rewardID, Cost: 50, Label: "Pulsa 20.000"},
		Balance: 20,
	}, nil
}

// Materials returns configured rates.
func (s LedgerFacadeStub) Materials(ctx context.Context) []model.ConversionEntry {
	if s.MaterialsFn != nil {
		return s.MaterialsFn(ctx)
	}
	return []model.ConversionEntry{{Material: "kertas", Rate: 15}}
}

// Rewards returns configured offers.
func (s LedgerFacadeStub) Rewards(ctx context.Context) []model.RedemptionOffer {
	if s.RewardsFn != nil {
		return s.RewardsFn(ctx)
	}
	return []model.RedemptionOffer{{ID: "pulsa", Cost: 50, Label: "Pulsa 20.000"}}
}

// Health returns configured readiness.
func (s LedgerFacadeStub) Health(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// SnapshotFacadeStub mimics the ledger as seen by the snapshot flusher.
// Each FlushSnapshot call consumes the next entry of FlushErrs; a nil entry clears Pending.
type SnapshotFacadeStub struct {
	Pending   bool
	FlushErrs []error

	mu      sync.Mutex
	flushes int
}

// SetPending changes the pending flag while the flusher runs.
func (s *SnapshotFacadeStub) SetPending(pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pending = pending
}

// PendingSnapshot reports the configured pending flag.
func (s *SnapshotFacadeStub) PendingSnapshot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Pending
}

// FlushSnapshot records the attempt.
func (s *SnapshotFacadeStub) FlushSnapshot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.flushes < len(s.FlushErrs) {
		err = s.FlushErrs[s.flushes]
	}
	s.flushes++
	if err == nil {
		s.Pending = false
	}
	return err
}

// Flushes returns the number of FlushSnapshot calls.
func (s *SnapshotFacadeStub) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}
