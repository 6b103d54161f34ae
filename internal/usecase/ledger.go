package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/polkiloo/banksampah/internal/domain/catalog"
	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/domain/model"
	"github.com/polkiloo/banksampah/internal/domain/repository"
)

// LedgerUseCase owns the in-memory snapshot and is the only mutator of accounts.
//
// Mutations and the save that follows them run under one write lock, so a
// snapshot handed to the store is always consistent. Queries take the read lock.
// Points are float64: deposits are rate*weight with a single multiplication and
// nothing is rounded.
type LedgerUseCase struct {
	store   repository.AccountStore
	rates   *catalog.ConversionTable
	rewards *catalog.RedemptionCatalog
	logger  *slog.Logger

	mu       sync.RWMutex
	accounts []*model.Account
	index    map[string]*model.Account
	pending  bool
}

// NewLedgerUseCase constructs LedgerUseCase with an empty snapshot. Call Restore to load stored state.
func NewLedgerUseCase(store repository.AccountStore, rates *catalog.ConversionTable, rewards *catalog.RedemptionCatalog, logger *slog.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		store:   store,
		rates:   rates,
		rewards: rewards,
		logger:  logger,
		index:   make(map[string]*model.Account),
	}
}

// Restore replaces in-memory state with the stored snapshot.
// A corrupt store leaves the ledger empty and returns an error matching ErrPersistenceCorrupt.
func (u *LedgerUseCase) Restore(ctx context.Context) error {
	snapshot, err := u.store.Load(ctx)
	if err != nil && !errors.Is(err, domainErrors.ErrPersistenceCorrupt) {
		return err
	}
	if snapshot == nil {
		snapshot = model.NewSnapshot()
	}

	u.mu.Lock()
	u.accounts = make([]*model.Account, 0, len(snapshot.Accounts))
	u.index = make(map[string]*model.Account, len(snapshot.Accounts))
	for _, a := range snapshot.Accounts {
		acc := a.Clone()
		u.accounts = append(u.accounts, acc)
		u.index[acc.Name] = acc
	}
	u.pending = false
	u.mu.Unlock()

	if err != nil {
		u.logger.Warn("account store is corrupt, starting empty", slog.String("error", err.Error()))
		return err
	}
	u.logger.Info("accounts restored", slog.Int("accounts", len(snapshot.Accounts)))
	return nil
}

// CreateAccount registers a new account with zero balance.
// On ErrPersistenceWrite the account is returned and exists in memory.
func (u *LedgerUseCase) CreateAccount(ctx context.Context, name string) (*model.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainErrors.Subject(domainErrors.ErrInvalidName, "name must not be empty")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.index[name]; exists {
		return nil, domainErrors.Subject(domainErrors.ErrDuplicateAccount, "account %q", name)
	}

	acc := &model.Account{Name: name, History: []model.Transaction{}}
	u.accounts = append(u.accounts, acc)
	u.index[name] = acc
	u.logger.Info("account created", slog.String("account", name))

	return acc.Clone(), u.persistApplied(ctx)
}

// Deposit converts weightKg of material into points credited to the account and returns the points added.
// On ErrPersistenceWrite the returned points are valid and the deposit is applied in memory.
func (u *LedgerUseCase) Deposit(ctx context.Context, accountName, material string, weightKg float64) (float64, error) {
	receipt, err := u.DepositWithReceipt(ctx, accountName, material, weightKg)
	return receipt.Points, err
}

// DepositWithReceipt behaves like Deposit and also reports the resulting balance.
func (u *LedgerUseCase) DepositWithReceipt(ctx context.Context, accountName, material string, weightKg float64) (model.DepositReceipt, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	acc, err := u.accountLocked(accountName)
	if err != nil {
		return model.DepositReceipt{}, err
	}
	rate, err := u.rates.RateFor(material)
	if err != nil {
		return model.DepositReceipt{}, err
	}
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg <= 0 {
		return model.DepositReceipt{}, domainErrors.Subject(domainErrors.ErrInvalidWeight, "weight %v kg for account %q", weightKg, acc.Name)
	}

	points := rate * weightKg
	if math.IsInf(points, 0) || math.IsInf(acc.Balance+points, 0) {
		return model.DepositReceipt{}, domainErrors.Subject(domainErrors.ErrInvalidWeight, "weight %v kg for account %q overflows balance", weightKg, acc.Name)
	}

	material = catalog.NormalizeMaterial(material)
	acc.Balance += points
	acc.History = append(acc.History, model.NewDepositTransaction(material, weightKg, points))
	u.logger.Info("deposit recorded",
		slog.String("account", acc.Name),
		slog.String("material", material),
		slog.Float64("weight_kg", weightKg),
		slog.Float64("points", points),
	)

	receipt := model.DepositReceipt{
		Account:  acc.Name,
		Material: material,
		WeightKg: weightKg,
		Points:   points,
		Balance:  acc.Balance,
	}
	return receipt, u.persistApplied(ctx)
}

// Redeem exchanges points for the reward and returns the redeemed offer.
// The balance is untouched when it does not cover the cost.
// On ErrPersistenceWrite the returned offer is valid and the redemption is applied in memory.
func (u *LedgerUseCase) Redeem(ctx context.Context, accountName, rewardID string) (model.RedemptionOffer, error) {
	receipt, err := u.RedeemWithReceipt(ctx, accountName, rewardID)
	return receipt.Offer, err
}

// RedeemWithReceipt behaves like Redeem and also reports the resulting balance.
func (u *LedgerUseCase) RedeemWithReceipt(ctx context.Context, accountName, rewardID string) (model.RedemptionReceipt, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	acc, err := u.accountLocked(accountName)
	if err != nil {
		return model.RedemptionReceipt{}, err
	}
	offer, err := u.rewards.OfferFor(rewardID)
	if err != nil {
		return model.RedemptionReceipt{}, err
	}
	if acc.Balance < offer.Cost {
		return model.RedemptionReceipt{}, &domainErrors.InsufficientBalanceError{
			Account: acc.Name,
			Reward:  offer.ID,
			Balance: acc.Balance,
			Cost:    offer.Cost,
		}
	}

	acc.Balance -= offer.Cost
	acc.History = append(acc.History, model.NewRedemptionTransaction(offer.Label, offer.Cost))
	u.logger.Info("reward redeemed",
		slog.String("account", acc.Name),
		slog.String("reward", offer.ID),
		slog.Float64("points", offer.Cost),
	)

	receipt := model.RedemptionReceipt{Account: acc.Name, Offer: offer, Balance: acc.Balance}
	return receipt, u.persistApplied(ctx)
}

// HistoryFor returns the account's transactions, most recent first.
func (u *LedgerUseCase) HistoryFor(accountName string) ([]model.Transaction, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	acc, err := u.accountLocked(accountName)
	if err != nil {
		return nil, err
	}
	history := make([]model.Transaction, len(acc.History))
	for i, tx := range acc.History {
		history[len(acc.History)-1-i] = tx
	}
	return history, nil
}

// BalanceOf returns the current balance of the account.
func (u *LedgerUseCase) BalanceOf(accountName string) (float64, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	acc, err := u.accountLocked(accountName)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// ListAccounts returns every account with its balance in creation order.
func (u *LedgerUseCase) ListAccounts() []model.AccountSummary {
	u.mu.RLock()
	defer u.mu.RUnlock()

	result := make([]model.AccountSummary, 0, len(u.accounts))
	for _, acc := range u.accounts {
		result = append(result, model.AccountSummary{Name: acc.Name, Balance: acc.Balance})
	}
	return result
}

// Snapshot returns a deep copy of the current state.
func (u *LedgerUseCase) Snapshot() *model.Snapshot {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.snapshotLocked()
}

// Pending reports whether in-memory state is ahead of the store.
func (u *LedgerUseCase) Pending() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.pending
}

// Flush saves the snapshot if an earlier save failed.
func (u *LedgerUseCase) Flush(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.pending {
		return nil
	}
	if err := u.persistLocked(ctx); err != nil {
		return err
	}
	u.logger.Info("pending snapshot saved")
	return nil
}

func (u *LedgerUseCase) accountLocked(name string) (*model.Account, error) {
	acc, ok := u.index[strings.TrimSpace(name)]
	if !ok {
		return nil, domainErrors.Subject(domainErrors.ErrUnknownAccount, "account %q", name)
	}
	return acc, nil
}

func (u *LedgerUseCase) snapshotLocked() *model.Snapshot {
	return (&model.Snapshot{Accounts: u.accounts}).Clone()
}

// persistApplied saves a mutation that is already applied in memory.
// Cancelling the caller at this point must not leave the change unsaved.
func (u *LedgerUseCase) persistApplied(ctx context.Context) error {
	return u.persistLocked(context.WithoutCancel(ctx))
}

func (u *LedgerUseCase) persistLocked(ctx context.Context) error {
	if err := u.store.Save(ctx, u.snapshotLocked()); err != nil {
		u.pending = true
		u.logger.Error("save snapshot failed", slog.String("error", err.Error()))
		if !errors.Is(err, domainErrors.ErrPersistenceWrite) {
			err = fmt.Errorf("%w: %w", domainErrors.ErrPersistenceWrite, err)
		}
		return err
	}
	u.pending = false
	return nil
}
