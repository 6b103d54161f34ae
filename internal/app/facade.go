package app

import (
	"context"
	"errors"

	"github.com/polkiloo/banksampah/internal/domain/catalog"
	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/domain/model"
	"github.com/polkiloo/banksampah/internal/domain/repository"
	"github.com/polkiloo/banksampah/internal/metrics"
	"github.com/polkiloo/banksampah/internal/usecase"
)

// HealthChecker is implemented by stores that can report connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// LedgerFacade is the single entry point for transport and background workers.
type LedgerFacade struct {
	ledger  *usecase.LedgerUseCase
	rates   *catalog.ConversionTable
	rewards *catalog.RedemptionCatalog
	store   repository.AccountStore
	metrics *metrics.Recorder
}

func NewLedgerFacade(ledger *usecase.LedgerUseCase, rates *catalog.ConversionTable, rewards *catalog.RedemptionCatalog, store repository.AccountStore, recorder *metrics.Recorder) *LedgerFacade {
	return &LedgerFacade{ledger: ledger, rates: rates, rewards: rewards, store: store, metrics: recorder}
}

func (f *LedgerFacade) Restore(ctx context.Context) error {
	return f.ledger.Restore(ctx)
}

func (f *LedgerFacade) CreateAccount(ctx context.Context, name string) (*model.Account, error) {
	acc, err := f.ledger.CreateAccount(ctx, name)
	if acc != nil {
		f.metrics.AccountCreated()
	}
	f.observePersistence(err)
	return acc, err
}

func (f *LedgerFacade) Accounts(ctx context.Context) ([]model.AccountSummary, error) {
	return f.ledger.ListAccounts(), ctx.Err()
}

func (f *LedgerFacade) Balance(ctx context.Context, name string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return f.ledger.BalanceOf(name)
}

func (f *LedgerFacade) History(ctx context.Context, name string) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.ledger.HistoryFor(name)
}

func (f *LedgerFacade) Deposit(ctx context.Context, name, material string, weightKg float64) (model.DepositReceipt, error) {
	receipt, err := f.ledger.DepositWithReceipt(ctx, name, material, weightKg)
	if err == nil || errors.Is(err, domainErrors.ErrPersistenceWrite) {
		f.metrics.Deposit(receipt.Material, receipt.Points)
	}
	f.observePersistence(err)
	return receipt, err
}

func (f *LedgerFacade) Redeem(ctx context.Context, name, rewardID string) (model.RedemptionReceipt, error) {
	receipt, err := f.ledger.RedeemWithReceipt(ctx, name, rewardID)
	var insufficient *domainErrors.InsufficientBalanceError
	switch {
	case err == nil || errors.Is(err, domainErrors.ErrPersistenceWrite):
		f.metrics.Redemption(receipt.Offer.ID, metrics.OutcomeRedeemed)
	case errors.As(err, &insufficient):
		f.metrics.Redemption(insufficient.Reward, metrics.OutcomeInsufficient)
	}
	f.observePersistence(err)
	return receipt, err
}

func (f *LedgerFacade) Materials(context.Context) []model.ConversionEntry {
	return f.rates.Entries()
}

func (f *LedgerFacade) Rewards(context.Context) []model.RedemptionOffer {
	return f.rewards.Offers()
}

func (f *LedgerFacade) PendingSnapshot() bool {
	return f.ledger.Pending()
}

func (f *LedgerFacade) FlushSnapshot(ctx context.Context) error {
	err := f.ledger.Flush(ctx)
	f.observePersistence(err)
	return err
}

// Health reports store connectivity for stores that support it.
func (f *LedgerFacade) Health(ctx context.Context) error {
	if checker, ok := f.store.(HealthChecker); ok {
		return checker.HealthCheck(ctx)
	}
	return nil
}

func (f *LedgerFacade) observePersistence(err error) {
	if errors.Is(err, domainErrors.ErrPersistenceWrite) {
		f.metrics.PersistenceFailure()
	}
}
