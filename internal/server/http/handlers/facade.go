package handlers

import (
	"context"

	"github.com/polkiloo/banksampah/internal/domain/model"
)

// AccountFacade describes account operations exposed via HTTP.
type AccountFacade interface {
	CreateAccount(ctx context.Context, name string) (*model.Account, error)
	Accounts(ctx context.Context) ([]model.AccountSummary, error)
	Balance(ctx context.Context, name string) (float64, error)
	History(ctx context.Context, name string) ([]model.Transaction, error)
}

// TransactionFacade encapsulates balance-changing operations.
type TransactionFacade interface {
	Deposit(ctx context.Context, name, material string, weightKg float64) (model.DepositReceipt, error)
	Redeem(ctx context.Context, name, rewardID string) (model.RedemptionReceipt, error)
}

// CatalogFacade provides the fixed reference data.
type CatalogFacade interface {
	Materials(ctx context.Context) []model.ConversionEntry
	Rewards(ctx context.Context) []model.RedemptionOffer
}

// HealthFacade reports backing store connectivity.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// LedgerFacade aggregates the full set of operations used across handlers.
type LedgerFacade interface {
	AccountFacade
	TransactionFacade
	CatalogFacade
	HealthFacade
}
