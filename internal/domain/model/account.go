package model

// Account represents one participant of the deposit programme.
type Account struct {
	Name    string
	Balance float64
	History []Transaction
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	history := make([]Transaction, len(a.History))
	copy(history, a.History)
	return &Account{Name: a.Name, Balance: a.Balance, History: history}
}

// AccountSummary is the name/balance pair used for listings.
type AccountSummary struct {
	Name    string
	Balance float64
}

// DepositReceipt describes an applied deposit and the balance right after it.
type DepositReceipt struct {
	Account  string
	Material string
	WeightKg float64
	Points   float64
	Balance  float64
}

// RedemptionReceipt describes an applied redemption and the balance right after it.
type RedemptionReceipt struct {
	Account string
	Offer   RedemptionOffer
	Balance float64
}
