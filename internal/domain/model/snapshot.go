package model

// Snapshot is the full set of accounts in creation order. It is the unit of persistence.
type Snapshot struct {
	Accounts []*Account
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Accounts: []*Account{}}
}

// Clone returns a deep copy so stores never share memory with the ledger.
func (s *Snapshot) Clone() *Snapshot {
	accounts := make([]*Account, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		accounts = append(accounts, a.Clone())
	}
	return &Snapshot{Accounts: accounts}
}
