package dto

// CreateAccountRequest describes account registration payload.
type CreateAccountRequest struct {
	Name string `json:"name"`
}

// AccountResponse describes a freshly created account.
type AccountResponse struct {
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`
	Persisted bool    `json:"persisted"`
}

// AccountSummaryResponse is the name and balance pair used by listings and balance queries.
type AccountSummaryResponse struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// TransactionResponse describes one history record.
type TransactionResponse struct {
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Delta       float64 `json:"delta"`
}
