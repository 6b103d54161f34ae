package dto

// DepositRequest describes a material deposit.
type DepositRequest struct {
	Material string  `json:"material"`
	WeightKg float64 `json:"weight_kg"`
}

// DepositResponse reports the points credited and the resulting balance.
type DepositResponse struct {
	Account     string  `json:"account"`
	Material    string  `json:"material"`
	WeightKg    float64 `json:"weight_kg"`
	PointsAdded float64 `json:"points_added"`
	Balance     float64 `json:"balance"`
	Persisted   bool    `json:"persisted"`
}

// RedeemRequest selects a reward by identifier.
type RedeemRequest struct {
	Reward string `json:"reward"`
}

// RedemptionResponse reports the redeemed reward and the resulting balance.
type RedemptionResponse struct {
	Account   string  `json:"account"`
	Reward    string  `json:"reward"`
	Label     string  `json:"label"`
	Cost      float64 `json:"cost"`
	Balance   float64 `json:"balance"`
	Persisted bool    `json:"persisted"`
}
