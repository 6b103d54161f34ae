package dto

// MaterialResponse describes a material category and its rate in points per kilogram.
type MaterialResponse struct {
	Material string  `json:"material"`
	Rate     float64 `json:"rate"`
}

// RewardResponse describes a reward offer.
type RewardResponse struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
}
