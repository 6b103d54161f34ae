package model

// ConversionEntry is a material category with its points-per-kilogram rate.
type ConversionEntry struct {
	Material string
	Rate     float64
}

// RedemptionOffer pairs a reward identifier with its cost and label.
type RedemptionOffer struct {
	ID    string
	Cost  float64
	Label string
}
