// Package catalog holds the fixed reference data of the programme: material
// conversion rates and the reward catalog. Both are read-only.
package catalog

import (
	"strings"

	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/domain/model"
)

// ConversionTable maps a material category to its points-per-kilogram rate.
type ConversionTable struct {
	entries []model.ConversionEntry
	index   map[string]float64
}

// NewConversionTable builds a table from entries, preserving their order for display.
func NewConversionTable(entries ...model.ConversionEntry) *ConversionTable {
	t := &ConversionTable{
		entries: append([]model.ConversionEntry(nil), entries...),
		index:   make(map[string]float64, len(entries)),
	}
	for _, e := range entries {
		t.index[e.Material] = e.Rate
	}
	return t
}

// DefaultConversionTable returns the programme's rates.
func DefaultConversionTable() *ConversionTable {
	return NewConversionTable(
		model.ConversionEntry{Material: "kertas", Rate: 15},
		model.ConversionEntry{Material: "kaca", Rate: 25},
		model.ConversionEntry{Material: "plastik", Rate: 35},
		model.ConversionEntry{Material: "logam", Rate: 40},
		model.ConversionEntry{Material: "elektronik", Rate: 50},
	)
}

// RateFor returns the rate for material. Lookup ignores case and surrounding spaces.
func (t *ConversionTable) RateFor(material string) (float64, error) {
	rate, ok := t.index[NormalizeMaterial(material)]
	if !ok {
		return 0, domainErrors.Subject(domainErrors.ErrUnknownMaterial, "material %q", material)
	}
	return rate, nil
}

// Entries returns a copy of the table in display order.
func (t *ConversionTable) Entries() []model.ConversionEntry {
	return append([]model.ConversionEntry(nil), t.entries...)
}

// NormalizeMaterial canonicalises user input to a table key.
func NormalizeMaterial(material string) string {
	return strings.ToLower(strings.TrimSpace(material))
}

// RedemptionCatalog maps a reward identifier to its offer.
type RedemptionCatalog struct {
	offers []model.RedemptionOffer
	index  map[string]model.RedemptionOffer
}

// NewRedemptionCatalog builds a catalog from offers, preserving their order for display.
func NewRedemptionCatalog(offers ...model.RedemptionOffer) *RedemptionCatalog {
	c := &RedemptionCatalog{
		offers: append([]model.RedemptionOffer(nil), offers...),
		index:  make(map[string]model.RedemptionOffer, len(offers)),
	}
	for _, o := range offers {
		c.index[o.ID] = o
	}
	return c
}

// DefaultRedemptionCatalog returns the programme's rewards.
func DefaultRedemptionCatalog() *RedemptionCatalog {
	return NewRedemptionCatalog(
		model.RedemptionOffer{ID: "pulsa", Cost: 50, Label: "Pulsa 20.000"},
		model.RedemptionOffer{ID: "uang50", Cost: 125, Label: "Uang Rp50.000"},
		model.RedemptionOffer{ID: "voucher", Cost: 150, Label: "Peralatan / Perabotan Rumah Tangga"},
		model.RedemptionOffer{ID: "hukum", Cost: 200, Label: "Hukum Di Indonesia"},
	)
}

// OfferFor returns the offer registered under rewardID.
func (c *RedemptionCatalog) OfferFor(rewardID string) (model.RedemptionOffer, error) {
	offer, ok := c.index[strings.TrimSpace(rewardID)]
	if !ok {
		return model.RedemptionOffer{}, domainErrors.Subject(domainErrors.ErrUnknownReward, "reward %q", rewardID)
	}
	return offer, nil
}

// Offers returns a copy of the catalog in display order.
func (c *RedemptionCatalog) Offers() []model.RedemptionOffer {
	return append([]model.RedemptionOffer(nil), c.offers...)
}
