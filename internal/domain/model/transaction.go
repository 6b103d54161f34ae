package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// TransactionKind describes the ledger event type.
type TransactionKind string

const (
	TransactionDeposit    TransactionKind = "deposit"
	TransactionRedemption TransactionKind = "redemption"
)

// Transaction is an immutable history record. Delta is positive for deposits, negative for redemptions.
type Transaction struct {
	Kind        TransactionKind
	Description string
	Delta       float64
}

var (
	depositPattern    = regexp.MustCompile(`^Setor (\S+) kg (\S+) \(\+(\S+) poin\)$`)
	redemptionPattern = regexp.MustCompile(`^Tukar poin: (.+) \(-(\S+) poin\)$`)
)

// NewDepositTransaction builds the record for weightKg of material earning points.
func NewDepositTransaction(material string, weightKg, points float64) Transaction {
	return Transaction{
		Kind:        TransactionDeposit,
		Description: fmt.Sprintf("Setor %s kg %s (+%s poin)", FormatPoints(weightKg), material, FormatPoints(points)),
		Delta:       points,
	}
}

// NewRedemptionTransaction builds the record for a reward exchanged at cost.
func NewRedemptionTransaction(label string, cost float64) Transaction {
	return Transaction{
		Kind:        TransactionRedemption,
		Description: fmt.Sprintf("Tukar poin: %s (-%s poin)", label, FormatPoints(cost)),
		Delta:       -cost,
	}
}

// ParseTransaction recovers kind and delta from a persisted description.
func ParseTransaction(description string) (Transaction, error) {
	if m := depositPattern.FindStringSubmatch(description); m != nil {
		points, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return Transaction{}, fmt.Errorf("parse deposit points %q: %w", m[3], err)
		}
		return Transaction{Kind: TransactionDeposit, Description: description, Delta: points}, nil
	}
	if m := redemptionPattern.FindStringSubmatch(description); m != nil {
		cost, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Transaction{}, fmt.Errorf("parse redemption cost %q: %w", m[2], err)
		}
		return Transaction{Kind: TransactionRedemption, Description: description, Delta: -cost}, nil
	}
	return Transaction{}, fmt.Errorf("unrecognised history entry %q", description)
}

// FormatPoints renders a value with the shortest representation that parses back exactly.
func FormatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
