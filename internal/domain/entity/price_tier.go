package entity

import "strings"

// PriceTier is the advisory price range of a restaurant.
type PriceTier string

const (
	PriceTierBudget    PriceTier = "$"
	PriceTierModerate  PriceTier = "$$"
	PriceTierExpensive PriceTier = "$$$"
	PriceTierLuxury    PriceTier = "$$$$"

	// DefaultPriceTier is used when a record carries no price range.
	DefaultPriceTier = PriceTierModerate
)

var priceTierRank = map[PriceTier]int{
	PriceTierBudget:    1,
	PriceTierModerate:  2,
	PriceTierExpensive: 3,
	PriceTierLuxury:    4,
}

// UnknownPriceRank sorts unrecognized tiers after every known tier.
const UnknownPriceRank = 1 << 30

// ParsePriceTier normalizes surrounding whitespace; unknown values are kept as-is.
func ParsePriceTier(s string) PriceTier {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return DefaultPriceTier
	}

	return PriceTier(trimmed)
}

// String returns the string representation of the PriceTier.
func (p PriceTier) String() string {
	return string(p)
}

// Rank orders tiers from cheapest (1) upward.
func (p PriceTier) Rank() int {
	if rank, ok := priceTierRank[p]; ok {
		return rank
	}

	return UnknownPriceRank
}

// IsValid checks if the PriceTier is one of the known tiers.
func (p PriceTier) IsValid() bool {
	_, ok := priceTierRank[p]

	return ok
}
