// Package pricing computes order totals from photo counts and selected
// add-on services. All functions are pure.
package pricing

import (
	"fmt"
	"math"

	"propshot-backend/internal/models"
)

// Per-photo rates in USD. BaseRate is the canonical rate; the $8.99 figure
// some older clients displayed at checkout was a stale placeholder.
const (
	BaseRate               = 1.50
	VirtualStagingRate     = 10.00
	TwilightConversionRate = 5.00
	DeclutteringRate       = 3.00
)

// Volume discount multipliers by photo-count tier.
const (
	tierLargeMin         = 20
	tierMediumMin        = 10
	tierLargeMultiplier  = 0.85
	tierMediumMultiplier = 0.90
)

// Quote returns the total price for photoCount photos with the given add-on
// services, rounded half-up to two decimal places. A negative photo count is
// a validation error.
func Quote(photoCount int, services models.ServiceSelection) (float64, error) {
	if photoCount < 0 {
		return 0, fmt.Errorf("photo count must be non-negative, got %d", photoCount)
	}

	total := float64(photoCount) * BaseRate
	if services.VirtualStaging {
		total += float64(photoCount) * VirtualStagingRate
	}
	if services.TwilightConversion {
		total += float64(photoCount) * TwilightConversionRate
	}
	if services.Decluttering {
		total += float64(photoCount) * DeclutteringRate
	}

	total *= volumeMultiplier(photoCount)

	return round2(total), nil
}

// volumeMultiplier returns the discount multiplier for a photo-count tier.
func volumeMultiplier(photoCount int) float64 {
	switch {
	case photoCount >= tierLargeMin:
		return tierLargeMultiplier
	case photoCount >= tierMediumMin:
		return tierMediumMultiplier
	default:
		return 1.0
	}
}

// ApplyDiscount subtracts a discount code's value from a total. Percent is
// applied before the flat amount; the result never goes below zero.
func ApplyDiscount(total float64, code *models.DiscountCode) float64 {
	if code == nil {
		return total
	}
	if code.PercentOff > 0 {
		total -= total * code.PercentOff / 100.0
	}
	if code.AmountOff > 0 {
		total -= code.AmountOff
	}
	if total < 0 {
		total = 0
	}
	return round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
