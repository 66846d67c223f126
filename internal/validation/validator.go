package validation

import (
	"fmt"
	"math"

	validatorv10 "github.com/go-playground/validator/v10"
	"propshot-backend/internal/models"
	"propshot-backend/internal/pricing"
)

// New returns a configured validator with struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// The client shows the customer a total before submitting; reject the
	// order when it disagrees with the server-side computation (pre-discount).
	v.RegisterStructValidation(createOrderStructValidation, models.CreateOrderRequest{})

	return v
}

// createOrderStructValidation verifies the client-claimed total matches the
// computed quote within a cent.
func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(models.CreateOrderRequest)

	quote, err := pricing.Quote(req.PhotoCount, req.Services)
	if err != nil {
		sl.ReportError(req.PhotoCount, "photo_count", "PhotoCount", "non_negative", err.Error())
		return
	}

	quoteCents := int(math.Round(quote * 100))
	claimedCents := int(math.Round(req.Total * 100))
	if quoteCents != claimedCents {
		sl.ReportError(req.Total, "total", "Total", "total_match_quote",
			fmt.Sprintf("quoted %.2f != claimed %.2f", quote, req.Total))
	}
}
