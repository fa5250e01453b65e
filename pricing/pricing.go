// Package pricing computes the booking price breakdown. Compute is a pure
// function: no I/O, no clock, no hidden state. The same inputs always yield
// the same breakdown, and the total is always rebuilt from scratch rather
// than adjusted incrementally.
package pricing

import "math"

// TaxRatePercent is the fixed tax rate levied on (subtotal - discount +
// service fee). It is intentionally the single definition in the codebase.
const TaxRatePercent = 5.0

// Input is everything Compute needs. DiscountPercent comes from coupon
// validation (0 when there is no coupon or it was rejected); the service fee
// config comes from vendor payment resolution.
type Input struct {
	UnitPrice             float64
	ParticipantCount      int
	DiscountPercent       float64
	UsesPlatformProcessor bool
	ServiceFeePercent     float64
}

// Breakdown is the priced order. Amounts keep full float precision; call
// Rounded before presenting them.
type Breakdown struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	ServiceFee     float64 `json:"serviceFee"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	CouponApplied  bool    `json:"couponApplied"`
	CouponError    string  `json:"couponError,omitempty"`
}

// CouponResult is the outcome of external coupon validation. An invalid
// coupon produces a zero discount and an error message, never a failure.
type CouponResult struct {
	Valid           bool
	DiscountPercent float64
	Message         string
}

// Compute prices an order. A participant count below 1 is coerced to 1 so a
// missing count can never price an order as free. The service fee is waived
// entirely, not reduced, when the vendor settles through its own processor.
func Compute(in Input) Breakdown {
	count := in.ParticipantCount
	if count < 1 {
		count = 1
	}

	subtotal := in.UnitPrice * float64(count)
	discount := subtotal * (in.DiscountPercent / 100)

	var serviceFee float64
	if in.UsesPlatformProcessor {
		serviceFee = (subtotal - discount) * (in.ServiceFeePercent / 100)
	}

	tax := (subtotal - discount + serviceFee) * (TaxRatePercent / 100)

	return Breakdown{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		ServiceFee:     serviceFee,
		Tax:            tax,
		Total:          subtotal - discount + serviceFee + tax,
	}
}

// ComputeWithCoupon prices an order using a coupon validation result. A
// rejected coupon zeroes the discount and surfaces the rejection message on
// the breakdown; it never blocks pricing.
func ComputeWithCoupon(in Input, coupon CouponResult) Breakdown {
	if coupon.Valid {
		in.DiscountPercent = coupon.DiscountPercent
	} else {
		in.DiscountPercent = 0
	}

	b := Compute(in)
	b.CouponApplied = coupon.Valid
	if !coupon.Valid && coupon.Message != "" {
		b.CouponError = coupon.Message
	}
	return b
}

// Rounded returns a copy with every amount rounded to the currency minor
// unit (two decimals). Rounding happens only here, at presentation time, so
// intermediate amounts never accumulate rounding error.
func (b Breakdown) Rounded() Breakdown {
	b.Subtotal = round2(b.Subtotal)
	b.DiscountAmount = round2(b.DiscountAmount)
	b.ServiceFee = round2(b.ServiceFee)
	b.Tax = round2(b.Tax)
	b.Total = round2(b.Total)
	return b
}

// MinorUnits converts the total to integer minor units (cents) for gateway
// amount fields.
func (b Breakdown) MinorUnits() int64 {
	return int64(math.Round(b.Total * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
