package models

// DefaultServiceFeePercent is the platform service fee applied when a vendor
// settles through the platform processor and no vendor-specific rate is set.
const DefaultServiceFeePercent = 5.0

// VendorPaymentInfo describes which payment processor configuration applies
// to a vendor's events. When the vendor owns a processor account and a
// publishable key is present, the platform fee does not apply.
type VendorPaymentInfo struct {
	VendorID              string  `json:"vendorId"`
	HasCustomProcessor    bool    `json:"hasCustomStripe"`
	ProcessorKey          string  `json:"stripePublishableKey,omitempty"`
	ServiceFeePercent     float64 `json:"serviceFeeRate"`
	UsesPlatformProcessor bool    `json:"usePlatformStripe"`
}

// PlatformDefaultPaymentInfo returns the fail-open configuration used when
// vendor payment info cannot be resolved: platform processor, default fee.
func PlatformDefaultPaymentInfo(vendorID string) VendorPaymentInfo {
	return VendorPaymentInfo{
		VendorID:              vendorID,
		HasCustomProcessor:    false,
		ServiceFeePercent:     DefaultServiceFeePercent,
		UsesPlatformProcessor: true,
	}
}

// ProcessorHandle is the resolved gateway key a checkout should initialize
// its payment widget with.
type ProcessorHandle struct {
	PublishableKey string `json:"publishableKey"`
	VendorOwned    bool   `json:"vendorOwned"`
	LiveMode       bool   `json:"liveMode"`
}
