// Package clients holds typed HTTP clients for the platform REST backend.
// The backend owns all persistence (orders, payments, tickets, seats); this
// service only talks to it through the narrow contracts below.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"booking-service/models"
)

// BackendClient communicates with the platform backend via HTTP.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendClient creates a BackendClient against the given base URL.
func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// InitiateBookingRequest is the payload sent to POST /bookings/initiate.
type InitiateBookingRequest struct {
	EventID        string               `json:"eventId"`
	DateScheduleID string               `json:"dateScheduleId"`
	Seats          int                  `json:"seats"`
	PaymentMethod  string               `json:"paymentMethod"`
	Participants   []models.Participant `json:"participants,omitempty"`
}

// InitiateBookingResponse is the backend's answer to an initiate call. Once
// this returns, the transaction carries an order identity and is treated as
// committed for error-handling purposes.
type InitiateBookingResponse struct {
	OrderID         string  `json:"orderId"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
}

// ConfirmBookingRequest is the payload sent to POST /bookings/confirm. It is
// idempotent server-side for a given (paymentIntentId, orderId) pair.
type ConfirmBookingRequest struct {
	PaymentIntentID string               `json:"paymentIntentId"`
	OrderID         string               `json:"orderId"`
	Participants    []models.Participant `json:"participants,omitempty"`
}

// ConfirmBookingResponse carries the finalized booking record reference.
type ConfirmBookingResponse struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status,omitempty"`
}

// PaymentIntentRequest is the payload sent to POST /payments/intent.
type PaymentIntentRequest struct {
	EventID        string `json:"eventId"`
	Participants   int    `json:"participants"`
	DateScheduleID string `json:"dateScheduleId"`
	CouponCode     string `json:"couponCode,omitempty"`
	Currency       string `json:"currency,omitempty"`
}

// PaymentIntentResponse is the server-issued intent handle.
type PaymentIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	OrderID         string `json:"orderId"`
}

// CouponValidationRequest asks the backend whether a coupon applies to an
// order amount.
type CouponValidationRequest struct {
	OrderAmount float64 `json:"orderAmount"`
	CouponCode  string  `json:"couponCode"`
}

// CouponValidationResponse is the backend's coupon verdict.
type CouponValidationResponse struct {
	IsValidCoupon      bool    `json:"isValidCoupon"`
	DiscountPercentage float64 `json:"discountPercentage"`
	CouponError        string  `json:"couponError,omitempty"`
}

// GetEvent fetches an event by id.
func (c *BackendClient) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	url := fmt.Sprintf("%s/events/%s", c.baseURL, eventID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("event fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("event service returned %d", resp.StatusCode)
	}

	var event models.Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &event, nil
}

// GetVendorPaymentInfo fetches a vendor's payment processor configuration.
// Callers should go through vendorpay.Resolver, which adds caching,
// deduplication and the fail-open default.
func (c *BackendClient) GetVendorPaymentInfo(ctx context.Context, vendorID string) (*models.VendorPaymentInfo, error) {
	url := fmt.Sprintf("%s/vendors/%s/payment-info", c.baseURL, vendorID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vendor payment info request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vendor payment info returned %d", resp.StatusCode)
	}

	var info models.VendorPaymentInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode vendor payment info: %w", err)
	}
	if info.VendorID == "" {
		return nil, fmt.Errorf("malformed vendor payment info: missing vendorId")
	}
	return &info, nil
}

// InitiateBooking starts a booking on the backend (test-payment path).
func (c *BackendClient) InitiateBooking(ctx context.Context, req *InitiateBookingRequest) (*InitiateBookingResponse, error) {
	var out InitiateBookingResponse
	if err := c.post(ctx, "/bookings/initiate", req, &out); err != nil {
		return nil, fmt.Errorf("initiate booking: %w", err)
	}
	return &out, nil
}

// ConfirmBooking finalizes a booking after a captured (or mock) payment.
// Retrying with the same (paymentIntentId, orderId) pair is safe.
func (c *BackendClient) ConfirmBooking(ctx context.Context, req *ConfirmBookingRequest) (*ConfirmBookingResponse, error) {
	var out ConfirmBookingResponse
	if err := c.post(ctx, "/bookings/confirm", req, &out); err != nil {
		return nil, fmt.Errorf("confirm booking: %w", err)
	}
	return &out, nil
}

// CreatePaymentIntent requests a server-issued payment intent for the flow.
func (c *BackendClient) CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error) {
	var out PaymentIntentResponse
	if err := c.post(ctx, "/payments/intent", req, &out); err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &out, nil
}

// ValidateCoupon asks the backend whether a coupon applies. Transport
// failures are returned as errors; callers translate them into a zero
// discount so a broken coupon service can never block pricing.
func (c *BackendClient) ValidateCoupon(ctx context.Context, req *CouponValidationRequest) (*CouponValidationResponse, error) {
	var out CouponValidationResponse
	if err := c.post(ctx, "/coupons/validate", req, &out); err != nil {
		return nil, fmt.Errorf("validate coupon: %w", err)
	}
	return &out, nil
}

func (c *BackendClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
