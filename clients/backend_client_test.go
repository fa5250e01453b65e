package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVendorPaymentInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vendors/64a1f0c2e3b4d5a6f7081920/payment-info", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"vendorId":             "64a1f0c2e3b4d5a6f7081920",
			"hasCustomStripe":      true,
			"stripePublishableKey": "pk_vendor",
			"serviceFeeRate":       5,
			"usePlatformStripe":    false,
		})
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL)
	info, err := c.GetVendorPaymentInfo(context.Background(), "64a1f0c2e3b4d5a6f7081920")

	require.NoError(t, err)
	assert.True(t, info.HasCustomProcessor)
	assert.Equal(t, "pk_vendor", info.ProcessorKey)
	assert.False(t, info.UsesPlatformProcessor)
}

func TestGetVendorPaymentInfo_MalformedPayloadIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Missing vendorId field.
		json.NewEncoder(w).Encode(map[string]interface{}{"serviceFeeRate": 5})
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL)
	_, err := c.GetVendorPaymentInfo(context.Background(), "64a1f0c2e3b4d5a6f7081920")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing vendorId")
}

func TestGetVendorPaymentInfo_ServerErrorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL)
	_, err := c.GetVendorPaymentInfo(context.Background(), "64a1f0c2e3b4d5a6f7081920")
	assert.Error(t, err)
}

func TestCreatePaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/intent", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req PaymentIntentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "event-1", req.EventID)
		assert.Equal(t, 3, req.Participants)

		json.NewEncoder(w).Encode(PaymentIntentResponse{
			PaymentIntentID: "pi_1",
			ClientSecret:    "secret_1",
			OrderID:         "order_1",
		})
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL)
	resp, err := c.CreatePaymentIntent(context.Background(), &PaymentIntentRequest{
		EventID:        "event-1",
		Participants:   3,
		DateScheduleID: "sched-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_1", resp.PaymentIntentID)
	assert.Equal(t, "order_1", resp.OrderID)
}

func TestConfirmBooking_SendsJoinKeys(t *testing.T) {
	var got ConfirmBookingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/confirm", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ConfirmBookingResponse{BookingID: "booking_1"})
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL)
	resp, err := c.ConfirmBooking(context.Background(), &ConfirmBookingRequest{
		PaymentIntentID: "pi_1",
		OrderID:         "order_1",
	})

	require.NoError(t, err)
	assert.Equal(t, "booking_1", resp.BookingID)
	assert.Equal(t, "pi_1", got.PaymentIntentID)
	assert.Equal(t, "order_1", got.OrderID)
}

func TestConfirmBooking_5xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL)
	_, err := c.ConfirmBooking(context.Background(), &ConfirmBookingRequest{PaymentIntentID: "pi_1", OrderID: "order_1"})
	assert.Error(t, err)
}

func TestValidateCoupon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CouponValidationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 300.0, req.OrderAmount)

		json.NewEncoder(w).Encode(CouponValidationResponse{
			IsValidCoupon:      true,
			DiscountPercentage: 10,
		})
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL)
	resp, err := c.ValidateCoupon(context.Background(), &CouponValidationRequest{OrderAmount: 300, CouponCode: "SAVE10"})

	require.NoError(t, err)
	assert.True(t, resp.IsValidCoupon)
	assert.Equal(t, 10.0, resp.DiscountPercentage)
}

func TestGetEvent_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL)
	_, err := c.GetEvent(context.Background(), "missing")
	assert.Error(t, err)
}
