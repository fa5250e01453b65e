package vendorpay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"booking-service/models"
)

const vendorID = "64a1f0c2e3b4d5a6f7081920"

// mockFetcher counts upstream calls and can block to force interleaving.
type mockFetcher struct {
	calls   int64
	err     error
	info    models.VendorPaymentInfo
	release chan struct{}
}

func (m *mockFetcher) GetVendorPaymentInfo(_ context.Context, id string) (*models.VendorPaymentInfo, error) {
	atomic.AddInt64(&m.calls, 1)
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return nil, m.err
	}
	info := m.info
	info.VendorID = id
	return &info, nil
}

func newTestResolver(f *mockFetcher, opts Options) *Resolver {
	logger, _ := zap.NewDevelopment()
	return NewResolver(f, opts, logger)
}

func TestResolver_CacheHitSkipsNetwork(t *testing.T) {
	f := &mockFetcher{info: models.VendorPaymentInfo{UsesPlatformProcessor: true, ServiceFeePercent: 7}}
	r := newTestResolver(f, Options{})

	first := r.GetVendorPaymentInfo(context.Background(), vendorID)
	second := r.GetVendorPaymentInfo(context.Background(), vendorID)

	assert.Equal(t, int64(1), atomic.LoadInt64(&f.calls))
	assert.Equal(t, first, second)
	assert.Equal(t, 7.0, second.ServiceFeePercent)

	r.ClearCache()
	r.GetVendorPaymentInfo(context.Background(), vendorID)
	assert.Equal(t, int64(2), atomic.LoadInt64(&f.calls))
}

func TestResolver_CacheExpiresAfterTTL(t *testing.T) {
	f := &mockFetcher{info: models.VendorPaymentInfo{UsesPlatformProcessor: true}}
	r := newTestResolver(f, Options{})

	current := time.Now()
	r.now = func() time.Time { return current }

	r.GetVendorPaymentInfo(context.Background(), vendorID)
	current = current.Add(29 * time.Minute)
	r.GetVendorPaymentInfo(context.Background(), vendorID)
	assert.Equal(t, int64(1), atomic.LoadInt64(&f.calls))

	current = current.Add(2 * time.Minute)
	r.GetVendorPaymentInfo(context.Background(), vendorID)
	assert.Equal(t, int64(2), atomic.LoadInt64(&f.calls))
}

func TestResolver_ConcurrentCallsShareOneFetch(t *testing.T) {
	f := &mockFetcher{
		info:    models.VendorPaymentInfo{UsesPlatformProcessor: true, ServiceFeePercent: 5},
		release: make(chan struct{}),
	}
	r := newTestResolver(f, Options{})

	var wg sync.WaitGroup
	results := make([]models.VendorPaymentInfo, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.GetVendorPaymentInfo(context.Background(), vendorID)
		}(i)
	}

	// Give both goroutines time to reach the in-flight fetch, then let the
	// single upstream call settle.
	time.Sleep(50 * time.Millisecond)
	close(f.release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&f.calls))
	assert.Equal(t, results[0], results[1])
}

func TestResolver_FailsOpenOnFetchError(t *testing.T) {
	f := &mockFetcher{err: errors.New("connection refused")}
	r := newTestResolver(f, Options{})

	info := r.GetVendorPaymentInfo(context.Background(), vendorID)

	assert.False(t, info.HasCustomProcessor)
	assert.True(t, info.UsesPlatformProcessor)
	assert.Equal(t, models.DefaultServiceFeePercent, info.ServiceFeePercent)

	// Failures are not cached; the next call retries upstream.
	r.GetVendorPaymentInfo(context.Background(), vendorID)
	assert.Equal(t, int64(2), atomic.LoadInt64(&f.calls))
}

func TestResolver_InvalidVendorIDUsesDefaultsWithoutFetch(t *testing.T) {
	f := &mockFetcher{}
	r := newTestResolver(f, Options{})

	info := r.GetVendorPaymentInfo(context.Background(), "not-a-hex-id")

	assert.True(t, info.UsesPlatformProcessor)
	assert.Equal(t, int64(0), atomic.LoadInt64(&f.calls))
}

func TestResolver_NormalizeEnforcesProcessorInvariant(t *testing.T) {
	// Custom processor claimed but no key present: platform settlement.
	f := &mockFetcher{info: models.VendorPaymentInfo{HasCustomProcessor: true, ServiceFeePercent: 0}}
	r := newTestResolver(f, Options{})

	info := r.GetVendorPaymentInfo(context.Background(), vendorID)
	assert.False(t, info.HasCustomProcessor)
	assert.True(t, info.UsesPlatformProcessor)
	assert.Equal(t, models.DefaultServiceFeePercent, info.ServiceFeePercent)
}

func TestResolver_ProcessorHandleSelection(t *testing.T) {
	opts := Options{PlatformLiveKey: "pk_live_x", PlatformTestKey: "pk_test_x"}

	t.Run("vendor owned key wins", func(t *testing.T) {
		f := &mockFetcher{info: models.VendorPaymentInfo{HasCustomProcessor: true, ProcessorKey: "pk_vendor"}}
		r := newTestResolver(f, opts)

		h := r.GetProcessorHandle(context.Background(), vendorID)
		assert.Equal(t, "pk_vendor", h.PublishableKey)
		assert.True(t, h.VendorOwned)
	})

	t.Run("sandbox key outside production", func(t *testing.T) {
		f := &mockFetcher{info: models.VendorPaymentInfo{UsesPlatformProcessor: true}}
		r := newTestResolver(f, opts)

		h := r.GetProcessorHandle(context.Background(), vendorID)
		assert.Equal(t, "pk_test_x", h.PublishableKey)
		assert.False(t, h.LiveMode)
	})

	t.Run("live key in production", func(t *testing.T) {
		f := &mockFetcher{info: models.VendorPaymentInfo{UsesPlatformProcessor: true}}
		r := newTestResolver(f, Options{Production: true, PlatformLiveKey: "pk_live_x", PlatformTestKey: "pk_test_x"})

		h := r.GetProcessorHandle(context.Background(), vendorID)
		assert.Equal(t, "pk_live_x", h.PublishableKey)
		assert.True(t, h.LiveMode)
	})

	t.Run("live key when sandbox key missing", func(t *testing.T) {
		f := &mockFetcher{info: models.VendorPaymentInfo{UsesPlatformProcessor: true}}
		r := newTestResolver(f, Options{PlatformLiveKey: "pk_live_x"})

		h := r.GetProcessorHandle(context.Background(), vendorID)
		assert.Equal(t, "pk_live_x", h.PublishableKey)
		assert.True(t, h.LiveMode)
	})
}
