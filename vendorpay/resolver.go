// Package vendorpay resolves which payment processor configuration applies
// to a vendor: the vendor's own gateway account, or the platform account
// plus a service fee. Resolution is cached, deduplicated and fail-open —
// a vendor whose configuration cannot be fetched still checks out on
// platform defaults.
package vendorpay

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"booking-service/models"
)

// DefaultCacheTTL bounds how long a vendor's payment info is served from
// cache before a fresh fetch.
const DefaultCacheTTL = 30 * time.Minute

// InfoFetcher fetches vendor payment info from the backend.
// *clients.BackendClient satisfies it.
type InfoFetcher interface {
	GetVendorPaymentInfo(ctx context.Context, vendorID string) (*models.VendorPaymentInfo, error)
}

// Options configures processor-handle selection.
type Options struct {
	// Production selects live platform keys; otherwise sandbox keys are
	// preferred when present.
	Production      bool
	PlatformLiveKey string
	PlatformTestKey string
	// TTL overrides DefaultCacheTTL when positive.
	TTL time.Duration
}

type cacheEntry struct {
	info      models.VendorPaymentInfo
	expiresAt time.Time
}

// Resolver caches vendor payment info with a TTL and coalesces concurrent
// fetches for the same vendor into a single upstream call. It is an
// injectable service object: tests construct isolated instances and control
// time through the now hook.
type Resolver struct {
	fetcher InfoFetcher
	opts    Options
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
	group singleflight.Group

	now func() time.Time
}

// NewResolver creates a Resolver around the given fetcher.
func NewResolver(fetcher InfoFetcher, opts Options, logger *zap.Logger) *Resolver {
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	return &Resolver{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
		cache:   make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// GetVendorPaymentInfo returns the payment configuration for a vendor. A
// cache hit returns immediately; concurrent misses for the same vendor share
// one in-flight fetch. Any failure — transport error, malformed payload,
// invalid vendor id — resolves to platform defaults rather than an error:
// configuration resolution must never block a checkout.
func (r *Resolver) GetVendorPaymentInfo(ctx context.Context, vendorID string) models.VendorPaymentInfo {
	if _, err := primitive.ObjectIDFromHex(vendorID); err != nil {
		r.logger.Warn("invalid vendor id, using platform defaults",
			zap.String("vendor_id", vendorID), zap.Error(err))
		return models.PlatformDefaultPaymentInfo(vendorID)
	}

	r.mu.Lock()
	if entry, ok := r.cache[vendorID]; ok && r.now().Before(entry.expiresAt) {
		r.mu.Unlock()
		return entry.info
	}
	r.mu.Unlock()

	// singleflight keys pending fetches by vendor id and drops the entry
	// once the call settles, success or failure.
	v, err, _ := r.group.Do(vendorID, func() (interface{}, error) {
		info, err := r.fetcher.GetVendorPaymentInfo(ctx, vendorID)
		if err != nil {
			return nil, err
		}
		return *info, nil
	})
	if err != nil {
		r.logger.Warn("vendor payment info fetch failed, using platform defaults",
			zap.String("vendor_id", vendorID), zap.Error(err))
		return models.PlatformDefaultPaymentInfo(vendorID)
	}

	info := normalize(v.(models.VendorPaymentInfo))

	r.mu.Lock()
	r.cache[vendorID] = cacheEntry{info: info, expiresAt: r.now().Add(r.opts.TTL)}
	r.mu.Unlock()

	return info
}

// GetProcessorHandle resolves the gateway key a checkout should use for the
// vendor's events.
func (r *Resolver) GetProcessorHandle(ctx context.Context, vendorID string) models.ProcessorHandle {
	info := r.GetVendorPaymentInfo(ctx, vendorID)

	if info.HasCustomProcessor && info.ProcessorKey != "" {
		return models.ProcessorHandle{
			PublishableKey: info.ProcessorKey,
			VendorOwned:    true,
			LiveMode:       r.opts.Production,
		}
	}

	key := r.opts.PlatformTestKey
	live := false
	// Live key in production, and also whenever no sandbox key is
	// configured: when the mode is ambiguous the live key wins.
	if r.opts.Production || key == "" {
		key = r.opts.PlatformLiveKey
		live = true
	}

	return models.ProcessorHandle{PublishableKey: key, LiveMode: live}
}

// ClearCache drops all cached vendor info. The next call per vendor fetches
// fresh.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]cacheEntry)
	r.mu.Unlock()
}

// normalize enforces the processor invariant: a vendor with its own
// processor and a present key never pays the platform fee; otherwise
// platform settlement applies and a missing fee rate falls back to the
// default.
func normalize(info models.VendorPaymentInfo) models.VendorPaymentInfo {
	if info.HasCustomProcessor && info.ProcessorKey != "" {
		info.UsesPlatformProcessor = false
		return info
	}

	info.HasCustomProcessor = false
	info.UsesPlatformProcessor = true
	if info.ServiceFeePercent <= 0 {
		info.ServiceFeePercent = models.DefaultServiceFeePercent
	}
	return info
}
