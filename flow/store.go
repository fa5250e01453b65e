package flow

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"booking-service/models"
)

// DefaultLoadTimeout bounds how long a flow waits for its event to load
// before showing the terminal error display.
const DefaultLoadTimeout = 15 * time.Second

// EventFetcher loads events from the catalog backend.
// *clients.BackendClient satisfies it.
type EventFetcher interface {
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
}

// Store owns all active flow sessions. Initialization is guarded per
// (eventID, route) key: a duplicate start for the same key returns the
// already-initialized session instead of fetching and resetting again, so
// at-least-once invocation from the client cannot double-initialize a flow.
type Store struct {
	fetcher     EventFetcher
	logger      *zap.Logger
	loadTimeout time.Duration

	mu          sync.Mutex
	sessions    map[string]*Session
	initialized map[string]string // (eventID, route) -> flow id
}

// NewStore creates a Store. A non-positive loadTimeout falls back to
// DefaultLoadTimeout.
func NewStore(fetcher EventFetcher, loadTimeout time.Duration, logger *zap.Logger) *Store {
	if loadTimeout <= 0 {
		loadTimeout = DefaultLoadTimeout
	}
	return &Store{
		fetcher:     fetcher,
		logger:      logger,
		loadTimeout: loadTimeout,
		sessions:    make(map[string]*Session),
		initialized: make(map[string]string),
	}
}

func initKey(eventID, route string) string {
	return eventID + "|" + route
}

// StartFlow initializes a flow for an event. The event fetch is bounded by
// the load timeout; when it fails or times out the session lands in the
// terminal errored display rather than spinning.
func (st *Store) StartFlow(ctx context.Context, eventID, route string) *Session {
	key := initKey(eventID, route)

	st.mu.Lock()
	if id, ok := st.initialized[key]; ok {
		if existing, live := st.sessions[id]; live {
			st.mu.Unlock()
			st.logger.Debug("flow already initialized", zap.String("event_id", eventID), zap.String("route", route))
			return existing
		}
		// The session was abandoned; the key is free again.
		delete(st.initialized, key)
	}

	s := newSession(eventID, route)
	st.sessions[s.ID] = s
	st.initialized[key] = s.ID
	st.mu.Unlock()

	loadCtx, cancel := context.WithTimeout(ctx, st.loadTimeout)
	defer cancel()

	event, err := st.fetcher.GetEvent(loadCtx, eventID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.display = DisplayErrored
		st.logger.Error("event load failed", zap.String("event_id", eventID), zap.Error(err))
		return s
	}
	s.event = event
	s.display = DisplayReady
	s.resetLocked()
	return s
}

// Get returns the session by flow id.
func (st *Store) Get(flowID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[flowID]
	return s, ok
}

// Abandon removes a session and frees its initialization key so a later
// visit to the same event starts fresh.
func (st *Store) Abandon(flowID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[flowID]
	if !ok {
		return false
	}
	delete(st.sessions, flowID)
	delete(st.initialized, initKey(s.EventID, s.Route))
	return true
}
