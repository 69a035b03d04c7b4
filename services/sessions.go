package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"shophub/models"
)

// Session is one shopper's state: a cart and a product listing.
type Session struct {
	ID      uuid.UUID
	Cart    *CartStore
	Browser *Browser

	mu         sync.Mutex
	generation uint64
	lastSeen   time.Time
}

// SyncCatalog hands a newly loaded product list to the browser. The browser
// only sees products from a load it has not seen yet, so its page is reset
// once per catalog load and not on every request.
func (s *Session) SyncCatalog(result LoadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.Generation == 0 || result.Generation == s.generation {
		return
	}
	s.generation = result.Generation
	s.Browser.SetProducts(result.Products)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Sessions holds the live sessions in memory. Nothing survives a restart.
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	logger   log.FieldLogger
	now      func() time.Time
}

func NewSessions(logger log.FieldLogger) *Sessions {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Sessions{
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the session for id, creating an empty one if needed.
func (s *Sessions) Get(id uuid.UUID) *Session {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		session = s.newSession(id)
		s.sessions[id] = session
	}
	s.mu.Unlock()

	session.touch(s.now())
	return session
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions not seen since cutoff and returns how many went.
func (s *Sessions) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.idleSince(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// newSession must be called with s.mu held so the session is never visible
// to Sweep without a lastSeen.
func (s *Sessions) newSession(id uuid.UUID) *Session {
	session := &Session{
		ID:       id,
		Cart:     NewCartStore(),
		Browser:  NewBrowser(),
		lastSeen: s.now(),
	}

	logger := s.logger.WithField("session_id", id)
	session.Cart.Subscribe(func(state models.CartState) {
		logger.WithFields(log.Fields{
			"lines":      len(state.Items),
			"item_count": state.ItemCount,
			"total":      state.Total.String(),
		}).Debug("cart updated")
	})

	logger.Debug("session created")
	return session
}
