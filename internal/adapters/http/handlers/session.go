package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jsamuelsen/quote-keeper/internal/app"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

// SessionCookie names the cookie holding the browser session id.
const SessionCookie = "qk_session"

// ControllerFactory builds the controller and document of a new session.
type ControllerFactory func() *app.Controller

// Sessions keeps one page controller per browser session.
// Idle sessions expire after the TTL; the least recently used session is
// evicted when the store is full. Evicted controllers are closed.
type Sessions struct {
	mu      sync.Mutex
	cache   *expirable.LRU[string, *app.Controller]
	factory ControllerFactory
	ttl     time.Duration
}

// NewSessions creates a session store.
func NewSessions(maxEntries int, ttl time.Duration, factory ControllerFactory) *Sessions {
	onEvict := func(_ string, ctrl *app.Controller) {
		ctrl.Close()
	}

	return &Sessions{
		cache:   expirable.NewLRU[string, *app.Controller](maxEntries, onEvict, ttl),
		factory: factory,
		ttl:     ttl,
	}
}

// Get returns the controller of the request's session, starting a new session
// when the cookie is missing, malformed or expired. created reports whether
// the controller is new. Every call extends the session's TTL.
func (s *Sessions) Get(c *gin.Context) (ctrl *app.Controller, created bool) {
	id, err := c.Cookie(SessionCookie)
	if err == nil && uuid.Validate(id) != nil {
		err = http.ErrNoCookie
	}

	s.mu.Lock()

	if err == nil {
		ctrl, _ = s.cache.Get(id)
	}

	if ctrl == nil {
		id = uuid.NewString()
		ctrl = s.factory()
		created = true
	}

	// Re-adding resets the expiry
	s.cache.Add(id, ctrl)
	s.mu.Unlock()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(s.ttl.Seconds()), "/", "", false, true)
	c.Request = c.Request.WithContext(logging.WithSessionRef(c.Request.Context(), sessionRef(id)))

	return ctrl, created
}

// sessionRef derives a short log handle from a session id.
func sessionRef(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:4])
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	return s.cache.Len()
}

// Close closes every session's controller and empties the store, which stays
// usable. The LRU's expiry goroutine keeps running: golang-lru's expirable
// cache offers no way to stop it, so a store should live as long as its
// process.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
}
