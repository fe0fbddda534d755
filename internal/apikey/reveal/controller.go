// Package reveal holds the client side reveal state: at most one api key is
// shown in clear at a time, and only for a bounded window.
package reveal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
)

// DefaultWindow is how long a revealed secret stays visible.
const DefaultWindow = 30 * time.Second

// Revealer fetches a key with its plaintext secret.
type Revealer interface {
	Reveal(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error)
}

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, f func()) Timer

// Option configures a Controller.
type Option func(*Controller)

// WithWindow overrides DefaultWindow.
func WithWindow(window time.Duration) Option {
	return func(c *Controller) {
		c.window = window
	}
}

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(afterFunc AfterFunc) Option {
	return func(c *Controller) {
		c.afterFunc = afterFunc
	}
}

// WithOnHide registers a callback invoked with the id of every key that gets hidden.
func WithOnHide(onHide func(id uuid.UUID)) Option {
	return func(c *Controller) {
		c.onHide = onHide
	}
}

// Controller tracks the single revealed key of one owner.
type Controller struct {
	revealer  Revealer
	ownerID   uuid.UUID
	window    time.Duration
	afterFunc AfterFunc
	onHide    func(id uuid.UUID)

	mu         sync.Mutex
	visibleID  uuid.UUID
	secret     string
	timer      Timer
	generation uint64
}

// NewController creates a Controller for ownerID.
func NewController(revealer Revealer, ownerID uuid.UUID, opts ...Option) *Controller {
	c := &Controller{
		revealer: revealer,
		ownerID:  ownerID,
		window:   DefaultWindow,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reveal fetches id and makes it the visible key until the window elapses,
// Hide is called or another key is revealed. A failed fetch leaves the
// current state untouched.
func (c *Controller) Reveal(ctx context.Context, id uuid.UUID) (string, error) {
	apiKey, err := c.revealer.Reveal(ctx, id, c.ownerID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	hiddenID, hidden := c.hideLocked()
	c.generation++
	generation := c.generation
	c.visibleID = id
	c.secret = apiKey.Secret
	c.timer = c.afterFunc(c.window, func() {
		c.expire(generation)
	})
	c.mu.Unlock()

	if hidden {
		c.notify(hiddenID)
	}
	return apiKey.Secret, nil
}

// Copy fetches the secret of id without changing what is visible.
func (c *Controller) Copy(ctx context.Context, id uuid.UUID) (string, error) {
	apiKey, err := c.revealer.Reveal(ctx, id, c.ownerID)
	if err != nil {
		return "", err
	}
	return apiKey.Secret, nil
}

// Hide clears the visible secret and disarms its timer.
func (c *Controller) Hide() {
	c.mu.Lock()
	hiddenID, hidden := c.hideLocked()
	c.mu.Unlock()

	if hidden {
		c.notify(hiddenID)
	}
}

// Current returns the visible key, if any.
func (c *Controller) Current() (id uuid.UUID, secret string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.secret == "" {
		return uuid.Nil, "", false
	}
	return c.visibleID, c.secret, true
}

// expire hides the key revealed in generation unless something newer replaced it.
func (c *Controller) expire(generation uint64) {
	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	hiddenID, hidden := c.hideLocked()
	c.mu.Unlock()

	if hidden {
		c.notify(hiddenID)
	}
}

func (c *Controller) hideLocked() (uuid.UUID, bool) {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.secret == "" {
		return uuid.Nil, false
	}

	id := c.visibleID
	c.visibleID = uuid.Nil
	c.secret = ""
	c.generation++
	return id, true
}

func (c *Controller) notify(id uuid.UUID) {
	if c.onHide != nil {
		c.onHide(id)
	}
}
