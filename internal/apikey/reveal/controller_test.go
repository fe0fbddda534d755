package reveal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubRevealer serves secrets from a map and counts calls.
type stubRevealer struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]string
	calls   int
}

func (s *stubRevealer) Reveal(_ context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	secret, ok := s.secrets[id]
	if !ok {
		return nil, apikeyDomain.ErrAPIKeyNotFound
	}
	return &apikeyDomain.APIKey{ID: id, OwnerID: ownerID, Secret: secret}, nil
}

// manualTimer records scheduled callbacks so tests decide when they fire.
type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (m *manualTimer) Stop() bool {
	wasActive := !m.stopped
	m.stopped = true
	return wasActive
}

type manualClock struct {
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	timer := &manualTimer{d: d, f: f}
	c.timers = append(c.timers, timer)
	return timer
}

func (c *manualClock) last() *manualTimer {
	return c.timers[len(c.timers)-1]
}

type fixture struct {
	controller *Controller
	revealer   *stubRevealer
	clock      *manualClock
	hidden     []uuid.UUID
	keyA       uuid.UUID
	keyB       uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		clock: &manualClock{},
		keyA:  uuid.Must(uuid.NewV7()),
		keyB:  uuid.Must(uuid.NewV7()),
	}
	f.revealer = &stubRevealer{secrets: map[uuid.UUID]string{
		f.keyA: "dandi_secretA",
		f.keyB: "dandi_secretB",
	}}
	f.controller = NewController(
		f.revealer,
		uuid.Must(uuid.NewV7()),
		WithAfterFunc(f.clock.AfterFunc),
		WithOnHide(func(id uuid.UUID) { f.hidden = append(f.hidden, id) }),
	)
	return f
}

func TestController_Reveal(t *testing.T) {
	ctx := context.Background()

	t.Run("ShowsSecretForWindow", func(t *testing.T) {
		f := newFixture()

		secret, err := f.controller.Reveal(ctx, f.keyA)
		require.NoError(t, err)
		assert.Equal(t, "dandi_secretA", secret)

		id, current, ok := f.controller.Current()
		assert.True(t, ok)
		assert.Equal(t, f.keyA, id)
		assert.Equal(t, "dandi_secretA", current)
		require.Len(t, f.clock.timers, 1)
		assert.Equal(t, DefaultWindow, f.clock.last().d)
	})

	t.Run("WindowElapsedHides", func(t *testing.T) {
		f := newFixture()
		_, err := f.controller.Reveal(ctx, f.keyA)
		require.NoError(t, err)

		f.clock.last().f()

		_, _, ok := f.controller.Current()
		assert.False(t, ok)
		assert.Equal(t, []uuid.UUID{f.keyA}, f.hidden)
	})

	t.Run("RevealingAnotherKeyHidesPrevious", func(t *testing.T) {
		f := newFixture()
		_, err := f.controller.Reveal(ctx, f.keyA)
		require.NoError(t, err)
		first := f.clock.last()

		_, err = f.controller.Reveal(ctx, f.keyB)
		require.NoError(t, err)

		assert.True(t, first.stopped)
		assert.Equal(t, []uuid.UUID{f.keyA}, f.hidden)
		id, secret, ok := f.controller.Current()
		assert.True(t, ok)
		assert.Equal(t, f.keyB, id)
		assert.Equal(t, "dandi_secretB", secret)

		// a stale callback from the first window must not hide key B
		first.f()
		id, _, ok = f.controller.Current()
		assert.True(t, ok)
		assert.Equal(t, f.keyB, id)
	})

	t.Run("RevealSameKeyRestartsWindow", func(t *testing.T) {
		f := newFixture()
		_, err := f.controller.Reveal(ctx, f.keyA)
		require.NoError(t, err)
		_, err = f.controller.Reveal(ctx, f.keyA)
		require.NoError(t, err)

		require.Len(t, f.clock.timers, 2)
		assert.True(t, f.clock.timers[0].stopped)
		assert.False(t, f.clock.timers[1].stopped)
	})

	t.Run("ErrorKeepsState", func(t *testing.T) {
		f := newFixture()
		_, err := f.controller.Reveal(ctx, f.keyA)
		require.NoError(t, err)

		secret, err := f.controller.Reveal(ctx, uuid.Must(uuid.NewV7()))

		assert.ErrorIs(t, err, apikeyDomain.ErrAPIKeyNotFound)
		assert.Empty(t, secret)
		id, _, ok := f.controller.Current()
		assert.True(t, ok)
		assert.Equal(t, f.keyA, id)
		assert.Empty(t, f.hidden)
	})
}

func TestController_Hide(t *testing.T) {
	ctx := context.Background()

	t.Run("DisarmsTimerAndClears", func(t *testing.T) {
		f := newFixture()
		_, err := f.controller.Reveal(ctx, f.keyA)
		require.NoError(t, err)

		f.controller.Hide()

		assert.True(t, f.clock.last().stopped)
		_, secret, ok := f.controller.Current()
		assert.False(t, ok)
		assert.Empty(t, secret)
		assert.Equal(t, []uuid.UUID{f.keyA}, f.hidden)
	})

	t.Run("NothingVisibleIsNoop", func(t *testing.T) {
		f := newFixture()

		f.controller.Hide()

		assert.Empty(t, f.hidden)
	})
}

func TestController_Copy(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, err := f.controller.Reveal(ctx, f.keyA)
	require.NoError(t, err)

	secret, err := f.controller.Copy(ctx, f.keyB)
	require.NoError(t, err)

	assert.Equal(t, "dandi_secretB", secret)
	assert.Equal(t, 2, f.revealer.calls)
	id, _, ok := f.controller.Current()
	assert.True(t, ok)
	assert.Equal(t, f.keyA, id)
	assert.Len(t, f.clock.timers, 1)

	_, err = f.controller.Copy(ctx, uuid.Must(uuid.NewV7()))
	assert.True(t, errors.Is(err, apikeyDomain.ErrAPIKeyNotFound))
}

func TestController_RealTimer(t *testing.T) {
	hidden := make(chan uuid.UUID, 1)
	keyID := uuid.Must(uuid.NewV7())
	controller := NewController(
		&stubRevealer{secrets: map[uuid.UUID]string{keyID: "dandi_real"}},
		uuid.Must(uuid.NewV7()),
		WithWindow(10*time.Millisecond),
		WithOnHide(func(id uuid.UUID) { hidden <- id }),
	)

	_, err := controller.Reveal(context.Background(), keyID)
	require.NoError(t, err)

	select {
	case id := <-hidden:
		assert.Equal(t, keyID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("reveal window did not elapse")
	}

	_, _, ok := controller.Current()
	assert.False(t, ok)
}
