package services

import (
	goctx "context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deutschai/deutschai_api/shared"
)

// fakeWindowStore mimics redis INCR/EXPIRE semantics with a manual
// clock: a key with a passed deadline is gone, a key without a deadline
// never expires, and Expire re-arms the deadline from "now".
type fakeWindowStore struct {
	now       time.Time
	counts    map[string]int64
	deadlines map[string]time.Time
	failing   bool
}

func newFakeWindowStore() *fakeWindowStore {
	return &fakeWindowStore{
		now:       time.Unix(1700000000, 0),
		counts:    make(map[string]int64),
		deadlines: make(map[string]time.Time),
	}
}

func (f *fakeWindowStore) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fakeWindowStore) expireStale(key string) {
	if deadline, ok := f.deadlines[key]; ok && !f.now.Before(deadline) {
		delete(f.counts, key)
		delete(f.deadlines, key)
	}
}

func (f *fakeWindowStore) Incr(_ goctx.Context, key string) (int64, error) {
	if f.failing {
		return 0, errors.New("connection refused")
	}
	f.expireStale(key)
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeWindowStore) Expire(_ goctx.Context, key string, ttl time.Duration) error {
	if f.failing {
		return errors.New("connection refused")
	}
	f.deadlines[key] = f.now.Add(ttl)
	return nil
}

func newTestRateLimitApp(store windowStore, maxRequests int) *fiber.App {
	limitSvc := &RateLimitService{
		store:       store,
		maxRequests: maxRequests,
		window:      time.Minute,
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(shared.UserID, uint(1))
		return c.Next()
	})
	app.Use(limitSvc.TutorLimit())
	app.Get("/", func(c *fiber.Ctx) error {
		return shared.ResponseOK(c, "ok")
	})
	return app
}

func hitApp(t *testing.T, app *fiber.App) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestTutorLimitBlocksAboveWindowBudget(t *testing.T) {
	store := newFakeWindowStore()
	app := newTestRateLimitApp(store, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, fiber.StatusOK, hitApp(t, app))
	}
	assert.Equal(t, fiber.StatusTooManyRequests, hitApp(t, app))
}

func TestTutorLimitWindowResets(t *testing.T) {
	store := newFakeWindowStore()
	app := newTestRateLimitApp(store, 3)

	for i := 0; i < 4; i++ {
		hitApp(t, app)
	}
	assert.Equal(t, fiber.StatusTooManyRequests, hitApp(t, app))

	store.advance(61 * time.Second)
	assert.Equal(t, fiber.StatusOK, hitApp(t, app))
}

func TestTutorLimitSustainedTrafficBelowBudget(t *testing.T) {
	store := newFakeWindowStore()
	app := newTestRateLimitApp(store, 3)

	// Two requests per window, sustained across many windows, must never
	// throttle. Re-arming the expiry on every hit would let the count
	// accumulate across windows and block here.
	for i := 0; i < 20; i++ {
		assert.Equal(t, fiber.StatusOK, hitApp(t, app), "request %d", i)
		store.advance(30 * time.Second)
	}
}

func TestTutorLimitFailsOpen(t *testing.T) {
	store := newFakeWindowStore()
	store.failing = true
	app := newTestRateLimitApp(store, 3)

	for i := 0; i < 5; i++ {
		assert.Equal(t, fiber.StatusOK, hitApp(t, app))
	}
}
