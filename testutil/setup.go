package testutil

import (
	"testing"
	"time"

	"github.com/amerihn/conference-event-planner/cache"
	"github.com/amerihn/conference-event-planner/catalog"
	"github.com/amerihn/conference-event-planner/planner"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// SetupTestCache creates the in-process cache and pub/sub (no Redis required).
func SetupTestCache(t *testing.T) (cache.Cache, cache.PubSub) {
	t.Helper()
	cfg := cache.Config{LocalGCInterval: time.Minute}
	c, err := cache.NewCache(cfg)
	require.NoError(t, err, "SetupTestCache: NewCache")
	ps, err := cache.NewPubSub(cfg)
	require.NoError(t, err, "SetupTestCache: NewPubSub")
	return c, ps
}

// SetupTestManager returns a Manager over the default seed with in-process
// backends. Pass a non-zero ttl to shorten the idle timeout.
func SetupTestManager(t *testing.T, ttl time.Duration) *planner.Manager {
	t.Helper()
	c, ps := SetupTestCache(t)
	m, err := planner.NewManager(planner.Options{
		Seed:          catalog.DefaultSeed(),
		Limits:        catalog.DefaultLimits(),
		DefaultPeople: 1,
		IdleTTL:       ttl,
	}, c, ps, zap.NewNop())
	require.NoError(t, err, "SetupTestManager: NewManager")
	return m
}
