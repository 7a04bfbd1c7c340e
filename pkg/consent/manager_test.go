package consent_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consentkit/pkg/consent"
	"github.com/dmitrymomot/consentkit/pkg/cookie"
	"github.com/dmitrymomot/consentkit/pkg/logger"
)

func twoOptionalManifest() consent.Manifest {
	return consent.Manifest{
		{Name: "essential", Prefixes: []string{"essential-"}},
		{Name: "analytics", Optional: true, Prefixes: []string{"analytics-"}},
		{Name: "marketing", Optional: true, Prefixes: []string{"marketing-"}},
	}
}

func newManager(t *testing.T, opts ...consent.Option) *consent.Manager {
	t.Helper()
	opts = append([]consent.Option{consent.WithManifest(twoOptionalManifest())}, opts...)
	m, err := consent.New(opts...)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		m, err := consent.New()
		require.NoError(t, err)
		assert.Equal(t, consent.DefaultCookieName, m.CookieName())
		assert.Equal(t, consent.DefaultPreferencesPath, m.PreferencesPath())
		assert.Empty(t, m.Manifest())
	})

	t.Run("invalid manifest", func(t *testing.T) {
		t.Parallel()
		_, err := consent.New(consent.WithManifest(consent.Manifest{{Name: "", Prefixes: []string{"x"}}}))
		require.ErrorIs(t, err, consent.ErrInvalidManifest)
	})

	t.Run("invalid cookie name", func(t *testing.T) {
		t.Parallel()
		_, err := consent.New(consent.WithCookieName("bad name"))
		require.ErrorIs(t, err, cookie.ErrInvalidName)
	})

	t.Run("manifest is copied", func(t *testing.T) {
		t.Parallel()
		manifest := twoOptionalManifest()
		m, err := consent.New(consent.WithManifest(manifest))
		require.NoError(t, err)

		manifest[1].Optional = false
		manifest[1].Prefixes[0] = "changed-"

		got := m.Manifest()
		assert.True(t, got[1].Optional)
		assert.Equal(t, "analytics-", got[1].Prefixes[0])
	})
}

func TestManager_Enforce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no consent deletes optional and undefined", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		store := consent.NewMemoryStore(cookies("essential-x", "analytics-y", "random-z")...)

		decisions := m.Enforce(ctx, store)

		assert.Equal(t, []string{"analytics-y", "random-z"}, consent.Deleted(decisions))
		assert.Equal(t, []string{"analytics-y", "random-z"}, store.DeletedNames())
		assert.Equal(t, cookies("essential-x"), store.Cookies())
	})

	t.Run("granted category is kept", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		store := consent.NewMemoryStore(cookies("essential-x", "analytics-y", "random-z")...)
		store.Set(prefsCookie, consent.EncodeRecord(consent.Record{"analytics": "on"}), 365, false)

		decisions := m.Enforce(ctx, store)

		assert.Equal(t, []string{"random-z"}, consent.Deleted(decisions))
		_, ok := store.Get(prefsCookie)
		assert.True(t, ok)
	})

	t.Run("malformed record behaves like no record", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithJSONFormatter())
		m := newManager(t, consent.WithLogger(log))

		malformed := consent.NewMemoryStore(cookies("essential-x", "analytics-y", "random-z")...)
		malformed.Set(prefsCookie, "{not-json", 365, false)
		absent := consent.NewMemoryStore(cookies("essential-x", "analytics-y", "random-z")...)

		got := m.Enforce(ctx, malformed)
		want := m.Enforce(ctx, absent)

		assert.Equal(t, consent.Deleted(want), consent.Deleted(got))
		assert.Contains(t, buf.String(), "malformed")
		_, ok := malformed.Get(prefsCookie)
		assert.True(t, ok, "malformed consent cookie is kept")
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		store := consent.NewMemoryStore(cookies("essential-x", "analytics-y", "random-z", "marketing-q")...)
		store.Set(prefsCookie, consent.EncodeRecord(consent.Record{"marketing": "on"}), 365, false)

		first := consent.Deleted(m.Enforce(ctx, store))
		second := consent.Deleted(m.Enforce(ctx, store))

		assert.Equal(t, []string{"analytics-y", "random-z"}, first)
		assert.Empty(t, second)

		// Same inputs without the deletions applied give the same delete set.
		replay := consent.NewMemoryStore(cookies("essential-x", "analytics-y", "random-z", "marketing-q")...)
		replay.Set(prefsCookie, consent.EncodeRecord(consent.Record{"marketing": "on"}), 365, false)
		assert.Equal(t, first, consent.Deleted(m.Enforce(ctx, replay)))
	})

	t.Run("keeps undefined when configured", func(t *testing.T) {
		t.Parallel()
		m := newManager(t, consent.WithDeleteUndefined(false))
		store := consent.NewMemoryStore(cookies("random-z")...)

		assert.Empty(t, consent.Deleted(m.Enforce(ctx, store)))
	})
}

func TestManager_AcceptAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var saved []consent.Record
	m := newManager(t, consent.WithOnSaved(func(_ context.Context, rec consent.Record) {
		saved = append(saved, rec)
	}))

	store := consent.NewMemoryStore(cookies("essential-x", "analytics-y", "marketing-z", "random-q")...)
	assert.True(t, m.BannerVisible(ctx, store, false))

	res := m.AcceptAll(ctx, store, false)

	assert.Equal(t, consent.Record{"analytics": "on", "marketing": "on"}, res.Record)
	assert.False(t, res.BannerVisible)
	assert.Equal(t, []string{"random-q"}, res.Deleted())
	assert.False(t, m.BannerVisible(ctx, store, false))

	// A later pass keeps every cookie of both categories.
	again := m.Enforce(ctx, store)
	assert.Empty(t, consent.Deleted(again))

	require.Len(t, saved, 1)
	assert.Equal(t, res.Record, saved[0])
}

func TestManager_RejectAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newManager(t)

	store := consent.NewMemoryStore(cookies("essential-x", "analytics-y", "marketing-z")...)
	store.Set(prefsCookie, consent.EncodeRecord(consent.AcceptAll(twoOptionalManifest())), 365, false)

	res := m.RejectAll(ctx, store, false)

	assert.Equal(t, consent.Record{"analytics": "off", "marketing": "off"}, res.Record)
	assert.Equal(t, []string{"analytics-y", "marketing-z"}, res.Deleted())
	assert.False(t, res.BannerVisible)
}

func TestManager_SaveSelections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newManager(t)

	store := consent.NewMemoryStore(cookies("analytics-y", "marketing-z")...)
	res := m.SaveSelections(ctx, store, map[string]string{"analytics": "on"}, true)

	assert.Equal(t, consent.Record{"analytics": "on"}, res.Record)
	assert.Equal(t, []string{"marketing-z"}, res.Deleted(), "category absent from the form is not consent")
	assert.True(t, res.PreferencesPage)

	raw, ok := store.Get(prefsCookie)
	require.True(t, ok)
	assert.Equal(t, consent.EncodeRecord(consent.Record{"analytics": "on"}), raw)
}

func TestManager_SaveSelectionsDropsUnknownFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var saved consent.Record
	m := newManager(t, consent.WithOnSaved(func(_ context.Context, rec consent.Record) { saved = rec }))

	store := consent.NewMemoryStore(cookies("analytics-y")...)
	res := m.SaveSelections(ctx, store, map[string]string{
		"analytics": "on",
		"marketing": "off",
		"action":    "save",
		"submit":    "",
	}, false)

	assert.Equal(t, consent.Record{"analytics": "on", "marketing": "off"}, res.Record)
	assert.Equal(t, res.Record, saved)
	assert.Empty(t, res.Deleted())
}

func TestManager_BannerOnPreferencesPage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hidden := newManager(t, consent.WithBannerOnPreferencesPage(false))
	shown := newManager(t)
	store := consent.NewMemoryStore()

	assert.False(t, hidden.BannerVisible(ctx, store, true))
	assert.True(t, hidden.BannerVisible(ctx, store, false))
	assert.True(t, shown.BannerVisible(ctx, store, true))
}

func TestManager_CustomCookieName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newManager(t, consent.WithCookieName("my-consent"))

	store := consent.NewMemoryStore(cookies("my-consent", prefsCookie)...)
	m.AcceptAll(ctx, store, false)

	_, ok := store.Get("my-consent")
	assert.True(t, ok)
	_, ok = store.Get(prefsCookie)
	assert.False(t, ok, "the default name is an undefined cookie here")
}

func TestManager_Metrics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	metrics := consent.NewMetrics(reg)
	m := newManager(t, consent.WithMetrics(metrics))

	store := consent.NewMemoryStore(cookies("essential-x", "analytics-y", "random-z")...)
	store.Set(prefsCookie, "%%%", 365, false)
	m.Enforce(ctx, store)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.MalformedRecords))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Decisions.WithLabelValues("keep", "essential")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Decisions.WithLabelValues("delete", "no_consent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Decisions.WithLabelValues("delete", "undefined")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Decisions.WithLabelValues("keep", "consent_cookie")))

	m.AcceptAll(ctx, store, false)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Saves.WithLabelValues(consent.SourceAcceptAll)))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.EnforceLatency))
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *consent.Metrics
	assert.NotPanics(t, func() {
		m.IncrementDecision(consent.Keep, consent.ReasonEssential)
		m.IncrementSave(consent.SourceForm)
		m.IncrementMalformed()
		m.ObserveEnforceLatency(0)
	})
}
