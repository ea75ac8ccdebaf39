package couch

import (
	"context"
	"testing"

	"github.com/NexusGPU/couchgo/internal/config"
	"github.com/NexusGPU/couchgo/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, f *fakeCouch, metrics *Metrics) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), testUser, testPassword,
		WithURL(f.URL),
		WithAuthMode(config.AuthBasic),
		WithMetrics(metrics),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })
	return client
}

func TestDatabase_GetCachesDocument(t *testing.T) {
	f := newFakeCouch()
	defer f.Close()
	f.putDoc("app", "doc1", map[string]any{"name": "first"})

	metrics := NewMetrics(prometheus.NewRegistry())
	db := newTestClient(t, f, metrics).Database("app")
	ctx := context.Background()

	doc, err := db.Get(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, "doc1", doc.ID)
	assert.Equal(t, "1-abc", doc.Rev)
	assert.Equal(t, "first", doc.Fields["name"])
	assert.False(t, doc.IsDesign())

	again, err := db.Get(ctx, "doc1")
	require.NoError(t, err)
	assert.Same(t, doc, again)
	assert.Equal(t, 1, f.getCount("app", "doc1"))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CacheMisses))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Fetches.WithLabelValues(fetchFound)))
}

func TestDatabase_GetRemoteRefetches(t *testing.T) {
	f := newFakeCouch()
	defer f.Close()
	f.putDoc("app", "doc1", map[string]any{"name": "first"})

	db := newTestClient(t, f, nil).Database("app")
	ctx := context.Background()

	_, err := db.Get(ctx, "doc1")
	require.NoError(t, err)

	f.putDoc("app", "doc1", map[string]any{"name": "second", "_rev": "2-def"})

	cached, err := db.Get(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, "first", cached.Fields["name"])

	fresh, err := db.Get(ctx, "doc1", WithRemote())
	require.NoError(t, err)
	assert.Equal(t, "second", fresh.Fields["name"])
	assert.Equal(t, "2-def", fresh.Rev)
	assert.Equal(t, 2, f.getCount("app", "doc1"))

	cached, ok := db.Cached("doc1")
	require.True(t, ok)
	assert.Equal(t, "2-def", cached.Rev)
}

func TestDatabase_GetMissing(t *testing.T) {
	f := newFakeCouch()
	defer f.Close()
	f.addDB("app")

	metrics := NewMetrics(prometheus.NewRegistry())
	db := newTestClient(t, f, metrics).Database("app")
	ctx := context.Background()

	_, err := db.Get(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	def := &Document{ID: "nope", Fields: map[string]any{"placeholder": true}}
	got, err := db.Get(ctx, "nope", WithDefault(def))
	require.NoError(t, err)
	assert.Same(t, def, got)

	assert.Equal(t, 0, db.Len())
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Fetches.WithLabelValues(fetchMissing)))
}

func TestDatabase_DesignDocument(t *testing.T) {
	f := newFakeCouch()
	defer f.Close()
	f.putDoc("app", "_design/people", map[string]any{
		"language": "javascript",
		"views": map[string]any{
			"by_name": map[string]any{"map": "function(doc) { emit(doc.name, null) }"},
			"count":   map[string]any{"map": "function(doc) { emit(null, 1) }", "reduce": "_sum"},
		},
	})

	db := newTestClient(t, f, nil).Database("app")

	doc, err := db.Get(context.Background(), "_design/people")
	require.NoError(t, err)
	assert.True(t, doc.IsDesign())

	views := doc.Views()
	require.Len(t, views, 2)
	assert.Equal(t, "function(doc) { emit(doc.name, null) }", views["by_name"].Map)
	assert.Empty(t, views["by_name"].Reduce)
	assert.Equal(t, "_sum", views["count"].Reduce)
}

func TestDatabase_KeysAndLen(t *testing.T) {
	f := newFakeCouch()
	defer f.Close()
	f.putDoc("app", "b", nil)
	f.putDoc("app", "a", nil)

	db := newTestClient(t, f, nil).Database("app")
	ctx := context.Background()
	assert.Equal(t, "app", db.Name())

	for _, id := range []string{"b", "a", "b"} {
		_, err := db.Get(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b"}, db.Keys())
	assert.Equal(t, 2, db.Len())
}

func TestDocument_ViewsOnRegularDocument(t *testing.T) {
	doc := &Document{ID: "plain", Fields: map[string]any{"views": map[string]any{}}}
	assert.Nil(t, doc.Views())
	assert.True(t, IsDesignID("_design/x"))
	assert.False(t, IsDesignID("design/x"))
}
