package couch

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/NexusGPU/couchgo/internal/errors"
	"github.com/NexusGPU/couchgo/internal/log"
	kivik "github.com/go-kivik/kivik/v4"
)

// Database is a remote database with a local document cache keyed by id.
// Cached documents are never invalidated; use WithRemote to refetch.
type Database struct {
	db      *kivik.DB
	log     *log.Logger
	metrics *Metrics

	mu    sync.RWMutex
	cache map[string]*Document
}

func newDatabase(db *kivik.DB, logger *log.Logger, metrics *Metrics) *Database {
	return &Database{
		db:      db,
		log:     logger.WithDatabase(db.Name()),
		metrics: metrics,
		cache:   make(map[string]*Document),
	}
}

// Name returns the database name
func (d *Database) Name() string {
	return d.db.Name()
}

type getOptions struct {
	remote bool
	def    *Document
}

// GetOption configures Get
type GetOption func(*getOptions)

// WithRemote skips the local cache and always asks the server
func WithRemote() GetOption {
	return func(o *getOptions) {
		o.remote = true
	}
}

// WithDefault returns doc instead of an error when the document does not exist
func WithDefault(doc *Document) GetOption {
	return func(o *getOptions) {
		o.def = doc
	}
}

// Get returns the document with the given id. A cached copy is returned
// without a request unless WithRemote is given. Otherwise the document is
// fetched, cached and returned. A missing document yields the WithDefault
// value, or an error matching errors.ErrNotFound.
func (d *Database) Get(ctx context.Context, key string, opts ...GetOption) (*Document, error) {
	var o getOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !o.remote {
		if doc, ok := d.Cached(key); ok {
			d.metrics.CacheHits.Inc()
			return doc, nil
		}
		d.metrics.CacheMisses.Inc()
	}

	doc, err := d.fetch(ctx, key)
	switch {
	case err == nil:
		d.metrics.Fetches.WithLabelValues(fetchFound).Inc()
		d.mu.Lock()
		d.cache[key] = doc
		d.mu.Unlock()
		return doc, nil
	case errors.Is(err, errors.ErrNotFound):
		d.metrics.Fetches.WithLabelValues(fetchMissing).Inc()
		if o.def != nil {
			return o.def, nil
		}
		return nil, err
	default:
		d.metrics.Fetches.WithLabelValues(fetchError).Inc()
		d.log.Error().Str("doc_id", key).Err(err).Msg("document fetch failed")
		return nil, err
	}
}

func (d *Database) fetch(ctx context.Context, key string) (*Document, error) {
	var fields map[string]any
	if err := d.db.Get(ctx, key).ScanDoc(&fields); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, errors.NotFound("document", key)
		}
		return nil, errors.Wrap(err, "failed to fetch document "+key)
	}

	rev, _ := fields["_rev"].(string)
	d.log.Debug().Str("doc_id", key).Str("rev", rev).Bool("design", IsDesignID(key)).Msg("fetched document")
	return &Document{ID: key, Rev: rev, Fields: fields}, nil
}

// Cached returns the locally cached document, if any
func (d *Database) Cached(key string) (*Document, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	doc, ok := d.cache[key]
	return doc, ok
}

// Keys returns the ids of the cached documents, sorted
func (d *Database) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]string, 0, len(d.cache))
	for k := range d.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of cached documents
func (d *Database) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cache)
}
