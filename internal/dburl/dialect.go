package dburl

import "fmt"

// Dialects resolves the default driver of a backend whose scheme names no
// driver explicitly.
type Dialects interface {
	DefaultDriver(backend string) (string, bool)
}

// DialectMap is a Dialects backed by a backend -> driver map.
type DialectMap map[string]string

// DefaultDriver implements Dialects.
func (m DialectMap) DefaultDriver(backend string) (string, bool) {
	driver, ok := m[backend]
	return driver, ok
}

// DefaultDialects maps CouchDB style backends to the HTTP transport they
// are reached over. "couch+https://..." selects the transport explicitly.
var DefaultDialects = DialectMap{
	"couch":   "http",
	"couchdb": "http",
	"http":    "http",
	"https":   "https",
}

// UnknownDialectError is returned by DriverName when no default driver is
// known for the backend.
type UnknownDialectError struct {
	Backend string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("no default driver for backend %q", e.Backend)
}
