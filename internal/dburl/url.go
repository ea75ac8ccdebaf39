// Package dburl parses and renders RFC 1738 style database connection URLs
// of the form
//
//	scheme://[username[:password]@][host|[ipv6host]][:port][/database][?query]
//
// The scheme may carry a backend and a driver separated by '+', for example
// "couch+https". Rendering masks the password unless explicitly revealed and
// never emits the query component.
package dburl

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// PasswordMask replaces the password when a URL is rendered without reveal.
const PasswordMask = "***"

// URL is a parsed connection string. The zero value is not valid; build one
// with Parse or New.
type URL struct {
	scheme string

	username    string
	hasUsername bool
	password    string
	hasPassword bool

	host string

	port    int
	hasPort bool

	database    string
	hasDatabase bool

	query Query
}

// Option configures a URL built with New
type Option func(*URL)

// WithUser sets the username
func WithUser(username string) Option {
	return func(u *URL) {
		u.username = username
		u.hasUsername = true
	}
}

// WithPassword sets the password
func WithPassword(password string) Option {
	return func(u *URL) {
		u.SetPassword(password)
	}
}

// WithHost sets the host. IPv6 literals are given without brackets.
func WithHost(host string) Option {
	return func(u *URL) {
		u.host = host
	}
}

// WithPort sets the port
func WithPort(port int) Option {
	return func(u *URL) {
		u.port = port
		u.hasPort = true
	}
}

// WithDatabase sets the database path segment
func WithDatabase(database string) Option {
	return func(u *URL) {
		u.database = database
		u.hasDatabase = true
	}
}

// WithQuery sets the query parameters. The query is copied.
func WithQuery(q Query) Option {
	return func(u *URL) {
		u.query = q.Clone()
	}
}

// New builds a URL from its fields.
func New(scheme string, opts ...Option) *URL {
	u := &URL{scheme: scheme}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Scheme returns the full scheme, including any "+driver" suffix.
func (u *URL) Scheme() string { return u.scheme }

// Username returns the percent-decoded username and whether one was given.
func (u *URL) Username() (string, bool) { return u.username, u.hasUsername }

// Password returns the percent-decoded password and whether one was given.
func (u *URL) Password() (string, bool) { return u.password, u.hasPassword }

// Host returns the host without IPv6 brackets, or "" when absent.
func (u *URL) Host() string { return u.host }

// Port returns the port and whether one was given.
func (u *URL) Port() (int, bool) { return u.port, u.hasPort }

// Database returns the path after the host and whether one was given.
func (u *URL) Database() (string, bool) { return u.database, u.hasDatabase }

// Query returns a copy of the query parameters.
func (u *URL) Query() Query { return u.query.Clone() }

// SetPassword replaces the stored password used for rendering.
func (u *URL) SetPassword(password string) {
	u.password = password
	u.hasPassword = true
}

// ClearPassword removes the password.
func (u *URL) ClearPassword() {
	u.password = ""
	u.hasPassword = false
}

// BackendName returns the scheme before the first '+', or the whole scheme.
func (u *URL) BackendName() string {
	backend, _, _ := strings.Cut(u.scheme, "+")
	return backend
}

// DriverName returns the scheme after the first '+'. Without a '+' the
// backend's default driver is looked up in dialects, or in DefaultDialects
// when dialects is nil.
func (u *URL) DriverName(dialects Dialects) (string, error) {
	if _, driver, ok := strings.Cut(u.scheme, "+"); ok {
		return driver, nil
	}
	if dialects == nil {
		dialects = DefaultDialects
	}
	backend := u.BackendName()
	driver, ok := dialects.DefaultDriver(backend)
	if !ok {
		return "", &UnknownDialectError{Backend: backend}
	}
	return driver, nil
}

// HostPort returns the host, bracketed when it is an IPv6 literal, followed
// by ":port" when a port is set.
func (u *URL) HostPort() string {
	var b strings.Builder
	u.writeHostPort(&b)
	return b.String()
}

func (u *URL) writeHostPort(b *strings.Builder) {
	if u.host != "" {
		if strings.Contains(u.host, ":") {
			b.WriteString("[" + u.host + "]")
		} else {
			b.WriteString(u.host)
		}
	}
	if u.hasPort {
		b.WriteString(":" + strconv.Itoa(u.port))
	}
}

// Render rebuilds the connection string. The password is masked unless
// revealPassword is set. The query component is never rendered.
func (u *URL) Render(revealPassword bool) string {
	var b strings.Builder
	b.WriteString(u.scheme)
	b.WriteString("://")
	if u.hasUsername {
		b.WriteString(quote(u.username))
		if u.hasPassword {
			b.WriteByte(':')
			if revealPassword {
				b.WriteString(quote(u.password))
			} else {
				b.WriteString(PasswordMask)
			}
		}
		b.WriteByte('@')
	}
	u.writeHostPort(&b)
	if u.hasDatabase {
		b.WriteString("/" + u.database)
	}
	return b.String()
}

// String renders the URL with the password masked, so it is safe to log.
func (u *URL) String() string {
	return u.Render(false)
}

// Equal reports whether both URLs carry the same scheme, credentials, host,
// port, database and query.
func (u *URL) Equal(o *URL) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.scheme == o.scheme &&
		u.hasUsername == o.hasUsername && u.username == o.username &&
		u.hasPassword == o.hasPassword && u.password == o.password &&
		u.host == o.host &&
		u.hasDatabase == o.hasDatabase && u.database == o.database &&
		u.query.Equal(o.query) &&
		u.hasPort == o.hasPort && u.port == o.port
}

// Hash returns a hash of the revealed rendering. Equal URLs hash equal.
func (u *URL) Hash() uint64 {
	return xxhash.Sum64String(u.Render(true))
}

// TranslateConnectArgs maps the host, database, username, password and port
// attributes onto caller-chosen keys. Positional names are consumed first in
// that attribute order, then renames, otherwise the attribute name is used.
// An empty name drops the attribute, as do empty values and a zero port.
func (u *URL) TranslateConnectArgs(names []string, renames map[string]string) map[string]any {
	attrs := []struct {
		name  string
		value any
		set   bool
	}{
		{"host", u.host, u.host != ""},
		{"database", u.database, u.database != ""},
		{"username", u.username, u.username != ""},
		{"password", u.password, u.password != ""},
		{"port", u.port, u.hasPort && u.port != 0},
	}

	translated := make(map[string]any)
	for _, attr := range attrs {
		name := attr.name
		if len(names) > 0 {
			name, names = names[0], names[1:]
		} else if rename, ok := renames[attr.name]; ok {
			name = rename
		}
		if name != "" && attr.set {
			translated[name] = attr.value
		}
	}
	return translated
}
