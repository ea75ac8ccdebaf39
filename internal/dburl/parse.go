package dburl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/NexusGPU/couchgo/internal/errors"
)

var rfc1738Pattern = regexp.MustCompile(`^(?P<name>[\w+]+)://` +
	`(?:(?P<username>[^:/]*)(?::(?P<password>.*))?@)?` +
	`(?:(?:\[(?P<ipv6host>[^/]+)\]|(?P<ipv4host>[^/:]+))?(?::(?P<port>[^/]*))?)?` +
	`(?:/(?P<database>.*))?$`)

var keyValuePattern = regexp.MustCompile(`^(\w+)://(.*)$`)

// ParseError reports a string that does not follow the connection URL grammar.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse rfc1738 URL from string %q", e.Raw)
}

func (e *ParseError) Unwrap() error {
	return errors.ErrMalformedURL
}

// Parse decomposes a connection string into a URL.
func Parse(raw string) (*URL, error) {
	m := rfc1738Pattern.FindStringSubmatchIndex(raw)
	if m == nil {
		return nil, &ParseError{Raw: raw}
	}
	group := func(name string) (string, bool) {
		i := rfc1738Pattern.SubexpIndex(name)
		if m[2*i] < 0 {
			return "", false
		}
		return raw[m[2*i]:m[2*i+1]], true
	}

	u := &URL{}
	u.scheme, _ = group("name")

	if username, ok := group("username"); ok {
		u.username, u.hasUsername = unquote(username, false), true
	}
	if password, ok := group("password"); ok {
		u.password, u.hasPassword = unquote(password, false), true
	}

	if host, ok := group("ipv6host"); ok {
		u.host = host
	} else if host, ok := group("ipv4host"); ok {
		u.host = host
	}

	if port, ok := group("port"); ok {
		u.port, u.hasPort = parsePort(port)
	}

	if database, ok := group("database"); ok {
		database, rawQuery, hasQuery := strings.Cut(database, "?")
		u.database, u.hasDatabase = database, true
		if hasQuery {
			u.query = parseQuery(rawQuery)
		}
	}

	return u, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(raw string) *URL {
	u, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// MakeURL accepts a connection string or an existing URL and returns a URL.
func MakeURL(v any) (*URL, error) {
	switch t := v.(type) {
	case string:
		return Parse(t)
	case *URL:
		return t, nil
	case URL:
		t.query = t.query.Clone()
		return &t, nil
	default:
		return nil, errors.BadRequest(fmt.Sprintf("cannot make a connection URL from %T", v))
	}
}

// ParseKeyValue parses the "scheme://key=value&..." form, where everything
// after the scheme is a query string.
func ParseKeyValue(raw string) (*URL, error) {
	m := keyValuePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, &ParseError{Raw: raw}
	}
	return &URL{scheme: m[1], query: parseQuery(m[2])}, nil
}

// parsePort treats empty, non-numeric and out of range text as absent.
func parsePort(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false
	}
	return int(port), true
}

// parseQuery splits on '&' and keeps only pairs with a non-empty value.
func parseQuery(raw string) Query {
	var q Query
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if value == "" {
			continue
		}
		q.Add(unquote(key, true), unquote(value, true))
	}
	return q
}
