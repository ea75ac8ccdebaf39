package couch

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
)

const (
	testUser     = "admin"
	testPassword = "secret"
)

// fakeCouch is an in-memory stand-in for the CouchDB endpoints the package
// touches.
type fakeCouch struct {
	*httptest.Server

	mu       sync.Mutex
	dbs      map[string]map[string]map[string]any
	gets     map[string]int
	logins   int
	logouts  int
	sessions map[string]bool
}

func newFakeCouch() *fakeCouch {
	f := &fakeCouch{
		dbs:      make(map[string]map[string]map[string]any),
		gets:     make(map[string]int),
		sessions: make(map[string]bool),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

// hostPort is the server address without a scheme
func (f *fakeCouch) hostPort() string {
	return strings.TrimPrefix(f.URL, "http://")
}

func (f *fakeCouch) addDB(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dbs[name] == nil {
		f.dbs[name] = make(map[string]map[string]any)
	}
}

func (f *fakeCouch) putDoc(db, id string, fields map[string]any) {
	f.addDB(db)
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := map[string]any{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	if _, ok := doc["_rev"]; !ok {
		doc["_rev"] = "1-abc"
	}
	f.dbs[db][id] = doc
}

func (f *fakeCouch) hasDB(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.dbs[name]
	return ok
}

func (f *fakeCouch) getCount(db, id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[db+"/"+id]
}

func (f *fakeCouch) counts() (logins, logouts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins, f.logouts
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeCouch) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	switch path {
	case "":
		writeJSON(w, http.StatusOK, map[string]any{
			"couchdb": "Welcome",
			"version": "3.3.3",
			"vendor":  map[string]string{"name": "The Apache Software Foundation"},
		})
		return
	case "_up":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	case "_session":
		f.serveSession(w, r)
		return
	case "_all_dbs":
		f.mu.Lock()
		names := make([]string, 0, len(f.dbs))
		for name := range f.dbs {
			names = append(names, name)
		}
		f.mu.Unlock()
		sort.Strings(names)
		writeJSON(w, http.StatusOK, names)
		return
	}

	dbName, docID, hasDoc := strings.Cut(path, "/")
	if !hasDoc {
		f.serveDB(w, r, dbName)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets[dbName+"/"+docID]++
	doc, ok := f.dbs[dbName][docID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "reason": "missing"})
		return
	}
	w.Header().Set("ETag", `"`+doc["_rev"].(string)+`"`)
	writeJSON(w, http.StatusOK, doc)
}

func (f *fakeCouch) serveDB(w http.ResponseWriter, r *http.Request, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exists := f.dbs[name]
	switch r.Method {
	case http.MethodHead:
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		if exists {
			writeJSON(w, http.StatusPreconditionFailed, map[string]string{
				"error":  "file_exists",
				"reason": "The database could not be created, the file already exists.",
			})
			return
		}
		f.dbs[name] = make(map[string]map[string]any)
		writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
	default:
		if !exists {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "reason": "Database does not exist."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"db_name": name, "doc_count": len(f.dbs[name])})
	}
}

func (f *fakeCouch) serveSession(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPost:
		body := sessionCredentials(r)
		if body.Name != testUser || body.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":  "unauthorized",
				"reason": "Name or password is incorrect.",
			})
			return
		}
		f.logins++
		token := "token-" + body.Name
		f.sessions[token] = true
		http.SetCookie(w, &http.Cookie{Name: "AuthSession", Value: token, Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "name": body.Name, "roles": []string{"_admin"}})
	case http.MethodDelete:
		f.logouts++
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		var name any
		if user, pass, ok := r.BasicAuth(); ok && user == testUser && pass == testPassword {
			name = user
		} else if c, err := r.Cookie("AuthSession"); err == nil && f.sessions[c.Value] {
			name = testUser
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"userCtx": map[string]any{"name": name, "roles": []string{}},
			"info":    map[string]any{"authentication_handlers": []string{"cookie", "default"}},
		})
	}
}

type credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// sessionCredentials accepts both JSON and form encoded login bodies.
func sessionCredentials(r *http.Request) credentials {
	var c credentials
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return c
	}
	if json.Unmarshal(raw, &c) == nil && c.Name != "" {
		return c
	}
	form, err := url.ParseQuery(string(raw))
	if err != nil {
		return c
	}
	return credentials{Name: form.Get("name"), Password: form.Get("password")}
}
