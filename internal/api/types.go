package api

// Welcome represents the response from GET /
type Welcome struct {
	CouchDB  string   `json:"couchdb"`
	Version  string   `json:"version"`
	GitSha   string   `json:"git_sha,omitempty"`
	UUID     string   `json:"uuid,omitempty"`
	Features []string `json:"features,omitempty"`
	Vendor   Vendor   `json:"vendor"`
}

// Vendor identifies the server distribution
type Vendor struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// UpResponse represents the response from GET /_up
type UpResponse struct {
	Status string         `json:"status"`
	Seeds  map[string]any `json:"seeds,omitempty"`
}

// LoginRequest represents the request body for POST /_session
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse represents the response from POST /_session
type LoginResponse struct {
	OK    bool     `json:"ok"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// SessionInfo represents the response from GET /_session
type SessionInfo struct {
	OK      bool           `json:"ok"`
	UserCtx UserContext    `json:"userCtx"`
	Info    SessionDetails `json:"info"`
}

// UserContext describes the authenticated user
type UserContext struct {
	Name  *string  `json:"name"`
	Roles []string `json:"roles"`
}

// SessionDetails describes how the session was authenticated
type SessionDetails struct {
	Authenticated          string   `json:"authenticated,omitempty"`
	AuthenticationDB       string   `json:"authentication_db,omitempty"`
	AuthenticationHandlers []string `json:"authentication_handlers,omitempty"`
}

// SuccessResponse is the generic {"ok": true} body
type SuccessResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the body CouchDB returns with non-2xx statuses
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}
