// Package errors provides domain-specific error definitions for gcouch.
// Only contains errors that are actually used in the codebase.
package errors

// --- Configuration errors (used in internal/couch) ---

var (
	// ErrCouchURIMissing indicates neither COUCH_DATABASE_URI nor COUCH_URI is configured
	ErrCouchURIMissing = &Error{
		Code:    "COUCH_URI_MISSING",
		Message: "COUCH_URI must be set",
		Err:     ErrNotConfigured,
	}

	// ErrCouchUserMissing indicates COUCH_USER is empty after configuration
	ErrCouchUserMissing = &Error{
		Code:    "COUCH_USER_MISSING",
		Message: "COUCH_USER must be set",
		Err:     ErrNotConfigured,
	}

	// ErrCouchPasswordMissing indicates COUCH_PASSWORD is empty after configuration
	ErrCouchPasswordMissing = &Error{
		Code:    "COUCH_PASSWORD_MISSING",
		Message: "COUCH_PASSWORD must be set",
		Err:     ErrNotConfigured,
	}

	// ErrNoApplication indicates an extension was used before being bound to an app
	ErrNoApplication = &Error{
		Code:    "NO_APPLICATION",
		Message: "no application found, either pass an application or call InitApp first",
		Err:     ErrNotConfigured,
	}
)
