// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds app-specific configuration for StudyHub.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings like logging level and format; AppConfig is
// where everything specific to this client lives: the API endpoint,
// session storage, and list-display defaults.
type AppConfig struct {
	// StudyHub API configuration
	APIBaseURL  string        // Base URL of the StudyHub API (e.g., http://localhost:5000)
	HTTPTimeout time.Duration // Per-request timeout for API calls

	// Session management configuration
	SessionFile string // Path of the persisted session token (blank keeps it in memory)
	SessionKey  string // Secret key for encoding the session file (must be strong in production)

	// List display configuration
	PageSize       int           // Rows per page in paged lists
	SearchDebounce time.Duration // Quiet period before a search keystroke triggers a request
}
