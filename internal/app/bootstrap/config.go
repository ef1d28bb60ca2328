// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for StudyHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_file, etc.
//   - Environment variables: STUDYHUB_API_BASE_URL, STUDYHUB_SESSION_FILE, etc.
//   - Command-line flags: --api_base_url, --session_file, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:5000", Desc: "Base URL of the StudyHub API"},
	{Name: "http_timeout", Default: "10s", Desc: "Per-request timeout for API calls (e.g., 10s, 1m)"},

	// Session storage
	{Name: "session_file", Default: "", Desc: "Path of the persisted session token (blank keeps it in memory)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session file encoding key (must be strong in production)"},

	// List display
	{Name: "page_size", Default: 10, Desc: "Rows per page in paged lists"},
	{Name: "search_debounce", Default: "300ms", Desc: "Quiet period before a search keystroke triggers a request"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so both WAFFLE and the app have access
// to configuration before the gateway or stores are built. WAFFLE's
// config.LoadWithAppConfig merges flags > env > files > defaults, with
// WAFFLE_* for core settings and STUDYHUB_* for app settings.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STUDYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL:  appValues.String("api_base_url"),
		HTTPTimeout: appValues.Duration("http_timeout", 10*time.Second),

		SessionFile: appValues.String("session_file"),
		SessionKey:  appValues.String("session_key"),

		PageSize:       appValues.Int("page_size"),
		SearchDebounce: appValues.Duration("search_debounce", 300*time.Millisecond),
	}

	if err := validateConfig(appCfg); err != nil {
		return nil, AppConfig{}, err
	}
	return coreCfg, appCfg, nil
}

// validateConfig rejects values the rest of the app cannot work with.
func validateConfig(cfg AppConfig) error {
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %v", cfg.HTTPTimeout)
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	if cfg.SessionFile != "" && len(cfg.SessionKey) < 16 {
		return fmt.Errorf("session_key too short for a persisted session")
	}
	return nil
}
