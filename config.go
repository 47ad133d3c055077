package povodb

import "time"

/*
config holds values shared by the ui packages:
- the API base path and request timeout
- the default query cache policy (staleness, background refresh, retries, garbage collection)
- common maps used to validate enum values and to populate filter dropdowns
*/

// API
const (
	// APIBasePath is appended to the API origin. The UI also proxies this path so that browsers
	// can reach the API from the same origin.
	APIBasePath = "/api/v1"

	DefaultAPITimeout = 10 * time.Second
)

// query cache policy
const (
	DefaultStaleTime       = 5 * time.Minute
	DefaultRefetchInterval = 10 * time.Minute
	DefaultGCTime          = 5 * time.Minute

	// list queries retry twice, detail-by-id queries once. The asymmetry is deliberate policy
	// pending confirmation from the API owners.
	DefaultRetry = 2
	DetailRetry  = 1

	BaseRetryDelay = 1 * time.Second
	MaxRetryDelay  = 30 * time.Second
)

// filters
const (
	// FilterAll is the dropdown value meaning "do not filter on this field"
	FilterAll = "all"

	DefaultCountry  = "Brasil"
	DefaultPageSize = 20
)

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"perf":    true,
	"prod":    true,
	"staging": true,
}

// ValidEnvironment reports whether env is one of the supported deployment environments
func ValidEnvironment(env string) bool {
	return validEnvs[env]
}

// Parties lists the party codes offered in the politician filter dropdown (in display order)
var Parties = []string{"PT", "PL", "MDB", "PP", "PSDB", "PSB"}
