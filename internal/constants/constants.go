package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API defaults.
const (
	// DefaultAPIVersion is sent as X-Api-Version on every request.
	DefaultAPIVersion = "2.29"

	// BaseURLTemplate builds a site's endpoint from its subdomain.
	BaseURLTemplate = "https://%s.recurly.com/v2"

	// DefaultUserAgent identifies the client when no override is configured.
	DefaultUserAgent = "recurly-client-go/1.0.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 60 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are disabled unless a caller opts in.
const (
	// DefaultRetryMax keeps the dispatcher to a single attempt per request.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between opted-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between opted-in retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Concurrency limits.
const (
	// DefaultConcurrencyLimit limits caller-side fan-out such as link resolution.
	DefaultConcurrencyLimit = 4
)

// Content types.
const (
	// ContentTypeXML is accepted on every request.
	ContentTypeXML = "application/xml"

	// ContentTypeXMLUTF8 is sent with every request body.
	ContentTypeXMLUTF8 = "application/xml; charset=utf-8"
)

// Response header names, in canonical form.
const (
	HeaderTotalRecords       = "Recurly-Total-Records"
	HeaderLegacyTotalRecords = "X-Records"
	HeaderRateLimitLimit     = "X-Ratelimit-Limit"
	HeaderRateLimitRemaining = "X-Ratelimit-Remaining"
	HeaderRateLimitReset     = "X-Ratelimit-Reset"
	HeaderRequestID          = "X-Request-Id"
	HeaderLink               = "Link"
	HeaderContentType        = "Content-Type"
	HeaderAPIVersion         = "X-Api-Version"
)

// Pagination and display limits.
const (
	// DefaultPageSize is the server's page size when per_page is not sent.
	DefaultPageSize = 50

	// MaxPageSize is the largest per_page the API accepts.
	MaxPageSize = 200

	// StandardPageSize is used by the CLI's list commands.
	StandardPageSize = 50
)

// Output formats.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// VisibleKeySuffix is the number of trailing API key characters shown by config show.
	VisibleKeySuffix = 4

	// CentsPerUnit converts minor currency units for display.
	CentsPerUnit = 100
)
