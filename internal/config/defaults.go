package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultToolTimeoutSeconds = 60

	// DefaultCrawlMaxLen bounds crawled page content to keep tool results
	// from growing unbounded.
	DefaultCrawlMaxLen = 4000

	DefaultAnthropicModel = "claude-sonnet-4-6"

	DefaultElasticsearchPort       = 9200
	DefaultElasticsearchScheme     = "http"
	DefaultElasticsearchMaxRetries = 3
	DefaultElasticsearchIndex      = "searchai-documents"
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}
