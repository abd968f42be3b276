package context

type FilterType string

const (
	LogFilter     FilterType = "LogFilter"
	TokenFilter   FilterType = "TokenFilter"
	MetricsFilter FilterType = "MetricsFilter"
	CsrfFilter    FilterType = "CsrfFilter"
)

type Filter struct {
	Type        FilterType
	Name        string
	Template    string
	HeaderName  string   `mapstructure:"header-name"`
	SafeMethods []string `mapstructure:"safe-methods"`
}

type CookieConfiguration struct {
	Name       string
	LegacyName string `mapstructure:"legacy-name"`
	Path       string
	Domain     string
	Secure     bool
	TTLHours   int `mapstructure:"ttl-hours"`
}

type UpstreamConfiguration struct {
	BaseUrl           string `mapstructure:"base-url"`
	PublicUrl         string `mapstructure:"public-url"`
	TimeoutSeconds    int    `mapstructure:"timeout-seconds"`
	CacheEvictMinutes int    `mapstructure:"cache-evict-minutes"`
}

// RevalidateConfiguration carries the per-route read-revalidation windows for
// the slow-changing endpoints. Zero disables the window for that route.
type RevalidateConfiguration struct {
	TradesSeconds  int `mapstructure:"trades-seconds"`
	VersionSeconds int `mapstructure:"version-seconds"`
	LatestSeconds  int `mapstructure:"latest-seconds"`
}

type Secrets struct {
	OauthState string `mapstructure:"oauth-state"`
	Csrf       string `mapstructure:"csrf"`
}

type LogLevel string

const (
	Debug LogLevel = "debug"
	Trace LogLevel = "trace"
	Info  LogLevel = "info"
)

type GatewayConfiguration struct {
	LogLevel   LogLevel `mapstructure:"log-level"`
	Port       int
	Upstream   UpstreamConfiguration
	Cookie     CookieConfiguration
	Revalidate RevalidateConfiguration
	Filters    []Filter
	Secrets    Secrets `mapstructure:"secrets"`
}
