package context

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/filters"
	"github.com/jbchangelogs/gateway/pkg/handlers"
	"github.com/jbchangelogs/gateway/pkg/serializers"
	"github.com/jbchangelogs/gateway/pkg/session"
	"github.com/jbchangelogs/gateway/pkg/upstream"
	log "github.com/sirupsen/logrus"
)

type context struct {
	config            *GatewayConfiguration
	upstreamClient    *upstream.Client
	sessionStore      *session.Store
	metrics           *filters.GatewayMetrics
	serverMultiplexer *http.ServeMux
}

func NewContext(config *GatewayConfiguration) *context {
	applyDefaults(config)

	upstreamClient := upstream.NewClient(
		config.Upstream.BaseUrl,
		time.Second*time.Duration(config.Upstream.TimeoutSeconds),
		time.Minute*time.Duration(config.Upstream.CacheEvictMinutes),
	)
	sessionStore := session.NewStore(
		config.Cookie.Name,
		config.Cookie.LegacyName,
		config.Cookie.Path,
		config.Cookie.Domain,
		config.Cookie.Secure,
		config.Cookie.TTLHours,
	)

	return &context{
		config:            config,
		upstreamClient:    upstreamClient,
		sessionStore:      sessionStore,
		serverMultiplexer: http.NewServeMux(),
	}
}

func applyDefaults(config *GatewayConfiguration) {
	if config.Cookie.Name == "" {
		config.Cookie.Name = "token"
	}
	if config.Cookie.Path == "" {
		config.Cookie.Path = "/"
	}
	if config.Cookie.TTLHours == 0 {
		config.Cookie.TTLHours = 24 * 30
	}
	if config.Upstream.CacheEvictMinutes == 0 {
		config.Upstream.CacheEvictMinutes = 5
	}
}

// SetupRoutes registers every gateway route behind the configured filter
// chain. The route set is fixed, only the upstream origins, cookie settings
// and filters come from configuration.
func (ctx *context) SetupRoutes() {
	var stateSerializer handlers.RedirectStateSerializer
	if ctx.config.Secrets.OauthState != "" {
		stateSerializer = serializers.NewRedirectStateSerializer(ctx.config.Secrets.OauthState)
	} else {
		log.Warnf("OAuth state secret is not configured, redirect targets will not be signed")
	}

	tradesWindow := time.Second * time.Duration(ctx.config.Revalidate.TradesSeconds)
	versionWindow := time.Second * time.Duration(ctx.config.Revalidate.VersionSeconds)
	latestWindow := time.Second * time.Duration(ctx.config.Revalidate.LatestSeconds)

	routes := map[string]common.RequestHandler{
		"/api/auth/discord":                handlers.NewDiscordLoginHandler(ctx.config.Upstream.PublicUrl, stateSerializer),
		"/api/auth/callback":               handlers.NewAuthCallbackHandler(ctx.sessionStore, stateSerializer),
		"/api/auth/logout":                 handlers.NewLogoutHandler(ctx.sessionStore, ctx.upstreamClient),
		"/api/auth/token":                  handlers.NewTokenHandler(),
		"/api/session":                     handlers.NewSessionHandler(ctx.upstreamClient),
		"/api/comments/report":             handlers.NewReportCommentHandler(ctx.upstreamClient),
		"/api/favorites/remove":            handlers.NewRemoveFavoriteHandler(ctx.upstreamClient),
		"/api/users/followers/add":         handlers.NewAddFollowerHandler(ctx.upstreamClient),
		"/api/users/email/linked":          handlers.NewEmailLinkedHandler(ctx.upstreamClient, ctx.sessionStore),
		"/api/trades/recent":               handlers.NewRecentTradesHandler(ctx.upstreamClient, tradesWindow),
		"/api/notifications/emails/status": handlers.NewEmailStatusHandler(ctx.upstreamClient),
		"/api/version":                     handlers.NewVersionHandler(ctx.upstreamClient, versionWindow),
		"/api/changelogs/latest":           handlers.NewLatestChangelogHandler(ctx.upstreamClient, latestWindow),
		"/api/seasons/latest":              handlers.NewLatestSeasonHandler(ctx.upstreamClient, latestWindow),
		"/healthz":                         handlers.NewHealthHandler(),
	}

	for pattern, handler := range routes {
		log.Debugf("Adding route. Pattern: %s", pattern)
		rootFilterHandler := ctx.BuildFilterHandlers(ctx.config.Filters, handler)
		ctx.handle(pattern, rootFilterHandler)
	}

	if ctx.metrics != nil {
		ctx.serverMultiplexer.Handle("/metrics", ctx.metrics.Handler())
	}
}

func (ctx *context) handle(pattern string, handler common.RequestHandler) {
	entry := log.WithField("route", pattern)
	ctx.serverMultiplexer.HandleFunc(pattern, func(writer http.ResponseWriter, request *http.Request) {
		handler.Handle(entry, writer, request)
	})
}

func (ctx *context) BuildFilterHandlers(filterConfigs []Filter, mainHandler common.RequestHandler) (rootHandler common.RequestHandler) {
	if filterConfigs == nil {
		return mainHandler
	}

	currentHandler := mainHandler

	for i := len(filterConfigs) - 1; i >= 0; i-- {
		filter := filterConfigs[i]

		handler := ctx.BuildFilterHandler(filter)

		if handler == nil {
			continue
		}

		handler.SetNext(currentHandler)
		currentHandler = handler
	}

	return currentHandler
}

func (ctx *context) BuildFilterHandler(filter Filter) common.RequestChainedHandler {
	switch filter.Type {
	case LogFilter:
		log.Debugf("Adding Log filter. Name: %s", filter.Name)
		return filters.CreateLogFilter(filter.Name, filter.Template, nil)
	case TokenFilter:
		log.Debugf("Adding token filter. Name: %s", filter.Name)
		return filters.CreateTokenFilter(filter.Name, ctx.sessionStore)
	case MetricsFilter:
		log.Debugf("Adding metrics filter. Name: %s", filter.Name)
		if ctx.metrics == nil {
			ctx.metrics = filters.NewGatewayMetrics()
		}
		return filters.CreateMetricsFilter(filter.Name, ctx.metrics)
	case CsrfFilter:
		log.Debugf("Adding CSRF filter. Name: %s", filter.Name)
		if ctx.config.Secrets.Csrf == "" {
			panic(fmt.Errorf("CSRF filter '%v' requires a configured csrf secret.\n", filter.Name))
		}
		return filters.NewCsrfFilter(filter.Name, filter.HeaderName, filter.SafeMethods, ctx.config.Secrets.Csrf)
	default:
		panic(fmt.Errorf("Undefined filter type: %v.\n", filter.Type))
	}
}

func (ctx *context) BuildServer(port int) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%v", port),
		Handler: ctx.serverMultiplexer,
	}
}
