package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
)

const (
	defaultTradesLimit = 12
	maxTradesLimit     = 50
)

// Recent trades. Pass-through mode, anonymous, slow-changing data served
// through a short revalidation window.
type recentTradesHandler struct {
	client     *upstream.Client
	revalidate time.Duration
}

func NewRecentTradesHandler(client *upstream.Client, revalidate time.Duration) *recentTradesHandler {
	return &recentTradesHandler{
		client:     client,
		revalidate: revalidate,
	}
}

func (handler *recentTradesHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodGet) {
		return
	}

	limit := clampTradesLimit(request.URL.Query().Get("limit"))

	forwardPassThrough(log, writer, request, handler.client, upstream.Descriptor{
		Method:     http.MethodGet,
		Path:       "/trades/recent?limit=" + strconv.Itoa(limit),
		Revalidate: handler.revalidate,
	}, "recent-trades")
}

// clampTradesLimit floors fractional values and maps anything non-positive or
// unparsable to the default.
func clampTradesLimit(raw string) int {
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultTradesLimit
	}
	limit := int(math.Floor(parsed))
	if limit <= 0 {
		return defaultTradesLimit
	}
	if limit > maxTradesLimit {
		return maxTradesLimit
	}
	return limit
}
