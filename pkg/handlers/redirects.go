package handlers

import (
	"net/http"
	"time"

	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Latest-entity redirects (changelogs, seasons). Redirect mode: the id of the
// latest entry is looked up upstream and the browser is bounced to its page.
// A failed lookup falls back to the listing page instead of erroring the
// navigation.
type latestRedirectHandler struct {
	client         *upstream.Client
	upstreamPath   string
	idPath         string
	targetPrefix   string
	fallbackTarget string
	revalidate     time.Duration
}

func NewLatestRedirectHandler(
	client *upstream.Client,
	upstreamPath string,
	idPath string,
	targetPrefix string,
	fallbackTarget string,
	revalidate time.Duration,
) *latestRedirectHandler {
	return &latestRedirectHandler{
		client:         client,
		upstreamPath:   upstreamPath,
		idPath:         idPath,
		targetPrefix:   targetPrefix,
		fallbackTarget: fallbackTarget,
		revalidate:     revalidate,
	}
}

func NewLatestChangelogHandler(client *upstream.Client, revalidate time.Duration) *latestRedirectHandler {
	return NewLatestRedirectHandler(client, "/changelogs/latest", "id", "/changelogs/", "/changelogs", revalidate)
}

func NewLatestSeasonHandler(client *upstream.Client, revalidate time.Duration) *latestRedirectHandler {
	return NewLatestRedirectHandler(client, "/seasons/latest", "season", "/seasons/", "/seasons", revalidate)
}

func (handler *latestRedirectHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodGet) {
		return
	}

	response, err := handler.client.Forward(request.Context(), upstream.Descriptor{
		Method:     http.MethodGet,
		Path:       handler.upstreamPath,
		Revalidate: handler.revalidate,
	})
	if err != nil || !response.Successful() {
		if err != nil {
			log.Warnf("Operation latest-redirect upstream error: %v", err)
		}
		http.Redirect(writer, request, handler.fallbackTarget, 302)
		return
	}

	id := gjson.GetBytes(response.Body, handler.idPath)
	if !id.Exists() || id.String() == "" {
		log.Warnf("Operation latest-redirect upstream response carries no %v field", handler.idPath)
		http.Redirect(writer, request, handler.fallbackTarget, 302)
		return
	}
	http.Redirect(writer, request, handler.targetPrefix+id.String(), 302)
}
