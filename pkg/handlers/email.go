package handlers

import (
	"net/http"
	"net/url"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/session"
	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Email link status. Soft reshape mode like the notification status, with one
// extra twist: the legacy jbcl_token cookie is still accepted here, it is the
// one flow that predates the cookie rename.
type emailLinkedHandler struct {
	client *upstream.Client
	store  *session.Store
}

func NewEmailLinkedHandler(client *upstream.Client, store *session.Store) *emailLinkedHandler {
	return &emailLinkedHandler{
		client: client,
		store:  store,
	}
}

type emailLinkedResponse struct {
	Linked bool `json:"linked"`
}

func (handler *emailLinkedHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodGet) {
		return
	}

	token := handler.resolveToken(request)
	if token == "" {
		writeJson(log, writer, 200, emailLinkedResponse{Linked: false})
		return
	}

	response, err := handler.client.Forward(request.Context(), upstream.Descriptor{
		Method: http.MethodGet,
		Path:   "/users/email?token=" + url.QueryEscape(string(token)),
	})
	if err != nil || !response.Successful() {
		if err != nil {
			log.Warnf("Operation email-linked upstream error: %v", err)
		}
		writeJson(log, writer, 200, emailLinkedResponse{Linked: false})
		return
	}

	linked := gjson.GetBytes(response.Body, "linked").Bool()
	writeJson(log, writer, 200, emailLinkedResponse{Linked: linked})
}

func (handler *emailLinkedHandler) resolveToken(request *http.Request) common.Token {
	requestContext := common.ResolveRequestContext(request)
	if requestContext.Authenticated() {
		return requestContext.Token
	}
	if legacy, found := handler.store.ReadLegacy(request); found {
		return legacy
	}
	return ""
}
