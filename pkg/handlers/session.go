package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
)

// Session view. Reshape mode: resolves the cookie token against the upstream
// current-user endpoint. {user:null} is the legitimate anonymous answer and
// also the fallback for every upstream failure, always with status 200.
type sessionHandler struct {
	client *upstream.Client
}

func NewSessionHandler(client *upstream.Client) *sessionHandler {
	return &sessionHandler{
		client: client,
	}
}

type sessionResponse struct {
	User *common.UserProfile `json:"user"`
}

func (handler *sessionHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodGet) {
		return
	}

	// The session must never be served stale by any intermediary.
	writer.Header().Set("Cache-Control", "no-store, max-age=0")
	writer.Header().Set("Pragma", "no-cache")

	requestContext := common.ResolveRequestContext(request)
	if !requestContext.Authenticated() {
		writeJson(log, writer, 200, sessionResponse{User: nil})
		return
	}

	response, err := handler.client.Forward(request.Context(), upstream.Descriptor{
		Method: http.MethodGet,
		Path:   "/users/current?token=" + url.QueryEscape(string(requestContext.Token)),
	})
	if err != nil || !response.Successful() {
		if err != nil {
			log.Warnf("Operation session upstream error: %v", err)
		}
		writeJson(log, writer, 200, sessionResponse{User: nil})
		return
	}

	var profile common.UserProfile
	if err := json.Unmarshal(response.Body, &profile); err != nil {
		log.Warnf("Operation session upstream parse error: %v", err)
		writeJson(log, writer, 200, sessionResponse{User: nil})
		return
	}
	writeJson(log, writer, 200, sessionResponse{User: &profile})
}
