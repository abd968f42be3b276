package handlers

import (
	"net/http"
	"net/url"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Email notification status. Soft reshape mode: {enabled:false} is the answer
// for an anonymous caller and for every upstream failure, always 200. The
// feature simply appears off.
type emailStatusHandler struct {
	client *upstream.Client
}

func NewEmailStatusHandler(client *upstream.Client) *emailStatusHandler {
	return &emailStatusHandler{
		client: client,
	}
}

type emailStatusResponse struct {
	Enabled bool `json:"enabled"`
}

func (handler *emailStatusHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodGet) {
		return
	}

	requestContext := common.ResolveRequestContext(request)
	if !requestContext.Authenticated() {
		writeJson(log, writer, 200, emailStatusResponse{Enabled: false})
		return
	}

	response, err := handler.client.Forward(request.Context(), upstream.Descriptor{
		Method: http.MethodGet,
		Path:   "/notifications/emails?token=" + url.QueryEscape(string(requestContext.Token)),
	})
	if err != nil || !response.Successful() {
		if err != nil {
			log.Warnf("Operation email-status upstream error: %v", err)
		}
		writeJson(log, writer, 200, emailStatusResponse{Enabled: false})
		return
	}

	enabled := gjson.GetBytes(response.Body, "enabled").Bool()
	writeJson(log, writer, 200, emailStatusResponse{Enabled: enabled})
}
