package handlers

import (
	"net/http"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
)

// Follower add. Pass-through mode, cookie-derived follower identity.
type addFollowerHandler struct {
	client *upstream.Client
}

func NewAddFollowerHandler(client *upstream.Client) *addFollowerHandler {
	return &addFollowerHandler{
		client: client,
	}
}

type addFollowerInput struct {
	Following string `json:"following" validate:"required"`
	Follower  string `json:"follower"`
}

func (handler *addFollowerHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodPost) {
		return
	}

	requestContext := common.ResolveRequestContext(request)

	var input addFollowerInput
	err := decodeInput(request, &input)
	if err != nil || !requestContext.Authenticated() {
		writeMessage(log, writer, 400, "Unauthorized or missing following")
		return
	}

	forwardPassThrough(log, writer, request, handler.client, upstream.Descriptor{
		Method: http.MethodPost,
		Path:   "/users/followers/add",
		Body: map[string]interface{}{
			"follower":  string(requestContext.Token),
			"following": input.Following,
		},
	}, "add-follower")
}
