package handlers

import (
	"net/http"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
)

// Favorite removal. Pass-through mode: the owner identity always comes from
// the session cookie, never from the body.
type removeFavoriteHandler struct {
	client *upstream.Client
}

func NewRemoveFavoriteHandler(client *upstream.Client) *removeFavoriteHandler {
	return &removeFavoriteHandler{
		client: client,
	}
}

type removeFavoriteInput struct {
	ItemId string `json:"item_id" validate:"required"`
	Owner  string `json:"owner"`
}

func (handler *removeFavoriteHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodDelete) {
		return
	}

	requestContext := common.ResolveRequestContext(request)

	var input removeFavoriteInput
	err := decodeInput(request, &input)
	if err != nil || !requestContext.Authenticated() {
		writeMessage(log, writer, 400, "Unauthorized or missing item_id")
		return
	}

	forwardPassThrough(log, writer, request, handler.client, upstream.Descriptor{
		Method: http.MethodDelete,
		Path:   "/favorites",
		Body: map[string]interface{}{
			"owner":   string(requestContext.Token),
			"item_id": input.ItemId,
		},
	}, "remove-favorite")
}
