package handlers

import (
	"net/http"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
)

// Comment report. Pass-through mode: the reporter identity always comes from
// the session cookie, a reporter field in the body is accepted but ignored.
type reportCommentHandler struct {
	client *upstream.Client
}

func NewReportCommentHandler(client *upstream.Client) *reportCommentHandler {
	return &reportCommentHandler{
		client: client,
	}
}

type reportCommentInput struct {
	CommentId int    `json:"comment_id" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
	Reporter  string `json:"reporter"`
}

func (handler *reportCommentHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodPost) {
		return
	}

	requestContext := common.ResolveRequestContext(request)

	var input reportCommentInput
	err := decodeInput(request, &input)
	if err != nil || !requestContext.Authenticated() {
		writeMessage(log, writer, 400, "Unauthorized or missing comment_id or reason")
		return
	}

	forwardPassThrough(log, writer, request, handler.client, upstream.Descriptor{
		Method: http.MethodPost,
		Path:   "/comments/report",
		Body: map[string]interface{}{
			"reporter":   string(requestContext.Token),
			"comment_id": input.CommentId,
			"reason":     input.Reason,
		},
	}, "report-comment")
}
