package filters

import (
	"context"
	"net/http"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/session"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// TokenFilterHandler resolves the session cookie exactly once per request and
// stores the result as a RequestContext in the request context. Handlers read
// identity from there instead of touching the cookie themselves.
type TokenFilterHandler struct {
	Name  string
	next  *common.RequestHandler
	Store *session.Store
}

func CreateTokenFilter(name string, store *session.Store) *TokenFilterHandler {
	return &TokenFilterHandler{
		Name:  name,
		next:  nil,
		Store: store,
	}
}

func (filter *TokenFilterHandler) SetNext(nextHandler common.RequestHandler) {
	filter.next = &nextHandler
}

func (filter *TokenFilterHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	requestContext := &common.RequestContext{
		RequestId: uuid.NewV4().String(),
	}
	if token, found := filter.Store.Read(request); found {
		requestContext.Token = token
	}

	log = log.WithField("requestId", requestContext.RequestId)
	log.Tracef("Resolved request context. Authenticated: %v", requestContext.Authenticated())

	newContext := context.WithValue(request.Context(), common.RequestContextKey, requestContext)
	newRequest := request.WithContext(newContext)

	if filter.next != nil {
		(*filter.next).Handle(log, writer, newRequest)
	} else {
		log.Debugf("Token filter error: %v. Next handler is empty", filter.Name)
	}
}
