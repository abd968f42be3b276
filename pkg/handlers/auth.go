package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jbchangelogs/gateway/pkg/common"
	"github.com/jbchangelogs/gateway/pkg/session"
	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
)

// RedirectStateSerializer signs and verifies the post-login redirect target
// carried across the OAuth round trip.
type RedirectStateSerializer interface {
	Serialize(redirect string) (string, error)
	Deserialize(state string) (string, error)
}

const defaultLoginTarget = "/"

// Discord OAuth kick-off. Redirect mode: the gateway never talks to the
// identity provider itself, it sends the browser to the upstream oauth
// endpoint with the caller's redirect target URL-encoded and signed.
type discordLoginHandler struct {
	publicUrl       string
	stateSerializer RedirectStateSerializer
}

func NewDiscordLoginHandler(publicUrl string, stateSerializer RedirectStateSerializer) *discordLoginHandler {
	return &discordLoginHandler{
		publicUrl:       publicUrl,
		stateSerializer: stateSerializer,
	}
}

func (handler *discordLoginHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodGet) {
		return
	}

	redirect := request.URL.Query().Get("redirect")
	if redirect == "" {
		redirect = defaultLoginTarget
	}

	target := handler.publicUrl + "/oauth?redirect=" + url.QueryEscape(redirect)
	if handler.stateSerializer != nil {
		state, err := handler.stateSerializer.Serialize(redirect)
		if err != nil {
			log.Warnf("Operation discord-login state signing error: %v", err)
		} else {
			target += "&state=" + url.QueryEscape(state)
		}
	}
	http.Redirect(writer, request, target, 302)
}

// OAuth callback. The identity provider bounces back with the freshly issued
// token, the gateway stores it as the session cookie and finishes the
// navigation. A bad or missing state never fails the navigation, it only
// falls back to the default target.
type authCallbackHandler struct {
	store           *session.Store
	stateSerializer RedirectStateSerializer
}

func NewAuthCallbackHandler(store *session.Store, stateSerializer RedirectStateSerializer) *authCallbackHandler {
	return &authCallbackHandler{
		store:           store,
		stateSerializer: stateSerializer,
	}
}

func (handler *authCallbackHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodGet) {
		return
	}

	token := request.URL.Query().Get("token")
	if token == "" || token == "undefined" {
		log.Warnf("Operation auth-callback called without a token")
		http.Redirect(writer, request, defaultLoginTarget, 302)
		return
	}

	target := defaultLoginTarget
	if state := request.URL.Query().Get("state"); state != "" && handler.stateSerializer != nil {
		redirect, err := handler.stateSerializer.Deserialize(state)
		if err != nil {
			log.Warnf("Operation auth-callback state verification error: %v", err)
		} else if strings.HasPrefix(redirect, "/") {
			// Only site-relative targets, the state must never turn the
			// callback into an open redirect.
			target = redirect
		}
	}

	handler.store.Set(writer, common.Token(token))
	http.Redirect(writer, request, target, 302)
}

// Logout. Reshape mode: upstream invalidation is best effort, the cookie is
// always cleared and the response is always {ok:true}, so a second logout
// with no cookie behaves identically.
type logoutHandler struct {
	store  *session.Store
	client *upstream.Client
}

func NewLogoutHandler(store *session.Store, client *upstream.Client) *logoutHandler {
	return &logoutHandler{
		store:  store,
		client: client,
	}
}

type logoutResponse struct {
	Ok bool `json:"ok"`
}

func (handler *logoutHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodPost) {
		return
	}

	requestContext := common.ResolveRequestContext(request)
	if requestContext.Authenticated() {
		_, err := handler.client.Forward(request.Context(), upstream.Descriptor{
			Method: http.MethodPost,
			Path:   "/oauth/token/invalidate",
			Body:   map[string]string{"token": string(requestContext.Token)},
		})
		if err != nil {
			log.Warnf("Operation logout upstream invalidate error: %v", err)
		}
	}

	handler.store.Clear(writer)
	writeJson(log, writer, 200, logoutResponse{Ok: true})
}

// Token readback for the client bootstrap. 401 with {token:null} is the
// ordinary anonymous answer, not a failure.
type tokenHandler struct {
}

func NewTokenHandler() *tokenHandler {
	return &tokenHandler{}
}

type tokenResponse struct {
	Token *string `json:"token"`
}

func (handler *tokenHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodGet) {
		return
	}

	requestContext := common.ResolveRequestContext(request)
	if !requestContext.Authenticated() {
		writeJson(log, writer, 401, tokenResponse{Token: nil})
		return
	}
	token := string(requestContext.Token)
	writeJson(log, writer, 200, tokenResponse{Token: &token})
}
