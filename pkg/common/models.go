package common

// Request context

const RequestContextKey string = "RequestContextKey"

// Token is the opaque session credential taken from the cookie. It is never
// parsed or signed by the gateway, only forwarded upstream.
type Token string

// RequestContext carries the per-request resolved identity. It is built once
// by the token filter and passed down through the request context instead of
// re-reading the cookie in every handler.
type RequestContext struct {
	Token     Token
	RequestId string
}

func (ctx *RequestContext) Authenticated() bool {
	return ctx != nil && ctx.Token != ""
}

// UserProfile is the upstream "current user" shape surfaced by /api/session.
type UserProfile struct {
	Id         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
	UserNumber int    `json:"usernumber"`
	CreatedAt  string `json:"created_at"`
}
