package common

import "net/http"

// ResolveRequestContext returns the RequestContext stored by the token filter,
// or nil when the filter did not run. A nil context is an anonymous caller.
func ResolveRequestContext(request *http.Request) *RequestContext {
	value := request.Context().Value(RequestContextKey)
	if value == nil {
		return nil
	}
	return value.(*RequestContext)
}
