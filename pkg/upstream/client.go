package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned before any request is issued when the upstream
// base url is missing from the deployment configuration. Callers must fail
// fast rather than hit an empty origin.
var ErrNotConfigured = errors.New("upstream base url is not configured")

// Descriptor describes one request to the upstream API. Revalidate is a
// caller-supplied policy: a positive window lets a GET be served from the
// read cache for that long. The client never decides the policy itself.
type Descriptor struct {
	Method     string
	Path       string
	Body       interface{}
	Headers    map[string]string
	Revalidate time.Duration
}

// Response is the upstream status, headers and raw body. Non-2xx statuses are
// ordinary responses here, not errors: pass-through handlers forward them
// verbatim. Only transport failures surface as Go errors.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (response *Response) Successful() bool {
	return response.Status >= 200 && response.Status < 300
}

// ContentType returns the upstream content type, defaulted to application/json
// when upstream omits it.
func (response *Response) ContentType() string {
	contentType := response.Header.Get("Content-Type")
	if contentType == "" {
		return "application/json"
	}
	return contentType
}

type Client struct {
	baseUrl    string
	httpClient *http.Client
	readCache  *cache.Cache
}

func NewClient(baseUrl string, timeout time.Duration, evictScheduleTime time.Duration) *Client {
	return &Client{
		baseUrl:    baseUrl,
		httpClient: &http.Client{Timeout: timeout},
		readCache:  cache.New(cache.NoExpiration, evictScheduleTime),
	}
}

// Forward issues a single attempt against the upstream API. No retries are
// performed, cancellation of ctx propagates into the in-flight request.
func (client *Client) Forward(ctx context.Context, descriptor Descriptor) (*Response, error) {
	const stage = "Forwarding upstream request error."

	if client.baseUrl == "" {
		return nil, ErrNotConfigured
	}

	cacheKey := descriptor.Method + " " + descriptor.Path
	if client.servableFromCache(descriptor) {
		if cached, found := client.readCache.Get(cacheKey); found {
			logrus.Tracef("Upstream response served from read cache: %v", cacheKey)
			return cached.(*Response), nil
		}
	}

	request, err := client.buildRequest(ctx, descriptor)
	if err != nil {
		return nil, newErr(stage, err)
	}

	httpResponse, err := client.httpClient.Do(request)
	if err != nil {
		return nil, newErr(stage, err)
	}
	defer func() { _ = httpResponse.Body.Close() }()

	bodyBytes, err := ioutil.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, newErr(stage, err)
	}

	response := &Response{
		Status: httpResponse.StatusCode,
		Header: httpResponse.Header,
		Body:   bodyBytes,
	}
	logrus.Tracef("Got upstream response. Status: %v Path: %v", response.Status, descriptor.Path)

	if client.servableFromCache(descriptor) && response.Successful() {
		client.readCache.Set(cacheKey, response, descriptor.Revalidate)
	}

	return response, nil
}

func (client *Client) servableFromCache(descriptor Descriptor) bool {
	return descriptor.Method == http.MethodGet && descriptor.Revalidate > 0
}

func (client *Client) buildRequest(ctx context.Context, descriptor Descriptor) (*http.Request, error) {
	var bodyReader *bytes.Buffer
	if descriptor.Body != nil {
		bodyBytes, err := json.Marshal(descriptor.Body)
		if err != nil {
			return nil, newErr("Marshalling request body error.", err)
		}
		bodyReader = bytes.NewBuffer(bodyBytes)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	request, err := http.NewRequestWithContext(ctx, descriptor.Method, client.baseUrl+descriptor.Path, bodyReader)
	if err != nil {
		return nil, newErr("Building request error.", err)
	}

	if descriptor.Body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if mutating(descriptor.Method) {
		// Stale writes must never be served back, treat every mutating
		// call as cache-bypassing.
		request.Header.Set("Cache-Control", "no-store")
	}
	for name, value := range descriptor.Headers {
		request.Header.Set(name, value)
	}
	return request, nil
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func newErr(stage string, reason interface{}) error {
	return fmt.Errorf("%v Reason: %v", stage, reason)
}
