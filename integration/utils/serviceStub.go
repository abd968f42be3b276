package utils

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
)

// ServiceStub is an httptest-backed upstream API double. Mocks are grouped by
// path so one path can answer several methods, and every served request is
// counted for call-count assertions.
type ServiceStub struct {
	Server *httptest.Server

	mu    sync.Mutex
	calls map[string]int
}

func CreateServiceStub(mocks []RequestMock) *ServiceStub {
	stub := &ServiceStub{
		calls: make(map[string]int),
	}

	mocksByPath := make(map[string][]RequestMock)
	for _, mock := range mocks {
		mocksByPath[mock.Request.Url] = append(mocksByPath[mock.Request.Url], mock)
	}

	mux := http.NewServeMux()
	for path, pathMocks := range mocksByPath {
		pathMocks := pathMocks
		mux.HandleFunc(path, func(writer http.ResponseWriter, request *http.Request) {
			stub.recordCall(request.Method, request.URL.Path)
			for _, mock := range pathMocks {
				if mock.Request.Method != request.Method {
					continue
				}
				serveMock(mock, writer, request)
				return
			}
			writer.WriteHeader(404)
			_, _ = fmt.Fprintf(writer, "No mock for %v %v", request.Method, request.URL.Path)
		})
	}

	stub.Server = httptest.NewServer(mux)
	return stub
}

func (stub *ServiceStub) recordCall(method string, path string) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.calls[method+" "+path]++
}

// Calls reports how many times an upstream endpoint was hit.
func (stub *ServiceStub) Calls(method string, path string) int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.calls[method+" "+path]
}

func (stub *ServiceStub) Close() {
	stub.Server.Close()
}

func serveMock(mock RequestMock, writer http.ResponseWriter, request *http.Request) {
	for _, check := range mock.Request.Headers {
		header := request.Header.Get(check.Name)
		matched, err := regexp.MatchString(check.Regexp, header)
		if err != nil {
			writer.WriteHeader(500)
			_, _ = fmt.Fprint(writer, "Parsing header regexp error: "+check.Regexp+". Detail: "+err.Error())
			return
		}
		if !matched {
			writer.WriteHeader(400)
			_, _ = fmt.Fprint(writer, "Header not matched regexp. Header: "+header+". Regexp: "+check.Regexp)
			return
		}
	}

	for key, value := range mock.Request.Query {
		if request.URL.Query().Get(key) != value {
			writer.WriteHeader(400)
			_, _ = fmt.Fprintf(writer, "Query property %v=%v not match with expected: %v", key, request.URL.Query().Get(key), value)
			return
		}
	}

	bodyBytes, err := ioutil.ReadAll(request.Body)
	if err != nil {
		writer.WriteHeader(500)
		_, _ = fmt.Fprint(writer, "Reading body error: "+err.Error())
		return
	}

	for _, check := range mock.Request.Body {
		if err := check.checkBody(bodyBytes, request); err != nil {
			writer.WriteHeader(400)
			_, _ = fmt.Fprint(writer, "Body not match: "+err.Error())
			return
		}
	}

	for header, value := range mock.Response.Headers {
		writer.Header().Add(header, value)
	}
	writer.WriteHeader(mock.Response.Status)
	if mock.Response.Body != nil {
		responseBytes, err := mock.Response.Body.getString()
		if err != nil {
			_, _ = fmt.Fprint(writer, "Writing body error: "+err.Error())
			return
		}
		_, _ = writer.Write(responseBytes)
	}
}

type RequestMock struct {
	Request  Request
	Response Response
}

type Request struct {
	Method  string
	Url     string
	Query   map[string]string
	Headers []Header
	Body    []BodyCheck
}

type Header struct {
	Name   string
	Regexp string
}

type BodyCheck interface {
	checkBody([]byte, *http.Request) error
}

// JsonPropsBody asserts that a JSON request body carries exactly the given
// top-level property values.
type JsonPropsBody struct {
	Props map[string]interface{}
}

func (check JsonPropsBody) checkBody(body []byte, req *http.Request) error {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("parsing json body error. %v", err.Error())
	}

	for key, value := range check.Props {
		if parsed[key] != value {
			return fmt.Errorf("property %v=%v not match with expected: %v", key, parsed[key], value)
		}
	}

	return nil
}

type StringedBody interface {
	getString() ([]byte, error)
}

type Response struct {
	Status  int
	Headers map[string]string
	Body    StringedBody
}

type JsonMap map[string]interface{}

func (s JsonMap) getString() ([]byte, error) {
	return json.Marshal(s)
}
