package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-playground/validator.v9"
)

// Every route handler is a pure function of (request, resolved token) with a
// single upstream attempt and no shared state. The three shaping strategies
// (pass-through, reshape, redirect) share the helpers below.

var validate = validator.New()

// decodeInput parses a JSON body into an exhaustively declared input struct,
// rejecting unknown fields, and runs the struct's validation tags.
func decodeInput(request *http.Request, input interface{}) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(input); err != nil {
		return err
	}
	return validate.Struct(input)
}

func writeJson(log *logrus.Entry, writer http.ResponseWriter, status int, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		log.Errorf("Writing response body error: %v", err)
	}
}

func writeMessage(log *logrus.Entry, writer http.ResponseWriter, status int, message string) {
	writeJson(log, writer, status, map[string]string{"message": message})
}

// forwardPassThrough forwards one request and mirrors the upstream status and
// body verbatim, so clients keep seeing upstream error shapes byte-exact.
// Configuration errors become 500, transport failures become 502.
func forwardPassThrough(
	log *logrus.Entry,
	writer http.ResponseWriter,
	request *http.Request,
	client *upstream.Client,
	descriptor upstream.Descriptor,
	operation string,
) {
	response, err := client.Forward(request.Context(), descriptor)
	if err != nil {
		writeForwardError(log, writer, err, operation)
		return
	}
	writer.Header().Set("Content-Type", response.ContentType())
	writer.WriteHeader(response.Status)
	if _, err := writer.Write(response.Body); err != nil {
		log.Errorf("Operation %v response write error: %v", operation, err)
	}
}

func writeForwardError(log *logrus.Entry, writer http.ResponseWriter, err error, operation string) {
	if err == upstream.ErrNotConfigured {
		log.Errorf("Operation %v error: %v", operation, err)
		writeMessage(log, writer, 500, "upstream not configured")
		return
	}
	log.Errorf("Operation %v upstream transport error: %v", operation, err)
	writeMessage(log, writer, 502, "upstream unavailable")
}

func methodAllowed(log *logrus.Entry, writer http.ResponseWriter, request *http.Request, method string) bool {
	if request.Method == method {
		return true
	}
	writeMessage(log, writer, 405, fmt.Sprintf("method %v not allowed", request.Method))
	return false
}
