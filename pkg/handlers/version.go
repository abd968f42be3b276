package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
)

const unknownVersionField = "unknown"

// Deployed version info. Reshape mode: every failure degrades to the sentinel
// "unknown" shape with status 200, the version badge is never an error.
type versionHandler struct {
	client     *upstream.Client
	revalidate time.Duration
}

func NewVersionHandler(client *upstream.Client, revalidate time.Duration) *versionHandler {
	return &versionHandler{
		client:     client,
		revalidate: revalidate,
	}
}

type versionResponse struct {
	Version   string `json:"version"`
	Date      string `json:"date"`
	Branch    string `json:"branch"`
	CommitUrl string `json:"commitUrl"`
}

func fallbackVersion() versionResponse {
	return versionResponse{
		Version:   unknownVersionField,
		Date:      unknownVersionField,
		Branch:    unknownVersionField,
		CommitUrl: unknownVersionField,
	}
}

func (handler *versionHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	if !methodAllowed(log, writer, request, http.MethodGet) {
		return
	}

	response, err := handler.client.Forward(request.Context(), upstream.Descriptor{
		Method:     http.MethodGet,
		Path:       "/version",
		Revalidate: handler.revalidate,
	})
	if err != nil || !response.Successful() {
		if err != nil {
			log.Warnf("Operation version upstream error: %v", err)
		}
		writeJson(log, writer, 200, fallbackVersion())
		return
	}

	var version versionResponse
	if err := json.Unmarshal(response.Body, &version); err != nil {
		log.Warnf("Operation version upstream parse error: %v", err)
		writeJson(log, writer, 200, fallbackVersion())
		return
	}
	writeJson(log, writer, 200, versionResponse{
		Version:   orUnknown(version.Version),
		Date:      orUnknown(version.Date),
		Branch:    orUnknown(version.Branch),
		CommitUrl: orUnknown(version.CommitUrl),
	})
}

func orUnknown(value string) string {
	if value == "" {
		return unknownVersionField
	}
	return value
}
