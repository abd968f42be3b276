package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type healthHandler struct {
}

func NewHealthHandler() *healthHandler {
	return &healthHandler{}
}

func (handler *healthHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	writeJson(log, writer, 200, map[string]string{"status": "ok"})
}
