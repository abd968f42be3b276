package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatestChangelogRedirectsToResolvedId(t *testing.T) {
	recorder := newUpstreamRecorder(200, `{"id":357,"title":"Update 357"}`)
	defer recorder.Close()
	handler := NewLatestChangelogHandler(recorder.Client(), 0)

	request := httptest.NewRequest("GET", "/api/changelogs/latest", nil)
	w := httptest.NewRecorder()

	handler.Handle(testEntry(), w, request)

	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "/changelogs/357", w.Header().Get("Location"))
}

func TestLatestSeasonRedirectsToResolvedSeason(t *testing.T) {
	recorder := newUpstreamRecorder(200, `{"season":27,"title":"Season 27"}`)
	defer recorder.Close()
	handler := NewLatestSeasonHandler(recorder.Client(), 0)

	request := httptest.NewRequest("GET", "/api/seasons/latest", nil)
	w := httptest.NewRecorder()

	handler.Handle(testEntry(), w, request)

	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "/seasons/27", w.Header().Get("Location"))
}

func TestLatestRedirectFallsBackWhenUpstreamIsDown(t *testing.T) {
	handler := NewLatestChangelogHandler(deadClient(), 0)

	request := httptest.NewRequest("GET", "/api/changelogs/latest", nil)
	w := httptest.NewRecorder()

	handler.Handle(testEntry(), w, request)

	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "/changelogs", w.Header().Get("Location"))
}

func TestLatestRedirectFallsBackWhenIdIsMissing(t *testing.T) {
	recorder := newUpstreamRecorder(200, `{"title":"no id here"}`)
	defer recorder.Close()
	handler := NewLatestChangelogHandler(recorder.Client(), 0)

	request := httptest.NewRequest("GET", "/api/changelogs/latest", nil)
	w := httptest.NewRecorder()

	handler.Handle(testEntry(), w, request)

	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "/changelogs", w.Header().Get("Location"))
}
