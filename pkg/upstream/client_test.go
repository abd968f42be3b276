package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotConfiguredFailsFast(t *testing.T) {
	client := NewClient("", 0, time.Minute)

	response, err := client.Forward(context.Background(), Descriptor{
		Method: "GET",
		Path:   "/version",
	})

	assert.Nil(t, response)
	assert.Equal(t, ErrNotConfigured, err)
}

func TestNonSuccessStatusIsNotAnError(t *testing.T) {
	// Given
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = fmt.Fprint(w, `{"message":"item not found"}`)
	}))
	defer stub.Close()
	client := NewClient(stub.URL, 0, time.Minute)

	// When
	response, err := client.Forward(context.Background(), Descriptor{
		Method: "GET",
		Path:   "/items/999",
	})

	// Then
	assert.NoError(t, err)
	assert.Equal(t, 404, response.Status)
	assert.Equal(t, `{"message":"item not found"}`, string(response.Body))
}

func TestMutatingRequestBypassesCacheAndInjectsBody(t *testing.T) {
	// Given
	var gotCacheControl string
	var gotContentType string
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(200)
	}))
	defer stub.Close()
	client := NewClient(stub.URL, 0, time.Minute)

	// When
	_, err := client.Forward(context.Background(), Descriptor{
		Method: "POST",
		Path:   "/comments/report",
		Body:   map[string]string{"reporter": "t1"},
	})

	// Then
	assert.NoError(t, err)
	assert.Equal(t, "no-store", gotCacheControl)
	assert.Equal(t, "application/json", gotContentType)
}

func TestRevalidateWindowServesFromCache(t *testing.T) {
	// Given
	calls := 0
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = fmt.Fprint(w, `{"rows":[]}`)
	}))
	defer stub.Close()
	client := NewClient(stub.URL, 0, time.Minute)
	descriptor := Descriptor{
		Method:     "GET",
		Path:       "/trades/recent?limit=12",
		Revalidate: time.Minute,
	}

	// When
	first, err1 := client.Forward(context.Background(), descriptor)
	second, err2 := client.Forward(context.Background(), descriptor)

	// Then
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, string(first.Body), string(second.Body))
}

func TestReadsWithoutWindowAreNotCached(t *testing.T) {
	calls := 0
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer stub.Close()
	client := NewClient(stub.URL, 0, time.Minute)
	descriptor := Descriptor{Method: "GET", Path: "/users/current"}

	_, _ = client.Forward(context.Background(), descriptor)
	_, _ = client.Forward(context.Background(), descriptor)

	assert.Equal(t, 2, calls)
}

func TestContentTypeDefaultsToJson(t *testing.T) {
	response := &Response{Status: 200, Header: http.Header{}}
	assert.Equal(t, "application/json", response.ContentType())

	response.Header.Set("Content-Type", "text/plain")
	assert.Equal(t, "text/plain", response.ContentType())
}
