package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampTradesLimit(t *testing.T) {
	cases := []struct {
		raw      string
		expected int
	}{
		{"", 12},
		{"abc", 12},
		{"-5", 12},
		{"0", 12},
		{"0.5", 12},
		{"7", 7},
		{"7.9", 7},
		{"50", 50},
		{"51", 50},
		{"1000", 50},
	}
	for _, testCase := range cases {
		actual := clampTradesLimit(testCase.raw)
		if actual != testCase.expected {
			t.Fatalf("Limit %q expecting %v actual %v", testCase.raw, testCase.expected, actual)
		}
	}
}

func TestRecentTradesForwardsClampedLimit(t *testing.T) {
	// Given
	recorder := newUpstreamRecorder(200, `{"trades":[]}`)
	defer recorder.Close()
	handler := NewRecentTradesHandler(recorder.Client(), 0)

	request := httptest.NewRequest("GET", "/api/trades/recent?limit=9000", nil)
	w := httptest.NewRecorder()

	// When
	handler.Handle(testEntry(), w, request)

	// Then
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "/trades/recent?limit=50", recorder.LastPath())
	assert.Equal(t, `{"trades":[]}`, w.Body.String())
}

func TestRecentTradesWorksAnonymously(t *testing.T) {
	recorder := newUpstreamRecorder(200, `{"trades":[]}`)
	defer recorder.Close()
	handler := NewRecentTradesHandler(recorder.Client(), 0)

	// No request context at all, the route needs no token filter.
	request := httptest.NewRequest("GET", "/api/trades/recent", nil)
	w := httptest.NewRecorder()

	handler.Handle(testEntry(), w, request)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "/trades/recent?limit=12", recorder.LastPath())
}
