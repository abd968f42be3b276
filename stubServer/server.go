package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Fake upstream API for local gateway development. Run it on 8081 and point
// BASE_API_URL at it to exercise the gateway without the real backend.
func main() {

	http.HandleFunc("/users/current", jsonHandler(map[string]interface{}{
		"id":          "stub-user-1",
		"username":    "stub_user",
		"global_name": "Stub User",
		"usernumber":  1,
	}))
	http.HandleFunc("/oauth/token/invalidate", jsonHandler(map[string]interface{}{}))
	http.HandleFunc("/trades/recent", jsonHandler(map[string]interface{}{
		"trades": []interface{}{},
	}))
	http.HandleFunc("/version", jsonHandler(map[string]interface{}{
		"version":   "0.0.0-stub",
		"date":      "1970-01-01",
		"branch":    "stub",
		"commitUrl": "http://localhost:8081",
	}))
	http.HandleFunc("/changelogs/latest", jsonHandler(map[string]interface{}{
		"id": 1,
	}))
	http.HandleFunc("/seasons/latest", jsonHandler(map[string]interface{}{
		"season": 1,
	}))
	http.HandleFunc("/", echoHandler)

	port := 8081
	log.Printf("Stub upstream starting on port %v", port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), nil))
}

func jsonHandler(body map[string]interface{}) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		log.Printf("%s %s", request.Method, request.URL.String())
		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(body)
	}
}

func echoHandler(writer http.ResponseWriter, request *http.Request) {
	_, _ = fmt.Fprintf(writer, "%s %s\n", request.Method, request.URL.String())
	_, _ = fmt.Fprintf(writer, "\n")
	for header, value := range request.Header {
		_, _ = fmt.Fprintf(writer, "%s=%v\n", header, value)
	}
}
