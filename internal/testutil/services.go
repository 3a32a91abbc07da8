// Package testutil provides fake services and fixtures for unit tests.
package testutil

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// UserServiceDoc is a trimmed springdoc document of the user service.
const UserServiceDoc = `{
  "openapi": "3.0.1",
  "info": {"title": "OpenAPI definition", "version": "v0"},
  "servers": [{"url": "http://localhost:3001", "description": "Generated server url"}],
  "paths": {
    "/api/users": {
      "get": {"tags": ["user-controller"], "operationId": "getAllUsers", "responses": {"200": {"description": "OK"}}}
    },
    "/api/users/register": {
      "post": {"tags": ["user-controller"], "operationId": "register", "responses": {"200": {"description": "OK"}}}
    }
  },
  "components": {
    "schemas": {
      "RegisterDTO": {"type": "object", "properties": {"email": {"type": "string"}}}
    },
    "securitySchemes": {
      "bearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
    }
  }
}`

// FlightServiceDoc is a trimmed springdoc document of the flight service.
// It shares /api/users with UserServiceDoc to exercise path collisions.
const FlightServiceDoc = `{
  "openapi": "3.0.1",
  "info": {"title": "OpenAPI definition", "version": "v0"},
  "paths": {
    "/api/flights": {
      "get": {"tags": ["flight-controller"], "operationId": "getFlights", "responses": {"200": {"description": "OK"}}}
    },
    "/api/users": {
      "post": {"tags": ["flight-controller"], "operationId": "createUser", "responses": {"200": {"description": "OK"}}}
    }
  },
  "components": {
    "schemas": {
      "FlightDTO": {"type": "object"}
    },
    "securitySchemes": {
      "bearerAuth": {"type": "http", "scheme": "bearer"}
    }
  }
}`

// NewServiceServer starts a server answering every request with body as
// application/json. It is closed when the test ends.
func NewServiceServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return NewRawServer(t, http.StatusOK, "application/json", body)
}

// NewRawServer starts a server answering every request with the given
// status, content type and body.
func NewRawServer(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// NewBlockingServer starts a server that never answers until the test ends
// or the client goes away.
func NewBlockingServer(t *testing.T) *httptest.Server {
	t.Helper()
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-done:
		}
	}))
	t.Cleanup(func() {
		close(done)
		srv.Close()
	})
	return srv
}

// UnreachableURL returns a URL on a local port nothing listens on.
func UnreachableURL(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return "http://" + addr + "/v3/api-docs"
}
