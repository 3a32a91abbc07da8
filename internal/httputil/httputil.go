// Package httputil provides HTTP-related helpers and constants.
package httputil

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// HTTP Method Constants, as they appear as path item keys.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

var operationMethods = map[string]bool{
	MethodGet: true, MethodPut: true, MethodPost: true, MethodDelete: true,
	MethodOptions: true, MethodHead: true, MethodPatch: true, MethodTrace: true,
}

// IsOperationMethod reports whether a path item key names an HTTP operation
// (as opposed to summary, parameters, servers, $ref or an x- extension).
func IsOperationMethod(key string) bool {
	return operationMethods[key]
}

// IsSuccessStatus reports whether code is a 2xx status.
func IsSuccessStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// IsHTTPURL reports whether u uses the http or https scheme and names a host.
func IsHTTPURL(u *url.URL) bool {
	if u == nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// BaseURL returns scheme://authority of raw, dropping path, query and
// fragment. The port is kept; userinfo is not.
//
//	BaseURL("http://localhost:3001/v3/api-docs?group=x") // "http://localhost:3001"
func BaseURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if !IsHTTPURL(u) {
		return "", fmt.Errorf("not an absolute http(s) URL: %q", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

// IsYAMLContentType reports whether a Content-Type header declares YAML.
func IsYAMLContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return strings.HasSuffix(mediaType, "+yaml")
}
