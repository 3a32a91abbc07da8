// Package registry holds the static list of services whose OpenAPI
// documents are aggregated, together with the header of the aggregate.
//
// A registry is configuration: it is either the built-in default or loaded
// from a YAML/JSON file once at startup, validated, and never changed.
package registry

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MrLipa/oasaggregate/document"
	"github.com/MrLipa/oasaggregate/internal/httputil"
	"github.com/MrLipa/oasaggregate/oaserrors"
)

// SourceEntry identifies one service's OpenAPI document endpoint.
type SourceEntry struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Validate checks that the entry has an absolute http(s) URL with a host.
func (e SourceEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.URL, validation.Required, validation.By(httpURL)),
	)
}

func httpURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return validation.NewError("validation_url_parse", "must be a valid URL")
	}
	if !httputil.IsHTTPURL(u) {
		return validation.NewError("validation_url_http", "must be an absolute http or https URL")
	}
	return nil
}

// Registry is the set of services to aggregate, in merge order.
type Registry struct {
	Info    document.Info `json:"info" yaml:"info"`
	Sources []SourceEntry `json:"sources" yaml:"sources"`
}

// DefaultInfo is the aggregate header used when a registry file omits it.
var DefaultInfo = document.Info{
	Title:   "Microservices API",
	Version: "1.0.0",
}

// Default returns the registry of the airline reservation system: one
// springdoc endpoint per service, on consecutive local ports.
func Default() *Registry {
	return &Registry{
		Info: DefaultInfo,
		Sources: []SourceEntry{
			{Name: "User Service", URL: "http://localhost:3001/v3/api-docs"},
			{Name: "Notification Service", URL: "http://localhost:3002/v3/api-docs"},
			{Name: "Flight Service", URL: "http://localhost:3003/v3/api-docs"},
			{Name: "Airport Service", URL: "http://localhost:3004/v3/api-docs"},
			{Name: "Airplane Service", URL: "http://localhost:3005/v3/api-docs"},
			{Name: "Admin Service", URL: "http://localhost:3006/v3/api-docs"},
		},
	}
}

// Load reads a registry file. The file is YAML; JSON files load as well.
// Missing header fields fall back to DefaultInfo and unnamed sources get a
// name derived from their host. The result is validated.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: registry path is operator-provided
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "registry", Value: path, Message: "failed to read file", Cause: err}
	}
	return Parse(data)
}

// Parse decodes registry content, applies defaults and validates it.
func Parse(data []byte) (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, &oaserrors.ConfigError{Option: "registry", Message: "invalid registry document", Cause: err}
	}
	if r.Info.Title == "" {
		r.Info.Title = DefaultInfo.Title
	}
	if r.Info.Version == "" {
		r.Info.Version = DefaultInfo.Version
	}
	r.ApplyNames()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// ApplyNames fills in a display name for every source without one.
func (r *Registry) ApplyNames() {
	for i := range r.Sources {
		if strings.TrimSpace(r.Sources[i].Name) == "" {
			r.Sources[i].Name = NameFromURL(r.Sources[i].URL)
		}
	}
}

// Validate fails fast on the first malformed entry. The returned error is
// a *oaserrors.ConfigError naming the offending entry.
func (r *Registry) Validate() error {
	if len(r.Sources) == 0 {
		return &oaserrors.ConfigError{Option: "sources", Message: "registry has no sources"}
	}
	return ValidateEntries(r.Sources)
}

// ValidateEntries validates each entry in order.
func ValidateEntries(entries []SourceEntry) error {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return &oaserrors.ConfigError{
				Option:  fmt.Sprintf("sources[%d]", i),
				Value:   e.URL,
				Message: fmt.Sprintf("invalid entry %q", e.Name),
				Cause:   err,
			}
		}
	}
	return nil
}

// Entries returns a copy of the sources in declared order.
func (r *Registry) Entries() []SourceEntry {
	out := make([]SourceEntry, len(r.Sources))
	copy(out, r.Sources)
	return out
}

// NameFromURL derives a display name from a URL host. Docker-compose style
// hosts become title case ("flight-service:3003" is "Flight Service");
// hosts without separators, such as localhost, keep host:port.
func NameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	host := u.Hostname()
	if net.ParseIP(host) != nil || !strings.ContainsAny(host, "-_") || strings.Contains(host, ".") {
		return u.Host
	}
	words := strings.FieldsFunc(host, func(r rune) bool { return r == '-' || r == '_' })
	// Casers are stateful; one per call keeps this safe for concurrent use.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
