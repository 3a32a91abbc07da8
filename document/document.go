// Package document models the OpenAPI documents that flow through an
// aggregation run: the per-service source documents and the single
// aggregate document they are folded into.
//
// Path items, operations and component definitions are kept as raw decoded
// JSON values. The aggregator merges structure, it does not interpret or
// validate operation bodies.
package document

import (
	"encoding/json"

	"go.yaml.in/yaml/v4"

	"github.com/MrLipa/oasaggregate/internal/httputil"
)

// OpenAPIVersion is the version string written into every aggregate.
const OpenAPIVersion = "3.0.1"

// Info is the document header.
type Info struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

// Server is one entry of the aggregate's servers list.
// Two servers are the same server when their URLs are equal.
type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem maps the keys of one path (get, post, parameters, ...) to their
// raw values.
type PathItem map[string]any

// Components maps a component category (schemas, securitySchemes, ...) to
// its named definitions.
type Components map[string]map[string]any

// Source is the part of a fetched service document the aggregator folds.
// Everything else in the service document is ignored.
type Source struct {
	Paths      map[string]PathItem
	Components Components
}

// Aggregate is the merged document produced by a run.
type Aggregate struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Servers    []Server            `json:"servers" yaml:"servers"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components" yaml:"components"`
}

// NewAggregate returns an empty aggregate with the given header.
func NewAggregate(info Info) *Aggregate {
	return &Aggregate{
		OpenAPI:    OpenAPIVersion,
		Info:       info,
		Servers:    []Server{},
		Paths:      make(map[string]PathItem),
		Components: make(Components),
	}
}

// HasServer reports whether a server with the given URL is already listed.
func (a *Aggregate) HasServer(url string) bool {
	for _, s := range a.Servers {
		if s.URL == url {
			return true
		}
	}
	return false
}

// MarshalIndent encodes the aggregate as indented JSON.
func (a *Aggregate) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(a, "", "    ")
}

// MarshalYAMLBytes encodes the aggregate as YAML.
func (a *Aggregate) MarshalYAMLBytes() ([]byte, error) {
	return yaml.Marshal(a)
}

// Stats summarizes the content of an aggregate.
type Stats struct {
	PathCount      int `json:"path_count"`
	OperationCount int `json:"operation_count"`
	ComponentCount int `json:"component_count"`
	ServerCount    int `json:"server_count"`
}

// Stats counts paths, operations, component definitions and servers.
func (a *Aggregate) Stats() Stats {
	s := Stats{
		PathCount:   len(a.Paths),
		ServerCount: len(a.Servers),
	}
	for _, item := range a.Paths {
		for key := range item {
			if httputil.IsOperationMethod(key) {
				s.OperationCount++
			}
		}
	}
	for _, defs := range a.Components {
		s.ComponentCount += len(defs)
	}
	return s
}
