// Package apidoc builds the OpenAPI description of the HTTP API from the
// same route table the server registers.
package apidoc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

const bearerScheme = "bearerAuth"

// Endpoint describes one route. Path uses the router's ":param" syntax.
type Endpoint struct {
	Method  string
	Path    string
	Summary string
	Tag     string
	Query   []string
	Body    bool
	Status  int
	Public  bool
}

type Info struct {
	Title     string
	Version   string
	ServerURL string
}

var pathParam = regexp.MustCompile(`:([A-Za-z][A-Za-z0-9_]*)`)

// Build assembles the document. Every path parameter is typed as a uuid.
func Build(info Info, endpoints []Endpoint) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: info.Title, Version: info.Version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				bearerScheme: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
		Security: *openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(bearerScheme)),
	}
	if info.ServerURL != "" {
		doc.Servers = openapi3.Servers{{URL: info.ServerURL}}
	}

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("code", openapi3.NewStringSchema())

	for _, e := range endpoints {
		path, params := convertPath(e.Path)

		item := doc.Paths.Value(path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(path, item)
		}
		if item.GetOperation(e.Method) != nil {
			return nil, fmt.Errorf("duplicate route %s %s", e.Method, e.Path)
		}

		op := openapi3.NewOperation()
		op.OperationID = operationID(e.Method, e.Path)
		op.Summary = e.Summary
		if e.Tag != "" {
			op.Tags = []string{e.Tag}
		}
		for _, name := range params {
			op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewUUIDSchema()))
		}
		for _, name := range e.Query {
			op.AddParameter(openapi3.NewQueryParameter(name).WithSchema(openapi3.NewStringSchema()))
		}
		if e.Body {
			op.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(openapi3.NewObjectSchema()),
			}
		}
		if e.Public {
			op.Security = openapi3.NewSecurityRequirements()
		}

		status := e.Status
		if status == 0 {
			status = http.StatusOK
		}
		op.Responses = openapi3.NewResponses(
			openapi3.WithStatus(status, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription(http.StatusText(status)),
			}),
			openapi3.WithName("default", openapi3.NewResponse().
				WithDescription("Error").
				WithJSONSchema(errorSchema)),
		)

		item.SetOperation(e.Method, op)
	}

	return doc, nil
}

// convertPath turns "/teams/:id" into "/teams/{id}" and returns the parameter names.
func convertPath(path string) (string, []string) {
	var params []string
	for _, m := range pathParam.FindAllStringSubmatch(path, -1) {
		params = append(params, m[1])
	}
	return pathParam.ReplaceAllString(path, "{$1}"), params
}

func operationID(method, path string) string {
	parts := []string{strings.ToLower(method)}
	for _, seg := range strings.Split(path, "/") {
		seg = strings.TrimPrefix(seg, ":")
		seg = strings.ReplaceAll(seg, "-", "_")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "_")
}

func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	return json.Marshal(doc)
}

// MarshalYAML goes through JSON so the output follows the document's json tags.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document to YAML: %w", err)
	}
	return out, nil
}
