package handlers

import (
	"fmt"

	"github.com/dimitrije/squadup/internal/apidoc"
	"github.com/m1z23r/drift/pkg/drift"
)

// DocsHandler serves the API description. Publish must run before the server starts.
type DocsHandler struct {
	info    apidoc.Info
	jsonDoc []byte
	yamlDoc []byte
}

func NewDocsHandler(info apidoc.Info) *DocsHandler {
	return &DocsHandler{info: info}
}

func (h *DocsHandler) Publish(endpoints []apidoc.Endpoint) error {
	doc, err := apidoc.Build(h.info, endpoints)
	if err != nil {
		return fmt.Errorf("failed to build API document: %w", err)
	}
	if h.jsonDoc, err = apidoc.MarshalJSON(doc); err != nil {
		return fmt.Errorf("failed to encode API document: %w", err)
	}
	if h.yamlDoc, err = apidoc.MarshalYAML(doc); err != nil {
		return err
	}
	return nil
}

func (h *DocsHandler) JSON(c *drift.Context) {
	h.write(c, h.jsonDoc, "application/json")
}

func (h *DocsHandler) YAML(c *drift.Context) {
	h.write(c, h.yamlDoc, "application/yaml")
}

func (h *DocsHandler) write(c *drift.Context, body []byte, contentType string) {
	if body == nil {
		c.NotFound("API document not published")
		return
	}
	c.Response.Header().Set("Content-Type", contentType)
	c.Response.WriteHeader(200)
	_, _ = c.Response.Write(body)
	c.Abort()
}
