// Package mcp provides an MCP (Model Context Protocol) server adapter for lectern.
// It lets AI assistants read pages of a text and walk its table of contents.
package mcp

import "errors"

// ErrMissingContentService is returned when the content service is not provided.
var ErrMissingContentService = errors.New("mcp: content service is required")

// ErrMissingTOCService is returned when the TOC service is not provided.
var ErrMissingTOCService = errors.New("mcp: toc service is required")
