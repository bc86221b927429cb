package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for lectern resources.
	uriScheme = "lectern://"

	// historyLimit bounds the history resource.
	historyLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "preferences",
		Name:        "preferences",
		Description: "Reading preferences used as tool defaults",
		MIMEType:    "application/json",
	}, s.handlePreferencesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recently saved reading positions",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	// Template for a text's table of contents.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "texts/{textId}/contents",
		Name:        "text-contents",
		Description: "Table of contents of a text",
		MIMEType:    "application/json",
	}, s.handleContentsResource)
}

// handlePreferencesResource returns the effective reading preferences.
func (s *Server) handlePreferencesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	prefs := s.preferences()
	info := struct {
		PageSize int    `json:"page_size"`
		Language string `json:"language"`
		Layout   string `json:"layout"`
	}{prefs.PageSize, prefs.Language, string(prefs.Layout)}

	return jsonResource(req.Params.URI, info)
}

// handleHistoryResource returns recently saved reading positions.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type positionInfo struct {
		TextID    string    `json:"text_id"`
		ContentID string    `json:"content_id,omitempty"`
		VersionID string    `json:"version_id,omitempty"`
		SectionID string    `json:"section_id"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	infos := []positionInfo{}
	if s.ports.History != nil {
		positions, err := s.ports.History.Recent(ctx, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("listing history: %w", err)
		}
		for _, p := range positions {
			infos = append(infos, positionInfo{
				TextID:    p.Key.TextID,
				ContentID: p.Key.ContentID,
				VersionID: p.Key.VersionID,
				SectionID: p.SectionID,
				UpdatedAt: p.UpdatedAt,
			})
		}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleContentsResource returns the table of contents of a text.
func (s *Server) handleContentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract textId from URI: lectern://texts/{textId}/contents
	textID := extractTextID(req.Params.URI)
	if textID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	_, output, err := s.handleTableOfContents(ctx, nil, TOCInput{TextID: textID})
	if err != nil {
		return nil, fmt.Errorf("loading contents: %w", err)
	}

	return jsonResource(req.Params.URI, output)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTextID extracts the text ID from a text contents URI.
func extractTextID(uri string) string {
	rest, ok := strings.CutPrefix(uri, uriScheme+"texts/")
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, "/contents")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
