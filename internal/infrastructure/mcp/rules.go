package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"
)

// registerRulesResource publishes the active rule table as a readable
// resource, so clients can inspect the taxonomy without a tool call.
func (s *Server) registerRulesResource() {
	s.mcpServer.Resource("boardkit://rules").
		Name("boardkit://rules").
		Description("Active classification rule table in evaluation order").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			resp, err := s.activeRules()
			if err != nil {
				return nil, err
			}
			data, err := json.Marshal(resp)
			if err != nil {
				return nil, err
			}
			return &mcplib.ResourceContent{
				URI:      "boardkit://rules",
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
