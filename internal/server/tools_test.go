package server

import (
	"context"
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"fractal_mandelbrot",
		"fractal_julia",
		"fractal_divergence",
		"fractal_stats",
		"fractal_point",
		"fractal_presets",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Description should not be empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema should have properties")
			}

			// Every tool definition must survive the trip to the client.
			if _, err := json.Marshal(tool); err != nil {
				t.Errorf("failed to marshal: %v", err)
			}
		})
	}
}

func TestToolDefinitions_Properties(t *testing.T) {
	props := func(name string) map[string]interface{} {
		for _, tool := range GetToolDefinitions() {
			if tool.Name == name {
				return tool.InputSchema["properties"].(map[string]interface{})
			}
		}
		t.Fatalf("tool %s not found", name)
		return nil
	}

	tests := []struct {
		tool   string
		has    []string
		hasNot []string
	}{
		{"fractal_mandelbrot", []string{"region", "iterations", "palette", "output", "supersample"}, []string{"constant", "kind"}},
		{"fractal_julia", []string{"region", "constant", "palette"}, []string{"kind"}},
		{"fractal_divergence", []string{"kind", "constant", "width", "height"}, []string{"palette", "output"}},
		{"fractal_point", []string{"point", "kind", "constant"}, []string{"region"}},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			p := props(tt.tool)
			for _, name := range tt.has {
				if _, ok := p[name]; !ok {
					t.Errorf("missing property %s", name)
				}
			}
			for _, name := range tt.hasNot {
				if _, ok := p[name]; ok {
					t.Errorf("unexpected property %s", name)
				}
			}
		})
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be []Tool")
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools", len(tools))
	}
}
