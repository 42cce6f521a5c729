package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/profile"
)

func TestNewMCPServer(t *testing.T) {
	env := newTestEnv(t, `{}`)
	if s := NewMCPServer(MCPDeps{Session: env.deps.Session}); s == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}

func TestMCPTool_FindJobs(t *testing.T) {
	env := newTestEnv(t, `{"responseText":"Found 1 job","jobs":[{"title":"Go Dev"}]}`)
	env.configure(t)
	handler := mcpFindJobs(MCPDeps{Session: env.deps.Session})

	result, err := handler(context.Background(), makeCallToolRequest("find_jobs", map[string]interface{}{
		"query": "go backend",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var msg chat.Message
	if err := json.Unmarshal([]byte(toolText(t, result)), &msg); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if msg.Content != "Found 1 job" || len(msg.Jobs) != 1 || msg.Jobs[0].Title != "Go Dev" {
		t.Errorf("reply = %+v", msg)
	}
}

func TestMCPTool_FindJobs_MissingQuery(t *testing.T) {
	env := newTestEnv(t, `{}`)
	handler := mcpFindJobs(MCPDeps{Session: env.deps.Session})

	for _, args := range []map[string]interface{}{{}, {"query": "   "}} {
		result, err := handler(context.Background(), makeCallToolRequest("find_jobs", args))
		if err != nil {
			t.Fatal(err)
		}
		if !result.IsError {
			t.Errorf("args %v: expected tool error", args)
		}
	}
}

func TestMCPTool_Skills(t *testing.T) {
	env := newTestEnv(t, `{}`)
	deps := MCPDeps{Session: env.deps.Session}

	result, _ := mcpAddSkill(deps)(context.Background(), makeCallToolRequest("add_skill", map[string]interface{}{"skill": "Rust"}))
	if result.IsError {
		t.Fatalf("add_skill: %s", toolText(t, result))
	}
	result, _ = mcpRemoveSkill(deps)(context.Background(), makeCallToolRequest("remove_skill", map[string]interface{}{"skill": "React"}))
	if result.IsError {
		t.Fatalf("remove_skill: %s", toolText(t, result))
	}

	p := env.deps.Session.Profile().Snapshot()
	if !p.HasSkill("Rust") || p.HasSkill("React") {
		t.Errorf("skills = %v", p.Skills)
	}
}

func TestMCPTool_SetProfileField(t *testing.T) {
	env := newTestEnv(t, `{}`)
	handler := mcpSetProfileField(MCPDeps{Session: env.deps.Session})

	result, _ := handler(context.Background(), makeCallToolRequest("set_profile_field", map[string]interface{}{
		"field": "desiredRole", "value": "Platform Engineer",
	}))
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}
	if got := env.deps.Session.Profile().Snapshot().DesiredRole; got != "Platform Engineer" {
		t.Errorf("DesiredRole = %q", got)
	}

	result, _ = handler(context.Background(), makeCallToolRequest("set_profile_field", map[string]interface{}{
		"field": "skills", "value": "x",
	}))
	if !result.IsError {
		t.Error("expected error for unknown field")
	}
}

func TestMCPResources(t *testing.T) {
	env := newTestEnv(t, `{}`)
	deps := MCPDeps{Session: env.deps.Session}
	env.deps.Session.Seed()

	contents, err := mcpResourceProfile(deps)(context.Background(), makeReadResourceRequest("user://profile"))
	if err != nil {
		t.Fatal(err)
	}
	var p profile.Profile
	if err := json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &p); err != nil {
		t.Fatal(err)
	}
	if p.FullName != "Jane Doe" {
		t.Errorf("profile = %+v", p)
	}

	contents, err = mcpResourceTranscript(deps)(context.Background(), makeReadResourceRequest("chat://transcript"))
	if err != nil {
		t.Fatal(err)
	}
	var msgs []chat.Message
	if err := json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &msgs); err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Content != chat.OnboardingGreeting {
		t.Errorf("transcript = %+v", msgs)
	}
}
