package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/jobseek/internal/session"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Session *session.Session
	Version string
}

// NewMCPServer creates an MCP server exposing the job search session to an
// agent: querying the webhook, editing the profile, reading the transcript.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"jobseek",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("jobseek: search for jobs through the user's webhook and manage their job-seeking profile."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("find_jobs",
			mcp.WithDescription("Send a job search query, with the user's profile attached, to the configured webhook and return its reply and job listings."),
			mcp.WithString("query", mcp.Description("What kind of job to look for"), mcp.Required()),
		),
		mcpFindJobs(deps),
	)

	s.AddTool(
		mcp.NewTool("add_skill",
			mcp.WithDescription("Add a skill to the user's profile. Duplicates are ignored."),
			mcp.WithString("skill", mcp.Description("Skill name"), mcp.Required()),
		),
		mcpAddSkill(deps),
	)

	s.AddTool(
		mcp.NewTool("remove_skill",
			mcp.WithDescription("Remove a skill from the user's profile."),
			mcp.WithString("skill", mcp.Description("Exact skill name"), mcp.Required()),
		),
		mcpRemoveSkill(deps),
	)

	s.AddTool(
		mcp.NewTool("set_profile_field",
			mcp.WithDescription("Set a scalar profile field."),
			mcp.WithString("field", mcp.Description("One of fullName, professionalSummary, desiredRole"), mcp.Required()),
			mcp.WithString("value", mcp.Description("New value"), mcp.Required()),
		),
		mcpSetProfileField(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"user://profile",
			"User Profile",
			mcp.WithResourceDescription("Current job-seeking profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"chat://transcript",
			"Chat Transcript",
			mcp.WithResourceDescription("Messages exchanged in this session, oldest first"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceTranscript(deps),
	)

	return s
}

func mcpFindJobs(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		reply, sent, err := deps.Session.Send(ctx, query)
		if errors.Is(err, session.ErrBusy) {
			return mcpError("another search is in progress, try again when it finishes"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("search failed: %v", err)), nil
		}
		if !sent {
			return mcpError("query is required"), nil
		}

		b, err := json.Marshal(reply)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal reply: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAddSkill(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		skill, err := req.RequireString("skill")
		if err != nil {
			return mcpError("skill is required"), nil
		}

		changed, err := deps.Session.Profile().AddSkill(skill)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to add skill: %v", err)), nil
		}
		if !changed {
			return mcpText(fmt.Sprintf("Skill %q not added (empty or already present)", skill)), nil
		}
		return mcpText(fmt.Sprintf("Added skill %q", skill)), nil
	}
}

func mcpRemoveSkill(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		skill, err := req.RequireString("skill")
		if err != nil {
			return mcpError("skill is required"), nil
		}

		changed, err := deps.Session.Profile().RemoveSkill(skill)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to remove skill: %v", err)), nil
		}
		if !changed {
			return mcpText(fmt.Sprintf("Skill %q was not in the profile", skill)), nil
		}
		return mcpText(fmt.Sprintf("Removed skill %q", skill)), nil
	}
}

func mcpSetProfileField(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		field, err := req.RequireString("field")
		if err != nil {
			return mcpError("field is required"), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcpError("value is required"), nil
		}

		if err := deps.Session.Profile().UpdateField(field, value); err != nil {
			return mcpError(fmt.Sprintf("failed to set field: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Set %s = %s", field, value)), nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(req.Params.URI, deps.Session.Profile().Snapshot())
	}
}

func mcpResourceTranscript(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(req.Params.URI, deps.Session.Conversation().Messages())
	}
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
