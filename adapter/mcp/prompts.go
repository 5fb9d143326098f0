package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common task list workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("triage").
		Description("Review open todos, adjust priorities and close what is done.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Todo Triage",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me triage my todos. Please:

1. Fetch the list with the todo.list tool (priority "all")
2. Check the accepted values with todo.options

Then, one todo at a time:
- Ask whether it is done; if so, todo.edit it, set status DONE with todo.draft and todo.submit
- Suggest a better priority where the current one looks wrong
- Offer to todo.delete anything that is obsolete

Finish with todo.list filtered to HIGH so I can see what is left.`,
						},
					},
				},
			}, nil
		})

	return nil
}
