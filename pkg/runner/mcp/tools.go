package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/ondeck/pkg/app"
	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/datekey"
)

func registerTools(srv *server.MCPServer, svc *app.Service) {
	srv.AddTool(mcp.NewTool(
		"dump",
		mcp.WithDescription("Capture a brain dump. Each line becomes a task; lines mentioning today, asap or tonight go on deck, the rest go to later."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("One task per line. Leading bullets and numbering are ignored."),
		),
	), dumpTool(svc))

	srv.AddTool(mcp.NewTool(
		"complete_task",
		mcp.WithDescription("Complete an on-deck task and move it to the archive. The completion can be undone for a few seconds."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("On-deck task number."),
		),
	), completeTool(svc))

	srv.AddTool(mcp.NewTool(
		"undo_complete",
		mcp.WithDescription("Put the most recently completed task back on deck while the undo window is open."),
	), undoTool(svc))

	srv.AddTool(mcp.NewTool(
		"promote_task",
		mcp.WithDescription("Move an up-next task into today's focus."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("On-deck task number."),
		),
	), promoteTool(svc))

	srv.AddTool(mcp.NewTool(
		"add_later",
		mcp.WithDescription("Save a task for later, optionally with a due day."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title."),
		),
		mcp.WithString("category",
			mcp.Description("Category; guessed from the title when empty."),
			mcp.Enum(categoryNames()...),
		),
		mcp.WithString("due",
			mcp.Description("Due day as YYYY-MM-DD."),
		),
	), addLaterTool(svc))

	srv.AddTool(mcp.NewTool(
		"update_later",
		mcp.WithDescription("Edit a later item's title, category or due day."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Later item identifier."),
		),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("category",
			mcp.Description("New category."),
			mcp.Enum(categoryNames()...),
		),
		mcp.WithString("due", mcp.Description("New due day as YYYY-MM-DD, or \"none\" to clear it.")),
	), updateLaterTool(svc))

	srv.AddTool(mcp.NewTool(
		"remove_later",
		mcp.WithDescription("Delete a later item."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Later item identifier."),
		),
	), removeLaterTool(svc))

	srv.AddTool(mcp.NewTool(
		"promote_later",
		mcp.WithDescription("Move a later item into today's focus right away."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Later item identifier."),
		),
	), promoteLaterTool(svc))

	srv.AddTool(mcp.NewTool(
		"toggle_routine",
		mcp.WithDescription("Check or uncheck a daily routine step."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Routine step number."),
		),
	), toggleRoutineTool(svc))

	srv.AddTool(mcp.NewTool(
		"recap",
		mcp.WithDescription("Summarize today: completions, open tasks and the backlog."),
	), recapTool(svc))

	srv.AddTool(mcp.NewTool(
		"history",
		mcp.WithDescription("List archived completions grouped by day."),
		mcp.WithString("since",
			mcp.Description("How far back to look, such as 3d, 2w or 1w3d. Defaults to 1w; \"all\" returns everything."),
		),
	), historyTool(svc))
}

func dumpTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		drafts := svc.Intake(text)
		if len(drafts) == 0 {
			return mcp.NewToolResultError("nothing to add"), nil
		}
		res, err := svc.ConfirmReview(ctx, drafts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	}
}

func completeTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		entry, err := svc.Complete(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(entry)
	}
}

func undoTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		task, ok, err := svc.Undo(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok {
			return mcp.NewToolResultText("nothing to undo"), nil
		}
		return toJSONResult(task)
	}
}

func promoteTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		task, err := svc.Promote(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(task)
	}
}

func addLaterTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Title    string `json:"title"`
			Category string `json:"category"`
			Due      string `json:"due"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		category, err := classify.ParseCategory(args.Category)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		due, err := parseDue(args.Due)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		item, err := svc.AddLater(ctx, args.Title, category, due)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(item)
	}
}

func updateLaterTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		args := request.GetArguments()

		var patch backlog.Patch
		if _, ok := args["title"]; ok {
			title := strings.TrimSpace(request.GetString("title", ""))
			if title == "" {
				return mcp.NewToolResultError("title cannot be empty"), nil
			}
			patch.Title = &title
		}
		if _, ok := args["category"]; ok {
			category, err := classify.ParseCategory(request.GetString("category", ""))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			patch.Category = &category
		}
		if _, ok := args["due"]; ok {
			due, err := parseDue(request.GetString("due", ""))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			patch.Due = &due
		}

		item, err := svc.UpdateLater(ctx, id, patch)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(item)
	}
}

func removeLaterTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.RemoveLater(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("removed %s", id)), nil
	}
}

func promoteLaterTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		task, err := svc.PromoteLater(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(task)
	}
}

func toggleRoutineTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		items, err := svc.ToggleRoutine(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"routine": items})
	}
}

func recapTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		r, err := svc.Recap(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	}
}

func historyTool(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		since := strings.TrimSpace(request.GetString("since", ""))
		days := 0
		if !strings.EqualFold(since, "all") {
			n, _, err := datekey.ParseSpan(since)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			days = n
		}
		groups, err := svc.History(ctx, days)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"days": groups})
	}
}

func parseDue(raw string) (datekey.Key, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return "", nil
	}
	return datekey.Parse(raw)
}

func categoryNames() []string {
	all := classify.AllCategories()
	out := make([]string, 0, len(all))
	for _, c := range all {
		out = append(out, string(c))
	}
	return out
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
