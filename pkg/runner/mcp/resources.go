package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/ondeck/pkg/app"
)

func registerResources(srv *server.MCPServer, svc *app.Service) {
	srv.AddResource(mcp.NewResource(
		"ondeck://today",
		"Today",
		mcp.WithResourceDescription("Today's focus, up next, the daily routine and the undo window."),
		mcp.WithMIMEType("application/json"),
	), todayResource(svc))

	srv.AddResource(mcp.NewResource(
		"ondeck://later",
		"Later",
		mcp.WithResourceDescription("The backlog sorted by due day."),
		mcp.WithMIMEType("application/json"),
	), laterResource(svc))

	srv.AddResource(mcp.NewResource(
		"ondeck://archive",
		"Archive",
		mcp.WithResourceDescription("Completed tasks grouped by day, newest first."),
		mcp.WithMIMEType("application/json"),
	), archiveResource(svc))
}

func todayResource(svc *app.Service) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap, err := svc.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"today":           snap.Today,
			"todayFocus":      snap.TodayFocus,
			"upNext":          snap.UpNext,
			"routine":         snap.Routine,
			"routineComplete": snap.RoutineComplete,
			"completedToday":  snap.CompletedToday,
			"pendingUndo":     snap.Pending,
		})
	}
}

func laterResource(svc *app.Service) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		items, err := svc.Later(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"count": len(items),
			"items": items,
		})
	}
}

func archiveResource(svc *app.Service) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		groups, err := svc.History(ctx, 0)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"days": groups,
		})
	}
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
