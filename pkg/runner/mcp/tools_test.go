package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/ondeck/pkg/app"
	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/ondeck"
	"tableflip.dev/ondeck/pkg/store"
)

func newService(t *testing.T) *app.Service {
	t.Helper()
	noon := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	svc := &app.Service{
		Store:      store.NewMemory(),
		Clock:      datekey.ClockFunc(func() time.Time { return noon }),
		UndoWindow: time.Minute,
	}
	t.Cleanup(svc.Close)
	return svc
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatalf("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return tc.Text
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool error: %s", text(t, res))
	}
	var v T
	if err := json.Unmarshal([]byte(text(t, res)), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestDumpCompleteUndo(t *testing.T) {
	svc := newService(t)

	review := decode[app.ReviewResult](t, call(t, dumpTool(svc), map[string]any{
		"text": "- call mom today\n- buy stamps",
	}))
	if len(review.OnDeck) != 1 || len(review.Later) != 1 {
		t.Fatalf("review = %+v", review)
	}

	entry := decode[archive.Entry](t, call(t, completeTool(svc), map[string]any{"id": float64(review.OnDeck[0].ID)}))
	if entry.Title != "call mom today" {
		t.Fatalf("archived %q", entry.Title)
	}

	task := decode[ondeck.Task](t, call(t, undoTool(svc), nil))
	if task.Title != "call mom today" {
		t.Fatalf("restored %q", task.Title)
	}

	res := call(t, undoTool(svc), nil)
	if got := text(t, res); got != "nothing to undo" {
		t.Fatalf("second undo = %q", got)
	}
}

func TestCompleteUnknownTask(t *testing.T) {
	svc := newService(t)
	res := call(t, completeTool(svc), map[string]any{"id": 42})
	if !res.IsError {
		t.Fatalf("expected an error result")
	}
	if got := text(t, res); !strings.Contains(got, "not found") {
		t.Fatalf("error = %q", got)
	}
}

func TestLaterLifecycle(t *testing.T) {
	svc := newService(t)

	item := decode[backlog.Item](t, call(t, addLaterTool(svc), map[string]any{
		"title": "renew passport",
		"due":   "2024-07-01",
	}))
	if item.Due != "2024-07-01" || item.Category == "" {
		t.Fatalf("item = %+v", item)
	}

	updated := decode[backlog.Item](t, call(t, updateLaterTool(svc), map[string]any{
		"id":       item.ID,
		"category": "admin",
		"due":      "none",
	}))
	if updated.Category != "Admin" || !updated.Due.IsZero() {
		t.Fatalf("updated = %+v", updated)
	}

	task := decode[ondeck.Task](t, call(t, promoteLaterTool(svc), map[string]any{"id": item.ID}))
	if !task.IsToday() {
		t.Fatalf("promoted task not in today's focus: %+v", task)
	}

	res := call(t, removeLaterTool(svc), map[string]any{"id": item.ID})
	if !res.IsError {
		t.Fatalf("removing a promoted item should fail")
	}
}

func TestAddLaterRejectsBadInput(t *testing.T) {
	svc := newService(t)
	for name, args := range map[string]map[string]any{
		"category": {"title": "x", "category": "pets"},
		"due":      {"title": "x", "due": "soon"},
		"title":    {"title": "  "},
	} {
		t.Run(name, func(t *testing.T) {
			if res := call(t, addLaterTool(svc), args); !res.IsError {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestHistorySpan(t *testing.T) {
	svc := newService(t)
	call(t, dumpTool(svc), map[string]any{"text": "water plants today"})
	call(t, completeTool(svc), map[string]any{"id": 1})

	out := decode[struct {
		Days []archive.Group `json:"days"`
	}](t, call(t, historyTool(svc), map[string]any{"since": "3d"}))
	if len(out.Days) != 1 || len(out.Days[0].Rows) != 1 {
		t.Fatalf("history = %+v", out.Days)
	}

	if res := call(t, historyTool(svc), map[string]any{"since": "fortnight"}); !res.IsError {
		t.Fatalf("expected span error")
	}
}

func TestTodayResource(t *testing.T) {
	svc := newService(t)
	call(t, dumpTool(svc), map[string]any{"text": "pay rent today"})

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "ondeck://today"
	contents, err := todayResource(svc)(context.Background(), req)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	body := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(body, `"pay rent today"`) || !strings.Contains(body, `"today":"2024-06-15"`) {
		t.Fatalf("body = %s", body)
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	srv := NewServer(newService(t), "", "")
	if srv == nil {
		t.Fatalf("nil server")
	}
}
