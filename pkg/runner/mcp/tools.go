package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerShowBoardTool(srv, svc)
	registerListTasksTool(srv, svc)
	registerScheduleTaskTool(srv, svc)
	registerUnscheduleTaskTool(srv, svc)
	registerChangeMonthTool(srv, svc)
}

func registerShowBoardTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"show_board",
		mcp.WithDescription("Show the displayed month: days holding tasks and the unscheduled list."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Snapshot(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListTasksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List loaded tasks ordered by scheduled date, unscheduled tasks last."),
		mcp.WithString("filter",
			mcp.Description("Restrict the listing. month keeps tasks scheduled in the displayed month."),
			mcp.Enum(string(FilterAll), string(FilterScheduled), string(FilterUnscheduled), string(FilterMonth)),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := TaskFilter(request.GetString("filter", string(FilterAll)))
		tasks, err := svc.ListTasks(ctx, filter)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"filter": filter,
			"tasks":  tasks,
			"count":  len(tasks),
		})
	})
}

func registerScheduleTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"schedule_task",
		mcp.WithDescription("Schedule a task on a day and write its file."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day in YYYY-MM-DD form."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			ID   string `json:"id"`
			Date string `json:"date"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		res, err := svc.Schedule(ctx, args.ID, args.Date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerUnscheduleTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"unschedule_task",
		mcp.WithDescription("Move a task to the unscheduled list and remove its scheduled date from the file."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := svc.Unschedule(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerChangeMonthTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"change_month",
		mcp.WithDescription("Change the displayed month and return the new board."),
		mcp.WithString("direction",
			mcp.Description("Relative move from the displayed month."),
			mcp.Enum("prev", "next", "today"),
		),
		mcp.WithString("month",
			mcp.Description("Jump to a month in YYYY-MM form. Takes precedence over direction."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.ChangeMonth(ctx, request.GetString("direction", ""), request.GetString("month", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
