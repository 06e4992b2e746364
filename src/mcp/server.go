package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/logger"
	"moirai-dashboard/src/provider"
	"moirai-dashboard/src/ranking"
)

// ServerLister lists the configured CI servers. *provider.Registry
// implements it.
type ServerLister interface {
	Servers() []provider.Server
}

// Server is the MCP server for Moirai.
type Server struct {
	mcpServer *server.MCPServer
	dashboard *dashboard.Service
	servers   ServerLister
	store     SnapshotStore
	logger    logger.Logger
	validate  *validator.Validate
}

// NewServer creates an MCP server backed by the dashboard service.
func NewServer(svc *dashboard.Service, servers ServerLister, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	s := server.NewMCPServer(
		"moirai",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	srv := &Server{
		mcpServer: s,
		dashboard: svc,
		servers:   servers,
		store:     NewInMemoryStore(DefaultStoreCapacity),
		logger:    log,
		validate:  validator.New(),
	}
	srv.registerTools()

	return srv
}

// repoParams are shared by every per-repository tool.
func repoParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("repo",
			mcp.Required(),
			mcp.Description("Repository as owner/name, or a numeric Woodpecker repository ID"),
		),
		mcp.WithString("server",
			mcp.Description("Server ID from list_servers (default: the first server)"),
		),
		mcp.WithNumber("period",
			mcp.Description("Statistics window in days: 7, 14, 30 or 90 (default: configured period)"),
		),
	}
}

func (s *Server) registerTools() {
	listServers := mcp.NewTool("list_servers",
		mcp.WithDescription("List the configured Woodpecker/Drone CI servers. Tokens are never returned."),
	)

	listRepos := mcp.NewTool("list_repos",
		mcp.WithDescription("List repositories visible on a CI server."),
		mcp.WithString("server",
			mcp.Description("Server ID from list_servers (default: the first server)"),
		),
	)

	branchStatus := mcp.NewTool("branch_status", append([]mcp.ToolOption{
		mcp.WithDescription("Latest build per branch and open pull request, tiered for triage. Tier 1 lists branches whose latest build failed - these need attention. Tier 2 lists green branches with a poor success rate. Tier 3 samples healthy branches. Use get_branch_details with the returned snapshot_id to drill into one entry."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring filter on branch or PR name"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max tier 1 entries (default: 15); other tiers scale down"),
		),
	}, repoParams()...)...)

	cronStatus := mcp.NewTool("cron_status", append([]mcp.ToolOption{
		mcp.WithDescription("Latest build per cron job, tiered like branch_status."),
	}, repoParams()...)...)

	details := mcp.NewTool("get_branch_details",
		mcp.WithDescription("Summary, health and build history for one branch, PR or cron from a previous branch_status or cron_status call."),
		mcp.WithString("snapshot_id",
			mcp.Required(),
			mcp.Description("snapshot_id from branch_status or cron_status"),
		),
		mcp.WithString("stats_key",
			mcp.Required(),
			mcp.Description("stats_key of the entry, e.g. branch:main, pr:42 or cron:nightly"),
		),
	)

	overview := mcp.NewTool("repo_overview", append([]mcp.ToolOption{
		mcp.WithDescription("Executive overview: build counts, success rate, duration percentiles, health, hourly and daily distribution, long builds."),
	}, repoParams()...)...)

	costReport := mcp.NewTool("cost_report", append([]mcp.ToolOption{
		mcp.WithDescription("Estimated CPU time and cost per branch, the most expensive builds and a 30-day projection."),
	}, repoParams()...)...)

	contributors := mcp.NewTool("contributors", append([]mcp.ToolOption{
		mcp.WithDescription("Contributor leaderboard ranked by builds, with success rate and current success streak."),
		mcp.WithNumber("limit",
			mcp.Description("Max contributors (default: 10)"),
		),
	}, repoParams()...)...)

	s.mcpServer.AddTool(listServers, s.handleListServers)
	s.mcpServer.AddTool(listRepos, s.handleListRepos)
	s.mcpServer.AddTool(branchStatus, s.handleBranchStatus)
	s.mcpServer.AddTool(cronStatus, s.handleCronStatus)
	s.mcpServer.AddTool(details, s.handleBranchDetails)
	s.mcpServer.AddTool(overview, s.handleOverview)
	s.mcpServer.AddTool(costReport, s.handleCostReport)
	s.mcpServer.AddTool(contributors, s.handleContributors)
}

// Run serves MCP over stdio until stdin closes.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) handleListServers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	servers := s.servers.Servers()
	out := make([]ServerInfo, 0, len(servers))
	for _, srv := range servers {
		out = append(out, ServerInfo{ID: srv.ID, Name: srv.Name, Type: string(srv.Type), URL: srv.URL})
	}
	return jsonResult(out)
}

func (s *Server) handleListRepos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serverID, err := s.serverID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repos, err := s.dashboard.Repos(ctx, serverID)
	if err != nil {
		return toolError("failed to list repositories", err), nil
	}
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.String())
	}
	return jsonResult(names)
}

func (s *Server) handleBranchStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, id, errResult := s.loadSnapshot(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	entries := s.dashboard.Branches(snap, dashboard.ListOptions{Query: request.GetString("query", "")})
	return jsonResult(s.tiered(snap, id, entries, request.GetInt("limit", DefaultTier1Limit)))
}

func (s *Server) handleCronStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, id, errResult := s.loadSnapshot(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	entries := s.dashboard.Crons(snap, dashboard.ListOptions{})
	return jsonResult(s.tiered(snap, id, entries, DefaultTier1Limit))
}

func (s *Server) tiered(snap *dashboard.Snapshot, id string, entries []grouping.Entry, limit int) BranchStatusResponse {
	resp := TierEntries(entries, snap.Builds, limit)
	resp.SnapshotID = id
	resp.Server = snap.ServerID
	resp.Repo = snap.Repo.String()
	resp.PeriodDays = snap.PeriodDays
	return resp
}

func (s *Server) handleBranchDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshotID := request.GetString("snapshot_id", "")
	if snapshotID == "" {
		return mcp.NewToolResultError("snapshot_id parameter is required"), nil
	}
	statsKey := request.GetString("stats_key", "")
	if statsKey == "" {
		return mcp.NewToolResultError("stats_key parameter is required"), nil
	}

	snap, found := s.store.Get(snapshotID)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot not found: %s (call branch_status again)", snapshotID)), nil
	}

	d := s.dashboard.Details(snap, statsKey)
	if d.Summary.Total == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no builds for stats_key %s", statsKey)), nil
	}
	return jsonResult(toDetailsResponse(d))
}

func (s *Server) handleOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, _, errResult := s.loadSnapshot(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(s.dashboard.Overview(snap))
}

func (s *Server) handleCostReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, _, errResult := s.loadSnapshot(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(s.dashboard.Infra(snap))
}

func (s *Server) handleContributors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, _, errResult := s.loadSnapshot(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	board := s.dashboard.Contributors(snap)
	limit := request.GetInt("limit", ranking.TopN)
	if limit > 0 && len(board.Contributors) > limit {
		board.Contributors = board.Contributors[:limit]
	}
	return jsonResult(board)
}

// loadSnapshot resolves the repository parameters, fetches a snapshot and
// stores it for drill-down. A non-nil result is a tool error to return.
func (s *Server) loadSnapshot(ctx context.Context, request mcp.CallToolRequest) (*dashboard.Snapshot, string, *mcp.CallToolResult) {
	serverID, err := s.serverID(request)
	if err != nil {
		return nil, "", mcp.NewToolResultError(err.Error())
	}

	repoArg := request.GetString("repo", "")
	if repoArg == "" {
		return nil, "", mcp.NewToolResultError("repo parameter is required")
	}
	repo, err := provider.ParseRepo(repoArg)
	if err != nil {
		return nil, "", toolError("invalid repo", err)
	}

	period := request.GetInt("period", 0)
	if period != 0 {
		if err := s.validate.Var(period, "oneof=7 14 30 90"); err != nil {
			return nil, "", mcp.NewToolResultError("period must be one of 7, 14, 30, 90")
		}
	}

	snap, err := s.dashboard.Load(ctx, serverID, repo, period)
	if err != nil {
		s.logger.Error("mcp: load %s on %s failed: %v", repo, serverID, err)
		return nil, "", toolError("failed to load builds", err)
	}

	id := uuid.NewString()
	s.store.Store(id, snap)
	return snap, id, nil
}

// serverID returns the requested server, defaulting to the first one.
func (s *Server) serverID(request mcp.CallToolRequest) (string, error) {
	if id := request.GetString("server", ""); id != "" {
		return id, nil
	}
	servers := s.servers.Servers()
	if len(servers) == 0 {
		return "", errors.New("no CI servers configured")
	}
	return servers[0].ID, nil
}

func toDetailsResponse(d dashboard.Details) DetailsResponse {
	resp := DetailsResponse{
		StatsKey: d.StatsKey,
		Summary:  d.Summary,
		Health:   d.Health,
		Builds:   make([]BuildLine, 0, len(d.Builds)),
	}
	for i := len(d.Builds) - 1; i >= 0; i-- {
		row := d.Builds[i]
		line := BuildLine{
			Number:  row.Number,
			Status:  row.Status,
			Event:   row.Event,
			Author:  row.AuthorLogin,
			Commit:  shortCommit(row.Commit),
			Message: compactMessage(row.Message),
			Long:    row.Long,
		}
		if secs, ok := row.Duration(); ok {
			line.Duration = &secs
		}
		resp.Builds = append(resp.Builds, line)
	}
	return resp
}

// toolError renders an error with its user-facing hint when one exists.
func toolError(prefix string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, provider.WrapError(err)))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
