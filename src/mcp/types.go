// Package mcp exposes the dashboard engines as MCP tools so an assistant
// can ask about branch health, costs and contributors.
package mcp

import (
	"moirai-dashboard/src/stats"
)

// ServerInfo is a configured CI server without its token.
type ServerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// BranchStatusResponse is the branch_status tool response.
type BranchStatusResponse struct {
	SnapshotID string `json:"snapshot_id"`
	Server     string `json:"server"`
	Repo       string `json:"repo"`
	PeriodDays int    `json:"period_days"`
	TotalCount int    `json:"total_branches"`

	Failing  []BranchFinding `json:"tier_1_failing"`
	Degraded []BranchFinding `json:"tier_2_degraded"`
	Healthy  []BranchFinding `json:"tier_3_healthy"`

	// Omitted counts entries cut by the per-tier limits.
	Omitted int `json:"omitted,omitempty"`
}

// BranchFinding is one branch, PR or cron with its latest build and
// history, compacted for a language model.
type BranchFinding struct {
	Name        string       `json:"name"`
	StatsKey    string       `json:"stats_key"`
	Status      string       `json:"status"`
	Number      int64        `json:"number"`
	Author      string       `json:"author"`
	Commit      string       `json:"commit,omitempty"`
	Message     string       `json:"message,omitempty"`
	Builds      int          `json:"builds"`
	SuccessRate int          `json:"success_rate"`
	Health      stats.Health `json:"health"`
}

// DetailsResponse is the get_branch_details tool response.
type DetailsResponse struct {
	StatsKey string        `json:"stats_key"`
	Summary  stats.Summary `json:"summary"`
	Health   stats.Health  `json:"health"`
	Builds   []BuildLine   `json:"builds"`
}

// BuildLine is a single build in a details response, newest first.
type BuildLine struct {
	Number   int64  `json:"number"`
	Status   string `json:"status"`
	Event    string `json:"event"`
	Author   string `json:"author"`
	Commit   string `json:"commit,omitempty"`
	Message  string `json:"message,omitempty"`
	Duration *int64 `json:"duration_seconds,omitempty"`
	Long     bool   `json:"long,omitempty"`
}
