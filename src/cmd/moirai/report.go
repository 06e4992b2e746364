package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/provider"
	"moirai-dashboard/src/ranking"
)

var (
	queryFlag string
	sortFlag  string
	limitFlag int
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List configured CI servers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		servers := registry.Servers()
		if jsonFlag {
			type server struct {
				ID   string        `json:"id"`
				Name string        `json:"name"`
				Type provider.Kind `json:"type"`
				URL  string        `json:"url"`
			}
			out := make([]server, len(servers))
			for i, s := range servers {
				out[i] = server{ID: s.ID, Name: s.Name, Type: s.Type, URL: s.URL}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderServers(servers))
		return nil
	},
}

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List repositories on a server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverID, err := resolveServer()
		if err != nil {
			return err
		}
		repos, err := service.Repos(cmd.Context(), serverID)
		if err != nil {
			return provider.WrapError(err)
		}
		if jsonFlag {
			return writeJSON(cmd.OutOrStdout(), repos)
		}
		for _, r := range repos {
			fmt.Fprintln(cmd.OutOrStdout(), r.String())
		}
		return nil
	},
}

var branchesCmd = &cobra.Command{
	Use:   "branches <owner/name>",
	Short: "Latest build per branch and open pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd, args[0])
		if err != nil {
			return err
		}
		entries := service.Branches(snap, listOptions())
		if jsonFlag {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderEntries(entries, snap))
		return nil
	},
}

var cronsCmd = &cobra.Command{
	Use:   "crons <owner/name>",
	Short: "Latest build per cron job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd, args[0])
		if err != nil {
			return err
		}
		entries := service.Crons(snap, listOptions())
		if jsonFlag {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderEntries(entries, snap))
		return nil
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview <owner/name>",
	Short: "Build counts, success rate, durations and health",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd, args[0])
		if err != nil {
			return err
		}
		ov := service.Overview(snap)
		if jsonFlag {
			return writeJSON(cmd.OutOrStdout(), ov)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderOverview(ov, snap.PeriodDays))
		return nil
	},
}

var infraCmd = &cobra.Command{
	Use:   "infra <owner/name>",
	Short: "CPU time and estimated cost per branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd, args[0])
		if err != nil {
			return err
		}
		infra := service.Infra(snap)
		if jsonFlag {
			return writeJSON(cmd.OutOrStdout(), infra)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderInfra(infra))
		return nil
	},
}

var contributorsCmd = &cobra.Command{
	Use:   "contributors <owner/name>",
	Short: "Contributor leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd, args[0])
		if err != nil {
			return err
		}
		board := service.Contributors(snap)
		if limitFlag > 0 && len(board.Contributors) > limitFlag {
			board.Contributors = board.Contributors[:limitFlag]
		}
		if jsonFlag {
			return writeJSON(cmd.OutOrStdout(), board)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderContributors(board))
		return nil
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details <owner/name> <stats-key>",
	Short: "History of one branch, PR or cron (e.g. branch:main, pr:42, cron:nightly)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd, args[0])
		if err != nil {
			return err
		}
		d := service.Details(snap, args[1])
		if jsonFlag {
			return writeJSON(cmd.OutOrStdout(), d)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderDetails(d))
		return nil
	},
}

func loadSnapshot(cmd *cobra.Command, repoArg string) (*dashboard.Snapshot, error) {
	serverID, err := resolveServer()
	if err != nil {
		return nil, err
	}
	repo, err := provider.ParseRepo(repoArg)
	if err != nil {
		return nil, provider.WrapError(err)
	}
	snap, err := service.Load(cmd.Context(), serverID, repo, periodFlag)
	if err != nil {
		return nil, provider.WrapError(err)
	}
	return snap, nil
}

func listOptions() dashboard.ListOptions {
	opts := dashboard.ListOptions{Query: queryFlag}
	if sortFlag != "" {
		opts.Sort = grouping.ParseMode(sortFlag)
	}
	return opts
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{branchesCmd, cronsCmd} {
		c.Flags().StringVarP(&queryFlag, "query", "q", "", "case-insensitive name filter")
		c.Flags().StringVar(&sortFlag, "sort", "", "sort mode: status, time or name")
	}
	contributorsCmd.Flags().IntVarP(&limitFlag, "limit", "n", ranking.TopN, "max contributors (0 for all)")
}
