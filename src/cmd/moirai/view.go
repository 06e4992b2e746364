package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/provider"
	"moirai-dashboard/src/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view <owner/name>",
	Short: "Interactive terminal dashboard for a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serverID, err := resolveServer()
		if err != nil {
			return err
		}
		repo, err := provider.ParseRepo(args[0])
		if err != nil {
			return provider.WrapError(err)
		}

		title := fmt.Sprintf("%s · %s", repo, serverID)
		load := func(ctx context.Context) (*dashboard.Snapshot, error) {
			snap, err := service.Load(ctx, serverID, repo, periodFlag)
			return snap, provider.WrapError(err)
		}
		return tui.Run(tui.NewMainModel(service, title, load))
	},
}
