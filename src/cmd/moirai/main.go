// Package main provides the Moirai CLI: the dashboard server, one-shot
// reports and the terminal dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moirai-dashboard/src/config"
	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/logger"
	"moirai-dashboard/src/provider"
)

var (
	appConfig *config.Config
	appLog    *logger.ConsoleLogger
	registry  *provider.Registry
	service   *dashboard.Service

	serverFlag string
	periodFlag int
	jsonFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "moirai",
	Short: "Moirai - build dashboard for Woodpecker and Drone CI",
	Long: `Moirai aggregates builds from Woodpecker and Drone CI servers into
branch status, cron status, success rates, duration percentiles, cost
estimates and contributor rankings.

Servers are configured with CI_SERVER_URL and CI_SERVER_TOKEN, numbered
CI_SERVER_1_URL ... CI_SERVER_10_URL pairs, or a YAML file named by
MOIRAI_CONFIG.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		appConfig = cfg

		appLog = logger.New(logger.Options{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			Component: "moirai",
		})

		registry = provider.NewRegistry(cfg.ProviderServers())
		service = dashboard.NewService(registry, cfg.Settings, appLog.Named("dashboard"))
		return nil
	},
}

// resolveServer returns --server or the first configured server.
func resolveServer() (string, error) {
	if serverFlag != "" {
		return serverFlag, nil
	}
	servers := registry.Servers()
	if len(servers) == 0 {
		return "", provider.WrapError(fmt.Errorf("%w: none configured", provider.ErrServerNotFound))
	}
	return servers[0].ID, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "server ID (default: first configured server)")
	rootCmd.PersistentFlags().IntVarP(&periodFlag, "period", "p", 0, "statistics window in days: 7, 14, 30 or 90 (default: configured)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "print JSON instead of tables")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(serversCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(cronsCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(infraCmd)
	rootCmd.AddCommand(contributorsCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(viewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
