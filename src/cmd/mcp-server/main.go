// Package main provides the MCP server entry point for Moirai. It serves
// the dashboard tools over stdio, so logs go to stderr only.
package main

import (
	"fmt"
	"os"

	"moirai-dashboard/src/config"
	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/logger"
	"moirai-dashboard/src/mcp"
	"moirai-dashboard/src/provider"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Component: "mcp",
		Writer:    os.Stderr,
	})

	registry := provider.NewRegistry(cfg.ProviderServers())
	svc := dashboard.NewService(registry, cfg.Settings, log.Named("dashboard"))

	if err := mcp.NewServer(svc, registry, log).Run(); err != nil {
		log.Error("MCP server error: %v", err)
		os.Exit(1)
	}
}
