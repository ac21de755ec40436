// Package main runs the fitdash MCP server over stdio (for local MCP clients).
// The same MCP server is also mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitdash/internal/config"
	"github.com/2beens/fitdash/internal/db"
	fitdashmcp "github.com/2beens/fitdash/internal/gymstats/mcp"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: cfg.PostgresPassword,
		DBSSLMode:  cfg.PostgresSSLMode,
		DBTimeZone: cfg.PostgresTimeZone,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	metricsManager := metrics.NewManager("fitdash", "mcp_stdio", metrics.SetupPrometheus())
	server := fitdashmcp.NewServer(fitdashmcp.NewPoolRepos(dbPool), metricsManager)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %s", err)
	}
}
