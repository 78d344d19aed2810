package main

import (
	"fmt"

	"github.com/lox/pokertable/cmd/pokertable/shared"
	"github.com/lox/pokertable/internal/server"
)

type ServeCmd struct {
	Config   string `short:"c" default:"pokertable.hcl" help:"Path to HCL configuration file"`
	TCP      string `help:"TCP listen address (overrides config)"`
	HTTP     string `help:"HTTP listen address for /ws and /status, or 'off' (overrides config)"`
	Seats    int    `short:"s" help:"Number of seats (overrides config)"`
	Chips    int    `help:"Starting stack per seat (overrides config)"`
	Timeout  string `help:"Action timeout, e.g. 5s (overrides config)"`
	MaxHands int    `help:"Stop after this many hands (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config)"`
}

// apply layers command line flags over the loaded config.
func (c *ServeCmd) apply(cfg *server.Config) {
	if c.TCP != "" {
		cfg.Server.TCPAddress = c.TCP
	}
	if c.HTTP != "" {
		cfg.Server.HTTPAddress = c.HTTP
	}
	if c.Seats > 0 {
		cfg.Table.Seats = c.Seats
	}
	if c.Chips > 0 {
		cfg.Table.InitialChips = c.Chips
	}
	if c.Timeout != "" {
		cfg.Table.ActionTimeout = c.Timeout
	}
	if c.MaxHands > 0 {
		cfg.Table.MaxHands = c.MaxHands
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.Server.LogFile = c.LogFile
	}
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := shared.SetupLogger(cfg.Server.LogLevel, cfg.Server.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	logger.Info("Starting pokertable",
		"version", version,
		"seats", cfg.Table.Seats,
		"chips", cfg.Table.InitialChips,
		"timeout", cfg.Table.ActionTimeout)

	return srv.Run(ctx)
}
