package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zerpy/pkg/api"
	"zerpy/pkg/config"
	"zerpy/pkg/controller"
	"zerpy/pkg/logger"
	"zerpy/pkg/refresh"
	"zerpy/pkg/server"
	"zerpy/pkg/tui"
	"zerpy/pkg/utils"
)

// Version should be set during build
var Version = "dev"

var (
	serverMode bool
	serverPort int
	checkOnly  bool
)

var rootCmd = &cobra.Command{
	Use:   "zerpy [config-file]",
	Short: "Terminal wallet for XRP test-net accounts",
	Long: `Zerpy is a terminal wallet for XRP test-net accounts backed by an
XRP-API server. It reads accounts from a module.exports style config
file (default ~/` + config.ConfigFileName + `) and shows balances and
transaction history, with payments over the same API.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Version = Version
	rootCmd.Flags().BoolVar(&serverMode, "server", false, "Run headless with the HTTP status API instead of the TUI")
	rootCmd.Flags().IntVar(&serverPort, "port", 8080, "Port for the status API in server mode")
	rootCmd.Flags().BoolVar(&checkOnly, "check", false, "Validate the configuration and exit")
}

func run(cmd *cobra.Command, args []string) error {
	utils.LoadEnvironment()

	custom := ""
	if len(args) > 0 {
		custom = args[0]
	}
	path, err := config.GetConfigPath(custom)
	if err != nil {
		return fmt.Errorf("determining config path: %w", err)
	}

	// Config problems are fatal before any UI comes up.
	cfg, err := config.LoadConfigFromFile(path)
	if err != nil {
		return fmt.Errorf("loading config from %s: %w", path, err)
	}

	if checkOnly {
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration at %s is valid: %d account(s), server %s\n",
			path, len(cfg.Accounts), cfg.Server)
		return nil
	}

	client := api.NewClient(cfg.Server)
	ctrl := controller.NewController(cfg, client)
	coord := refresh.NewCoordinator(ctrl)

	if serverMode {
		logger.Init()
		defer logger.Close()
		logger.Info("starting in server mode on port %d (node %s)", serverPort, cfg.Server)
		srv := server.NewServer(ctrl, coord)
		return srv.Start(context.Background(), serverPort)
	}

	// The TUI owns the terminal, so logs go to a file instead.
	if err := logger.InitFileOnly(); err != nil {
		fmt.Printf("Warning: could not open log file: %v\n", err)
	}
	defer logger.Close()

	tui.Start(ctrl, coord, client, Version)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
