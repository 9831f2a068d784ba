package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finsight/internal/cli"
	"finsight/internal/config"
	"finsight/internal/logging"
)

func main() {
	configDir := configDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Console = cfg.Log.Console
	logCfg.File = cfg.Log.File
	logger := logging.NewLoggerWithConfig(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configDirFromArgs pre-parses --config so the directory is known before
// cobra runs.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case len(arg) > len("--config=") && arg[:len("--config=")] == "--config=":
			return arg[len("--config="):]
		}
	}
	return ""
}
