package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gso/src/internal/checkpoint"
	"gso/src/internal/config"
	"gso/src/internal/organizer"
	"gso/src/internal/report"
	"gso/src/internal/version"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	// Parse flags first to get quiet mode early
	flagCfg, err := ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize output handler with quiet mode
	InitOutputHandler(flagCfg.Quiet)

	// Handle version flag
	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Set config file environment if specified
	if flagCfg.ConfigFile != "" {
		os.Setenv("GSO_CONFIG_FILE", flagCfg.ConfigFile)
	}

	// Load configuration, then lay CLI overrides on top
	cfg, err := config.LoadWithCLI(os.Args[1:])
	if err != nil {
		FatalError(1, "Failed to load config: %v\n", err)
	}
	applyFlagOverrides(cfg, flagCfg)
	if err := cfg.Validate(); err != nil {
		FatalError(1, "Invalid configuration: %v\n", err)
	}

	// Initialize logger with quiet mode awareness
	if err := initializeLogger(cfg, flagCfg); err != nil {
		FatalError(1, "Failed to initialize logger: %v\n", err)
	}
	defer shutdownLogger()

	logger.Info("msg", "gso starting",
		"version", version.String(),
		"config_file", flagCfg.ConfigFile,
		"mode", cfg.Organizer.Mode,
		"max_folder_size_gb", cfg.Organizer.MaxFolderSizeGB)

	// Cancel the pipeline between file transfers on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fsys := osfs.New("/")

	folder, err := resolveGallery(fsys, cfg)
	if err != nil {
		logger.Error("msg", "No gallery folder", "error", err)
		FatalError(2, "Error: %v\n", err)
	}
	cfg.Organizer.Source = folder

	var ckpt *checkpoint.Store
	if cfg.Organizer.Checkpoint {
		path, err := checkpoint.DefaultPath()
		if err != nil {
			FatalError(1, "Error: %v\n", err)
		}
		ckpt = checkpoint.NewStore(fsys, path)
	}

	org := organizer.New(fsys, cfg.Organizer, ckpt, logger)
	result, err := org.Run(ctx)
	if err != nil {
		logger.Error("msg", "Organizing failed",
			"error", err,
			"files_transferred", result.FilesTransferred)
		FatalError(3, "Error: %v\n", err)
	}

	Print("\n%s", report.Render(result, cfg.Organizer.CapacityBytes()))

	logger.Info("msg", "Run complete",
		"partitions", len(result.PartitionsCreated),
		"files_transferred", result.FilesTransferred,
		"files_unchanged", result.FilesUnchanged)
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			// Best effort - can't log the shutdown error
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
