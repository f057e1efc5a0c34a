package main

import (
	"fmt"
	"strings"

	"gso/src/internal/config"
	"gso/src/internal/gallery"

	"github.com/go-git/go-billy/v5"
	"github.com/lixenwraith/log"
)

// initializeLogger sets up the logger based on configuration
func initializeLogger(cfg *config.Config, flagCfg *FlagConfig) error {
	logger = log.NewLogger()

	var configArgs []string

	if flagCfg.Quiet {
		// In quiet mode, disable ALL logging output
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=false",
			"level=255")
		return logger.ApplyConfigString(configArgs...)
	}

	// Determine log level
	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	configArgs = append(configArgs, fmt.Sprintf("level=%d", levelValue))

	// Configure based on output mode
	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stdout")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	case "file":
		configArgs = append(configArgs, "enable_stdout=false")
		configureFileLogging(&configArgs, cfg)

	case "both":
		configArgs = append(configArgs, "enable_stdout=true")
		configureFileLogging(&configArgs, cfg)
		configureConsoleTarget(&configArgs, cfg)

	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	// Apply format if specified
	if cfg.Logging.Console != nil && cfg.Logging.Console.Format != "" {
		configArgs = append(configArgs, fmt.Sprintf("format=%s", cfg.Logging.Console.Format))
	}

	return logger.ApplyConfigString(configArgs...)
}

// configureFileLogging sets up file-based logging parameters
func configureFileLogging(configArgs *[]string, cfg *config.Config) {
	if cfg.Logging.File != nil {
		*configArgs = append(*configArgs,
			fmt.Sprintf("directory=%s", cfg.Logging.File.Directory),
			fmt.Sprintf("name=%s", cfg.Logging.File.Name),
			fmt.Sprintf("max_size_mb=%d", cfg.Logging.File.MaxSizeMB),
			fmt.Sprintf("max_total_size_mb=%d", cfg.Logging.File.MaxTotalSizeMB))

		if cfg.Logging.File.RetentionHours > 0 {
			*configArgs = append(*configArgs,
				fmt.Sprintf("retention_period_hrs=%.1f", cfg.Logging.File.RetentionHours))
		}
	}
}

// configureConsoleTarget sets up console output parameters
func configureConsoleTarget(configArgs *[]string, cfg *config.Config) {
	target := "stderr" // default

	if cfg.Logging.Console != nil && cfg.Logging.Console.Target != "" {
		target = cfg.Logging.Console.Target
	}

	if target == "split" {
		*configArgs = append(*configArgs, "stdout_split_mode=true")
		*configArgs = append(*configArgs, "stdout_target=split")
	} else {
		*configArgs = append(*configArgs, fmt.Sprintf("stdout_target=%s", target))
	}
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

// resolveGallery determines the folder to organize: explicit config value,
// auto-discovered camera folder, or interactive path entry, confirmed by
// the user unless running unattended.
func resolveGallery(fsys billy.Filesystem, cfg *config.Config) (string, error) {
	listable := func(path string) bool {
		return gallery.Listable(fsys, path)
	}

	if cfg.Organizer.Source != "" {
		if !listable(cfg.Organizer.Source) {
			return "", fmt.Errorf("gallery folder %q does not exist or is not a directory", cfg.Organizer.Source)
		}
		return cfg.Organizer.Source, nil
	}

	interactive := !cfg.Organizer.AssumeYes && StdinIsTerminal()

	folder, found := gallery.Discover(fsys)
	if !found {
		if !interactive {
			return "", fmt.Errorf("gallery folder not found; checked: %s",
				strings.Join(gallery.CandidatePaths(), ", "))
		}
		Error("Gallery folder isn't found. Checked:\n")
		for i, path := range gallery.CandidatePaths() {
			Error("%d. %q\n", i+1, path)
		}

		prompter := NewPrompter()
		var err error
		folder, err = prompter.InputPath("Please manually enter path to the gallery folder:", listable)
		if err != nil {
			return "", err
		}
	}

	if !interactive {
		return folder, nil
	}

	prompter := NewPrompter()
	for {
		ok, err := prompter.ConfirmYN(fmt.Sprintf("Confirm gallery folder is at %s?", folder))
		if err != nil {
			return "", err
		}
		if ok {
			return folder, nil
		}
		folder, err = prompter.InputPath("Please manually enter path to the gallery folder:", listable)
		if err != nil {
			return "", err
		}
	}
}
