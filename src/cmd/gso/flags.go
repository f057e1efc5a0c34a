package main

import (
	"flag"
	"fmt"
	"os"

	"gso/src/internal/config"
)

// FlagConfig carries CLI overrides applied on top of the file/env
// configuration.
type FlagConfig struct {
	ConfigFile  string
	ShowVersion bool
	Quiet       bool

	Source          string
	Destination     string
	Mode            string
	MaxSizeGB       float64
	Verify          bool
	ThrottleBps     int64
	ContinueOnError bool
	Checkpoint      bool
	AssumeYes       bool

	LogOutput string
	LogLevel  string
	LogFile   string
	LogDir    string
}

// Command-line flags
var (
	// General flags
	configFile  = flag.String("config", "", "Config file path")
	showVersion = flag.Bool("version", false, "Show version information")
	quiet       = flag.Bool("quiet", false, "Suppress console output")

	// Organizer flags
	srcFolder   = flag.String("source", "", "Gallery folder to organize (default: auto-discover)")
	destFolder  = flag.String("dest", "", "Destination root for subfolders (default: same as source)")
	mode        = flag.String("mode", "", "Transfer mode: move, copy (overrides config)")
	maxSizeGB   = flag.Float64("max-size-gb", 0, "Maximum subfolder size in GB (overrides config)")
	verify      = flag.Bool("verify", false, "Hash-verify files after copying")
	throttleBps = flag.Int64("throttle-bps", 0, "Transfer throughput cap in bytes/second")
	keepGoing   = flag.Bool("continue-on-error", false, "Keep transferring after a per-file failure")
	resume      = flag.Bool("resume", false, "Skip files already organized by a previous run")
	assumeYes   = flag.Bool("yes", false, "Skip interactive confirmation prompts")

	// Logging flags
	logOutput = flag.String("log-output", "", "Log output: file, stdout, stderr, both, none (overrides config)")
	logLevel  = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	logFile   = flag.String("log-file", "", "Log file path (when using file output)")
	logDir    = flag.String("log-dir", "", "Log directory (when using file output)")
)

func init() {
	flag.Usage = customUsage
}

func customUsage() {
	fmt.Fprintf(os.Stderr, "gso - Gallery Size Organizer\n\n")
	fmt.Fprintf(os.Stderr, "Splits a gallery folder into subfolders of bounded size so each one\n")
	fmt.Fprintf(os.Stderr, "fits a separate storage quota.\n\n")
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")

	fmt.Fprintf(os.Stderr, "\nGeneral:\n")
	fmt.Fprintf(os.Stderr, "  -config string\n\tConfig file path\n")
	fmt.Fprintf(os.Stderr, "  -version\n\tShow version information\n")
	fmt.Fprintf(os.Stderr, "  -quiet\n\tSuppress console output\n")

	fmt.Fprintf(os.Stderr, "\nOrganizer:\n")
	fmt.Fprintf(os.Stderr, "  -source string\n\tGallery folder to organize (default: auto-discover)\n")
	fmt.Fprintf(os.Stderr, "  -dest string\n\tDestination root for subfolders (default: same as source)\n")
	fmt.Fprintf(os.Stderr, "  -mode string\n\tTransfer mode: move, copy (overrides config)\n")
	fmt.Fprintf(os.Stderr, "  -max-size-gb float\n\tMaximum subfolder size in GB (overrides config)\n")
	fmt.Fprintf(os.Stderr, "  -verify\n\tHash-verify files after copying\n")
	fmt.Fprintf(os.Stderr, "  -throttle-bps int\n\tTransfer throughput cap in bytes/second\n")
	fmt.Fprintf(os.Stderr, "  -continue-on-error\n\tKeep transferring after a per-file failure\n")
	fmt.Fprintf(os.Stderr, "  -resume\n\tSkip files already organized by a previous run\n")
	fmt.Fprintf(os.Stderr, "  -yes\n\tSkip interactive confirmation prompts\n")

	fmt.Fprintf(os.Stderr, "\nLogging:\n")
	fmt.Fprintf(os.Stderr, "  -log-output string\n\tLog output: file, stdout, stderr, both, none (overrides config)\n")
	fmt.Fprintf(os.Stderr, "  -log-level string\n\tLog level: debug, info, warn, error (overrides config)\n")
	fmt.Fprintf(os.Stderr, "  -log-file string\n\tLog file path (when using file output)\n")
	fmt.Fprintf(os.Stderr, "  -log-dir string\n\tLog directory (when using file output)\n")

	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  # Organize the auto-discovered camera folder in place\n")
	fmt.Fprintf(os.Stderr, "  %s\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "  # Copy into 10GB subfolders under a backup root, verifying each file\n")
	fmt.Fprintf(os.Stderr, "  %s --source ~/DCIM --dest /mnt/backup --mode copy --max-size-gb 10 --verify\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "  # Unattended incremental run\n")
	fmt.Fprintf(os.Stderr, "  %s --yes --resume --log-output file --log-dir /var/log/gso\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "Environment Variables:\n")
	fmt.Fprintf(os.Stderr, "  GSO_CONFIG_FILE   Config file path\n")
	fmt.Fprintf(os.Stderr, "  GSO_CONFIG_DIR    Config directory\n")
	fmt.Fprintf(os.Stderr, "  GSO_ORGANIZER_*   Override any [organizer] config key\n")
}

// ParseFlags parses the command line and validates enum-valued flags early.
func ParseFlags() (*FlagConfig, error) {
	flag.Parse()

	if *mode != "" && *mode != "move" && *mode != "copy" {
		return nil, fmt.Errorf("invalid mode: %s (valid: move, copy)", *mode)
	}

	if *logOutput != "" {
		validOutputs := map[string]bool{
			"file": true, "stdout": true, "stderr": true,
			"both": true, "none": true,
		}
		if !validOutputs[*logOutput] {
			return nil, fmt.Errorf("invalid log-output: %s (valid: file, stdout, stderr, both, none)", *logOutput)
		}
	}

	return &FlagConfig{
		ConfigFile:      *configFile,
		ShowVersion:     *showVersion,
		Quiet:           *quiet,
		Source:          *srcFolder,
		Destination:     *destFolder,
		Mode:            *mode,
		MaxSizeGB:       *maxSizeGB,
		Verify:          *verify,
		ThrottleBps:     *throttleBps,
		ContinueOnError: *keepGoing,
		Checkpoint:      *resume,
		AssumeYes:       *assumeYes,
		LogOutput:       *logOutput,
		LogLevel:        *logLevel,
		LogFile:         *logFile,
		LogDir:          *logDir,
	}, nil
}

// applyFlagOverrides lays explicit CLI values over the loaded config.
func applyFlagOverrides(cfg *config.Config, f *FlagConfig) {
	if f.Source != "" {
		cfg.Organizer.Source = f.Source
	}
	if f.Destination != "" {
		cfg.Organizer.Destination = f.Destination
	}
	if f.Mode != "" {
		cfg.Organizer.Mode = f.Mode
	}
	if f.MaxSizeGB > 0 {
		cfg.Organizer.MaxFolderSizeGB = f.MaxSizeGB
	}
	if f.Verify {
		cfg.Organizer.Verify = true
	}
	if f.ThrottleBps > 0 {
		cfg.Organizer.ThrottleBps = f.ThrottleBps
	}
	if f.ContinueOnError {
		cfg.Organizer.ContinueOnError = true
	}
	if f.Checkpoint {
		cfg.Organizer.Checkpoint = true
	}
	if f.AssumeYes {
		cfg.Organizer.AssumeYes = true
	}

	if cfg.Logging == nil {
		cfg.Logging = config.DefaultLogConfig()
	}
	if f.LogOutput != "" {
		cfg.Logging.Output = f.LogOutput
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.LogDir != "" && cfg.Logging.File != nil {
		cfg.Logging.File.Directory = f.LogDir
	}
	if f.LogFile != "" && cfg.Logging.File != nil {
		cfg.Logging.File.Name = f.LogFile
	}
}
