package config

// Config is the root configuration for gso.
type Config struct {
	Organizer OrganizerConfig `toml:"organizer"`
	Logging   *LogConfig      `toml:"logging"`
}

// OrganizerConfig controls the split pipeline.
type OrganizerConfig struct {
	// Gallery folder to organize. Empty means auto-discover the camera
	// folder and fall back to an interactive prompt.
	Source string `toml:"source"`

	// Root folder receiving the dated subfolders. Empty means organize
	// in place, creating subfolders inside the source folder.
	Destination string `toml:"destination"`

	// Maximum cumulative size of one subfolder in binary gigabytes.
	MaxFolderSizeGB float64 `toml:"max_folder_size_gb"`

	// Transfer mode: "move" or "copy".
	Mode string `toml:"mode"`

	// Hash-verify written files after copying.
	Verify bool `toml:"verify"`

	// Transfer throughput cap in bytes per second, 0 = unlimited.
	ThrottleBps int64 `toml:"throttle_bps"`

	// Keep going after a per-file transfer failure.
	ContinueOnError bool `toml:"continue_on_error"`

	// Remember the newest processed modification time and skip older
	// files on the next run.
	Checkpoint bool `toml:"checkpoint"`

	// Skip interactive confirmation prompts.
	AssumeYes bool `toml:"assume_yes"`
}

const bytesPerGB = 1024 * 1024 * 1024

// CapacityBytes converts the configured subfolder limit to bytes.
func (o *OrganizerConfig) CapacityBytes() int64 {
	return int64(o.MaxFolderSizeGB * bytesPerGB)
}

func defaults() *Config {
	return &Config{
		Organizer: OrganizerConfig{
			MaxFolderSizeGB: 15,
			Mode:            "move",
		},
		Logging: DefaultLogConfig(),
	}
}
