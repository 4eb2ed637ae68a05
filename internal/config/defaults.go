package config

const (
	defaultWorkspaceDir  = "~/.local/share/trackmux/work"
	defaultLogDir        = "~/.local/share/trackmux/logs"
	defaultJournalPath   = "~/.local/share/trackmux/journal.db"
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultOpusencBinary = "opusenc"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultMinFreeGiB    = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
			JournalPath:  defaultJournalPath,
		},
		Binaries: Binaries{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			Opusenc: defaultOpusencBinary,
		},
		Audio: Audio{
			SingleTrack: true,
			MinFreeGiB:  defaultMinFreeGiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
