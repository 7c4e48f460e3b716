package config

const (
	defaultStateDir     = "~/.local/share/video-enhancer/state"
	defaultLogDir       = "~/.local/share/video-enhancer/logs"
	defaultCRF          = 17
	defaultPreset       = "slow"
	defaultThreads      = 0
	defaultAudioBitrate = "192k"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Encoding: Encoding{
			CRF:          defaultCRF,
			Preset:       defaultPreset,
			Threads:      defaultThreads,
			AudioBitrate: defaultAudioBitrate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
