// Package config provides YAML-based configuration loading for the engine,
// the terminal preview, storage and the SSH server, plus the scene files
// that script animations.
package config

// Config is the application configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Preview PreviewConfig `yaml:"preview"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// EngineConfig controls the timing engine.
type EngineConfig struct {
	// StrictTiming makes timing setters fail on invalid values instead of
	// ignoring them.
	StrictTiming bool `yaml:"strict_timing"`
}

// PreviewConfig controls the terminal preview.
type PreviewConfig struct {
	FPS      int  `yaml:"fps"`
	BarWidth int  `yaml:"bar_width"` // 0 = fit the terminal
	ShowHelp bool `yaml:"show_help"`
	Loop     bool `yaml:"loop"` // restart the scene when it ends
}

// StorageConfig controls run history persistence.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
	Record bool   `yaml:"record"`
}

// ServerConfig controls the SSH server.
type ServerConfig struct {
	Address            string `yaml:"address"`
	HostKeyPath        string `yaml:"host_key_path"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
	Scene              string `yaml:"scene"` // scene shown to every session
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			StrictTiming: false,
		},
		Preview: PreviewConfig{
			FPS:      60,
			BarWidth: 0,
			ShowHelp: true,
			Loop:     false,
		},
		Storage: StorageConfig{
			DBPath: "~/.motion/motion.db",
			Record: true,
		},
		Server: ServerConfig{
			Address:            ":23235",
			IdleTimeoutMinutes: 30,
			Scene:              "showcase",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// normalize fills zero values the YAML left out.
func (c *Config) normalize() {
	def := Default()
	if c.Preview.FPS <= 0 {
		c.Preview.FPS = def.Preview.FPS
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = def.Storage.DBPath
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.IdleTimeoutMinutes <= 0 {
		c.Server.IdleTimeoutMinutes = def.Server.IdleTimeoutMinutes
	}
	if c.Server.Scene == "" {
		c.Server.Scene = def.Server.Scene
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
