package config

// Config holds folio configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server ServerCfg `mapstructure:"server" yaml:"server"`
	Store  StoreCfg  `mapstructure:"store" yaml:"store"`
	Import ImportCfg `mapstructure:"import" yaml:"import"`
	Fetch  FetchCfg  `mapstructure:"fetch" yaml:"fetch"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"` // Bind address
	Port string `mapstructure:"port" yaml:"port"` // Listen port
}

// StoreCfg configures manifest persistence.
type StoreCfg struct {
	// Path is the SQLite database path. Empty means {home}/data/folio.db.
	Path string `mapstructure:"path" yaml:"path"`
}

// ImportCfg configures the import pipeline boundary.
type ImportCfg struct {
	// MaxBytes caps the accepted manifest size in bytes.
	MaxBytes int64 `mapstructure:"max_bytes" yaml:"max_bytes"`
	// Validate runs advisory JSON Schema validation after repair.
	Validate bool `mapstructure:"validate" yaml:"validate"`
}

// FetchCfg configures manifest retrieval over HTTP.
type FetchCfg struct {
	TimeoutSeconds int  `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // Per-attempt timeout
	Attempts       uint `mapstructure:"attempts" yaml:"attempts"`               // Retry budget
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Store: StoreCfg{},
		Import: ImportCfg{
			MaxBytes: 16 << 20,
			Validate: true,
		},
		Fetch: FetchCfg{
			TimeoutSeconds: 30,
			Attempts:       3,
		},
	}
}
