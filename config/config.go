// Package config manages oqa configuration via Viper.
//
// Sources, lowest to highest precedence: built-in defaults, the user config
// (~/.oqa/config.toml), a project oqa.toml found by walking up from the
// working directory, and OQA_* environment variables.
package config

// Config is the root oqa configuration
type Config struct {
	Dataset  DatasetConfig  `mapstructure:"dataset" toml:"dataset"`
	Oracle   OracleConfig   `mapstructure:"oracle" toml:"oracle"`
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Output   OutputConfig   `mapstructure:"output" toml:"output"`
}

// DatasetConfig points at the attribute table to load
type DatasetConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// OracleConfig parameterizes curve computation
type OracleConfig struct {
	MaxSteps   int `mapstructure:"max_steps" toml:"max_steps"`     // questions simulated per target (default: 10)
	NumTargets int `mapstructure:"num_targets" toml:"num_targets"` // first-N sorted ids averaged by `oqa curve` (default: 30)
}

// DatabaseConfig configures the SQLite run store
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// OutputConfig configures curve export
type OutputConfig struct {
	Label   string `mapstructure:"label" toml:"label"`       // model label written to summaries (default: "Oracle")
	CSVPath string `mapstructure:"csv_path" toml:"csv_path"` // default CSV destination, "" = stdout
}
