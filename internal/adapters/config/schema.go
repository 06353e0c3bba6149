package config

// Knobfile represents the structure of the knob.yaml or knob.toml configuration file.
type Knobfile struct {
	Version    string    `yaml:"version" toml:"version"`
	Cache      string    `yaml:"cache" toml:"cache"`
	WorkingDir string    `yaml:"workingDir" toml:"workingDir"`
	Report     ReportDTO `yaml:"report" toml:"report"`
	Configure  *StepDTO  `yaml:"configure" toml:"configure"`
	Generate   *StepDTO  `yaml:"generate" toml:"generate"`
}

// StepDTO represents a workflow step definition in the configuration.
type StepDTO struct {
	Cmd         []string          `yaml:"cmd" toml:"cmd"`
	Environment map[string]string `yaml:"environment" toml:"environment"`
	WorkingDir  string            `yaml:"workingDir" toml:"workingDir"`
}

// ReportDTO configures where run reports are written.
type ReportDTO struct {
	Dir string `yaml:"dir" toml:"dir"`
}
