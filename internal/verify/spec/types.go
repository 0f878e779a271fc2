package spec

// RunSpec describes one verification run.
type RunSpec struct {
	Name           string          `yaml:"name"`
	Variants       []VariantSource `yaml:"variants"`
	Scenarios      ScenariosConfig `yaml:"scenarios"`
	Runs           RunsConfig      `yaml:"runs"`
	Output         OutputConfig    `yaml:"output"`
	Schema         string          `yaml:"schema"`
	// RequiredTables nil means the default table set; empty disables the schema check.
	RequiredTables []string        `yaml:"required_tables"`
}

// VariantSource holds either inline SQL or a file path, resolved relative to the spec file.
type VariantSource struct {
	Label string `yaml:"label"`
	Query string `yaml:"query,omitempty"`
	File  string `yaml:"file,omitempty"`
}

type ScenariosConfig struct {
	SampleLimit    int    `yaml:"sample_limit"`
	DiscoveryLimit int    `yaml:"discovery_limit"`
	GovernmentID   *int64 `yaml:"government_id,omitempty"`
}

type RunsConfig struct {
	Warmup         int `yaml:"warmup"`
	Iterations     int `yaml:"iterations"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}
