package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/query-verify/internal/apperr"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/scenario"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/variant"
	"gopkg.in/yaml.v3"
)

const DefaultSchema = "public"

// DefaultRequiredTables are the relations read by the engagement queries.
var DefaultRequiredTables = []string{
	"project",
	"organization",
	"vendor",
	"user",
	"proposal",
	"project_vendor_user_subscriptions",
	"project_user_downloads",
}

type LoadedSpec struct {
	Spec *RunSpec
	Dir  string
}

func LoadFromFile(path string) (*LoadedSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &LoadedSpec{Spec: s, Dir: filepath.Dir(path)}, nil
}

func Parse(data []byte) (*RunSpec, error) {
	var s RunSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func validate(s *RunSpec) error {
	if len(s.Variants) != 2 {
		return apperr.NewValidation(fmt.Sprintf("spec must name exactly 2 variants, got %d", len(s.Variants)))
	}
	seen := make(map[string]bool, 2)
	for i, v := range s.Variants {
		if v.Label == "" {
			return apperr.NewValidation(fmt.Sprintf("variant at index %d has no label", i))
		}
		if seen[v.Label] {
			return apperr.NewValidation(fmt.Sprintf("duplicate variant label %q", v.Label))
		}
		seen[v.Label] = true
		if (v.Query == "") == (v.File == "") {
			return apperr.NewValidation(fmt.Sprintf("variant %q needs exactly one of query or file", v.Label))
		}
	}

	if s.Scenarios.SampleLimit == 0 {
		s.Scenarios.SampleLimit = scenario.DefaultSampleLimit
	}
	if s.Scenarios.SampleLimit < 0 || s.Scenarios.SampleLimit > scenario.MaxSampleLimit {
		return apperr.NewValidation(fmt.Sprintf("sample_limit must be between 1 and %d", scenario.MaxSampleLimit))
	}
	if s.Scenarios.DiscoveryLimit <= 0 {
		s.Scenarios.DiscoveryLimit = scenario.DefaultDiscoveryLimit
	}
	if s.Runs.Iterations <= 0 {
		s.Runs.Iterations = 1
	}
	if s.Runs.Warmup < 0 {
		return apperr.NewValidation("warmup must not be negative")
	}
	if s.Runs.TimeoutSeconds < 0 {
		return apperr.NewValidation("timeout_seconds must not be negative")
	}
	if s.Output.Dir == "" {
		s.Output.Dir = "."
	}
	if s.Schema == "" {
		s.Schema = DefaultSchema
	}
	// omitted keeps the defaults; an explicit empty list disables the schema check
	if s.RequiredTables == nil {
		s.RequiredTables = DefaultRequiredTables
	}
	return nil
}

// ResolveVariants builds the baseline and candidate variants, reading files relative to the spec directory.
func (ls *LoadedSpec) ResolveVariants() (variant.Variant, variant.Variant, error) {
	if len(ls.Spec.Variants) != 2 {
		return variant.Variant{}, variant.Variant{}, apperr.NewValidation("spec must name exactly 2 variants")
	}
	resolved := make([]variant.Variant, 0, 2)
	for _, src := range ls.Spec.Variants {
		v, err := src.resolve(ls.Dir)
		if err != nil {
			return variant.Variant{}, variant.Variant{}, err
		}
		resolved = append(resolved, v)
	}
	return resolved[0], resolved[1], nil
}

func (vs VariantSource) resolve(dir string) (variant.Variant, error) {
	if vs.Query != "" {
		return variant.New(vs.Label, vs.Query)
	}
	path := vs.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return variant.FromFile(vs.Label, path)
}
